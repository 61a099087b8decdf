package game

// Shard partitions an oracle response among n participants.
//
// Without censoring the words are split into n contiguous groups whose sizes
// differ by at most one, earlier groups taking the remainder. With censoring and
// at least n words, each participant gets exactly one of the first n words and
// the rest are dropped; censored reports whether that override was applied.
// Fewer than n words fall back to the plain split.
func Shard(words []string, n int, censor bool) (groups [][]string, censored bool) {
	if n < 1 {
		return nil, false
	}

	groups = make([][]string, n)
	if censor && len(words) >= n {
		for i := range n {
			groups[i] = []string{words[i]}
		}
		return groups, true
	}

	base, extra := len(words)/n, len(words)%n
	start := 0
	for i := range n {
		size := base
		if i < extra {
			size++
		}
		groups[i] = words[start : start+size : start+size]
		start += size
	}
	return groups, false
}
