package game

// VoteResult represents the outcome of a trial
type VoteResult struct {
	Suspects     []string            // suspects with at least one vote, in roster order
	Accusers     map[string][]string // suspect -> accusers, in roster order
	MaxVotes     int
	Convicted    []string // every suspect tied for the most votes
	Guilty       []string // convicted suspects that are villains
	CiviliansWon bool
}

// CountVotes tallies accuser -> suspect votes. roster fixes the output order and
// villains marks the villain-aligned participants. Abstainers are simply absent
// from votes; with no votes at all nobody is convicted and the villains win.
func CountVotes(votes map[string]string, roster []string, villains map[string]bool) *VoteResult {
	result := &VoteResult{Accusers: make(map[string][]string)}

	for _, accuser := range roster {
		suspect, ok := votes[accuser]
		if !ok {
			continue
		}
		result.Accusers[suspect] = append(result.Accusers[suspect], accuser)
	}

	for _, id := range roster {
		n := len(result.Accusers[id])
		if n == 0 {
			continue
		}
		result.Suspects = append(result.Suspects, id)
		if n > result.MaxVotes {
			result.MaxVotes = n
		}
	}

	if result.MaxVotes == 0 {
		return result
	}

	for _, id := range result.Suspects {
		if len(result.Accusers[id]) != result.MaxVotes {
			continue
		}
		result.Convicted = append(result.Convicted, id)
		if villains[id] {
			result.Guilty = append(result.Guilty, id)
		}
	}
	result.CiviliansWon = len(result.Guilty) > 0
	return result
}
