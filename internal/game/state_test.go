package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountVotes(t *testing.T) {
	roster := []string{"A", "B", "C", "X", "Y"}

	tests := []struct {
		name         string
		votes        map[string]string
		villains     map[string]bool
		convicted    []string
		maxVotes     int
		civiliansWon bool
	}{
		{
			name:         "unique conviction of a villain",
			votes:        map[string]string{"A": "X", "B": "X", "C": "Y"},
			villains:     map[string]bool{"X": true},
			convicted:    []string{"X"},
			maxVotes:     2,
			civiliansWon: true,
		},
		{
			name:         "tie convicts everyone tied",
			votes:        map[string]string{"A": "X", "B": "Y"},
			villains:     map[string]bool{"Y": true},
			convicted:    []string{"X", "Y"},
			maxVotes:     1,
			civiliansWon: true,
		},
		{
			name:      "civilian convicted",
			votes:     map[string]string{"A": "C", "B": "C", "X": "A"},
			villains:  map[string]bool{"X": true},
			convicted: []string{"C"},
			maxVotes:  2,
		},
		{
			name:     "no votes",
			votes:    map[string]string{},
			villains: map[string]bool{"X": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CountVotes(tt.votes, roster, tt.villains)
			assert.Equal(t, tt.convicted, result.Convicted)
			assert.Equal(t, tt.maxVotes, result.MaxVotes)
			assert.Equal(t, tt.civiliansWon, result.CiviliansWon)
		})
	}
}

func TestCountVotesAccusers(t *testing.T) {
	result := CountVotes(map[string]string{"C": "X", "A": "X", "B": "Y"}, []string{"A", "B", "C", "X", "Y"}, nil)

	assert.Equal(t, []string{"X", "Y"}, result.Suspects)
	assert.Equal(t, []string{"A", "C"}, result.Accusers["X"])
	assert.Equal(t, []string{"B"}, result.Accusers["Y"])
	assert.Empty(t, result.Guilty)
	assert.False(t, result.CiviliansWon)
}
