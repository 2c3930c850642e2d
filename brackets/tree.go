// Package brackets models a single-elimination bracket as an explicit tree
// with feeder/downstream links, built once per command from the tournament's
// flat match list. Winner propagation and reset cascades walk the links
// instead of re-deriving index arithmetic at every step.
package brackets

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Gintoki006/Sportify-sub001/models"
)

var (
	ErrBadBracketSize = errors.New("bracket size must be a power of two, at least 2")
	ErrBracketShape   = errors.New("bracket has the wrong number of matches for a round")
	ErrMatchNotInTree = errors.New("match does not belong to this bracket")
)

// Node is one match in the bracket tree. Slot is the side of the downstream
// match this node's winner fills: 0 for team A (even order), 1 for team B.
type Node struct {
	Match      *models.Match
	Feeders    [2]*Node
	Downstream *Node
	Slot       int
}

// Tree is the full bracket for one tournament.
type Tree struct {
	Tournament *models.Tournament
	Rounds     [][]*Node

	byMatchID map[int]*Node
}

// SizeValid reports whether n is a usable bracket size.
func SizeValid(n int) bool {
	return n >= 2 && n&(n-1) == 0
}

// Build links the tournament's matches into a tree. It enforces the shape
// invariant: round r holds bracketSize/2^r matches.
func Build(t *models.Tournament, matches []*models.Match) (*Tree, error) {
	if !SizeValid(t.BracketSize) {
		return nil, fmt.Errorf("%w: %d", ErrBadBracketSize, t.BracketSize)
	}

	sorted := make([]*models.Match, len(matches))
	copy(sorted, matches)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Round != sorted[j].Round {
			return sorted[i].Round < sorted[j].Round
		}
		return sorted[i].OrderInRound < sorted[j].OrderInRound
	})

	tree := &Tree{
		Tournament: t,
		Rounds:     make([][]*Node, t.Rounds()),
		byMatchID:  make(map[int]*Node, len(sorted)),
	}

	idx := 0
	for r := 1; r <= t.Rounds(); r++ {
		want := t.BracketSize >> uint(r)
		round := make([]*Node, 0, want)
		for idx < len(sorted) && sorted[idx].Round == r {
			node := &Node{Match: sorted[idx]}
			round = append(round, node)
			tree.byMatchID[sorted[idx].ID] = node
			idx++
		}
		if len(round) != want {
			return nil, fmt.Errorf("%w: round %d has %d matches, want %d", ErrBracketShape, r, len(round), want)
		}
		tree.Rounds[r-1] = round
	}
	if idx != len(sorted) {
		return nil, fmt.Errorf("%w: %d matches beyond the final round", ErrBracketShape, len(sorted)-idx)
	}

	for r := 0; r < len(tree.Rounds)-1; r++ {
		for i, node := range tree.Rounds[r] {
			down := tree.Rounds[r+1][i/2]
			node.Downstream = down
			node.Slot = i % 2
			down.Feeders[node.Slot] = node
		}
	}
	return tree, nil
}

// NodeFor returns the tree node for a match id.
func (tr *Tree) NodeFor(matchID int) (*Node, error) {
	node, ok := tr.byMatchID[matchID]
	if !ok {
		return nil, fmt.Errorf("%w: match %d", ErrMatchNotInTree, matchID)
	}
	return node, nil
}

// FinalRound reports whether the node sits in the tournament's last round.
func (tr *Tree) FinalRound(node *Node) bool {
	return node.Match.Round == len(tr.Rounds)
}

// SeedMatches builds the initial match rows for a new tournament: round 1
// paired from the supplied team names in order, every later round holding
// TBD placeholders.
func SeedMatches(t *models.Tournament, teamNames []string) ([]*models.Match, error) {
	if !SizeValid(t.BracketSize) {
		return nil, fmt.Errorf("%w: %d", ErrBadBracketSize, t.BracketSize)
	}
	if len(teamNames) != t.BracketSize {
		return nil, fmt.Errorf("expected %d team names, got %d", t.BracketSize, len(teamNames))
	}

	tid := t.ID
	matches := make([]*models.Match, 0, t.BracketSize-1)
	for i := 0; i < t.BracketSize/2; i++ {
		matches = append(matches, &models.Match{
			TournamentID: &tid,
			Round:        1,
			OrderInRound: i,
			TeamA:        teamNames[2*i],
			TeamB:        teamNames[2*i+1],
			SportType:    t.SportType,
			CreatedBy:    t.CreatedBy,
		})
	}
	for r := 2; r <= t.Rounds(); r++ {
		for i := 0; i < t.BracketSize>>uint(r); i++ {
			matches = append(matches, &models.Match{
				TournamentID: &tid,
				Round:        r,
				OrderInRound: i,
				TeamA:        models.SlotTBD,
				TeamB:        models.SlotTBD,
				SportType:    t.SportType,
				CreatedBy:    t.CreatedBy,
			})
		}
	}
	return matches, nil
}
