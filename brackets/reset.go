package brackets

import (
	"fmt"

	"github.com/Gintoki006/Sportify-sub001/models"
)

// ResetResult lists every in-memory change a reset cascade made.
type ResetResult struct {
	// ClearedSlots are downstream matches whose propagated slot reverted to
	// TBD (teams may appear once per cleared slot).
	ClearedSlots []*models.Match
	// Uncompleted are matches re-opened by the cascade, the triggering
	// match first.
	Uncompleted []*models.Match
	// StatMatchIDs are the matches whose StatEntries must be deleted and
	// their goal contributions reversed.
	StatMatchIDs []int
	// StatusReverted is set when a completed tournament moved back to
	// in-progress.
	StatusReverted bool
}

// Reset re-opens a completed match and walks forward through the rounds,
// clearing every downstream slot its winner had reached. A downstream match
// that was itself completed off the propagated slot is re-opened too and its
// own winner joins the clearing set, recursively.
func (tr *Tree) Reset(matchID int) (*ResetResult, error) {
	return tr.reset(matchID, func(*models.Match) bool { return true })
}

// ResetUnstarted behaves like Reset but only clears downstream slots for
// which started reports false. A downstream match that already has scoring
// activity is left untouched and the cascade stops there.
func (tr *Tree) ResetUnstarted(matchID int, started func(*models.Match) bool) (*ResetResult, error) {
	return tr.reset(matchID, func(m *models.Match) bool { return !started(m) })
}

func (tr *Tree) reset(matchID int, canClear func(*models.Match) bool) (*ResetResult, error) {
	node, err := tr.NodeFor(matchID)
	if err != nil {
		return nil, err
	}
	m := node.Match
	if !m.Completed {
		return nil, fmt.Errorf("%w: match %d", ErrMatchNotCompleted, matchID)
	}

	res := &ResetResult{}
	winner := m.Winner()

	uncomplete(m)
	res.Uncompleted = append(res.Uncompleted, m)
	res.StatMatchIDs = append(res.StatMatchIDs, m.ID)

	if winner != nil {
		tr.clearDownstream(node, *winner, canClear, res)
	}

	// The tournament leaves COMPLETED only when the final itself was
	// re-opened; a cascade that stops short of a decided final leaves the
	// status alone.
	if tr.Tournament.Status == models.TournamentCompleted {
		for _, u := range res.Uncompleted {
			if u.Round == len(tr.Rounds) {
				tr.Tournament.Status = models.TournamentInProgress
				res.StatusReverted = true
				break
			}
		}
	}
	return res, nil
}

func (tr *Tree) clearDownstream(node *Node, winner string, canClear func(*models.Match) bool, res *ResetResult) {
	downNode := node.Downstream
	if downNode == nil {
		return
	}
	down := downNode.Match

	slotHolds := down.TeamA
	if node.Slot == 1 {
		slotHolds = down.TeamB
	}
	if slotHolds != winner {
		return
	}
	if !canClear(down) {
		return
	}

	// A completed downstream match must be re-opened before its slot is
	// cleared, and its own winner cleared one round further.
	if down.Completed {
		if w := down.Winner(); w != nil {
			tr.clearDownstream(downNode, *w, canClear, res)
		}
		uncomplete(down)
		res.Uncompleted = append(res.Uncompleted, down)
		res.StatMatchIDs = append(res.StatMatchIDs, down.ID)
	}

	if node.Slot == 0 {
		down.TeamA = models.SlotTBD
		down.PlayerAID = nil
	} else {
		down.TeamB = models.SlotTBD
		down.PlayerBID = nil
	}
	res.ClearedSlots = append(res.ClearedSlots, down)
}

func uncomplete(m *models.Match) {
	m.Completed = false
	m.ScoreA = nil
	m.ScoreB = nil
}
