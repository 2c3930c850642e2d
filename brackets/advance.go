package brackets

import (
	"errors"
	"fmt"

	"github.com/Gintoki006/Sportify-sub001/models"
)

var (
	ErrMatchNotCompleted = errors.New("match is not completed")
	ErrNoWinner          = errors.New("completed match has no winner to propagate")
)

// AdvanceResult lists everything Advance changed in memory so the caller can
// persist it inside its transaction.
type AdvanceResult struct {
	// UpdatedMatch is the downstream match whose slot was filled, nil when
	// the completed match was the final.
	UpdatedMatch *models.Match
	// NewStatus is set when the tournament status changed.
	NewStatus *models.TournamentStatus
}

// Advance propagates a completed match's winner into the downstream slot.
// Winner player ids travel only for individually-scored sports; team sports
// propagate the name alone.
func (tr *Tree) Advance(matchID int) (*AdvanceResult, error) {
	node, err := tr.NodeFor(matchID)
	if err != nil {
		return nil, err
	}
	m := node.Match
	if !m.Completed {
		return nil, fmt.Errorf("%w: match %d", ErrMatchNotCompleted, matchID)
	}
	winner := m.Winner()
	if winner == nil {
		return nil, fmt.Errorf("%w: match %d", ErrNoWinner, matchID)
	}

	res := &AdvanceResult{}

	if tr.FinalRound(node) {
		if tr.Tournament.Status != models.TournamentCompleted {
			tr.Tournament.Status = models.TournamentCompleted
			s := models.TournamentCompleted
			res.NewStatus = &s
		}
		return res, nil
	}

	var winnerPlayerID *int
	if tr.Tournament.SportType.Individual() {
		winnerPlayerID = m.WinnerPlayerID()
	}

	down := node.Downstream.Match
	if node.Slot == 0 {
		down.TeamA = *winner
		down.PlayerAID = winnerPlayerID
	} else {
		down.TeamB = *winner
		down.PlayerBID = winnerPlayerID
	}
	res.UpdatedMatch = down

	if tr.Tournament.Status == models.TournamentUpcoming {
		tr.Tournament.Status = models.TournamentInProgress
		s := models.TournamentInProgress
		res.NewStatus = &s
	}
	return res, nil
}
