package models

import "time"

// SlotTBD is the placeholder name for a bracket slot whose feeder match has
// not produced a winner yet.
const SlotTBD = "TBD"

type Match struct {
	ID           int       `json:"id"`
	TournamentID *int      `json:"tournament_id,omitempty"`
	Round        int       `json:"round"`
	OrderInRound int       `json:"order_in_round"`
	TeamA        string    `json:"team_a"`
	TeamB        string    `json:"team_b"`
	PlayerAID    *int      `json:"player_a_id,omitempty"`
	PlayerBID    *int      `json:"player_b_id,omitempty"`
	ScoreA       *int      `json:"score_a,omitempty"`
	ScoreB       *int      `json:"score_b,omitempty"`
	Completed    bool      `json:"completed"`
	SportType    SportType `json:"sport_type"`
	IsStandalone bool      `json:"is_standalone"`
	CreatedBy    int       `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// Winner returns the winning side's name, or nil for an incomplete match or
// a draw.
func (m *Match) Winner() *string {
	if !m.Completed || m.ScoreA == nil || m.ScoreB == nil {
		return nil
	}
	switch {
	case *m.ScoreA > *m.ScoreB:
		return &m.TeamA
	case *m.ScoreB > *m.ScoreA:
		return &m.TeamB
	default:
		return nil
	}
}

// WinnerPlayerID returns the linked player id of the winning side, if any.
func (m *Match) WinnerPlayerID() *int {
	w := m.Winner()
	if w == nil {
		return nil
	}
	if *w == m.TeamA {
		return m.PlayerAID
	}
	return m.PlayerBID
}
