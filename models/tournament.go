package models

import "time"

// TournamentStatus mirrors the tournament_status ENUM in the database.
type TournamentStatus string

const (
	TournamentUpcoming   TournamentStatus = "upcoming"
	TournamentInProgress TournamentStatus = "in_progress"
	TournamentCompleted  TournamentStatus = "completed"
)

// SportType mirrors the sport_type ENUM.
type SportType string

const (
	SportCricket   SportType = "cricket"
	SportFootball  SportType = "football"
	SportBadminton SportType = "badminton"
	SportTennis    SportType = "tennis"
)

// Individual reports whether matches of this sport are played between linked
// players rather than teams. Winner player ids only propagate through the
// bracket for individual sports.
func (s SportType) Individual() bool {
	return s == SportBadminton || s == SportTennis
}

type Tournament struct {
	ID          int              `json:"id"`
	ClubID      int              `json:"club_id"`
	Name        string           `json:"name"`
	SportType   SportType        `json:"sport_type"`
	BracketSize int              `json:"bracket_size"`
	Status      TournamentStatus `json:"status"`
	CreatedBy   int              `json:"created_by"`
	CreatedAt   time.Time        `json:"created_at"`
	ArchiveKey  *string          `json:"-"`

	// Loaded on demand, ordered by round then creation order.
	Matches []Match `json:"matches,omitempty"`
}

// Rounds returns the number of bracket rounds (log2 of bracket size).
func (t *Tournament) Rounds() int {
	n := 0
	for size := t.BracketSize; size > 1; size /= 2 {
		n++
	}
	return n
}
