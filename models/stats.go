package models

import "time"

// StatSource records where a StatEntry came from.
type StatSource string

const (
	StatSourceManual     StatSource = "manual"
	StatSourceTournament StatSource = "tournament"
	StatSourceStandalone StatSource = "standalone"
)

// StatEntry is a derived per-player-per-match performance record. At most
// one exists per (match, sport profile); StatSyncService enforces this.
type StatEntry struct {
	ID             int                `json:"id"`
	SportProfileID int                `json:"sport_profile_id"`
	MatchID        int                `json:"match_id"`
	Date           time.Time          `json:"date"`
	Opponent       string             `json:"opponent"`
	Metrics        map[string]float64 `json:"metrics"`
	Source         StatSource         `json:"source"`
}

// Goal is a user-defined target on a cumulative metric, advanced by matching
// metric deltas from new StatEntries and reversed on undo/reset.
type Goal struct {
	ID             int        `json:"id"`
	SportProfileID int        `json:"sport_profile_id"`
	Metric         string     `json:"metric"`
	Target         float64    `json:"target"`
	Current        float64    `json:"current"`
	Completed      bool       `json:"completed"`
	Deadline       *time.Time `json:"deadline,omitempty"`
}
