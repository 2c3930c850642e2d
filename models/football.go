package models

import (
	"time"

	"github.com/google/uuid"
)

// FootballStatus mirrors the football_status ENUM and drives the period
// state machine.
type FootballStatus string

const (
	FootballNotStarted      FootballStatus = "not_started"
	FootballFirstHalf       FootballStatus = "first_half"
	FootballHalfTime        FootballStatus = "half_time"
	FootballSecondHalf      FootballStatus = "second_half"
	FootballFullTime        FootballStatus = "full_time"
	FootballExtraTimeFirst  FootballStatus = "extra_time_first"
	FootballExtraTimeSecond FootballStatus = "extra_time_second"
	FootballPenalties       FootballStatus = "penalties"
	FootballCompleted       FootballStatus = "completed"
)

// ActivePeriod reports whether events may be recorded in this status.
func (s FootballStatus) ActivePeriod() bool {
	switch s {
	case FootballFirstHalf, FootballSecondHalf, FootballExtraTimeFirst, FootballExtraTimeSecond, FootballPenalties:
		return true
	}
	return false
}

// Team identifies a side of a football match.
type Team string

const (
	TeamA Team = "A"
	TeamB Team = "B"
)

// Opposite returns the other side.
func (t Team) Opposite() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

type FootballEventType string

const (
	EventGoal          FootballEventType = "goal"
	EventOwnGoal       FootballEventType = "own_goal"
	EventYellowCard    FootballEventType = "yellow_card"
	EventRedCard       FootballEventType = "red_card"
	EventSubstitution  FootballEventType = "substitution"
	EventFoul          FootballEventType = "foul"
	EventPenaltyScored FootballEventType = "penalty_scored"
	EventPenaltyMissed FootballEventType = "penalty_missed"
	EventPenaltyKick   FootballEventType = "penalty_kick"
	EventCorner        FootballEventType = "corner"
	EventOffside       FootballEventType = "offside"
	EventKickOff       FootballEventType = "kick_off"
	EventHalfTime      FootballEventType = "half_time"
	EventFullTime      FootballEventType = "full_time"
)

// PeriodMarker reports whether the event records a period transition rather
// than a piece of play. Period markers cannot be undone directly.
func (t FootballEventType) PeriodMarker() bool {
	return t == EventKickOff || t == EventHalfTime || t == EventFullTime
}

type FootballMatch struct {
	ID              int            `json:"id"`
	MatchID         int            `json:"match_id"`
	Status          FootballStatus `json:"status"`
	HalfDuration    int            `json:"half_duration"`
	ExtraTime       bool           `json:"extra_time"`
	PenaltyShootout bool           `json:"penalty_shootout"`
	HalfTimeScoreA  int            `json:"half_time_score_a"`
	HalfTimeScoreB  int            `json:"half_time_score_b"`
	FullTimeScoreA  int            `json:"full_time_score_a"`
	FullTimeScoreB  int            `json:"full_time_score_b"`
	ExtraTimeScoreA int            `json:"extra_time_score_a"`
	ExtraTimeScoreB int            `json:"extra_time_score_b"`
	PenaltyScoreA   int            `json:"penalty_score_a"`
	PenaltyScoreB   int            `json:"penalty_score_b"`
	PeriodStartedAt *time.Time     `json:"period_started_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

type FootballPlayerEntry struct {
	ID              int    `json:"id"`
	FootballID      int    `json:"football_id"`
	PlayerName      string `json:"player_name"`
	PlayerID        *int   `json:"player_id,omitempty"`
	Team            Team   `json:"team"`
	IsStarting      bool   `json:"is_starting"`
	InLineup        bool   `json:"in_lineup"`
	MinuteSubbedIn  *int   `json:"minute_subbed_in,omitempty"`
	MinuteSubbedOut *int   `json:"minute_subbed_out,omitempty"`
	Goals           int    `json:"goals"`
	Assists         int    `json:"assists"`
	YellowCards     int    `json:"yellow_cards"`
	RedCards        int    `json:"red_cards"`
	ShotsOnTarget   int    `json:"shots_on_target"`
	Fouls           int    `json:"fouls"`
	MinutesPlayed   int    `json:"minutes_played"`
	Corners         int    `json:"corners"`
	Offsides        int    `json:"offsides"`
}

// FootballEvent is one row of the append-only per-match log. Period records
// the match status at the moment the event was applied, so re-folding the
// log attributes every score to the right period no matter how many
// transitions happened since. CausedBy links a synthesized event (the
// automatic red card after a second yellow) to the event that triggered it,
// so the pair can be undone as a unit.
type FootballEvent struct {
	ID               uuid.UUID         `json:"id"`
	FootballID       int               `json:"football_id"`
	EventType        FootballEventType `json:"event_type"`
	Period           FootballStatus    `json:"period"`
	Minute           int               `json:"minute"`
	AddedTime        int               `json:"added_time"`
	PlayerName       *string           `json:"player_name,omitempty"`
	AssistPlayerName *string           `json:"assist_player_name,omitempty"`
	Team             *Team             `json:"team,omitempty"`
	Description      *string           `json:"description,omitempty"`
	CausedBy         *uuid.UUID        `json:"caused_by,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}
