package models

import (
	"time"

	"github.com/google/uuid"
)

// ExtraType classifies a delivery that is not an ordinary legal ball.
type ExtraType string

const (
	ExtraWide   ExtraType = "wide"
	ExtraNoBall ExtraType = "no_ball"
	ExtraBye    ExtraType = "bye"
	ExtraLegBye ExtraType = "leg_bye"
)

// Legal reports whether a delivery with this extra type counts toward the
// six-ball over. Wides and no-balls must be re-bowled.
func (e ExtraType) Legal() bool {
	return e != ExtraWide && e != ExtraNoBall
}

// DismissalType classifies how a batsman got out.
type DismissalType string

const (
	DismissalBowled    DismissalType = "bowled"
	DismissalCaught    DismissalType = "caught"
	DismissalLBW       DismissalType = "lbw"
	DismissalRunOut    DismissalType = "run_out"
	DismissalStumped   DismissalType = "stumped"
	DismissalHitWicket DismissalType = "hit_wicket"
	DismissalRetired   DismissalType = "retired"
)

// CreditsBowler reports whether the dismissal counts toward the bowler's
// wicket tally.
func (d DismissalType) CreditsBowler() bool {
	switch d {
	case DismissalBowled, DismissalCaught, DismissalLBW, DismissalHitWicket, DismissalStumped:
		return true
	}
	return false
}

type CricketInnings struct {
	ID              int       `json:"id"`
	MatchID         int       `json:"match_id"`
	InningsNumber   int       `json:"innings_number"`
	BattingTeamName string    `json:"batting_team_name"`
	BowlingTeamName string    `json:"bowling_team_name"`
	TotalRuns       int       `json:"total_runs"`
	TotalWickets    int       `json:"total_wickets"`
	TotalOvers      Overs     `json:"total_overs"`
	Extras          int       `json:"extras"`
	IsComplete      bool      `json:"is_complete"`
	CreatedAt       time.Time `json:"created_at"`
}

type BattingEntry struct {
	ID            int            `json:"id"`
	InningsID     int            `json:"innings_id"`
	PlayerName    string         `json:"player_name"`
	PlayerID      *int           `json:"player_id,omitempty"`
	BattingOrder  int            `json:"batting_order"`
	InLineup      bool           `json:"in_lineup"`
	Runs          int            `json:"runs"`
	BallsFaced    int            `json:"balls_faced"`
	Fours         int            `json:"fours"`
	Sixes         int            `json:"sixes"`
	StrikeRate    float64        `json:"strike_rate"`
	IsOut         bool           `json:"is_out"`
	DismissalType *DismissalType `json:"dismissal_type,omitempty"`
	BowlerName    *string        `json:"bowler_name,omitempty"`
	FielderName   *string        `json:"fielder_name,omitempty"`
}

type BowlingEntry struct {
	ID           int     `json:"id"`
	InningsID    int     `json:"innings_id"`
	PlayerName   string  `json:"player_name"`
	PlayerID     *int    `json:"player_id,omitempty"`
	BowlingOrder int     `json:"bowling_order"`
	InLineup     bool    `json:"in_lineup"`
	OversBowled  Overs   `json:"overs_bowled"`
	Maidens      int     `json:"maidens"`
	RunsConceded int     `json:"runs_conceded"`
	Wickets      int     `json:"wickets"`
	Economy      float64 `json:"economy"`
	Extras       int     `json:"extras"`
	NoBalls      int     `json:"no_balls"`
	Wides        int     `json:"wides"`
}

// BallEvent is one delivery attempt in the append-only per-innings log.
// Aggregates are always derived from this log; undo drops the newest row
// and re-folds.
type BallEvent struct {
	ID            uuid.UUID      `json:"id"`
	InningsID     int            `json:"innings_id"`
	OverNumber    int            `json:"over_number"`
	BallNumber    int            `json:"ball_number"`
	BatsmanName   string         `json:"batsman_name"`
	BowlerName    string         `json:"bowler_name"`
	RunsScored    int            `json:"runs_scored"`
	ExtraType     *ExtraType     `json:"extra_type,omitempty"`
	ExtraRuns     int            `json:"extra_runs"`
	IsWicket      bool           `json:"is_wicket"`
	DismissalType *DismissalType `json:"dismissal_type,omitempty"`
	FielderName   *string        `json:"fielder_name,omitempty"`
	Commentary    *string        `json:"commentary,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Legal reports whether the delivery counts toward the over.
func (b *BallEvent) Legal() bool {
	return b.ExtraType == nil || b.ExtraType.Legal()
}
