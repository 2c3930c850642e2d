// Package cricket derives innings state from the append-only ball event log.
// Aggregates are never mutated in place: every scoring command re-folds the
// log, and undo is "drop the newest event and fold again", which keeps apply
// and undo symmetric by construction.
package cricket

import (
	"errors"
	"fmt"

	"github.com/Gintoki006/Sportify-sub001/models"
)

// LineupSlot is one name in a starting lineup with its optional linked
// player id.
type LineupSlot struct {
	PlayerName string `json:"player_name"`
	PlayerID   *int   `json:"player_id,omitempty"`
}

// Delivery carries the scorer's description of one ball.
type Delivery struct {
	BatsmanName   string                `json:"batsman_name"`
	BowlerName    string                `json:"bowler_name"`
	RunsScored    int                   `json:"runs_scored"`
	ExtraType     *models.ExtraType     `json:"extra_type,omitempty"`
	ExtraRuns     int                   `json:"extra_runs"`
	IsWicket      bool                  `json:"is_wicket"`
	DismissalType *models.DismissalType `json:"dismissal_type,omitempty"`
	FielderName   *string               `json:"fielder_name,omitempty"`
	Commentary    *string               `json:"commentary,omitempty"`
}

// Validate rejects deliveries the fold could not interpret.
func (d Delivery) Validate() error {
	if d.BatsmanName == "" || d.BowlerName == "" {
		return errors.New("batsman and bowler names are required")
	}
	if d.RunsScored < 0 || d.ExtraRuns < 0 {
		return errors.New("runs cannot be negative")
	}
	if d.IsWicket && d.DismissalType == nil {
		return errors.New("wicket delivery requires a dismissal type")
	}
	if d.ExtraType != nil {
		switch *d.ExtraType {
		case models.ExtraWide, models.ExtraNoBall, models.ExtraBye, models.ExtraLegBye:
		default:
			return fmt.Errorf("unknown extra type %q", *d.ExtraType)
		}
	}
	return nil
}

// State is the full derived scorecard of one innings.
type State struct {
	TotalRuns    int
	TotalWickets int
	TotalOvers   models.Overs
	Extras       int

	Batting []models.BattingEntry
	Bowling []models.BowlingEntry
}

// overTracker accumulates maiden detection state for one bowler.
type overTracker struct {
	legalBalls  int
	ballsInOver int
	runsInOver  int
	maidens     int
}

// Fold replays the ball event log over the starting lineups and returns the
// derived scorecard. Events must be in recording order.
func Fold(battingLineup, bowlingLineup []LineupSlot, events []models.BallEvent) State {
	st := State{
		Batting: make([]models.BattingEntry, 0, len(battingLineup)+2),
		Bowling: make([]models.BowlingEntry, 0, len(bowlingLineup)+2),
	}
	for i, slot := range battingLineup {
		st.Batting = append(st.Batting, models.BattingEntry{
			PlayerName:   slot.PlayerName,
			PlayerID:     slot.PlayerID,
			BattingOrder: i + 1,
			InLineup:     true,
		})
	}
	for i, slot := range bowlingLineup {
		st.Bowling = append(st.Bowling, models.BowlingEntry{
			PlayerName:   slot.PlayerName,
			PlayerID:     slot.PlayerID,
			BowlingOrder: i + 1,
			InLineup:     true,
		})
	}

	trackers := make(map[string]*overTracker)
	legalBalls := 0

	for i := range events {
		ev := &events[i]
		applyToBatsman(&st, ev)
		applyToBowler(&st, trackers, ev)

		st.TotalRuns += ev.RunsScored + ev.ExtraRuns
		if ev.IsWicket && ev.DismissalType != nil && *ev.DismissalType != models.DismissalRetired {
			st.TotalWickets++
		}
		if ev.ExtraType != nil {
			st.Extras += ev.ExtraRuns
		}
		if ev.Legal() {
			legalBalls++
		}
	}
	st.TotalOvers = models.OversFromBalls(legalBalls)

	for bi := range st.Bowling {
		if tr, ok := trackers[st.Bowling[bi].PlayerName]; ok {
			st.Bowling[bi].OversBowled = models.OversFromBalls(tr.legalBalls)
			st.Bowling[bi].Maidens = tr.maidens
		}
		st.Bowling[bi].Economy = economy(st.Bowling[bi].RunsConceded, st.Bowling[bi].OversBowled)
	}
	return st
}

func applyToBatsman(st *State, ev *models.BallEvent) {
	bat := findOrAddBatsman(st, ev.BatsmanName)

	wide := ev.ExtraType != nil && *ev.ExtraType == models.ExtraWide
	if !wide {
		bat.Runs += ev.RunsScored
		bat.BallsFaced++
		switch ev.RunsScored {
		case 4:
			bat.Fours++
		case 6:
			bat.Sixes++
		}
	}
	bat.StrikeRate = strikeRate(bat.Runs, bat.BallsFaced)

	if ev.IsWicket && ev.DismissalType != nil && *ev.DismissalType != models.DismissalRetired {
		bat.IsOut = true
		dt := *ev.DismissalType
		bat.DismissalType = &dt
		if dt.CreditsBowler() {
			bowler := ev.BowlerName
			bat.BowlerName = &bowler
		}
		if ev.FielderName != nil {
			f := *ev.FielderName
			bat.FielderName = &f
		}
	}
}

func applyToBowler(st *State, trackers map[string]*overTracker, ev *models.BallEvent) {
	bowl := findOrAddBowler(st, ev.BowlerName)

	bye := ev.ExtraType != nil && (*ev.ExtraType == models.ExtraBye || *ev.ExtraType == models.ExtraLegBye)
	conceded := 0
	if !bye {
		conceded = ev.RunsScored + ev.ExtraRuns
	}
	bowl.RunsConceded += conceded

	if ev.IsWicket && ev.DismissalType != nil && ev.DismissalType.CreditsBowler() {
		bowl.Wickets++
	}
	if ev.ExtraType != nil {
		bowl.Extras += ev.ExtraRuns
		switch *ev.ExtraType {
		case models.ExtraNoBall:
			bowl.NoBalls++
		case models.ExtraWide:
			bowl.Wides++
		}
	}

	tr, ok := trackers[ev.BowlerName]
	if !ok {
		tr = &overTracker{}
		trackers[ev.BowlerName] = tr
	}
	tr.runsInOver += conceded
	if ev.Legal() {
		tr.legalBalls++
		tr.ballsInOver++
		if tr.ballsInOver == 6 {
			if tr.runsInOver == 0 {
				tr.maidens++
			}
			tr.ballsInOver = 0
			tr.runsInOver = 0
		}
	}
}

// findOrAddBatsman returns the batting entry for the name, creating one at
// the tail of the order the first time an incoming batsman is seen.
func findOrAddBatsman(st *State, name string) *models.BattingEntry {
	for i := range st.Batting {
		if st.Batting[i].PlayerName == name {
			return &st.Batting[i]
		}
	}
	st.Batting = append(st.Batting, models.BattingEntry{
		PlayerName:   name,
		BattingOrder: len(st.Batting) + 1,
	})
	return &st.Batting[len(st.Batting)-1]
}

func findOrAddBowler(st *State, name string) *models.BowlingEntry {
	for i := range st.Bowling {
		if st.Bowling[i].PlayerName == name {
			return &st.Bowling[i]
		}
	}
	st.Bowling = append(st.Bowling, models.BowlingEntry{
		PlayerName:   name,
		BowlingOrder: len(st.Bowling) + 1,
	})
	return &st.Bowling[len(st.Bowling)-1]
}

// NextBall returns the 1-based over and ball numbers the next delivery will
// carry. Ball numbers only advance on legal deliveries, so a wide in the
// middle of an over repeats its ball number.
func NextBall(current models.Overs) (over, ball int) {
	return current.Overs + 1, current.Balls + 1
}

func strikeRate(runs, balls int) float64 {
	if balls == 0 {
		return 0
	}
	return float64(runs) / float64(balls) * 100
}

func economy(conceded int, overs models.Overs) float64 {
	trueOvers := overs.TrueOvers()
	if trueOvers == 0 {
		return 0
	}
	return float64(conceded) / trueOvers
}
