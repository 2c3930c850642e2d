// Package football derives live match state from the append-only event log.
// As with the cricket engine, the log is the source of truth: aggregates are
// computed by a pure fold and undo drops the newest event (plus any event it
// caused) and folds again.
package football

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Gintoki006/Sportify-sub001/models"
)

var (
	ErrInvalidTransition = errors.New("invalid football status transition")
	ErrPeriodNotActive   = errors.New("events can only be recorded during an active period")
	ErrNoEvents          = errors.New("no events to undo")
	ErrMarkerNotUndoable = errors.New("period marker events cannot be undone")
	ErrDuplicatePlayerID = errors.New("duplicate linked player id in lineup")
	ErrLineupSideMissing = errors.New("each side needs at least one player")
)

// autoRedDescription marks the red card synthesized after a second yellow.
const autoRedDescription = "Second yellow card (automatic red)"

// PlayerSetup is one player in the initial team sheets.
type PlayerSetup struct {
	PlayerName string `json:"player_name"`
	PlayerID   *int   `json:"player_id,omitempty"`
	IsStarting *bool  `json:"is_starting,omitempty"`
}

// Starting defaults to true unless explicitly false.
func (p PlayerSetup) Starting() bool {
	return p.IsStarting == nil || *p.IsStarting
}

// ValidateSetup checks the team sheets before a match is created.
func ValidateSetup(teamA, teamB []PlayerSetup) error {
	if len(teamA) == 0 || len(teamB) == 0 {
		return ErrLineupSideMissing
	}
	seen := make(map[int]bool)
	for _, p := range append(append([]PlayerSetup{}, teamA...), teamB...) {
		if p.PlayerName == "" {
			return errors.New("player name is required")
		}
		if p.PlayerID != nil {
			if seen[*p.PlayerID] {
				return fmt.Errorf("%w: %d", ErrDuplicatePlayerID, *p.PlayerID)
			}
			seen[*p.PlayerID] = true
		}
	}
	return nil
}

// EventInput is the scorer's description of one piece of play.
type EventInput struct {
	EventType        models.FootballEventType `json:"event_type"`
	Minute           int                      `json:"minute"`
	AddedTime        int                      `json:"added_time"`
	Team             *models.Team             `json:"team,omitempty"`
	PlayerName       *string                  `json:"player_name,omitempty"`
	AssistPlayerName *string                  `json:"assist_player_name,omitempty"`
	Description      *string                  `json:"description,omitempty"`
}

// Scores is the per-period score projection derived from the log.
type Scores struct {
	HalfTimeA, HalfTimeB     int
	SecondHalfA, SecondHalfB int
	ExtraTimeA, ExtraTimeB   int
	PenaltyA, PenaltyB       int
}

// FullTimeA returns goals across both regulation halves.
func (s Scores) FullTimeA() int { return s.HalfTimeA + s.SecondHalfA }

// FullTimeB returns goals across both regulation halves.
func (s Scores) FullTimeB() int { return s.HalfTimeB + s.SecondHalfB }

// State is the derived live state of one football match.
type State struct {
	Scores  Scores
	Players []models.FootballPlayerEntry
}

// player returns the entry for name on team, creating one for a substitute
// the first time the name appears.
func (st *State) player(name string, team models.Team) *models.FootballPlayerEntry {
	for i := range st.Players {
		if st.Players[i].PlayerName == name && st.Players[i].Team == team {
			return &st.Players[i]
		}
	}
	st.Players = append(st.Players, models.FootballPlayerEntry{
		PlayerName: name,
		Team:       team,
	})
	return &st.Players[len(st.Players)-1]
}

// Fold replays the event log over the team sheets.
func Fold(teamA, teamB []PlayerSetup, events []models.FootballEvent) State {
	st := State{Players: make([]models.FootballPlayerEntry, 0, len(teamA)+len(teamB))}
	for _, p := range teamA {
		st.Players = append(st.Players, models.FootballPlayerEntry{
			PlayerName: p.PlayerName, PlayerID: p.PlayerID, Team: models.TeamA, IsStarting: p.Starting(), InLineup: true,
		})
	}
	for _, p := range teamB {
		st.Players = append(st.Players, models.FootballPlayerEntry{
			PlayerName: p.PlayerName, PlayerID: p.PlayerID, Team: models.TeamB, IsStarting: p.Starting(), InLineup: true,
		})
	}

	for i := range events {
		applyEvent(&st, &events[i])
	}
	return st
}

func applyEvent(st *State, ev *models.FootballEvent) {
	switch ev.EventType {
	case models.EventGoal:
		creditGoal(st, ev, false)
	case models.EventOwnGoal:
		creditGoal(st, ev, true)
	case models.EventPenaltyScored:
		if ev.Period == models.FootballPenalties {
			// Shootout kicks only move the penalty tally.
			if ev.Team != nil {
				if *ev.Team == models.TeamA {
					st.Scores.PenaltyA++
				} else {
					st.Scores.PenaltyB++
				}
			}
			return
		}
		creditGoal(st, ev, false)
	case models.EventYellowCard:
		if ev.PlayerName != nil && ev.Team != nil {
			st.player(*ev.PlayerName, *ev.Team).YellowCards++
		}
	case models.EventRedCard:
		if ev.PlayerName != nil && ev.Team != nil {
			st.player(*ev.PlayerName, *ev.Team).RedCards++
		}
	case models.EventSubstitution:
		// PlayerName is the player coming on, AssistPlayerName the player
		// going off. Re-entry reuses the earlier entry.
		if ev.Team == nil {
			return
		}
		minute := ev.Minute
		if ev.AssistPlayerName != nil {
			out := st.player(*ev.AssistPlayerName, *ev.Team)
			out.MinuteSubbedOut = &minute
		}
		if ev.PlayerName != nil {
			in := st.player(*ev.PlayerName, *ev.Team)
			in.MinuteSubbedIn = &minute
			in.MinuteSubbedOut = nil
		}
	case models.EventFoul:
		if ev.PlayerName != nil && ev.Team != nil {
			st.player(*ev.PlayerName, *ev.Team).Fouls++
		}
	case models.EventCorner:
		if ev.PlayerName != nil && ev.Team != nil {
			st.player(*ev.PlayerName, *ev.Team).Corners++
		}
	case models.EventOffside:
		if ev.PlayerName != nil && ev.Team != nil {
			st.player(*ev.PlayerName, *ev.Team).Offsides++
		}
	case models.EventPenaltyMissed, models.EventPenaltyKick:
		// History only.
	case models.EventKickOff, models.EventHalfTime, models.EventFullTime:
		// Period markers carry no aggregate effect; status lives on the row.
	}
}

func creditGoal(st *State, ev *models.FootballEvent, ownGoal bool) {
	if ev.Team == nil {
		return
	}
	scoringTeam := *ev.Team
	if ownGoal {
		scoringTeam = ev.Team.Opposite()
	}

	switch ev.Period {
	case models.FootballFirstHalf, models.FootballHalfTime:
		if scoringTeam == models.TeamA {
			st.Scores.HalfTimeA++
		} else {
			st.Scores.HalfTimeB++
		}
	case models.FootballSecondHalf, models.FootballFullTime:
		if scoringTeam == models.TeamA {
			st.Scores.SecondHalfA++
		} else {
			st.Scores.SecondHalfB++
		}
	case models.FootballExtraTimeFirst, models.FootballExtraTimeSecond:
		if scoringTeam == models.TeamA {
			st.Scores.ExtraTimeA++
		} else {
			st.Scores.ExtraTimeB++
		}
	}

	if !ownGoal && ev.PlayerName != nil {
		st.player(*ev.PlayerName, *ev.Team).Goals++
		if ev.AssistPlayerName != nil {
			st.player(*ev.AssistPlayerName, *ev.Team).Assists++
		}
	}
}

// BuildEvents validates an inbound event against the current match status
// and returns the log rows to append: the event itself plus, for a second
// yellow card, the synthesized automatic red card linked through CausedBy.
func BuildEvents(fm *models.FootballMatch, current State, in EventInput, now time.Time) ([]models.FootballEvent, error) {
	if in.EventType == models.EventKickOff {
		if fm.Status != models.FootballNotStarted {
			return nil, fmt.Errorf("%w: kick-off from %s", ErrInvalidTransition, fm.Status)
		}
	} else if !fm.Status.ActivePeriod() {
		return nil, fmt.Errorf("%w: status is %s", ErrPeriodNotActive, fm.Status)
	}

	period := fm.Status
	if in.EventType == models.EventKickOff {
		period = models.FootballFirstHalf
	}

	ev := models.FootballEvent{
		ID:               uuid.New(),
		FootballID:       fm.ID,
		EventType:        in.EventType,
		Period:           period,
		Minute:           in.Minute,
		AddedTime:        in.AddedTime,
		Team:             in.Team,
		PlayerName:       in.PlayerName,
		AssistPlayerName: in.AssistPlayerName,
		Description:      in.Description,
		CreatedAt:        now,
	}

	out := []models.FootballEvent{ev}

	if in.EventType == models.EventYellowCard && in.PlayerName != nil && in.Team != nil {
		if playerYellows(current, *in.PlayerName, *in.Team)+1 == 2 {
			desc := autoRedDescription
			out = append(out, models.FootballEvent{
				ID:          uuid.New(),
				FootballID:  fm.ID,
				EventType:   models.EventRedCard,
				Period:      period,
				Minute:      in.Minute,
				AddedTime:   in.AddedTime,
				Team:        in.Team,
				PlayerName:  in.PlayerName,
				Description: &desc,
				CausedBy:    &out[0].ID,
				CreatedAt:   now,
			})
		}
	}
	return out, nil
}

func playerYellows(st State, name string, team models.Team) int {
	for i := range st.Players {
		if st.Players[i].PlayerName == name && st.Players[i].Team == team {
			return st.Players[i].YellowCards
		}
	}
	return 0
}

// Undo returns the event ids to delete for an undo command: the newest
// event, plus the event that caused it when the newest row was synthesized.
// Period markers are refused.
func Undo(events []models.FootballEvent) ([]uuid.UUID, error) {
	if len(events) == 0 {
		return nil, ErrNoEvents
	}
	last := events[len(events)-1]
	if last.EventType.PeriodMarker() {
		return nil, ErrMarkerNotUndoable
	}
	ids := []uuid.UUID{last.ID}
	if last.CausedBy != nil {
		ids = append(ids, *last.CausedBy)
	}
	return ids, nil
}
