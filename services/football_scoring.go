package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Gintoki006/Sportify-sub001/brackets"
	"github.com/Gintoki006/Sportify-sub001/football"
	"github.com/Gintoki006/Sportify-sub001/models"
	"github.com/Gintoki006/Sportify-sub001/repositories"
)

// defaultHalfDuration is regulation half length in minutes.
const defaultHalfDuration = 45

// FootballSetupInput creates the live-scoring record for a football match:
// both team sheets plus an optional non-standard half length (small-sided
// club games are often 2x20 or 2x30).
type FootballSetupInput struct {
	HalfDuration int                    `json:"half_duration,omitempty"`
	TeamA        []football.PlayerSetup `json:"team_a"`
	TeamB        []football.PlayerSetup `json:"team_b"`
}

// FootballLive is the derived live view returned by football commands.
type FootballLive struct {
	Match    *models.Match                `json:"match"`
	Football *models.FootballMatch        `json:"football"`
	Players  []models.FootballPlayerEntry `json:"players"`
	Events   []models.FootballEvent       `json:"events"`
}

// FootballStatusResult reports a period transition and anything it caused.
type FootballStatusResult struct {
	Live *FootballLive `json:"live"`
	// PromptExtraTime asks the client whether to continue into extra time:
	// set on the FULL_TIME transition of a drawn knockout match.
	PromptExtraTime bool `json:"prompt_extra_time"`
	// Result is the finalized outcome, set on the COMPLETED transition.
	Result *football.Result `json:"result,omitempty"`
	Score  *ScoreResult     `json:"score,omitempty"`
}

func (s *scoringService) SetupFootball(ctx context.Context, caller Caller, matchID int, in FootballSetupInput) (*FootballLive, error) {
	if err := Require(caller.Role, ActionEnterScores); err != nil {
		return nil, err
	}
	if err := football.ValidateSetup(in.TeamA, in.TeamB); err != nil {
		return nil, err
	}
	halfDuration := in.HalfDuration
	if halfDuration <= 0 {
		halfDuration = defaultHalfDuration
	}

	var live *FootballLive
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		m, err := s.getMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if m.SportType != models.SportFootball {
			return ErrWrongSport
		}
		if m.Completed {
			return ErrMatchCompleted
		}

		fm := &models.FootballMatch{
			MatchID:      m.ID,
			Status:       models.FootballNotStarted,
			HalfDuration: halfDuration,
		}
		if err := s.footballRepo.Create(ctx, tx, fm); err != nil {
			if errors.Is(err, repositories.ErrFootballConflict) {
				return ErrDuplicateSetup
			}
			return err
		}

		state := football.Fold(in.TeamA, in.TeamB, nil)
		if err := s.footballRepo.ReplacePlayerEntries(ctx, tx, fm.ID, state.Players); err != nil {
			return err
		}

		live = &FootballLive{Match: m, Football: fm, Players: state.Players, Events: []models.FootballEvent{}}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToRoom(roomForMatch(live.Match), brackets.MsgFootballUpdated, live)
	return live, nil
}

func (s *scoringService) RecordFootballEvent(ctx context.Context, caller Caller, matchID int, in football.EventInput) (*FootballLive, error) {
	if err := Require(caller.Role, ActionEnterScores); err != nil {
		return nil, err
	}

	var live *FootballLive
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		m, fm, err := s.getFootball(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if m.Completed {
			return ErrMatchCompleted
		}

		setupA, setupB, events, err := s.loadFootballLog(ctx, tx, fm.ID)
		if err != nil {
			return err
		}
		current := football.Fold(setupA, setupB, events)

		newEvents, err := football.BuildEvents(fm, current, in, s.now())
		if err != nil {
			return mapFootballErr(err)
		}
		if err := s.footballRepo.AppendEvents(ctx, tx, newEvents); err != nil {
			return err
		}
		events = append(events, newEvents...)

		// Kick-off doubles as the NOT_STARTED -> FIRST_HALF transition and
		// puts 0-0 on the board.
		if in.EventType == models.EventKickOff {
			now := s.now()
			fm.Status = models.FootballFirstHalf
			fm.PeriodStartedAt = &now
			if err := s.footballRepo.UpdateStatus(ctx, tx, fm.ID, fm.Status, fm.PeriodStartedAt); err != nil {
				return err
			}
		}

		state := football.Fold(setupA, setupB, events)
		if err := s.persistFootballState(ctx, tx, m, fm, state); err != nil {
			return err
		}

		live = &FootballLive{Match: m, Football: fm, Players: state.Players, Events: events}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToRoom(roomForMatch(live.Match), brackets.MsgFootballUpdated, live)
	return live, nil
}

func (s *scoringService) UndoFootballEvent(ctx context.Context, caller Caller, matchID int) (*FootballLive, error) {
	if err := Require(caller.Role, ActionEnterScores); err != nil {
		return nil, err
	}

	var live *FootballLive
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		m, fm, err := s.getFootball(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if m.Completed {
			return ErrMatchCompleted
		}

		setupA, setupB, events, err := s.loadFootballLog(ctx, tx, fm.ID)
		if err != nil {
			return err
		}
		ids, err := football.Undo(events)
		if err != nil {
			return mapFootballErr(err)
		}
		if err := s.footballRepo.DeleteEvents(ctx, tx, ids); err != nil {
			return err
		}

		remaining := events[:0:0]
		for _, ev := range events {
			if !containsID(ids, ev) {
				remaining = append(remaining, ev)
			}
		}

		state := football.Fold(setupA, setupB, remaining)
		if err := s.persistFootballState(ctx, tx, m, fm, state); err != nil {
			return err
		}

		live = &FootballLive{Match: m, Football: fm, Players: state.Players, Events: remaining}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToRoom(roomForMatch(live.Match), brackets.MsgFootballUpdated, live)
	return live, nil
}

func (s *scoringService) ChangeFootballStatus(ctx context.Context, caller Caller, matchID int, to models.FootballStatus) (*FootballStatusResult, error) {
	if err := Require(caller.Role, ActionEnterScores); err != nil {
		return nil, err
	}

	var out *FootballStatusResult
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		m, fm, err := s.getFootball(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if m.Completed {
			return ErrMatchCompleted
		}
		if err := football.ValidateTransition(fm.Status, to); err != nil {
			return mapFootballErr(err)
		}

		setupA, setupB, events, err := s.loadFootballLog(ctx, tx, fm.ID)
		if err != nil {
			return err
		}
		from := fm.Status

		// HALF_TIME and FULL_TIME leave a marker in the log so the period
		// boundary survives in the event history.
		var marker *models.FootballEventType
		switch to {
		case models.FootballHalfTime:
			t := models.EventHalfTime
			marker = &t
		case models.FootballFullTime:
			t := models.EventFullTime
			marker = &t
		}
		if marker != nil {
			state := football.Fold(setupA, setupB, events)
			mark, err := football.BuildEvents(fm, state, football.EventInput{EventType: *marker}, s.now())
			if err != nil {
				return mapFootballErr(err)
			}
			if err := s.footballRepo.AppendEvents(ctx, tx, mark); err != nil {
				return err
			}
			events = append(events, mark...)
		}

		fm.Status = to
		var periodStart *time.Time
		switch to {
		case models.FootballSecondHalf, models.FootballExtraTimeFirst, models.FootballExtraTimeSecond, models.FootballPenalties:
			now := s.now()
			periodStart = &now
		}
		fm.PeriodStartedAt = periodStart
		if to == models.FootballExtraTimeFirst {
			fm.ExtraTime = true
		}
		if to == models.FootballPenalties {
			fm.PenaltyShootout = true
		}
		if err := s.footballRepo.UpdateStatus(ctx, tx, fm.ID, to, periodStart); err != nil {
			return err
		}

		state := football.Fold(setupA, setupB, events)
		if to != models.FootballCompleted {
			if err := s.persistFootballState(ctx, tx, m, fm, state); err != nil {
				return err
			}
		}

		out = &FootballStatusResult{
			Live: &FootballLive{Match: m, Football: fm, Players: state.Players, Events: events},
		}

		switch to {
		case models.FootballFullTime:
			// On a knockout draw the client is asked whether to continue
			// into extra time instead of completing.
			if m.TournamentID != nil && state.Scores.FullTimeA() == state.Scores.FullTimeB() {
				out.PromptExtraTime = true
			}
		case models.FootballCompleted:
			score, result, err := s.finalizeFootballMatch(ctx, tx, m, fm, from, state)
			if err != nil {
				return err
			}
			out.Result = result
			out.Score = score
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToRoom(roomForMatch(out.Live.Match), brackets.MsgFootballUpdated, out.Live)
	if out.Score != nil {
		s.afterScoreChange(ctx, caller, out.Score)
	}
	return out, nil
}

// finalizeFootballMatch resolves the final score from the last active
// period, completes the match atomically, writes finalized player figures
// and stat entries, and advances the bracket.
func (s *scoringService) finalizeFootballMatch(ctx context.Context, tx *sql.Tx, m *models.Match, fm *models.FootballMatch, from models.FootballStatus, state football.State) (*ScoreResult, *football.Result, error) {
	result := football.Finalize(from, state.Scores)
	if m.TournamentID != nil && result.Winner == nil {
		return nil, nil, ErrTiedScoreNotAllowed
	}

	playerMetrics := football.SynthesizeStats(state, result, fm.HalfDuration, fm.ExtraTime)
	if err := s.persistFootballState(ctx, tx, m, fm, state); err != nil {
		return nil, nil, err
	}

	if err := s.completeMatch(ctx, tx, m.ID, result.ScoreA, result.ScoreB); err != nil {
		return nil, nil, err
	}
	m.ScoreA, m.ScoreB = &result.ScoreA, &result.ScoreB
	m.Completed = true

	source := models.StatSourceStandalone
	if m.TournamentID != nil {
		source = models.StatSourceTournament
	}
	for i := range state.Players {
		p := &state.Players[i]
		if p.PlayerID == nil {
			continue
		}
		if _, err := s.statSync.Sync(ctx, tx, m.ID, *p.PlayerID, opponentLabel(m), source, playerMetrics[p.PlayerName]); err != nil {
			return nil, nil, err
		}
	}

	score := &ScoreResult{Match: m}
	if m.TournamentID != nil {
		adv, err := s.advanceBracket(ctx, tx, *m.TournamentID, m.ID)
		if err != nil {
			return nil, nil, err
		}
		score.AdvancedTo = adv.UpdatedMatch
		score.TournamentStatus = adv.NewStatus
	}
	return score, &result, nil
}

func (s *scoringService) getFootball(ctx context.Context, tx *sql.Tx, matchID int) (*models.Match, *models.FootballMatch, error) {
	m, err := s.getMatch(ctx, tx, matchID)
	if err != nil {
		return nil, nil, err
	}
	if m.SportType != models.SportFootball {
		return nil, nil, ErrWrongSport
	}
	fm, err := s.footballRepo.GetByMatchID(ctx, tx, m.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrFootballNotFound) {
			return nil, nil, ErrMatchNotSetUp
		}
		return nil, nil, err
	}
	return m, fm, nil
}

// loadFootballLog rebuilds the fold inputs from persisted entries. Only
// rows from the announced team sheets seed the fold; players who entered
// the match purely through events reappear from the log itself.
func (s *scoringService) loadFootballLog(ctx context.Context, tx *sql.Tx, footballID int) (setupA, setupB []football.PlayerSetup, events []models.FootballEvent, err error) {
	entries, err := s.footballRepo.ListPlayerEntries(ctx, tx, footballID)
	if err != nil {
		return nil, nil, nil, err
	}
	for _, e := range entries {
		if !e.InLineup {
			continue
		}
		starting := e.IsStarting
		setup := football.PlayerSetup{PlayerName: e.PlayerName, PlayerID: e.PlayerID, IsStarting: &starting}
		if e.Team == models.TeamA {
			setupA = append(setupA, setup)
		} else {
			setupB = append(setupB, setup)
		}
	}

	events, err = s.footballRepo.ListEvents(ctx, tx, footballID)
	if err != nil {
		return nil, nil, nil, err
	}
	return setupA, setupB, events, nil
}

// persistFootballState writes the fold projection: per-period scores on the
// football record, player figures, and the running cumulative score on the
// match row.
func (s *scoringService) persistFootballState(ctx context.Context, tx *sql.Tx, m *models.Match, fm *models.FootballMatch, state football.State) error {
	sc := state.Scores
	fm.HalfTimeScoreA, fm.HalfTimeScoreB = sc.HalfTimeA, sc.HalfTimeB
	fm.FullTimeScoreA, fm.FullTimeScoreB = sc.FullTimeA(), sc.FullTimeB()
	fm.ExtraTimeScoreA, fm.ExtraTimeScoreB = sc.ExtraTimeA, sc.ExtraTimeB
	fm.PenaltyScoreA, fm.PenaltyScoreB = sc.PenaltyA, sc.PenaltyB
	if err := s.footballRepo.UpdateScores(ctx, tx, fm); err != nil {
		return err
	}
	if err := s.footballRepo.ReplacePlayerEntries(ctx, tx, fm.ID, state.Players); err != nil {
		return err
	}

	if !m.Completed {
		cumulativeA := sc.FullTimeA() + sc.ExtraTimeA
		cumulativeB := sc.FullTimeB() + sc.ExtraTimeB
		if err := s.matchRepo.SetScores(ctx, tx, m.ID, cumulativeA, cumulativeB); err != nil {
			return err
		}
		m.ScoreA, m.ScoreB = &cumulativeA, &cumulativeB
	}
	return nil
}

func mapFootballErr(err error) error {
	switch {
	case errors.Is(err, football.ErrInvalidTransition):
		return errors.Join(ErrInvalidTransition, err)
	case errors.Is(err, football.ErrPeriodNotActive):
		return errors.Join(ErrInvalidTransition, err)
	case errors.Is(err, football.ErrNoEvents):
		return ErrNothingToUndo
	case errors.Is(err, football.ErrMarkerNotUndoable):
		return errors.Join(ErrNothingToUndo, err)
	default:
		return err
	}
}

func containsID(ids []uuid.UUID, ev models.FootballEvent) bool {
	for _, id := range ids {
		if ev.ID == id {
			return true
		}
	}
	return false
}
