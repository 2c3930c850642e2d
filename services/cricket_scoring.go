package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/Gintoki006/Sportify-sub001/brackets"
	"github.com/Gintoki006/Sportify-sub001/cricket"
	"github.com/Gintoki006/Sportify-sub001/models"
	"github.com/Gintoki006/Sportify-sub001/repositories"
)

// StartInningsInput names the sides and lineups of a new innings. The
// batting lineup fixes the batting order; incoming batsmen beyond it are
// added as they first face a ball.
type StartInningsInput struct {
	BattingTeamName string               `json:"batting_team_name"`
	BowlingTeamName string               `json:"bowling_team_name"`
	BattingLineup   []cricket.LineupSlot `json:"batting_lineup"`
	BowlingLineup   []cricket.LineupSlot `json:"bowling_lineup"`
}

// CricketScorecard is the full derived view returned by every cricket
// scoring command.
type CricketScorecard struct {
	Match   *models.Match          `json:"match"`
	Innings *models.CricketInnings `json:"innings"`
	Batting []models.BattingEntry  `json:"batting"`
	Bowling []models.BowlingEntry  `json:"bowling"`
	// MatchCompleted is set when this command finished the match (a chase
	// reaching its target) or re-opened it (undoing the winning ball).
	MatchCompleted bool `json:"match_completed"`
}

func (s *scoringService) StartInnings(ctx context.Context, caller Caller, matchID int, in StartInningsInput) (*CricketScorecard, error) {
	if err := Require(caller.Role, ActionEnterScores); err != nil {
		return nil, err
	}
	if len(in.BattingLineup) < 2 {
		return nil, ErrLineupTooSmall
	}
	if len(in.BowlingLineup) < 1 {
		return nil, ErrBowlerRequired
	}
	if in.BattingTeamName == "" || in.BowlingTeamName == "" {
		return nil, errors.New("batting and bowling team names are required")
	}

	var card *CricketScorecard
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		m, err := s.getMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if m.SportType != models.SportCricket {
			return ErrWrongSport
		}
		if m.Completed {
			return ErrMatchCompleted
		}

		existing, err := s.cricketRepo.ListInningsByMatch(ctx, tx, m.ID)
		if err != nil {
			return err
		}
		if len(existing) >= 2 {
			return ErrInningsLimitReached
		}
		if len(existing) == 1 && !existing[0].IsComplete {
			return ErrFirstInningsNotDone
		}

		innings := &models.CricketInnings{
			MatchID:         m.ID,
			InningsNumber:   len(existing) + 1,
			BattingTeamName: in.BattingTeamName,
			BowlingTeamName: in.BowlingTeamName,
		}
		if err := s.cricketRepo.CreateInnings(ctx, tx, innings); err != nil {
			if errors.Is(err, repositories.ErrInningsConflict) {
				return ErrInningsAlreadyActive
			}
			return err
		}

		state := cricket.Fold(in.BattingLineup, in.BowlingLineup, nil)
		if err := s.persistInningsState(ctx, tx, innings, state); err != nil {
			return err
		}

		card = &CricketScorecard{Match: m, Innings: innings, Batting: state.Batting, Bowling: state.Bowling}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToRoom(roomForMatch(card.Match), brackets.MsgInningsUpdated, card)
	return card, nil
}

func (s *scoringService) ApplyDelivery(ctx context.Context, caller Caller, matchID int, d cricket.Delivery) (*CricketScorecard, error) {
	if err := Require(caller.Role, ActionEnterScores); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	var card *CricketScorecard
	var res *ScoreResult
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		m, err := s.getMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if m.SportType != models.SportCricket {
			return ErrWrongSport
		}
		if m.Completed {
			return ErrMatchCompleted
		}

		all, err := s.cricketRepo.ListInningsByMatch(ctx, tx, m.ID)
		if err != nil {
			return err
		}
		innings := activeInnings(all)
		if innings == nil {
			return ErrInningsNotFound
		}

		events, err := s.cricketRepo.ListBallEvents(ctx, tx, innings.ID)
		if err != nil {
			return err
		}

		over, ball := cricket.NextBall(innings.TotalOvers)
		ev := models.BallEvent{
			ID:            uuid.New(),
			InningsID:     innings.ID,
			OverNumber:    over,
			BallNumber:    ball,
			BatsmanName:   d.BatsmanName,
			BowlerName:    d.BowlerName,
			RunsScored:    d.RunsScored,
			ExtraType:     d.ExtraType,
			ExtraRuns:     d.ExtraRuns,
			IsWicket:      d.IsWicket,
			DismissalType: d.DismissalType,
			FielderName:   d.FielderName,
			Commentary:    d.Commentary,
		}
		if err := s.cricketRepo.AppendBallEvent(ctx, tx, &ev); err != nil {
			return err
		}
		events = append(events, ev)

		batting, bowling, err := s.loadLineups(ctx, tx, innings.ID)
		if err != nil {
			return err
		}
		state := cricket.Fold(batting, bowling, events)
		if err := s.persistInningsState(ctx, tx, innings, state); err != nil {
			return err
		}

		card = &CricketScorecard{Match: m, Innings: innings, Batting: state.Batting, Bowling: state.Bowling}

		// An innings closes on its own when the batting side is all out, or
		// when a second-innings chase passes the target. The latter also
		// finishes the match.
		allOut := len(batting) >= 2 && state.TotalWickets >= len(batting)-1
		chaseWon := innings.InningsNumber == 2 && state.TotalRuns > all[0].TotalRuns

		if allOut || chaseWon {
			innings.IsComplete = true
			if err := s.cricketRepo.SetInningsComplete(ctx, tx, innings.ID, true); err != nil {
				return err
			}
		}
		if chaseWon {
			res, err = s.completeCricketMatch(ctx, tx, m, all)
			if err != nil {
				return err
			}
			card.MatchCompleted = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToRoom(roomForMatch(card.Match), brackets.MsgInningsUpdated, card)
	if res != nil {
		s.afterScoreChange(ctx, caller, res)
	}
	return card, nil
}

func (s *scoringService) UndoDelivery(ctx context.Context, caller Caller, matchID int) (*CricketScorecard, error) {
	if err := Require(caller.Role, ActionEnterScores); err != nil {
		return nil, err
	}

	var card *CricketScorecard
	var reopened bool
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		m, err := s.getMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if m.SportType != models.SportCricket {
			return ErrWrongSport
		}

		innings, err := s.cricketRepo.LatestTouchedInnings(ctx, tx, m.ID)
		if err != nil {
			if errors.Is(err, repositories.ErrInningsNotFound) {
				return ErrNothingToUndo
			}
			return err
		}

		events, err := s.cricketRepo.ListBallEvents(ctx, tx, innings.ID)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return ErrNothingToUndo
		}

		// Undoing the winning ball re-opens the match and unwinds every
		// effect of its completion before the delivery itself comes off.
		if m.Completed {
			if err := s.reopenCompletedMatch(ctx, tx, m); err != nil {
				return err
			}
			reopened = true
		}

		last := events[len(events)-1]
		if err := s.cricketRepo.DeleteBallEvent(ctx, tx, last.ID); err != nil {
			return err
		}
		events = events[:len(events)-1]

		batting, bowling, err := s.loadLineups(ctx, tx, innings.ID)
		if err != nil {
			return err
		}
		state := cricket.Fold(batting, bowling, events)
		if err := s.persistInningsState(ctx, tx, innings, state); err != nil {
			return err
		}
		if innings.IsComplete {
			innings.IsComplete = false
			if err := s.cricketRepo.SetInningsComplete(ctx, tx, innings.ID, false); err != nil {
				return err
			}
		}

		card = &CricketScorecard{
			Match: m, Innings: innings,
			Batting: state.Batting, Bowling: state.Bowling,
			MatchCompleted: reopened,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.BroadcastToRoom(roomForMatch(card.Match), brackets.MsgInningsUpdated, card)
	if reopened {
		s.hub.BroadcastToRoom(roomForMatch(card.Match), brackets.MsgBracketUpdated, card.Match)
	}
	return card, nil
}

// reopenCompletedMatch unwinds a completed match inside the undo
// transaction: downstream bracket slots the winner reached revert to TBD as
// long as those matches have not started, the tournament steps back to
// in-progress if the match was the final, and every StatEntry of the match
// is deleted with its goal contributions subtracted.
func (s *scoringService) reopenCompletedMatch(ctx context.Context, tx *sql.Tx, m *models.Match) error {
	if m.TournamentID == nil {
		if err := s.matchRepo.Uncomplete(ctx, tx, m.ID); err != nil {
			return err
		}
		if err := s.statSync.ReverseMatch(ctx, tx, m.ID); err != nil {
			return err
		}
		m.ScoreA, m.ScoreB, m.Completed = nil, nil, false
		return nil
	}

	tree, err := s.loadTree(ctx, tx, *m.TournamentID)
	if err != nil {
		return err
	}
	reset, err := tree.ResetUnstarted(m.ID, s.matchStarted(ctx, tx))
	if err != nil {
		return mapBracketErr(err)
	}
	if err := s.persistReset(ctx, tx, tree.Tournament, reset); err != nil {
		return err
	}
	m.ScoreA, m.ScoreB, m.Completed = nil, nil, false
	return nil
}

// completeCricketMatch maps innings totals onto the match score, completes
// the match atomically, synthesizes stat entries for linked players and
// advances the bracket.
func (s *scoringService) completeCricketMatch(ctx context.Context, tx *sql.Tx, m *models.Match, innings []*models.CricketInnings) (*ScoreResult, error) {
	scoreA, scoreB := 0, 0
	for _, in := range innings {
		switch in.BattingTeamName {
		case m.TeamA:
			scoreA = in.TotalRuns
		case m.TeamB:
			scoreB = in.TotalRuns
		}
	}
	if err := s.completeMatch(ctx, tx, m.ID, scoreA, scoreB); err != nil {
		return nil, err
	}
	m.ScoreA, m.ScoreB = &scoreA, &scoreB
	m.Completed = true

	source := models.StatSourceStandalone
	if m.TournamentID != nil {
		source = models.StatSourceTournament
	}
	metrics, err := s.cricketPlayerMetrics(ctx, tx, innings)
	if err != nil {
		return nil, err
	}
	for profileID, mm := range metrics {
		if _, err := s.statSync.Sync(ctx, tx, m.ID, profileID, opponentLabel(m), source, mm); err != nil {
			return nil, err
		}
	}

	res := &ScoreResult{Match: m}
	if m.TournamentID != nil {
		adv, err := s.advanceBracket(ctx, tx, *m.TournamentID, m.ID)
		if err != nil {
			return nil, err
		}
		res.AdvancedTo = adv.UpdatedMatch
		res.TournamentStatus = adv.NewStatus
	}
	return res, nil
}

// cricketPlayerMetrics aggregates batting and bowling figures per linked
// player across the given innings. Unlinked names produce no stat entries.
func (s *scoringService) cricketPlayerMetrics(ctx context.Context, tx *sql.Tx, innings []*models.CricketInnings) (map[int]map[string]float64, error) {
	metrics := make(map[int]map[string]float64)
	ensure := func(profileID int) map[string]float64 {
		mm, ok := metrics[profileID]
		if !ok {
			mm = map[string]float64{"matches": 1}
			metrics[profileID] = mm
		}
		return mm
	}

	for _, in := range innings {
		batting, err := s.cricketRepo.ListBattingEntries(ctx, tx, in.ID)
		if err != nil {
			return nil, err
		}
		for _, e := range batting {
			if e.PlayerID == nil {
				continue
			}
			mm := ensure(*e.PlayerID)
			mm["runs"] += float64(e.Runs)
			mm["balls_faced"] += float64(e.BallsFaced)
			mm["fours"] += float64(e.Fours)
			mm["sixes"] += float64(e.Sixes)
		}

		bowling, err := s.cricketRepo.ListBowlingEntries(ctx, tx, in.ID)
		if err != nil {
			return nil, err
		}
		for _, e := range bowling {
			if e.PlayerID == nil {
				continue
			}
			mm := ensure(*e.PlayerID)
			mm["wickets"] += float64(e.Wickets)
			mm["runs_conceded"] += float64(e.RunsConceded)
			mm["overs_bowled"] += e.OversBowled.TrueOvers()
			mm["maidens"] += float64(e.Maidens)
		}
	}
	return metrics, nil
}

// loadLineups rebuilds the fold inputs from the persisted entries: only
// rows flagged as part of the announced lineup seed the fold, so an undone
// incoming batsman disappears instead of being re-seeded.
func (s *scoringService) loadLineups(ctx context.Context, tx *sql.Tx, inningsID int) (batting, bowling []cricket.LineupSlot, err error) {
	battingEntries, err := s.cricketRepo.ListBattingEntries(ctx, tx, inningsID)
	if err != nil {
		return nil, nil, err
	}
	for _, e := range battingEntries {
		if e.InLineup {
			batting = append(batting, cricket.LineupSlot{PlayerName: e.PlayerName, PlayerID: e.PlayerID})
		}
	}
	bowlingEntries, err := s.cricketRepo.ListBowlingEntries(ctx, tx, inningsID)
	if err != nil {
		return nil, nil, err
	}
	for _, e := range bowlingEntries {
		if e.InLineup {
			bowling = append(bowling, cricket.LineupSlot{PlayerName: e.PlayerName, PlayerID: e.PlayerID})
		}
	}
	return batting, bowling, nil
}

func (s *scoringService) persistInningsState(ctx context.Context, tx *sql.Tx, innings *models.CricketInnings, state cricket.State) error {
	innings.TotalRuns = state.TotalRuns
	innings.TotalWickets = state.TotalWickets
	innings.TotalOvers = state.TotalOvers
	innings.Extras = state.Extras
	if err := s.cricketRepo.UpdateInningsTotals(ctx, tx, innings); err != nil {
		return err
	}
	if err := s.cricketRepo.ReplaceBattingEntries(ctx, tx, innings.ID, state.Batting); err != nil {
		return err
	}
	return s.cricketRepo.ReplaceBowlingEntries(ctx, tx, innings.ID, state.Bowling)
}

// activeInnings returns the innings currently accepting deliveries.
func activeInnings(all []*models.CricketInnings) *models.CricketInnings {
	for _, in := range all {
		if !in.IsComplete {
			return in
		}
	}
	return nil
}
