package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Gintoki006/Sportify-sub001/brackets"
	"github.com/Gintoki006/Sportify-sub001/cricket"
	"github.com/Gintoki006/Sportify-sub001/football"
	"github.com/Gintoki006/Sportify-sub001/models"
	"github.com/Gintoki006/Sportify-sub001/repositories"
	"github.com/Gintoki006/Sportify-sub001/storage"
)

// PlayerStatInput is one player's performance attached to a manual score
// submission.
type PlayerStatInput struct {
	SportProfileID int                `json:"sport_profile_id"`
	Metrics        map[string]float64 `json:"metrics"`
}

// SubmitScoreInput is the payload of a manual final-score submission.
type SubmitScoreInput struct {
	ScoreA      int               `json:"score_a"`
	ScoreB      int               `json:"score_b"`
	PlayerStats []PlayerStatInput `json:"player_stats,omitempty"`
}

// ScoreResult reports everything a score submission or reset changed beyond
// the match itself.
type ScoreResult struct {
	Match *models.Match `json:"match"`
	// AdvancedTo is the downstream match the winner moved into, if any.
	AdvancedTo *models.Match `json:"advanced_to,omitempty"`
	// TournamentStatus is set when the submission changed it.
	TournamentStatus *models.TournamentStatus `json:"tournament_status,omitempty"`
	// ClearedMatches lists downstream matches a reset reverted to TBD slots.
	ClearedMatches []*models.Match `json:"cleared_matches,omitempty"`
}

// ScoringService is the single entry point for every state-changing scoring
// command. Each command checks the caller's club role, runs inside one
// transaction, and pushes live updates after commit.
type ScoringService interface {
	SubmitScore(ctx context.Context, caller Caller, matchID int, in SubmitScoreInput) (*ScoreResult, error)
	ResetScore(ctx context.Context, caller Caller, matchID int) (*ScoreResult, error)

	StartInnings(ctx context.Context, caller Caller, matchID int, in StartInningsInput) (*CricketScorecard, error)
	ApplyDelivery(ctx context.Context, caller Caller, matchID int, d cricket.Delivery) (*CricketScorecard, error)
	UndoDelivery(ctx context.Context, caller Caller, matchID int) (*CricketScorecard, error)

	SetupFootball(ctx context.Context, caller Caller, matchID int, in FootballSetupInput) (*FootballLive, error)
	RecordFootballEvent(ctx context.Context, caller Caller, matchID int, in football.EventInput) (*FootballLive, error)
	UndoFootballEvent(ctx context.Context, caller Caller, matchID int) (*FootballLive, error)
	ChangeFootballStatus(ctx context.Context, caller Caller, matchID int, to models.FootballStatus) (*FootballStatusResult, error)
}

type scoringService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	cricketRepo    repositories.CricketRepository
	footballRepo   repositories.FootballRepository
	statSync       StatSyncService
	hub            *brackets.Hub
	notifier       Notifier
	archiver       storage.ScorecardArchiver
	logger         *slog.Logger
	now            func() time.Time
}

func NewScoringService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	cricketRepo repositories.CricketRepository,
	footballRepo repositories.FootballRepository,
	statSync StatSyncService,
	hub *brackets.Hub,
	notifier Notifier,
	archiver storage.ScorecardArchiver,
	logger *slog.Logger,
) ScoringService {
	return &scoringService{
		db:             db,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		cricketRepo:    cricketRepo,
		footballRepo:   footballRepo,
		statSync:       statSync,
		hub:            hub,
		notifier:       notifier,
		archiver:       archiver,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *scoringService) SubmitScore(ctx context.Context, caller Caller, matchID int, in SubmitScoreInput) (*ScoreResult, error) {
	if err := Require(caller.Role, ActionEnterScores); err != nil {
		return nil, err
	}

	var res *ScoreResult
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		m, err := s.getMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if m.TournamentID != nil && in.ScoreA == in.ScoreB {
			return ErrTiedScoreNotAllowed
		}

		if err := s.completeMatch(ctx, tx, m.ID, in.ScoreA, in.ScoreB); err != nil {
			return err
		}
		m.ScoreA, m.ScoreB = &in.ScoreA, &in.ScoreB
		m.Completed = true

		source := models.StatSourceStandalone
		if m.TournamentID != nil {
			source = models.StatSourceTournament
		}
		for _, ps := range in.PlayerStats {
			if _, err := s.statSync.Sync(ctx, tx, m.ID, ps.SportProfileID, opponentLabel(m), source, ps.Metrics); err != nil {
				return err
			}
		}

		res = &ScoreResult{Match: m}
		if m.TournamentID != nil {
			adv, err := s.advanceBracket(ctx, tx, *m.TournamentID, m.ID)
			if err != nil {
				return err
			}
			res.AdvancedTo = adv.UpdatedMatch
			res.TournamentStatus = adv.NewStatus
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterScoreChange(ctx, caller, res)
	return res, nil
}

func (s *scoringService) ResetScore(ctx context.Context, caller Caller, matchID int) (*ScoreResult, error) {
	if err := Require(caller.Role, ActionEnterScores); err != nil {
		return nil, err
	}

	var res *ScoreResult
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		m, err := s.getMatch(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if !m.Completed {
			return ErrMatchNotCompleted
		}

		if m.TournamentID == nil {
			if err := s.matchRepo.Uncomplete(ctx, tx, m.ID); err != nil {
				return err
			}
			if err := s.statSync.ReverseMatch(ctx, tx, m.ID); err != nil {
				return err
			}
			m.ScoreA, m.ScoreB, m.Completed = nil, nil, false
			res = &ScoreResult{Match: m}
			return nil
		}

		tree, err := s.loadTree(ctx, tx, *m.TournamentID)
		if err != nil {
			return err
		}
		reset, err := tree.Reset(m.ID)
		if err != nil {
			return mapBracketErr(err)
		}
		if err := s.persistReset(ctx, tx, tree.Tournament, reset); err != nil {
			return err
		}

		node, _ := tree.NodeFor(m.ID)
		res = &ScoreResult{Match: node.Match, ClearedMatches: reset.ClearedSlots}
		if reset.StatusReverted {
			st := tree.Tournament.Status
			res.TournamentStatus = &st
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterScoreChange(ctx, caller, res)
	return res, nil
}

// --- shared plumbing ---

func (s *scoringService) getMatch(ctx context.Context, tx *sql.Tx, matchID int) (*models.Match, error) {
	m, err := s.matchRepo.GetByID(ctx, tx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

// completeMatch is the only path that flips the completed flag; the
// conditional update inside the repository turns a lost race into
// ErrScoreConflict instead of overwriting the other writer.
func (s *scoringService) completeMatch(ctx context.Context, tx *sql.Tx, matchID, scoreA, scoreB int) error {
	err := s.matchRepo.CompleteIfPending(ctx, tx, matchID, scoreA, scoreB)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrMatchAlreadyCompleted):
		return ErrScoreConflict
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	default:
		return err
	}
}

func (s *scoringService) loadTree(ctx context.Context, tx *sql.Tx, tournamentID int) (*brackets.Tree, error) {
	t, err := s.tournamentRepo.GetByID(ctx, tx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	matches, err := s.matchRepo.ListByTournament(ctx, tx, tournamentID)
	if err != nil {
		return nil, err
	}
	return brackets.Build(t, matches)
}

// advanceBracket propagates the winner of matchID and persists what changed.
func (s *scoringService) advanceBracket(ctx context.Context, tx *sql.Tx, tournamentID, matchID int) (*brackets.AdvanceResult, error) {
	tree, err := s.loadTree(ctx, tx, tournamentID)
	if err != nil {
		return nil, err
	}
	adv, err := tree.Advance(matchID)
	if err != nil {
		return nil, mapBracketErr(err)
	}
	if adv.UpdatedMatch != nil {
		d := adv.UpdatedMatch
		if err := s.matchRepo.UpdateSlots(ctx, tx, d.ID, d.TeamA, d.TeamB, d.PlayerAID, d.PlayerBID); err != nil {
			return nil, err
		}
	}
	if adv.NewStatus != nil {
		if err := s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, *adv.NewStatus); err != nil {
			return nil, err
		}
	}
	return adv, nil
}

func (s *scoringService) persistReset(ctx context.Context, tx *sql.Tx, t *models.Tournament, reset *brackets.ResetResult) error {
	for _, m := range reset.Uncompleted {
		if err := s.matchRepo.Uncomplete(ctx, tx, m.ID); err != nil {
			return err
		}
	}
	for _, m := range reset.ClearedSlots {
		if err := s.matchRepo.UpdateSlots(ctx, tx, m.ID, m.TeamA, m.TeamB, m.PlayerAID, m.PlayerBID); err != nil {
			return err
		}
	}
	for _, id := range reset.StatMatchIDs {
		if err := s.statSync.ReverseMatch(ctx, tx, id); err != nil {
			return err
		}
	}
	if reset.StatusReverted {
		if err := s.tournamentRepo.UpdateStatus(ctx, tx, t.ID, t.Status); err != nil {
			return err
		}
	}
	return nil
}

// matchStarted reports whether any play was recorded for the match. The
// undo cascade may only pull teams out of downstream matches that have not
// started.
func (s *scoringService) matchStarted(ctx context.Context, tx *sql.Tx) func(*models.Match) bool {
	return func(m *models.Match) bool {
		if m.Completed {
			return true
		}
		var started bool
		var err error
		switch m.SportType {
		case models.SportCricket:
			started, err = s.cricketRepo.MatchHasBallEvents(ctx, tx, m.ID)
		case models.SportFootball:
			started, err = s.footballRepo.MatchHasEvents(ctx, tx, m.ID)
		default:
			return false
		}
		if err != nil {
			s.logger.Error("failed to check whether match started, treating as started",
				slog.Int("match_id", m.ID), slog.Any("error", err))
			return true
		}
		return started
	}
}

func mapBracketErr(err error) error {
	switch {
	case errors.Is(err, brackets.ErrMatchNotInTree):
		return ErrMatchNotFound
	case errors.Is(err, brackets.ErrMatchNotCompleted):
		return ErrMatchNotCompleted
	case errors.Is(err, brackets.ErrNoWinner):
		return ErrTiedScoreNotAllowed
	default:
		return err
	}
}

// opponentLabel names the fixture for a StatEntry.
func opponentLabel(m *models.Match) string {
	return fmt.Sprintf("%s vs %s", m.TeamA, m.TeamB)
}

func roomForMatch(m *models.Match) string {
	if m.TournamentID != nil {
		return fmt.Sprintf("tournament:%d", *m.TournamentID)
	}
	return fmt.Sprintf("match:%d", m.ID)
}

// afterScoreChange pushes live updates and notifications once the
// transaction is committed. Failures here are logged, never surfaced: the
// score change itself is already durable.
func (s *scoringService) afterScoreChange(ctx context.Context, caller Caller, res *ScoreResult) {
	if res == nil {
		return
	}
	m := res.Match
	s.hub.BroadcastToRoom(roomForMatch(m), brackets.MsgMatchUpdated, m)
	if res.AdvancedTo != nil || len(res.ClearedMatches) > 0 {
		s.hub.BroadcastToRoom(roomForMatch(m), brackets.MsgBracketUpdated, res)
	}
	if res.TournamentStatus != nil {
		s.hub.BroadcastToRoom(roomForMatch(m), brackets.MsgTournamentUpdated, res.TournamentStatus)
	}

	if m.CreatedBy != caller.UserID {
		title := fmt.Sprintf("Score recorded: %s", opponentLabel(m))
		s.notifier.Notify(ctx, m.CreatedBy, models.NotificationScoreRecorded, title, "")
	}

	if res.TournamentStatus != nil && *res.TournamentStatus == models.TournamentCompleted && m.TournamentID != nil {
		s.archiveTournament(ctx, *m.TournamentID)
	}
}

// archiveTournament uploads the final scorecard bundle to object storage
// and records the key. Best effort: the tournament is complete either way.
func (s *scoringService) archiveTournament(ctx context.Context, tournamentID int) {
	if s.archiver == nil {
		return
	}
	t, err := s.tournamentRepo.GetByID(ctx, s.db, tournamentID)
	if err != nil {
		s.logger.Error("failed to load tournament for archiving", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}
	matches, err := s.matchRepo.ListByTournament(ctx, s.db, tournamentID)
	if err != nil {
		s.logger.Error("failed to load matches for archiving", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}
	for _, m := range matches {
		t.Matches = append(t.Matches, *m)
	}

	key, err := s.archiver.ArchiveScorecard(ctx, t)
	if err != nil {
		s.logger.Error("failed to archive tournament scorecard", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}
	if err := s.tournamentRepo.UpdateArchiveKey(ctx, s.db, tournamentID, key); err != nil {
		s.logger.Error("failed to record scorecard archive key", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return
	}
	s.logger.Info("tournament scorecard archived", slog.Int("tournament_id", tournamentID), slog.String("key", key))
}
