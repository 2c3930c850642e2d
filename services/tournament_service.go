package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Gintoki006/Sportify-sub001/brackets"
	"github.com/Gintoki006/Sportify-sub001/models"
	"github.com/Gintoki006/Sportify-sub001/repositories"
	"github.com/Gintoki006/Sportify-sub001/storage"
)

// SeedInput is one first-round slot: a team or, for individual sports, a
// named player with an optional linked profile.
type SeedInput struct {
	Name     string `json:"name"`
	PlayerID *int   `json:"player_id,omitempty"`
}

// CreateTournamentInput carries everything needed to create a tournament
// and seed its full bracket in one call.
type CreateTournamentInput struct {
	ClubID    int              `json:"club_id"`
	Name      string           `json:"name"`
	SportType models.SportType `json:"sport_type"`
	Seeds     []SeedInput      `json:"seeds"`
}

type TournamentService interface {
	Create(ctx context.Context, caller Caller, in CreateTournamentInput) (*models.Tournament, error)
	// Get returns the tournament with its full bracket.
	Get(ctx context.Context, id int) (*models.Tournament, error)
	ListByClub(ctx context.Context, clubID int) ([]*models.Tournament, error)
	Rename(ctx context.Context, caller Caller, id int, name string) (*models.Tournament, error)
	Delete(ctx context.Context, caller Caller, id int) error
}

type tournamentService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	hub            *brackets.Hub
	archiver       storage.ScorecardArchiver
	logger         *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	hub *brackets.Hub,
	archiver storage.ScorecardArchiver,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:             db,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		hub:            hub,
		archiver:       archiver,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, caller Caller, in CreateTournamentInput) (*models.Tournament, error) {
	if err := Require(caller.Role, ActionEditTournament); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("tournament name is required")
	}
	if !validSport(in.SportType) {
		return nil, ErrInvalidStatus
	}
	if !brackets.SizeValid(len(in.Seeds)) {
		return nil, ErrInvalidBracketSize
	}

	t := &models.Tournament{
		ClubID:      in.ClubID,
		Name:        strings.TrimSpace(in.Name),
		SportType:   in.SportType,
		BracketSize: len(in.Seeds),
		Status:      models.TournamentUpcoming,
		CreatedBy:   caller.UserID,
	}

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.tournamentRepo.Create(ctx, tx, t); err != nil {
			if errors.Is(err, repositories.ErrTournamentNameConflict) {
				return fmt.Errorf("%w: %q", repositories.ErrTournamentNameConflict, t.Name)
			}
			return err
		}

		names := make([]string, len(in.Seeds))
		for i, seed := range in.Seeds {
			names[i] = seed.Name
		}
		matches, err := brackets.SeedMatches(t, names)
		if err != nil {
			return err
		}
		// Linked player ids ride along on the first round of individual
		// sports; later rounds receive them through bracket advancement.
		if t.SportType.Individual() {
			for _, m := range matches {
				if m.Round != 1 {
					continue
				}
				i := m.OrderInRound * 2
				m.PlayerAID = in.Seeds[i].PlayerID
				m.PlayerBID = in.Seeds[i+1].PlayerID
			}
		}
		for _, m := range matches {
			m.CreatedBy = caller.UserID
			if err := s.matchRepo.Create(ctx, tx, m); err != nil {
				return err
			}
			t.Matches = append(t.Matches, *m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tournament created",
		slog.Int("tournament_id", t.ID),
		slog.String("sport", string(t.SportType)),
		slog.Int("bracket_size", t.BracketSize))
	return t, nil
}

func (s *tournamentService) Get(ctx context.Context, id int) (*models.Tournament, error) {
	var t *models.Tournament
	var matches []*models.Match

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		t, err = s.tournamentRepo.GetByID(gctx, s.db, id)
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gctx, s.db, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, m := range matches {
		t.Matches = append(t.Matches, *m)
	}
	return t, nil
}

func (s *tournamentService) ListByClub(ctx context.Context, clubID int) ([]*models.Tournament, error) {
	return s.tournamentRepo.ListByClub(ctx, s.db, clubID)
}

func (s *tournamentService) Rename(ctx context.Context, caller Caller, id int, name string) (*models.Tournament, error) {
	if err := Require(caller.Role, ActionEditTournament); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("tournament name is required")
	}

	t, err := s.tournamentRepo.GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	t.Name = strings.TrimSpace(name)
	if err := s.tournamentRepo.Rename(ctx, s.db, id, t.Name); err != nil {
		return nil, err
	}

	s.hub.BroadcastToRoom(fmt.Sprintf("tournament:%d", id), brackets.MsgTournamentUpdated, t)
	return t, nil
}

func (s *tournamentService) Delete(ctx context.Context, caller Caller, id int) error {
	if err := Require(caller.Role, ActionDeleteTournament); err != nil {
		return err
	}

	t, err := s.tournamentRepo.GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}
	// A live tournament has scoring state hanging off its matches; it must
	// be reset match by match before it can be removed.
	if t.Status == models.TournamentInProgress {
		return ErrTournamentInProgress
	}

	if err := s.tournamentRepo.Delete(ctx, s.db, id); err != nil {
		return err
	}

	// Archive removal is best effort; the tournament rows are already gone.
	if t.ArchiveKey != nil && s.archiver != nil {
		if err := s.archiver.DeleteScorecard(ctx, *t.ArchiveKey); err != nil {
			s.logger.Error("failed to delete archived scorecard",
				slog.String("key", *t.ArchiveKey), slog.Any("error", err))
		}
	}

	s.logger.Info("tournament deleted", slog.Int("tournament_id", id), slog.Int("by_user", caller.UserID))
	return nil
}

func validSport(st models.SportType) bool {
	switch st {
	case models.SportCricket, models.SportFootball, models.SportBadminton, models.SportTennis:
		return true
	}
	return false
}
