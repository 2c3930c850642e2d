package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Gintoki006/Sportify-sub001/models"
	"github.com/Gintoki006/Sportify-sub001/repositories"
)

// CreateMatchInput creates a standalone match outside any bracket.
type CreateMatchInput struct {
	TeamA     string           `json:"team_a"`
	TeamB     string           `json:"team_b"`
	SportType models.SportType `json:"sport_type"`
	PlayerAID *int             `json:"player_a_id,omitempty"`
	PlayerBID *int             `json:"player_b_id,omitempty"`
}

// InningsDetail is one innings with its scorecard entries.
type InningsDetail struct {
	Innings *models.CricketInnings `json:"innings"`
	Batting []models.BattingEntry  `json:"batting"`
	Bowling []models.BowlingEntry  `json:"bowling"`
}

// MatchDetail is a match with its sport-specific live data attached.
type MatchDetail struct {
	Match    *models.Match                `json:"match"`
	Innings  []InningsDetail              `json:"innings,omitempty"`
	Football *models.FootballMatch        `json:"football,omitempty"`
	Players  []models.FootballPlayerEntry `json:"players,omitempty"`
	Events   []models.FootballEvent       `json:"events,omitempty"`
}

type MatchService interface {
	CreateStandalone(ctx context.Context, caller Caller, in CreateMatchInput) (*models.Match, error)
	Get(ctx context.Context, matchID int) (*MatchDetail, error)
	Delete(ctx context.Context, caller Caller, matchID int) error
}

type matchService struct {
	db           *sql.DB
	matchRepo    repositories.MatchRepository
	cricketRepo  repositories.CricketRepository
	footballRepo repositories.FootballRepository
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	cricketRepo repositories.CricketRepository,
	footballRepo repositories.FootballRepository,
) MatchService {
	return &matchService{
		db:           db,
		matchRepo:    matchRepo,
		cricketRepo:  cricketRepo,
		footballRepo: footballRepo,
	}
}

func (s *matchService) CreateStandalone(ctx context.Context, caller Caller, in CreateMatchInput) (*models.Match, error) {
	if err := Require(caller.Role, ActionEnterScores); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.TeamA) == "" || strings.TrimSpace(in.TeamB) == "" {
		return nil, errors.New("both side names are required")
	}
	if !validSport(in.SportType) {
		return nil, ErrInvalidStatus
	}

	m := &models.Match{
		TeamA:        strings.TrimSpace(in.TeamA),
		TeamB:        strings.TrimSpace(in.TeamB),
		PlayerAID:    in.PlayerAID,
		PlayerBID:    in.PlayerBID,
		SportType:    in.SportType,
		IsStandalone: true,
		CreatedBy:    caller.UserID,
	}
	if err := s.matchRepo.Create(ctx, s.db, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *matchService) Get(ctx context.Context, matchID int) (*MatchDetail, error) {
	m, err := s.matchRepo.GetByID(ctx, s.db, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	detail := &MatchDetail{Match: m}
	switch m.SportType {
	case models.SportCricket:
		if err := s.attachCricket(ctx, detail); err != nil {
			return nil, err
		}
	case models.SportFootball:
		if err := s.attachFootball(ctx, detail); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

func (s *matchService) attachCricket(ctx context.Context, detail *MatchDetail) error {
	innings, err := s.cricketRepo.ListInningsByMatch(ctx, s.db, detail.Match.ID)
	if err != nil {
		return err
	}

	details := make([]InningsDetail, len(innings))
	g, gctx := errgroup.WithContext(ctx)
	for i, in := range innings {
		i, in := i, in
		g.Go(func() error {
			batting, err := s.cricketRepo.ListBattingEntries(gctx, s.db, in.ID)
			if err != nil {
				return err
			}
			bowling, err := s.cricketRepo.ListBowlingEntries(gctx, s.db, in.ID)
			if err != nil {
				return err
			}
			details[i] = InningsDetail{Innings: in, Batting: batting, Bowling: bowling}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	detail.Innings = details
	return nil
}

func (s *matchService) attachFootball(ctx context.Context, detail *MatchDetail) error {
	fm, err := s.footballRepo.GetByMatchID(ctx, s.db, detail.Match.ID)
	if err != nil {
		// A football match without live-scoring setup is still a valid
		// match; the detail view just has no live data.
		if errors.Is(err, repositories.ErrFootballNotFound) {
			return nil
		}
		return err
	}
	detail.Football = fm

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail.Players, err = s.footballRepo.ListPlayerEntries(gctx, s.db, fm.ID)
		return err
	})
	g.Go(func() error {
		var err error
		detail.Events, err = s.footballRepo.ListEvents(gctx, s.db, fm.ID)
		return err
	})
	return g.Wait()
}

func (s *matchService) Delete(ctx context.Context, caller Caller, matchID int) error {
	if err := Require(caller.Role, ActionDeleteTournament); err != nil {
		return err
	}
	m, err := s.matchRepo.GetByID(ctx, s.db, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return err
	}
	// Bracket matches are deleted with their tournament, never one by one.
	if !m.IsStandalone {
		return ErrForbiddenOperation
	}
	return s.matchRepo.Delete(ctx, s.db, matchID)
}
