package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Gintoki006/Sportify-sub001/models"
	"github.com/Gintoki006/Sportify-sub001/repositories"
)

// StatSyncService turns a finalized match outcome into per-player StatEntry
// records and keeps Goal progress in step, in both directions.
type StatSyncService interface {
	// Sync creates the StatEntry for (match, profile) and advances matching
	// goals. It is idempotent: a second call for the same pair reports
	// created=false and changes nothing.
	Sync(ctx context.Context, exec repositories.SQLExecutor, matchID, sportProfileID int, opponent string, source models.StatSource, metrics map[string]float64) (created bool, err error)
	// ReverseMatch deletes every StatEntry of the match and subtracts their
	// metric contributions from the owning profiles' goals.
	ReverseMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int) error
}

type statSyncService struct {
	statRepo repositories.StatRepository
	now      func() time.Time
}

func NewStatSyncService(statRepo repositories.StatRepository) StatSyncService {
	return &statSyncService{statRepo: statRepo, now: time.Now}
}

func (s *statSyncService) Sync(ctx context.Context, exec repositories.SQLExecutor, matchID, sportProfileID int, opponent string, source models.StatSource, metrics map[string]float64) (bool, error) {
	exists, err := s.statRepo.ExistsForMatchProfile(ctx, exec, matchID, sportProfileID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	entry := &models.StatEntry{
		SportProfileID: sportProfileID,
		MatchID:        matchID,
		Date:           s.now(),
		Opponent:       opponent,
		Metrics:        metrics,
		Source:         source,
	}
	if err := s.statRepo.CreateEntry(ctx, exec, entry); err != nil {
		return false, err
	}

	if err := s.applyGoalDeltas(ctx, exec, sportProfileID, metrics, 1); err != nil {
		return false, err
	}
	return true, nil
}

func (s *statSyncService) ReverseMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int) error {
	deleted, err := s.statRepo.DeleteEntriesByMatch(ctx, exec, matchID)
	if err != nil {
		return err
	}
	for _, entry := range deleted {
		if err := s.applyGoalDeltas(ctx, exec, entry.SportProfileID, entry.Metrics, -1); err != nil {
			return fmt.Errorf("failed to reverse goals for profile %d: %w", entry.SportProfileID, err)
		}
	}
	return nil
}

// applyGoalDeltas adds sign*metrics[goal.metric] to each goal of the
// profile. Forward application skips goals that were already completed;
// reversal touches them so an undone match can re-open a goal. Current never
// drops below zero.
func (s *statSyncService) applyGoalDeltas(ctx context.Context, exec repositories.SQLExecutor, sportProfileID int, metrics map[string]float64, sign float64) error {
	goals, err := s.statRepo.ListGoalsByProfile(ctx, exec, sportProfileID)
	if err != nil {
		return err
	}
	for _, goal := range goals {
		delta, ok := metrics[goal.Metric]
		if !ok || delta == 0 {
			continue
		}
		if sign > 0 && goal.Completed {
			continue
		}
		current := goal.Current + sign*delta
		if current < 0 {
			current = 0
		}
		completed := current >= goal.Target
		if current == goal.Current && completed == goal.Completed {
			continue
		}
		if err := s.statRepo.UpdateGoalProgress(ctx, exec, goal.ID, current, completed); err != nil {
			return err
		}
	}
	return nil
}
