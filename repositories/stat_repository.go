package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Gintoki006/Sportify-sub001/models"
)

var (
	ErrStatEntryNotFound = errors.New("stat entry not found")
	ErrGoalNotFound      = errors.New("goal not found")
)

type StatRepository interface {
	// ExistsForMatchProfile backs the stat-sync idempotence check.
	ExistsForMatchProfile(ctx context.Context, exec SQLExecutor, matchID, sportProfileID int) (bool, error)
	CreateEntry(ctx context.Context, exec SQLExecutor, e *models.StatEntry) error
	// DeleteEntriesByMatch removes every entry tied to the match and
	// returns the deleted rows so their goal contributions can be
	// reversed.
	DeleteEntriesByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.StatEntry, error)

	ListGoalsByProfile(ctx context.Context, exec SQLExecutor, sportProfileID int) ([]models.Goal, error)
	UpdateGoalProgress(ctx context.Context, exec SQLExecutor, id int, current float64, completed bool) error
}

type postgresStatRepository struct{}

func NewPostgresStatRepository() StatRepository {
	return &postgresStatRepository{}
}

func (r *postgresStatRepository) ExistsForMatchProfile(ctx context.Context, exec SQLExecutor, matchID, sportProfileID int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM stat_entries WHERE match_id = $1 AND sport_profile_id = $2)`

	var exists bool
	if err := exec.QueryRowContext(ctx, query, matchID, sportProfileID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check stat entry existence: %w", err)
	}
	return exists, nil
}

func (r *postgresStatRepository) CreateEntry(ctx context.Context, exec SQLExecutor, e *models.StatEntry) error {
	metrics, err := json.Marshal(e.Metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal stat metrics: %w", err)
	}

	query := `
		INSERT INTO stat_entries (sport_profile_id, match_id, date, opponent, metrics, source)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	if err := exec.QueryRowContext(ctx, query,
		e.SportProfileID, e.MatchID, e.Date, e.Opponent, metrics, e.Source,
	).Scan(&e.ID); err != nil {
		return fmt.Errorf("failed to insert stat entry: %w", err)
	}
	return nil
}

func (r *postgresStatRepository) DeleteEntriesByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]models.StatEntry, error) {
	query := `
		DELETE FROM stat_entries WHERE match_id = $1
		RETURNING id, sport_profile_id, match_id, date, opponent, metrics, source`

	rows, err := exec.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete stat entries for match %d: %w", matchID, err)
	}
	defer rows.Close()

	entries := make([]models.StatEntry, 0)
	for rows.Next() {
		var e models.StatEntry
		var metrics []byte
		if err := rows.Scan(&e.ID, &e.SportProfileID, &e.MatchID, &e.Date, &e.Opponent, &metrics, &e.Source); err != nil {
			return nil, fmt.Errorf("failed to scan deleted stat entry: %w", err)
		}
		if err := json.Unmarshal(metrics, &e.Metrics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stat metrics: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *postgresStatRepository) ListGoalsByProfile(ctx context.Context, exec SQLExecutor, sportProfileID int) ([]models.Goal, error) {
	query := `
		SELECT id, sport_profile_id, metric, target, current, completed, deadline
		FROM goals WHERE sport_profile_id = $1 ORDER BY id ASC`

	rows, err := exec.QueryContext(ctx, query, sportProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals for profile %d: %w", sportProfileID, err)
	}
	defer rows.Close()

	goals := make([]models.Goal, 0)
	for rows.Next() {
		var g models.Goal
		var deadline sql.NullTime
		if err := rows.Scan(&g.ID, &g.SportProfileID, &g.Metric, &g.Target, &g.Current, &g.Completed, &deadline); err != nil {
			return nil, fmt.Errorf("failed to scan goal row: %w", err)
		}
		if deadline.Valid {
			t := deadline.Time
			g.Deadline = &t
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *postgresStatRepository) UpdateGoalProgress(ctx context.Context, exec SQLExecutor, id int, current float64, completed bool) error {
	result, err := exec.ExecContext(ctx, `UPDATE goals SET current = $1, completed = $2 WHERE id = $3`, current, completed, id)
	if err != nil {
		return fmt.Errorf("failed to update goal %d progress: %w", id, err)
	}
	return checkAffectedRows(result, ErrGoalNotFound)
}
