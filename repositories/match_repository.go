package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Gintoki006/Sportify-sub001/models"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	// ErrMatchAlreadyCompleted is returned when the atomic completion
	// update hits a match another request finished first.
	ErrMatchAlreadyCompleted = errors.New("match is already completed")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, m *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error)
	// CompleteIfPending sets scores and the completed flag in one
	// conditional update; it fails with ErrMatchAlreadyCompleted when the
	// match was completed concurrently.
	CompleteIfPending(ctx context.Context, exec SQLExecutor, id, scoreA, scoreB int) error
	Uncomplete(ctx context.Context, exec SQLExecutor, id int) error
	// SetScores writes the running score of a live, not yet completed match.
	SetScores(ctx context.Context, exec SQLExecutor, id, scoreA, scoreB int) error
	UpdateSlots(ctx context.Context, exec SQLExecutor, id int, teamA, teamB string, playerAID, playerBID *int) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresMatchRepository struct{}

func NewPostgresMatchRepository() MatchRepository {
	return &postgresMatchRepository{}
}

const matchColumns = `id, tournament_id, round, order_in_round, team_a, team_b,
	player_a_id, player_b_id, score_a, score_b, completed, sport_type,
	is_standalone, created_by, created_at`

func scanMatch(row interface{ Scan(...interface{}) error }, m *models.Match) error {
	return row.Scan(
		&m.ID, &m.TournamentID, &m.Round, &m.OrderInRound, &m.TeamA, &m.TeamB,
		&m.PlayerAID, &m.PlayerBID, &m.ScoreA, &m.ScoreB, &m.Completed,
		&m.SportType, &m.IsStandalone, &m.CreatedBy, &m.CreatedAt,
	)
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		INSERT INTO matches
			(tournament_id, round, order_in_round, team_a, team_b,
			 player_a_id, player_b_id, sport_type, is_standalone, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		m.TournamentID, m.Round, m.OrderInRound, m.TeamA, m.TeamB,
		m.PlayerAID, m.PlayerBID, m.SportType, m.IsStandalone, m.CreatedBy,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	m := &models.Match{}
	if err := scanMatch(exec.QueryRowContext(ctx, query, id), m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE tournament_id = $1
		ORDER BY round ASC, order_in_round ASC`

	rows, err := exec.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m := &models.Match{}
		if err := scanMatch(rows, m); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) CompleteIfPending(ctx context.Context, exec SQLExecutor, id, scoreA, scoreB int) error {
	query := `
		UPDATE matches SET score_a = $1, score_b = $2, completed = true
		WHERE id = $3 AND completed = false`

	result, err := exec.ExecContext(ctx, query, scoreA, scoreB, id)
	if err != nil {
		return fmt.Errorf("failed to complete match %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		// Zero rows means either no such match or a lost race; tell them
		// apart so the caller can surface a conflict, not a 404.
		if _, getErr := r.GetByID(ctx, exec, id); getErr != nil {
			return getErr
		}
		return ErrMatchAlreadyCompleted
	}
	return nil
}

func (r *postgresMatchRepository) Uncomplete(ctx context.Context, exec SQLExecutor, id int) error {
	query := `UPDATE matches SET score_a = NULL, score_b = NULL, completed = false WHERE id = $1`
	result, err := exec.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to uncomplete match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SetScores(ctx context.Context, exec SQLExecutor, id, scoreA, scoreB int) error {
	query := `UPDATE matches SET score_a = $1, score_b = $2 WHERE id = $3 AND completed = false`
	result, err := exec.ExecContext(ctx, query, scoreA, scoreB, id)
	if err != nil {
		return fmt.Errorf("failed to set scores for match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateSlots(ctx context.Context, exec SQLExecutor, id int, teamA, teamB string, playerAID, playerBID *int) error {
	query := `UPDATE matches SET team_a = $1, team_b = $2, player_a_id = $3, player_b_id = $4 WHERE id = $5`
	result, err := exec.ExecContext(ctx, query, teamA, teamB, playerAID, playerBID, id)
	if err != nil {
		return fmt.Errorf("failed to update slots for match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := exec.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
