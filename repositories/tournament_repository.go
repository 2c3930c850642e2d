package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Gintoki006/Sportify-sub001/models"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name already exists in this club")
)

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	ListByClub(ctx context.Context, exec SQLExecutor, clubID int) ([]*models.Tournament, error)
	Rename(ctx context.Context, exec SQLExecutor, id int, name string) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	UpdateArchiveKey(ctx context.Context, exec SQLExecutor, id int, key string) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresTournamentRepository struct{}

func NewPostgresTournamentRepository() TournamentRepository {
	return &postgresTournamentRepository{}
}

const tournamentColumns = `id, club_id, name, sport_type, bracket_size, status, created_by, created_at, archive_key`

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (club_id, name, sport_type, bracket_size, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		t.ClubID, t.Name, t.SportType, t.BracketSize, t.Status, t.CreatedBy,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Constraint == "tournaments_club_id_name_key" {
			return ErrTournamentNameConflict
		}
		return fmt.Errorf("failed to insert tournament: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t := &models.Tournament{}
	err := exec.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.ClubID, &t.Name, &t.SportType, &t.BracketSize, &t.Status,
		&t.CreatedBy, &t.CreatedAt, &t.ArchiveKey,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) ListByClub(ctx context.Context, exec SQLExecutor, clubID int) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE club_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := exec.QueryContext(ctx, query, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments for club %d: %w", clubID, err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t := &models.Tournament{}
		if err := rows.Scan(
			&t.ID, &t.ClubID, &t.Name, &t.SportType, &t.BracketSize, &t.Status,
			&t.CreatedBy, &t.CreatedAt, &t.ArchiveKey,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) Rename(ctx context.Context, exec SQLExecutor, id int, name string) error {
	result, err := exec.ExecContext(ctx, `UPDATE tournaments SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Constraint == "tournaments_club_id_name_key" {
			return ErrTournamentNameConflict
		}
		return fmt.Errorf("failed to rename tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	result, err := exec.ExecContext(ctx, `UPDATE tournaments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament %d status: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateArchiveKey(ctx context.Context, exec SQLExecutor, id int, key string) error {
	result, err := exec.ExecContext(ctx, `UPDATE tournaments SET archive_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return fmt.Errorf("failed to update tournament %d archive key: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := exec.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
