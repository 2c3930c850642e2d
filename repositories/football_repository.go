package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Gintoki006/Sportify-sub001/models"
)

var (
	ErrFootballNotFound      = errors.New("football match data not found")
	ErrFootballConflict      = errors.New("football match data already exists for this match")
	ErrFootballEventNotFound = errors.New("football event not found")
)

type FootballRepository interface {
	Create(ctx context.Context, exec SQLExecutor, fm *models.FootballMatch) error
	GetByMatchID(ctx context.Context, exec SQLExecutor, matchID int) (*models.FootballMatch, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.FootballStatus, periodStartedAt *time.Time) error
	UpdateScores(ctx context.Context, exec SQLExecutor, fm *models.FootballMatch) error

	ReplacePlayerEntries(ctx context.Context, exec SQLExecutor, footballID int, entries []models.FootballPlayerEntry) error
	ListPlayerEntries(ctx context.Context, exec SQLExecutor, footballID int) ([]models.FootballPlayerEntry, error)

	AppendEvents(ctx context.Context, exec SQLExecutor, events []models.FootballEvent) error
	ListEvents(ctx context.Context, exec SQLExecutor, footballID int) ([]models.FootballEvent, error)
	DeleteEvents(ctx context.Context, exec SQLExecutor, ids []uuid.UUID) error
	MatchHasEvents(ctx context.Context, exec SQLExecutor, matchID int) (bool, error)
}

type postgresFootballRepository struct{}

func NewPostgresFootballRepository() FootballRepository {
	return &postgresFootballRepository{}
}

const footballColumns = `id, match_id, status, half_duration, extra_time, penalty_shootout,
	half_time_score_a, half_time_score_b, full_time_score_a, full_time_score_b,
	extra_time_score_a, extra_time_score_b, penalty_score_a, penalty_score_b,
	period_started_at, created_at`

func (r *postgresFootballRepository) Create(ctx context.Context, exec SQLExecutor, fm *models.FootballMatch) error {
	query := `
		INSERT INTO football_matches (match_id, status, half_duration)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query, fm.MatchID, fm.Status, fm.HalfDuration).Scan(&fm.ID, &fm.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Constraint == "football_matches_match_id_key" {
			return ErrFootballConflict
		}
		return fmt.Errorf("failed to insert football match data: %w", err)
	}
	return nil
}

func (r *postgresFootballRepository) GetByMatchID(ctx context.Context, exec SQLExecutor, matchID int) (*models.FootballMatch, error) {
	query := `SELECT ` + footballColumns + ` FROM football_matches WHERE match_id = $1`

	fm := &models.FootballMatch{}
	err := exec.QueryRowContext(ctx, query, matchID).Scan(
		&fm.ID, &fm.MatchID, &fm.Status, &fm.HalfDuration, &fm.ExtraTime, &fm.PenaltyShootout,
		&fm.HalfTimeScoreA, &fm.HalfTimeScoreB, &fm.FullTimeScoreA, &fm.FullTimeScoreB,
		&fm.ExtraTimeScoreA, &fm.ExtraTimeScoreB, &fm.PenaltyScoreA, &fm.PenaltyScoreB,
		&fm.PeriodStartedAt, &fm.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFootballNotFound
		}
		return nil, fmt.Errorf("failed to scan football match data for match %d: %w", matchID, err)
	}
	return fm, nil
}

func (r *postgresFootballRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.FootballStatus, periodStartedAt *time.Time) error {
	query := `UPDATE football_matches SET status = $1, period_started_at = $2 WHERE id = $3`
	result, err := exec.ExecContext(ctx, query, status, periodStartedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update football match %d status: %w", id, err)
	}
	return checkAffectedRows(result, ErrFootballNotFound)
}

func (r *postgresFootballRepository) UpdateScores(ctx context.Context, exec SQLExecutor, fm *models.FootballMatch) error {
	query := `
		UPDATE football_matches SET
			extra_time = $1, penalty_shootout = $2,
			half_time_score_a = $3, half_time_score_b = $4,
			full_time_score_a = $5, full_time_score_b = $6,
			extra_time_score_a = $7, extra_time_score_b = $8,
			penalty_score_a = $9, penalty_score_b = $10
		WHERE id = $11`

	result, err := exec.ExecContext(ctx, query,
		fm.ExtraTime, fm.PenaltyShootout,
		fm.HalfTimeScoreA, fm.HalfTimeScoreB,
		fm.FullTimeScoreA, fm.FullTimeScoreB,
		fm.ExtraTimeScoreA, fm.ExtraTimeScoreB,
		fm.PenaltyScoreA, fm.PenaltyScoreB,
		fm.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update football match %d scores: %w", fm.ID, err)
	}
	return checkAffectedRows(result, ErrFootballNotFound)
}

func (r *postgresFootballRepository) ReplacePlayerEntries(ctx context.Context, exec SQLExecutor, footballID int, entries []models.FootballPlayerEntry) error {
	names := make([]string, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		names = append(names, e.PlayerName)
		query := `
			INSERT INTO football_player_entries
				(football_id, player_name, player_id, team, is_starting, in_lineup,
				 minute_subbed_in, minute_subbed_out, goals, assists, yellow_cards,
				 red_cards, shots_on_target, fouls, minutes_played, corners, offsides)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
			ON CONFLICT (football_id, player_name) DO UPDATE SET
				player_id = EXCLUDED.player_id,
				team = EXCLUDED.team,
				is_starting = EXCLUDED.is_starting,
				in_lineup = EXCLUDED.in_lineup,
				minute_subbed_in = EXCLUDED.minute_subbed_in,
				minute_subbed_out = EXCLUDED.minute_subbed_out,
				goals = EXCLUDED.goals,
				assists = EXCLUDED.assists,
				yellow_cards = EXCLUDED.yellow_cards,
				red_cards = EXCLUDED.red_cards,
				shots_on_target = EXCLUDED.shots_on_target,
				fouls = EXCLUDED.fouls,
				minutes_played = EXCLUDED.minutes_played,
				corners = EXCLUDED.corners,
				offsides = EXCLUDED.offsides`
		if _, err := exec.ExecContext(ctx, query,
			footballID, e.PlayerName, e.PlayerID, e.Team, e.IsStarting, e.InLineup,
			e.MinuteSubbedIn, e.MinuteSubbedOut, e.Goals, e.Assists, e.YellowCards,
			e.RedCards, e.ShotsOnTarget, e.Fouls, e.MinutesPlayed, e.Corners, e.Offsides,
		); err != nil {
			return fmt.Errorf("failed to upsert football player entry %q: %w", e.PlayerName, err)
		}
	}

	query := `DELETE FROM football_player_entries WHERE football_id = $1 AND player_name <> ALL($2)`
	if _, err := exec.ExecContext(ctx, query, footballID, pq.Array(names)); err != nil {
		return fmt.Errorf("failed to prune football player entries for %d: %w", footballID, err)
	}
	return nil
}

func (r *postgresFootballRepository) ListPlayerEntries(ctx context.Context, exec SQLExecutor, footballID int) ([]models.FootballPlayerEntry, error) {
	query := `
		SELECT id, football_id, player_name, player_id, team, is_starting, in_lineup,
		       minute_subbed_in, minute_subbed_out, goals, assists, yellow_cards,
		       red_cards, shots_on_target, fouls, minutes_played, corners, offsides
		FROM football_player_entries WHERE football_id = $1 ORDER BY id ASC`

	rows, err := exec.QueryContext(ctx, query, footballID)
	if err != nil {
		return nil, fmt.Errorf("failed to query football player entries for %d: %w", footballID, err)
	}
	defer rows.Close()

	entries := make([]models.FootballPlayerEntry, 0)
	for rows.Next() {
		var e models.FootballPlayerEntry
		if err := rows.Scan(
			&e.ID, &e.FootballID, &e.PlayerName, &e.PlayerID, &e.Team, &e.IsStarting, &e.InLineup,
			&e.MinuteSubbedIn, &e.MinuteSubbedOut, &e.Goals, &e.Assists, &e.YellowCards,
			&e.RedCards, &e.ShotsOnTarget, &e.Fouls, &e.MinutesPlayed, &e.Corners, &e.Offsides,
		); err != nil {
			return nil, fmt.Errorf("failed to scan football player entry row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

const footballEventColumns = `id, football_id, event_type, period, minute, added_time,
	player_name, assist_player_name, team, description, caused_by, created_at`

func (r *postgresFootballRepository) AppendEvents(ctx context.Context, exec SQLExecutor, events []models.FootballEvent) error {
	query := `
		INSERT INTO football_events
			(id, football_id, event_type, period, minute, added_time,
			 player_name, assist_player_name, team, description, caused_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at`

	for i := range events {
		ev := &events[i]
		err := exec.QueryRowContext(ctx, query,
			ev.ID, ev.FootballID, ev.EventType, ev.Period, ev.Minute, ev.AddedTime,
			ev.PlayerName, ev.AssistPlayerName, ev.Team, ev.Description, ev.CausedBy,
		).Scan(&ev.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert football event: %w", err)
		}
	}
	return nil
}

func (r *postgresFootballRepository) ListEvents(ctx context.Context, exec SQLExecutor, footballID int) ([]models.FootballEvent, error) {
	query := `SELECT ` + footballEventColumns + ` FROM football_events WHERE football_id = $1 ORDER BY seq ASC`

	rows, err := exec.QueryContext(ctx, query, footballID)
	if err != nil {
		return nil, fmt.Errorf("failed to query football events for %d: %w", footballID, err)
	}
	defer rows.Close()

	events := make([]models.FootballEvent, 0)
	for rows.Next() {
		var ev models.FootballEvent
		if err := rows.Scan(
			&ev.ID, &ev.FootballID, &ev.EventType, &ev.Period, &ev.Minute, &ev.AddedTime,
			&ev.PlayerName, &ev.AssistPlayerName, &ev.Team, &ev.Description, &ev.CausedBy, &ev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan football event row: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (r *postgresFootballRepository) DeleteEvents(ctx context.Context, exec SQLExecutor, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = id.String()
	}
	result, err := exec.ExecContext(ctx, `DELETE FROM football_events WHERE id = ANY($1)`, pq.Array(strIDs))
	if err != nil {
		return fmt.Errorf("failed to delete football events: %w", err)
	}
	return checkAffectedRows(result, ErrFootballEventNotFound)
}

func (r *postgresFootballRepository) MatchHasEvents(ctx context.Context, exec SQLExecutor, matchID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM football_events fe
			JOIN football_matches fm ON fm.id = fe.football_id
			WHERE fm.match_id = $1
		)`

	var exists bool
	if err := exec.QueryRowContext(ctx, query, matchID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check football events for match %d: %w", matchID, err)
	}
	return exists, nil
}
