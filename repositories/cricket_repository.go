package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Gintoki006/Sportify-sub001/models"
)

var (
	ErrInningsNotFound   = errors.New("innings not found")
	ErrInningsConflict   = errors.New("innings with this number already exists for the match")
	ErrBallEventNotFound = errors.New("ball event not found")
)

type CricketRepository interface {
	CreateInnings(ctx context.Context, exec SQLExecutor, in *models.CricketInnings) error
	GetInningsByID(ctx context.Context, exec SQLExecutor, id int) (*models.CricketInnings, error)
	ListInningsByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.CricketInnings, error)
	// LatestTouchedInnings returns the innings owning the most recent ball
	// event of the match, or ErrInningsNotFound when no balls were bowled.
	LatestTouchedInnings(ctx context.Context, exec SQLExecutor, matchID int) (*models.CricketInnings, error)
	UpdateInningsTotals(ctx context.Context, exec SQLExecutor, in *models.CricketInnings) error
	SetInningsComplete(ctx context.Context, exec SQLExecutor, id int, complete bool) error

	ReplaceBattingEntries(ctx context.Context, exec SQLExecutor, inningsID int, entries []models.BattingEntry) error
	ReplaceBowlingEntries(ctx context.Context, exec SQLExecutor, inningsID int, entries []models.BowlingEntry) error
	ListBattingEntries(ctx context.Context, exec SQLExecutor, inningsID int) ([]models.BattingEntry, error)
	ListBowlingEntries(ctx context.Context, exec SQLExecutor, inningsID int) ([]models.BowlingEntry, error)

	AppendBallEvent(ctx context.Context, exec SQLExecutor, ev *models.BallEvent) error
	ListBallEvents(ctx context.Context, exec SQLExecutor, inningsID int) ([]models.BallEvent, error)
	DeleteBallEvent(ctx context.Context, exec SQLExecutor, id uuid.UUID) error
	// MatchHasBallEvents reports whether any delivery was recorded for any
	// innings of the match.
	MatchHasBallEvents(ctx context.Context, exec SQLExecutor, matchID int) (bool, error)
}

type postgresCricketRepository struct{}

func NewPostgresCricketRepository() CricketRepository {
	return &postgresCricketRepository{}
}

const inningsColumns = `id, match_id, innings_number, batting_team_name, bowling_team_name,
	total_runs, total_wickets, total_balls, extras, is_complete, created_at`

func scanInnings(row interface{ Scan(...interface{}) error }, in *models.CricketInnings) error {
	var totalBalls int
	if err := row.Scan(
		&in.ID, &in.MatchID, &in.InningsNumber, &in.BattingTeamName, &in.BowlingTeamName,
		&in.TotalRuns, &in.TotalWickets, &totalBalls, &in.Extras, &in.IsComplete, &in.CreatedAt,
	); err != nil {
		return err
	}
	in.TotalOvers = models.OversFromBalls(totalBalls)
	return nil
}

func (r *postgresCricketRepository) CreateInnings(ctx context.Context, exec SQLExecutor, in *models.CricketInnings) error {
	query := `
		INSERT INTO cricket_innings
			(match_id, innings_number, batting_team_name, bowling_team_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		in.MatchID, in.InningsNumber, in.BattingTeamName, in.BowlingTeamName,
	).Scan(&in.ID, &in.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Constraint == "cricket_innings_match_id_innings_number_key" {
			return ErrInningsConflict
		}
		return fmt.Errorf("failed to insert innings: %w", err)
	}
	return nil
}

func (r *postgresCricketRepository) GetInningsByID(ctx context.Context, exec SQLExecutor, id int) (*models.CricketInnings, error) {
	query := `SELECT ` + inningsColumns + ` FROM cricket_innings WHERE id = $1`

	in := &models.CricketInnings{}
	if err := scanInnings(exec.QueryRowContext(ctx, query, id), in); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInningsNotFound
		}
		return nil, fmt.Errorf("failed to scan innings %d: %w", id, err)
	}
	return in, nil
}

func (r *postgresCricketRepository) ListInningsByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.CricketInnings, error) {
	query := `SELECT ` + inningsColumns + ` FROM cricket_innings WHERE match_id = $1 ORDER BY innings_number ASC`

	rows, err := exec.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query innings for match %d: %w", matchID, err)
	}
	defer rows.Close()

	list := make([]*models.CricketInnings, 0, 2)
	for rows.Next() {
		in := &models.CricketInnings{}
		if err := scanInnings(rows, in); err != nil {
			return nil, fmt.Errorf("failed to scan innings row: %w", err)
		}
		list = append(list, in)
	}
	return list, rows.Err()
}

func (r *postgresCricketRepository) LatestTouchedInnings(ctx context.Context, exec SQLExecutor, matchID int) (*models.CricketInnings, error) {
	query := `
		SELECT ` + prefixColumns("ci", inningsColumns) + `
		FROM cricket_innings ci
		JOIN ball_events be ON be.innings_id = ci.id
		WHERE ci.match_id = $1
		ORDER BY be.seq DESC
		LIMIT 1`

	in := &models.CricketInnings{}
	if err := scanInnings(exec.QueryRowContext(ctx, query, matchID), in); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInningsNotFound
		}
		return nil, fmt.Errorf("failed to scan latest touched innings for match %d: %w", matchID, err)
	}
	return in, nil
}

func (r *postgresCricketRepository) UpdateInningsTotals(ctx context.Context, exec SQLExecutor, in *models.CricketInnings) error {
	query := `
		UPDATE cricket_innings
		SET total_runs = $1, total_wickets = $2, total_balls = $3, extras = $4
		WHERE id = $5`

	result, err := exec.ExecContext(ctx, query,
		in.TotalRuns, in.TotalWickets, in.TotalOvers.TotalBalls(), in.Extras, in.ID)
	if err != nil {
		return fmt.Errorf("failed to update innings %d totals: %w", in.ID, err)
	}
	return checkAffectedRows(result, ErrInningsNotFound)
}

func (r *postgresCricketRepository) SetInningsComplete(ctx context.Context, exec SQLExecutor, id int, complete bool) error {
	result, err := exec.ExecContext(ctx, `UPDATE cricket_innings SET is_complete = $1 WHERE id = $2`, complete, id)
	if err != nil {
		return fmt.Errorf("failed to update innings %d completion: %w", id, err)
	}
	return checkAffectedRows(result, ErrInningsNotFound)
}

func (r *postgresCricketRepository) ReplaceBattingEntries(ctx context.Context, exec SQLExecutor, inningsID int, entries []models.BattingEntry) error {
	names := make([]string, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		names = append(names, e.PlayerName)
		query := `
			INSERT INTO batting_entries
				(innings_id, player_name, player_id, batting_order, in_lineup, runs, balls_faced,
				 fours, sixes, strike_rate, is_out, dismissal_type, bowler_name, fielder_name)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (innings_id, player_name) DO UPDATE SET
				player_id = EXCLUDED.player_id,
				batting_order = EXCLUDED.batting_order,
				in_lineup = EXCLUDED.in_lineup,
				runs = EXCLUDED.runs,
				balls_faced = EXCLUDED.balls_faced,
				fours = EXCLUDED.fours,
				sixes = EXCLUDED.sixes,
				strike_rate = EXCLUDED.strike_rate,
				is_out = EXCLUDED.is_out,
				dismissal_type = EXCLUDED.dismissal_type,
				bowler_name = EXCLUDED.bowler_name,
				fielder_name = EXCLUDED.fielder_name`
		if _, err := exec.ExecContext(ctx, query,
			inningsID, e.PlayerName, e.PlayerID, e.BattingOrder, e.InLineup, e.Runs, e.BallsFaced,
			e.Fours, e.Sixes, e.StrikeRate, e.IsOut, e.DismissalType, e.BowlerName, e.FielderName,
		); err != nil {
			return fmt.Errorf("failed to upsert batting entry %q: %w", e.PlayerName, err)
		}
	}

	// Entries absent from the fold result (an undone incoming batsman who
	// never faced a ball) are removed.
	query := `DELETE FROM batting_entries WHERE innings_id = $1 AND player_name <> ALL($2)`
	if _, err := exec.ExecContext(ctx, query, inningsID, pq.Array(names)); err != nil {
		return fmt.Errorf("failed to prune batting entries for innings %d: %w", inningsID, err)
	}
	return nil
}

func (r *postgresCricketRepository) ReplaceBowlingEntries(ctx context.Context, exec SQLExecutor, inningsID int, entries []models.BowlingEntry) error {
	names := make([]string, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		names = append(names, e.PlayerName)
		query := `
			INSERT INTO bowling_entries
				(innings_id, player_name, player_id, bowling_order, in_lineup, balls_bowled, maidens,
				 runs_conceded, wickets, economy, extras, no_balls, wides)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (innings_id, player_name) DO UPDATE SET
				player_id = EXCLUDED.player_id,
				bowling_order = EXCLUDED.bowling_order,
				in_lineup = EXCLUDED.in_lineup,
				balls_bowled = EXCLUDED.balls_bowled,
				maidens = EXCLUDED.maidens,
				runs_conceded = EXCLUDED.runs_conceded,
				wickets = EXCLUDED.wickets,
				economy = EXCLUDED.economy,
				extras = EXCLUDED.extras,
				no_balls = EXCLUDED.no_balls,
				wides = EXCLUDED.wides`
		if _, err := exec.ExecContext(ctx, query,
			inningsID, e.PlayerName, e.PlayerID, e.BowlingOrder, e.InLineup, e.OversBowled.TotalBalls(), e.Maidens,
			e.RunsConceded, e.Wickets, e.Economy, e.Extras, e.NoBalls, e.Wides,
		); err != nil {
			return fmt.Errorf("failed to upsert bowling entry %q: %w", e.PlayerName, err)
		}
	}

	query := `DELETE FROM bowling_entries WHERE innings_id = $1 AND player_name <> ALL($2)`
	if _, err := exec.ExecContext(ctx, query, inningsID, pq.Array(names)); err != nil {
		return fmt.Errorf("failed to prune bowling entries for innings %d: %w", inningsID, err)
	}
	return nil
}

func (r *postgresCricketRepository) ListBattingEntries(ctx context.Context, exec SQLExecutor, inningsID int) ([]models.BattingEntry, error) {
	query := `
		SELECT id, innings_id, player_name, player_id, batting_order, in_lineup, runs, balls_faced,
		       fours, sixes, strike_rate, is_out, dismissal_type, bowler_name, fielder_name
		FROM batting_entries WHERE innings_id = $1 ORDER BY batting_order ASC`

	rows, err := exec.QueryContext(ctx, query, inningsID)
	if err != nil {
		return nil, fmt.Errorf("failed to query batting entries for innings %d: %w", inningsID, err)
	}
	defer rows.Close()

	entries := make([]models.BattingEntry, 0)
	for rows.Next() {
		var e models.BattingEntry
		if err := rows.Scan(
			&e.ID, &e.InningsID, &e.PlayerName, &e.PlayerID, &e.BattingOrder, &e.InLineup, &e.Runs, &e.BallsFaced,
			&e.Fours, &e.Sixes, &e.StrikeRate, &e.IsOut, &e.DismissalType, &e.BowlerName, &e.FielderName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan batting entry row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *postgresCricketRepository) ListBowlingEntries(ctx context.Context, exec SQLExecutor, inningsID int) ([]models.BowlingEntry, error) {
	query := `
		SELECT id, innings_id, player_name, player_id, bowling_order, in_lineup, balls_bowled, maidens,
		       runs_conceded, wickets, economy, extras, no_balls, wides
		FROM bowling_entries WHERE innings_id = $1 ORDER BY bowling_order ASC`

	rows, err := exec.QueryContext(ctx, query, inningsID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bowling entries for innings %d: %w", inningsID, err)
	}
	defer rows.Close()

	entries := make([]models.BowlingEntry, 0)
	for rows.Next() {
		var e models.BowlingEntry
		var ballsBowled int
		if err := rows.Scan(
			&e.ID, &e.InningsID, &e.PlayerName, &e.PlayerID, &e.BowlingOrder, &e.InLineup, &ballsBowled, &e.Maidens,
			&e.RunsConceded, &e.Wickets, &e.Economy, &e.Extras, &e.NoBalls, &e.Wides,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bowling entry row: %w", err)
		}
		e.OversBowled = models.OversFromBalls(ballsBowled)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

const ballEventColumns = `id, innings_id, over_number, ball_number, batsman_name, bowler_name,
	runs_scored, extra_type, extra_runs, is_wicket, dismissal_type, fielder_name, commentary, created_at`

func (r *postgresCricketRepository) AppendBallEvent(ctx context.Context, exec SQLExecutor, ev *models.BallEvent) error {
	query := `
		INSERT INTO ball_events
			(id, innings_id, over_number, ball_number, batsman_name, bowler_name,
			 runs_scored, extra_type, extra_runs, is_wicket, dismissal_type,
			 fielder_name, commentary)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at`

	err := exec.QueryRowContext(ctx, query,
		ev.ID, ev.InningsID, ev.OverNumber, ev.BallNumber, ev.BatsmanName, ev.BowlerName,
		ev.RunsScored, ev.ExtraType, ev.ExtraRuns, ev.IsWicket, ev.DismissalType,
		ev.FielderName, ev.Commentary,
	).Scan(&ev.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert ball event: %w", err)
	}
	return nil
}

func (r *postgresCricketRepository) ListBallEvents(ctx context.Context, exec SQLExecutor, inningsID int) ([]models.BallEvent, error) {
	query := `SELECT ` + ballEventColumns + ` FROM ball_events WHERE innings_id = $1 ORDER BY seq ASC`

	rows, err := exec.QueryContext(ctx, query, inningsID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ball events for innings %d: %w", inningsID, err)
	}
	defer rows.Close()

	events := make([]models.BallEvent, 0)
	for rows.Next() {
		var ev models.BallEvent
		if err := rows.Scan(
			&ev.ID, &ev.InningsID, &ev.OverNumber, &ev.BallNumber, &ev.BatsmanName, &ev.BowlerName,
			&ev.RunsScored, &ev.ExtraType, &ev.ExtraRuns, &ev.IsWicket, &ev.DismissalType,
			&ev.FielderName, &ev.Commentary, &ev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ball event row: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (r *postgresCricketRepository) DeleteBallEvent(ctx context.Context, exec SQLExecutor, id uuid.UUID) error {
	result, err := exec.ExecContext(ctx, `DELETE FROM ball_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ball event %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrBallEventNotFound)
}

func (r *postgresCricketRepository) MatchHasBallEvents(ctx context.Context, exec SQLExecutor, matchID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM ball_events be
			JOIN cricket_innings ci ON ci.id = be.innings_id
			WHERE ci.match_id = $1
		)`

	var exists bool
	if err := exec.QueryRowContext(ctx, query, matchID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check ball events for match %d: %w", matchID, err)
	}
	return exists, nil
}
