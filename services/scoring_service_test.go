package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Gintoki006/Sportify-sub001/brackets"
	"github.com/Gintoki006/Sportify-sub001/cricket"
	"github.com/Gintoki006/Sportify-sub001/models"
	"github.com/Gintoki006/Sportify-sub001/repositories"
)

// nopDriver backs the transaction wrapper in tests: transactions begin,
// commit and roll back without a database, while all data access goes
// through in-memory fake repositories.
type nopDriver struct{}

func (nopDriver) Open(string) (driver.Conn, error) { return nopConn{}, nil }

type nopConn struct{}

func (nopConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("no statements") }
func (nopConn) Close() error                        { return nil }
func (nopConn) Begin() (driver.Tx, error)           { return nopTx{}, nil }

type nopTx struct{}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

var (
	testDBOnce sync.Once
	testDB     *sql.DB
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	testDBOnce.Do(func() {
		sql.Register("nop", nopDriver{})
		testDB, _ = sql.Open("nop", "")
	})
	if testDB == nil {
		t.Fatal("opening test database")
	}
	return testDB
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeMatchRepository struct {
	matches map[int]*models.Match
	nextID  int
}

func newFakeMatchRepository(matches ...*models.Match) *fakeMatchRepository {
	f := &fakeMatchRepository{matches: make(map[int]*models.Match)}
	for _, m := range matches {
		f.matches[m.ID] = m
		if m.ID > f.nextID {
			f.nextID = m.ID
		}
	}
	return f
}

func (f *fakeMatchRepository) Create(_ context.Context, _ repositories.SQLExecutor, m *models.Match) error {
	f.nextID++
	m.ID = f.nextID
	f.matches[m.ID] = m
	return nil
}

func (f *fakeMatchRepository) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return m, nil
}

func (f *fakeMatchRepository) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range f.matches {
		if m.TournamentID != nil && *m.TournamentID == tournamentID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMatchRepository) CompleteIfPending(_ context.Context, _ repositories.SQLExecutor, id, scoreA, scoreB int) error {
	m, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if m.Completed {
		return repositories.ErrMatchAlreadyCompleted
	}
	m.ScoreA, m.ScoreB, m.Completed = &scoreA, &scoreB, true
	return nil
}

func (f *fakeMatchRepository) Uncomplete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	m, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.ScoreA, m.ScoreB, m.Completed = nil, nil, false
	return nil
}

func (f *fakeMatchRepository) SetScores(_ context.Context, _ repositories.SQLExecutor, id, scoreA, scoreB int) error {
	m, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.ScoreA, m.ScoreB = &scoreA, &scoreB
	return nil
}

func (f *fakeMatchRepository) UpdateSlots(_ context.Context, _ repositories.SQLExecutor, id int, teamA, teamB string, playerAID, playerBID *int) error {
	m, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.TeamA, m.TeamB = teamA, teamB
	m.PlayerAID, m.PlayerBID = playerAID, playerBID
	return nil
}

func (f *fakeMatchRepository) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	delete(f.matches, id)
	return nil
}

type fakeCricketRepository struct {
	innings []*models.CricketInnings
	batting map[int][]models.BattingEntry
	bowling map[int][]models.BowlingEntry
	balls   map[int][]models.BallEvent
	nextID  int
}

func newFakeCricketRepository(innings ...*models.CricketInnings) *fakeCricketRepository {
	f := &fakeCricketRepository{
		batting: make(map[int][]models.BattingEntry),
		bowling: make(map[int][]models.BowlingEntry),
		balls:   make(map[int][]models.BallEvent),
	}
	for _, in := range innings {
		f.innings = append(f.innings, in)
		if in.ID > f.nextID {
			f.nextID = in.ID
		}
	}
	return f
}

func (f *fakeCricketRepository) CreateInnings(_ context.Context, _ repositories.SQLExecutor, in *models.CricketInnings) error {
	for _, existing := range f.innings {
		if existing.MatchID == in.MatchID && existing.InningsNumber == in.InningsNumber {
			return repositories.ErrInningsConflict
		}
	}
	f.nextID++
	in.ID = f.nextID
	f.innings = append(f.innings, in)
	return nil
}

func (f *fakeCricketRepository) GetInningsByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.CricketInnings, error) {
	for _, in := range f.innings {
		if in.ID == id {
			return in, nil
		}
	}
	return nil, repositories.ErrInningsNotFound
}

func (f *fakeCricketRepository) ListInningsByMatch(_ context.Context, _ repositories.SQLExecutor, matchID int) ([]*models.CricketInnings, error) {
	var out []*models.CricketInnings
	for _, in := range f.innings {
		if in.MatchID == matchID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (f *fakeCricketRepository) LatestTouchedInnings(_ context.Context, _ repositories.SQLExecutor, matchID int) (*models.CricketInnings, error) {
	var latest *models.CricketInnings
	for _, in := range f.innings {
		if in.MatchID == matchID && len(f.balls[in.ID]) > 0 {
			latest = in
		}
	}
	if latest == nil {
		return nil, repositories.ErrInningsNotFound
	}
	return latest, nil
}

func (f *fakeCricketRepository) UpdateInningsTotals(_ context.Context, _ repositories.SQLExecutor, _ *models.CricketInnings) error {
	return nil
}

func (f *fakeCricketRepository) SetInningsComplete(_ context.Context, _ repositories.SQLExecutor, id int, complete bool) error {
	for _, in := range f.innings {
		if in.ID == id {
			in.IsComplete = complete
			return nil
		}
	}
	return repositories.ErrInningsNotFound
}

func (f *fakeCricketRepository) ReplaceBattingEntries(_ context.Context, _ repositories.SQLExecutor, inningsID int, entries []models.BattingEntry) error {
	f.batting[inningsID] = entries
	return nil
}

func (f *fakeCricketRepository) ReplaceBowlingEntries(_ context.Context, _ repositories.SQLExecutor, inningsID int, entries []models.BowlingEntry) error {
	f.bowling[inningsID] = entries
	return nil
}

func (f *fakeCricketRepository) ListBattingEntries(_ context.Context, _ repositories.SQLExecutor, inningsID int) ([]models.BattingEntry, error) {
	return f.batting[inningsID], nil
}

func (f *fakeCricketRepository) ListBowlingEntries(_ context.Context, _ repositories.SQLExecutor, inningsID int) ([]models.BowlingEntry, error) {
	return f.bowling[inningsID], nil
}

func (f *fakeCricketRepository) AppendBallEvent(_ context.Context, _ repositories.SQLExecutor, ev *models.BallEvent) error {
	f.balls[ev.InningsID] = append(f.balls[ev.InningsID], *ev)
	return nil
}

func (f *fakeCricketRepository) ListBallEvents(_ context.Context, _ repositories.SQLExecutor, inningsID int) ([]models.BallEvent, error) {
	return f.balls[inningsID], nil
}

func (f *fakeCricketRepository) DeleteBallEvent(_ context.Context, _ repositories.SQLExecutor, id uuid.UUID) error {
	for inningsID, events := range f.balls {
		for i, ev := range events {
			if ev.ID == id {
				f.balls[inningsID] = append(events[:i], events[i+1:]...)
				return nil
			}
		}
	}
	return repositories.ErrBallEventNotFound
}

func (f *fakeCricketRepository) MatchHasBallEvents(_ context.Context, _ repositories.SQLExecutor, matchID int) (bool, error) {
	for _, in := range f.innings {
		if in.MatchID == matchID && len(f.balls[in.ID]) > 0 {
			return true, nil
		}
	}
	return false, nil
}

type fakeFootballRepository struct {
	football map[int]*models.FootballMatch
	players  map[int][]models.FootballPlayerEntry
	events   map[int][]models.FootballEvent
	nextID   int
}

func newFakeFootballRepository(matches ...*models.FootballMatch) *fakeFootballRepository {
	f := &fakeFootballRepository{
		football: make(map[int]*models.FootballMatch),
		players:  make(map[int][]models.FootballPlayerEntry),
		events:   make(map[int][]models.FootballEvent),
	}
	for _, fm := range matches {
		f.football[fm.ID] = fm
		if fm.ID > f.nextID {
			f.nextID = fm.ID
		}
	}
	return f
}

func (f *fakeFootballRepository) Create(_ context.Context, _ repositories.SQLExecutor, fm *models.FootballMatch) error {
	for _, existing := range f.football {
		if existing.MatchID == fm.MatchID {
			return repositories.ErrFootballConflict
		}
	}
	f.nextID++
	fm.ID = f.nextID
	f.football[fm.ID] = fm
	return nil
}

func (f *fakeFootballRepository) GetByMatchID(_ context.Context, _ repositories.SQLExecutor, matchID int) (*models.FootballMatch, error) {
	for _, fm := range f.football {
		if fm.MatchID == matchID {
			return fm, nil
		}
	}
	return nil, repositories.ErrFootballNotFound
}

func (f *fakeFootballRepository) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.FootballStatus, periodStartedAt *time.Time) error {
	fm, ok := f.football[id]
	if !ok {
		return repositories.ErrFootballNotFound
	}
	fm.Status = status
	fm.PeriodStartedAt = periodStartedAt
	return nil
}

func (f *fakeFootballRepository) UpdateScores(_ context.Context, _ repositories.SQLExecutor, fm *models.FootballMatch) error {
	if _, ok := f.football[fm.ID]; !ok {
		return repositories.ErrFootballNotFound
	}
	f.football[fm.ID] = fm
	return nil
}

func (f *fakeFootballRepository) ReplacePlayerEntries(_ context.Context, _ repositories.SQLExecutor, footballID int, entries []models.FootballPlayerEntry) error {
	f.players[footballID] = entries
	return nil
}

func (f *fakeFootballRepository) ListPlayerEntries(_ context.Context, _ repositories.SQLExecutor, footballID int) ([]models.FootballPlayerEntry, error) {
	return f.players[footballID], nil
}

func (f *fakeFootballRepository) AppendEvents(_ context.Context, _ repositories.SQLExecutor, events []models.FootballEvent) error {
	for _, ev := range events {
		f.events[ev.FootballID] = append(f.events[ev.FootballID], ev)
	}
	return nil
}

func (f *fakeFootballRepository) ListEvents(_ context.Context, _ repositories.SQLExecutor, footballID int) ([]models.FootballEvent, error) {
	return f.events[footballID], nil
}

func (f *fakeFootballRepository) DeleteEvents(_ context.Context, _ repositories.SQLExecutor, ids []uuid.UUID) error {
	for footballID, events := range f.events {
		var kept []models.FootballEvent
		for _, ev := range events {
			deleted := false
			for _, id := range ids {
				if ev.ID == id {
					deleted = true
					break
				}
			}
			if !deleted {
				kept = append(kept, ev)
			}
		}
		f.events[footballID] = kept
	}
	return nil
}

func (f *fakeFootballRepository) MatchHasEvents(_ context.Context, _ repositories.SQLExecutor, matchID int) (bool, error) {
	for _, fm := range f.football {
		if fm.MatchID == matchID && len(f.events[fm.ID]) > 0 {
			return true, nil
		}
	}
	return false, nil
}

func newScoringFixture(t *testing.T, matchRepo *fakeMatchRepository) *scoringService {
	t.Helper()
	return &scoringService{
		db:        openTestDB(t),
		matchRepo: matchRepo,
		hub:       brackets.NewHub(discardLogger()),
		logger:    discardLogger(),
		now:       func() time.Time { return time.Date(2026, 8, 1, 15, 0, 0, 0, time.UTC) },
	}
}

func TestSubmitScoreRejectsTournamentTie(t *testing.T) {
	tid := 1
	m := &models.Match{ID: 5, TournamentID: &tid, TeamA: "A", TeamB: "B", SportType: models.SportFootball, CreatedBy: 7}
	svc := newScoringFixture(t, newFakeMatchRepository(m))

	caller := Caller{UserID: 7, Role: models.RoleAdmin}
	_, err := svc.SubmitScore(context.Background(), caller, m.ID, SubmitScoreInput{ScoreA: 2, ScoreB: 2})
	if !errors.Is(err, ErrTiedScoreNotAllowed) {
		t.Fatalf("SubmitScore error = %v, want ErrTiedScoreNotAllowed", err)
	}
	if m.Completed {
		t.Error("tied tournament match was completed")
	}
}

func TestSubmitScoreAllowsStandaloneTie(t *testing.T) {
	m := &models.Match{ID: 5, TeamA: "A", TeamB: "B", SportType: models.SportFootball, IsStandalone: true, CreatedBy: 7}
	svc := newScoringFixture(t, newFakeMatchRepository(m))

	caller := Caller{UserID: 7, Role: models.RoleAdmin}
	res, err := svc.SubmitScore(context.Background(), caller, m.ID, SubmitScoreInput{ScoreA: 2, ScoreB: 2})
	if err != nil {
		t.Fatalf("SubmitScore: %v", err)
	}
	if !res.Match.Completed {
		t.Error("standalone match not completed")
	}
	if res.Match.ScoreA == nil || *res.Match.ScoreA != 2 || res.Match.ScoreB == nil || *res.Match.ScoreB != 2 {
		t.Errorf("scores = %v-%v, want 2-2", res.Match.ScoreA, res.Match.ScoreB)
	}
}

func TestChangeFootballStatusRejectsTournamentDraw(t *testing.T) {
	tid := 1
	m := &models.Match{ID: 5, TournamentID: &tid, TeamA: "A", TeamB: "B", SportType: models.SportFootball, CreatedBy: 7}
	fm := &models.FootballMatch{ID: 1, MatchID: m.ID, Status: models.FootballFullTime, HalfDuration: 45}

	svc := newScoringFixture(t, newFakeMatchRepository(m))
	svc.footballRepo = newFakeFootballRepository(fm)

	caller := Caller{UserID: 7, Role: models.RoleAdmin}
	_, err := svc.ChangeFootballStatus(context.Background(), caller, m.ID, models.FootballCompleted)
	if !errors.Is(err, ErrTiedScoreNotAllowed) {
		t.Fatalf("ChangeFootballStatus error = %v, want ErrTiedScoreNotAllowed", err)
	}
	if m.Completed {
		t.Error("drawn tournament match was completed")
	}
}

func TestStartInningsSecondNeedsCompletedFirst(t *testing.T) {
	m := &models.Match{ID: 5, TeamA: "A", TeamB: "B", SportType: models.SportCricket, IsStandalone: true, CreatedBy: 7}
	first := &models.CricketInnings{ID: 1, MatchID: m.ID, InningsNumber: 1, BattingTeamName: "A", BowlingTeamName: "B"}

	svc := newScoringFixture(t, newFakeMatchRepository(m))
	svc.cricketRepo = newFakeCricketRepository(first)

	caller := Caller{UserID: 7, Role: models.RoleAdmin}
	in := StartInningsInput{
		BattingTeamName: "B",
		BowlingTeamName: "A",
		BattingLineup:   []cricket.LineupSlot{{PlayerName: "Dev"}, {PlayerName: "Arjun"}},
		BowlingLineup:   []cricket.LineupSlot{{PlayerName: "Kiran"}},
	}

	_, err := svc.StartInnings(context.Background(), caller, m.ID, in)
	if !errors.Is(err, ErrFirstInningsNotDone) {
		t.Fatalf("StartInnings error = %v, want ErrFirstInningsNotDone", err)
	}

	first.IsComplete = true
	card, err := svc.StartInnings(context.Background(), caller, m.ID, in)
	if err != nil {
		t.Fatalf("StartInnings after first innings closed: %v", err)
	}
	if card.Innings.InningsNumber != 2 {
		t.Errorf("innings number = %d, want 2", card.Innings.InningsNumber)
	}
}
