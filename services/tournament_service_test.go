package services

import (
	"context"
	"testing"

	"github.com/Gintoki006/Sportify-sub001/brackets"
	"github.com/Gintoki006/Sportify-sub001/models"
	"github.com/Gintoki006/Sportify-sub001/repositories"
)

type fakeTournamentRepository struct {
	tournaments map[int]*models.Tournament
	nextID      int
}

func newFakeTournamentRepository(tournaments ...*models.Tournament) *fakeTournamentRepository {
	f := &fakeTournamentRepository{tournaments: make(map[int]*models.Tournament)}
	for _, t := range tournaments {
		f.tournaments[t.ID] = t
		if t.ID > f.nextID {
			f.nextID = t.ID
		}
	}
	return f
}

func (f *fakeTournamentRepository) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	for _, existing := range f.tournaments {
		if existing.ClubID == t.ClubID && existing.Name == t.Name {
			return repositories.ErrTournamentNameConflict
		}
	}
	f.nextID++
	t.ID = f.nextID
	f.tournaments[t.ID] = t
	return nil
}

func (f *fakeTournamentRepository) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Tournament, error) {
	t, ok := f.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return t, nil
}

func (f *fakeTournamentRepository) ListByClub(_ context.Context, _ repositories.SQLExecutor, clubID int) ([]*models.Tournament, error) {
	var out []*models.Tournament
	for _, t := range f.tournaments {
		if t.ClubID == clubID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTournamentRepository) Rename(_ context.Context, _ repositories.SQLExecutor, id int, name string) error {
	t, ok := f.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Name = name
	return nil
}

func (f *fakeTournamentRepository) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	t, ok := f.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	return nil
}

func (f *fakeTournamentRepository) UpdateArchiveKey(_ context.Context, _ repositories.SQLExecutor, id int, key string) error {
	t, ok := f.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.ArchiveKey = &key
	return nil
}

func (f *fakeTournamentRepository) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := f.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	delete(f.tournaments, id)
	return nil
}

type fakeArchiver struct {
	deleted []string
}

func (f *fakeArchiver) ArchiveScorecard(_ context.Context, t *models.Tournament) (string, error) {
	return "scorecards/test.json", nil
}

func (f *fakeArchiver) DeleteScorecard(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func findRoundMatch(t *testing.T, matches []models.Match, round, order int) *models.Match {
	t.Helper()
	for i := range matches {
		if matches[i].Round == round && matches[i].OrderInRound == order {
			return &matches[i]
		}
	}
	t.Fatalf("no match at round %d order %d", round, order)
	return nil
}

func TestCreateSeedsPlayerIDsForIndividualSport(t *testing.T) {
	svc := NewTournamentService(openTestDB(t), newFakeTournamentRepository(), newFakeMatchRepository(), brackets.NewHub(discardLogger()), nil, discardLogger())

	p1, p2, p3, p4 := 11, 22, 33, 44
	in := CreateTournamentInput{
		ClubID:    1,
		Name:      "Club Open",
		SportType: models.SportTennis,
		Seeds: []SeedInput{
			{Name: "Meera", PlayerID: &p1},
			{Name: "Ravi", PlayerID: &p2},
			{Name: "Sana", PlayerID: &p3},
			{Name: "Vikram", PlayerID: &p4},
		},
	}
	caller := Caller{UserID: 7, Role: models.RoleAdmin}
	tour, err := svc.Create(context.Background(), caller, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(tour.Matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(tour.Matches))
	}

	first := findRoundMatch(t, tour.Matches, 1, 0)
	if first.PlayerAID == nil || *first.PlayerAID != p1 || first.PlayerBID == nil || *first.PlayerBID != p2 {
		t.Errorf("first pairing player ids = %v/%v, want %d/%d", first.PlayerAID, first.PlayerBID, p1, p2)
	}
	second := findRoundMatch(t, tour.Matches, 1, 1)
	if second.PlayerAID == nil || *second.PlayerAID != p3 || second.PlayerBID == nil || *second.PlayerBID != p4 {
		t.Errorf("second pairing player ids = %v/%v, want %d/%d", second.PlayerAID, second.PlayerBID, p3, p4)
	}
	final := findRoundMatch(t, tour.Matches, 2, 0)
	if final.PlayerAID != nil || final.PlayerBID != nil {
		t.Errorf("final player ids = %v/%v, want unset until advancement", final.PlayerAID, final.PlayerBID)
	}
}

func TestCreateTwoPlayerBracket(t *testing.T) {
	svc := NewTournamentService(openTestDB(t), newFakeTournamentRepository(), newFakeMatchRepository(), brackets.NewHub(discardLogger()), nil, discardLogger())

	p1, p2 := 11, 22
	in := CreateTournamentInput{
		ClubID:    1,
		Name:      "Singles Final",
		SportType: models.SportBadminton,
		Seeds:     []SeedInput{{Name: "Meera", PlayerID: &p1}, {Name: "Ravi", PlayerID: &p2}},
	}
	tour, err := svc.Create(context.Background(), Caller{UserID: 7, Role: models.RoleAdmin}, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(tour.Matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(tour.Matches))
	}
	m := tour.Matches[0]
	if m.PlayerAID == nil || *m.PlayerAID != p1 || m.PlayerBID == nil || *m.PlayerBID != p2 {
		t.Errorf("player ids = %v/%v, want %d/%d", m.PlayerAID, m.PlayerBID, p1, p2)
	}
}

func TestDeleteRemovesArchivedScorecard(t *testing.T) {
	key := "scorecards/tournament_3.json"
	tour := &models.Tournament{ID: 3, ClubID: 1, Name: "Winter Cup", Status: models.TournamentCompleted, ArchiveKey: &key}
	repo := newFakeTournamentRepository(tour)
	archiver := &fakeArchiver{}
	svc := NewTournamentService(openTestDB(t), repo, newFakeMatchRepository(), brackets.NewHub(discardLogger()), archiver, discardLogger())

	if err := svc.Delete(context.Background(), Caller{UserID: 7, Role: models.RoleAdmin}, tour.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := repo.tournaments[tour.ID]; ok {
		t.Error("tournament still present after delete")
	}
	if len(archiver.deleted) != 1 || archiver.deleted[0] != key {
		t.Errorf("deleted archive keys = %v, want [%s]", archiver.deleted, key)
	}
}
