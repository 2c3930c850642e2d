package brackets

import (
	"testing"

	"github.com/Gintoki006/Sportify-sub001/models"
)

// fourTeamBracket builds a seeded 4-team tree: A-B and C-D feeding a final.
func fourTeamBracket(t *testing.T) (*models.Tournament, []*models.Match, *Tree) {
	t.Helper()
	tournament := &models.Tournament{
		ID:          1,
		BracketSize: 4,
		SportType:   models.SportCricket,
		Status:      models.TournamentUpcoming,
	}
	matches, err := SeedMatches(tournament, []string{"A", "B", "C", "D"})
	if err != nil {
		t.Fatalf("seeding: %v", err)
	}
	for i, m := range matches {
		m.ID = i + 1
	}
	tree, err := Build(tournament, matches)
	if err != nil {
		t.Fatalf("building tree: %v", err)
	}
	return tournament, matches, tree
}

func complete(m *models.Match, scoreA, scoreB int) {
	m.ScoreA = &scoreA
	m.ScoreB = &scoreB
	m.Completed = true
}

func TestSizeValid(t *testing.T) {
	for _, n := range []int{2, 4, 8, 16, 32} {
		if !SizeValid(n) {
			t.Errorf("SizeValid(%d) = false", n)
		}
	}
	for _, n := range []int{0, 1, 3, 6, 12, -4} {
		if SizeValid(n) {
			t.Errorf("SizeValid(%d) = true", n)
		}
	}
}

func TestSeedMatches(t *testing.T) {
	tournament := &models.Tournament{ID: 9, BracketSize: 8, SportType: models.SportFootball}
	matches, err := SeedMatches(tournament, []string{"A", "B", "C", "D", "E", "F", "G", "H"})
	if err != nil {
		t.Fatalf("seeding: %v", err)
	}
	if len(matches) != 7 {
		t.Fatalf("got %d matches, want 7", len(matches))
	}
	if matches[0].TeamA != "A" || matches[0].TeamB != "B" {
		t.Errorf("first pairing = %s vs %s, want A vs B", matches[0].TeamA, matches[0].TeamB)
	}
	final := matches[len(matches)-1]
	if final.Round != 3 || final.TeamA != models.SlotTBD || final.TeamB != models.SlotTBD {
		t.Errorf("final = %+v, want round 3 with TBD slots", final)
	}

	if _, err := SeedMatches(tournament, []string{"A", "B"}); err == nil {
		t.Error("wrong team count accepted")
	}
}

func TestBuildRejectsWrongShape(t *testing.T) {
	tournament := &models.Tournament{ID: 1, BracketSize: 4}
	tid := tournament.ID
	matches := []*models.Match{
		{ID: 1, TournamentID: &tid, Round: 1, OrderInRound: 0},
		{ID: 2, TournamentID: &tid, Round: 2, OrderInRound: 0},
	}
	if _, err := Build(tournament, matches); err == nil {
		t.Error("half-empty round accepted")
	}

	tournament.BracketSize = 3
	if _, err := Build(tournament, nil); err == nil {
		t.Error("non power-of-two bracket size accepted")
	}
}

func TestAdvanceFillsDownstreamSlot(t *testing.T) {
	tournament, matches, tree := fourTeamBracket(t)

	complete(matches[0], 3, 1) // A beats B
	res, err := tree.Advance(matches[0].ID)
	if err != nil {
		t.Fatalf("advancing: %v", err)
	}
	final := matches[2]
	if res.UpdatedMatch != final {
		t.Fatalf("updated match = %+v, want the final", res.UpdatedMatch)
	}
	if final.TeamA != "A" || final.TeamB != models.SlotTBD {
		t.Errorf("final slots = %s vs %s, want A vs TBD", final.TeamA, final.TeamB)
	}
	if res.NewStatus == nil || *res.NewStatus != models.TournamentInProgress {
		t.Errorf("status change = %v, want in_progress", res.NewStatus)
	}
	if tournament.Status != models.TournamentInProgress {
		t.Errorf("tournament status = %s", tournament.Status)
	}
}

func TestAdvanceFinalCompletesTournament(t *testing.T) {
	tournament, matches, tree := fourTeamBracket(t)

	complete(matches[0], 2, 0)
	if _, err := tree.Advance(matches[0].ID); err != nil {
		t.Fatalf("advancing semifinal: %v", err)
	}
	complete(matches[1], 0, 1) // D wins
	if _, err := tree.Advance(matches[1].ID); err != nil {
		t.Fatalf("advancing semifinal: %v", err)
	}

	final := matches[2]
	if final.TeamA != "A" || final.TeamB != "D" {
		t.Fatalf("final pairing = %s vs %s, want A vs D", final.TeamA, final.TeamB)
	}

	complete(final, 5, 4)
	res, err := tree.Advance(final.ID)
	if err != nil {
		t.Fatalf("advancing final: %v", err)
	}
	if res.UpdatedMatch != nil {
		t.Errorf("final advanced into %+v", res.UpdatedMatch)
	}
	if res.NewStatus == nil || *res.NewStatus != models.TournamentCompleted {
		t.Errorf("status change = %v, want completed", res.NewStatus)
	}
	if tournament.Status != models.TournamentCompleted {
		t.Errorf("tournament status = %s", tournament.Status)
	}
}

func TestAdvanceRequiresWinner(t *testing.T) {
	_, matches, tree := fourTeamBracket(t)

	if _, err := tree.Advance(matches[0].ID); err == nil {
		t.Error("incomplete match advanced")
	}

	complete(matches[0], 1, 1)
	if _, err := tree.Advance(matches[0].ID); err == nil {
		t.Error("drawn match advanced")
	}
}

func TestAdvancePropagatesPlayerIDForIndividualSport(t *testing.T) {
	tournament := &models.Tournament{ID: 2, BracketSize: 4, SportType: models.SportBadminton}
	matches, err := SeedMatches(tournament, []string{"P1", "P2", "P3", "P4"})
	if err != nil {
		t.Fatalf("seeding: %v", err)
	}
	p1, p2 := 11, 22
	matches[0].PlayerAID = &p1
	matches[0].PlayerBID = &p2
	for i, m := range matches {
		m.ID = i + 1
	}
	tree, err := Build(tournament, matches)
	if err != nil {
		t.Fatalf("building tree: %v", err)
	}

	complete(matches[0], 21, 15)
	if _, err := tree.Advance(matches[0].ID); err != nil {
		t.Fatalf("advancing: %v", err)
	}
	final := matches[2]
	if final.PlayerAID == nil || *final.PlayerAID != p1 {
		t.Errorf("winner player id = %v, want %d", final.PlayerAID, p1)
	}
}

func TestResetCascadesThroughCompletedRounds(t *testing.T) {
	tournament, matches, tree := fourTeamBracket(t)

	complete(matches[0], 2, 0)
	_, _ = tree.Advance(matches[0].ID)
	complete(matches[1], 3, 1)
	_, _ = tree.Advance(matches[1].ID)
	final := matches[2]
	complete(final, 1, 0)
	_, _ = tree.Advance(final.ID)

	if tournament.Status != models.TournamentCompleted {
		t.Fatalf("setup: tournament status = %s", tournament.Status)
	}

	// Resetting the first semifinal must re-open the final too, since its
	// slot held the semifinal's winner.
	res, err := tree.Reset(matches[0].ID)
	if err != nil {
		t.Fatalf("resetting: %v", err)
	}

	if matches[0].Completed || matches[0].ScoreA != nil {
		t.Error("triggering match still completed")
	}
	if final.Completed {
		t.Error("downstream final still completed")
	}
	if final.TeamA != models.SlotTBD {
		t.Errorf("final slot A = %s, want TBD", final.TeamA)
	}
	if final.TeamB != "C" {
		t.Errorf("final slot B = %s, want C untouched", final.TeamB)
	}

	if len(res.Uncompleted) != 2 {
		t.Errorf("uncompleted %d matches, want 2", len(res.Uncompleted))
	}
	if len(res.StatMatchIDs) != 2 {
		t.Errorf("stat reversal ids = %v, want both matches", res.StatMatchIDs)
	}
	if !res.StatusReverted {
		t.Error("completed tournament status not reverted")
	}
	if tournament.Status != models.TournamentInProgress {
		t.Errorf("tournament status = %s, want in_progress", tournament.Status)
	}
}

func TestResetUnstartedStopsAtStartedMatch(t *testing.T) {
	_, matches, tree := fourTeamBracket(t)

	complete(matches[0], 2, 0)
	_, _ = tree.Advance(matches[0].ID)
	final := matches[2]

	started := func(m *models.Match) bool { return m == final }
	res, err := tree.ResetUnstarted(matches[0].ID, started)
	if err != nil {
		t.Fatalf("resetting: %v", err)
	}

	if matches[0].Completed {
		t.Error("triggering match still completed")
	}
	if final.TeamA != "A" {
		t.Errorf("started final slot cleared to %s", final.TeamA)
	}
	if len(res.ClearedSlots) != 0 {
		t.Errorf("cleared %d slots, want 0", len(res.ClearedSlots))
	}
}

func TestResetUnstartedKeepsStatusWhileFinalDecided(t *testing.T) {
	tournament, matches, tree := fourTeamBracket(t)

	complete(matches[0], 2, 0)
	_, _ = tree.Advance(matches[0].ID)
	complete(matches[1], 3, 1)
	_, _ = tree.Advance(matches[1].ID)
	final := matches[2]
	complete(final, 1, 0)
	_, _ = tree.Advance(final.ID)

	// Re-opening a semifinal after the final has been played stops at the
	// started final, so the tournament outcome still stands.
	started := func(m *models.Match) bool { return m == final }
	res, err := tree.ResetUnstarted(matches[0].ID, started)
	if err != nil {
		t.Fatalf("resetting: %v", err)
	}

	if res.StatusReverted {
		t.Error("status reverted while the final is still completed")
	}
	if tournament.Status != models.TournamentCompleted {
		t.Errorf("tournament status = %s, want completed", tournament.Status)
	}
	if !final.Completed {
		t.Error("started final was re-opened")
	}
	if matches[0].Completed {
		t.Error("triggering match still completed")
	}
}

func TestResetRequiresCompletedMatch(t *testing.T) {
	_, matches, tree := fourTeamBracket(t)
	if _, err := tree.Reset(matches[0].ID); err == nil {
		t.Error("reset of incomplete match accepted")
	}
	if _, err := tree.Reset(999); err == nil {
		t.Error("reset of unknown match accepted")
	}
}
