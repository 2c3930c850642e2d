package football

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Gintoki006/Sportify-sub001/models"
)

func setup(names ...string) []PlayerSetup {
	players := make([]PlayerSetup, 0, len(names))
	for _, n := range names {
		players = append(players, PlayerSetup{PlayerName: n})
	}
	return players
}

func goalEvent(team models.Team, period models.FootballStatus, scorer string) models.FootballEvent {
	return models.FootballEvent{
		ID:         uuid.New(),
		EventType:  models.EventGoal,
		Period:     period,
		Team:       &team,
		PlayerName: &scorer,
	}
}

func findPlayer(t *testing.T, st State, name string, team models.Team) models.FootballPlayerEntry {
	t.Helper()
	for _, p := range st.Players {
		if p.PlayerName == name && p.Team == team {
			return p
		}
	}
	t.Fatalf("no entry for %s on team %s", name, team)
	return models.FootballPlayerEntry{}
}

func TestValidateSetup(t *testing.T) {
	id := 7
	if err := ValidateSetup(setup("A1"), setup("B1")); err != nil {
		t.Errorf("valid setup rejected: %v", err)
	}
	if err := ValidateSetup(nil, setup("B1")); err == nil {
		t.Error("empty side accepted")
	}
	dup := []PlayerSetup{{PlayerName: "A1", PlayerID: &id}, {PlayerName: "A2", PlayerID: &id}}
	if err := ValidateSetup(dup, setup("B1")); err == nil {
		t.Error("duplicate player id accepted")
	}
}

func TestFoldScoresByPeriod(t *testing.T) {
	st := Fold(setup("A1"), setup("B1"), []models.FootballEvent{
		goalEvent(models.TeamA, models.FootballFirstHalf, "A1"),
		goalEvent(models.TeamB, models.FootballSecondHalf, "B1"),
		goalEvent(models.TeamA, models.FootballExtraTimeFirst, "A1"),
	})

	sc := st.Scores
	if sc.HalfTimeA != 1 || sc.HalfTimeB != 0 {
		t.Errorf("half time = %d-%d, want 1-0", sc.HalfTimeA, sc.HalfTimeB)
	}
	if sc.FullTimeA() != 1 || sc.FullTimeB() != 1 {
		t.Errorf("full time = %d-%d, want 1-1", sc.FullTimeA(), sc.FullTimeB())
	}
	if sc.ExtraTimeA != 1 {
		t.Errorf("extra time A = %d, want 1", sc.ExtraTimeA)
	}
	if got := findPlayer(t, st, "A1", models.TeamA).Goals; got != 2 {
		t.Errorf("scorer goals = %d, want 2", got)
	}
}

func TestFoldOwnGoalCreditsOpposition(t *testing.T) {
	team := models.TeamA
	player := "A1"
	st := Fold(setup("A1"), setup("B1"), []models.FootballEvent{{
		ID:         uuid.New(),
		EventType:  models.EventOwnGoal,
		Period:     models.FootballFirstHalf,
		Team:       &team,
		PlayerName: &player,
	}})

	if st.Scores.HalfTimeB != 1 || st.Scores.HalfTimeA != 0 {
		t.Errorf("own goal score = %d-%d, want 0-1", st.Scores.HalfTimeA, st.Scores.HalfTimeB)
	}
	if got := findPlayer(t, st, "A1", models.TeamA).Goals; got != 0 {
		t.Errorf("own goal credited to scorer: %d goals", got)
	}
}

func TestFoldPenaltyInsideAndOutsideShootout(t *testing.T) {
	team := models.TeamA
	player := "A1"
	inPlay := models.FootballEvent{
		ID: uuid.New(), EventType: models.EventPenaltyScored,
		Period: models.FootballSecondHalf, Team: &team, PlayerName: &player,
	}
	shootout := models.FootballEvent{
		ID: uuid.New(), EventType: models.EventPenaltyScored,
		Period: models.FootballPenalties, Team: &team, PlayerName: &player,
	}

	st := Fold(setup("A1"), setup("B1"), []models.FootballEvent{inPlay, shootout})
	if st.Scores.SecondHalfA != 1 {
		t.Errorf("in-play penalty goal = %d, want 1", st.Scores.SecondHalfA)
	}
	if st.Scores.PenaltyA != 1 {
		t.Errorf("shootout tally = %d, want 1", st.Scores.PenaltyA)
	}
	if got := findPlayer(t, st, "A1", models.TeamA).Goals; got != 1 {
		t.Errorf("scorer goals = %d, want 1 (shootout kick excluded)", got)
	}
}

func TestFoldSubstitution(t *testing.T) {
	team := models.TeamA
	in, out := "A2", "A1"
	starting := false
	st := Fold(
		[]PlayerSetup{{PlayerName: "A1"}, {PlayerName: "A2", IsStarting: &starting}},
		setup("B1"),
		[]models.FootballEvent{{
			ID: uuid.New(), EventType: models.EventSubstitution,
			Period: models.FootballSecondHalf, Minute: 60,
			Team: &team, PlayerName: &in, AssistPlayerName: &out,
		}},
	)

	a1 := findPlayer(t, st, "A1", models.TeamA)
	if a1.MinuteSubbedOut == nil || *a1.MinuteSubbedOut != 60 {
		t.Errorf("subbed-out minute = %v, want 60", a1.MinuteSubbedOut)
	}
	a2 := findPlayer(t, st, "A2", models.TeamA)
	if a2.MinuteSubbedIn == nil || *a2.MinuteSubbedIn != 60 {
		t.Errorf("subbed-in minute = %v, want 60", a2.MinuteSubbedIn)
	}
}

func TestBuildEventsKickOff(t *testing.T) {
	fm := &models.FootballMatch{ID: 1, Status: models.FootballNotStarted}
	events, err := BuildEvents(fm, State{}, EventInput{EventType: models.EventKickOff}, time.Now())
	if err != nil {
		t.Fatalf("kick-off rejected: %v", err)
	}
	if len(events) != 1 || events[0].Period != models.FootballFirstHalf {
		t.Errorf("kick-off events = %+v", events)
	}

	fm.Status = models.FootballFirstHalf
	if _, err := BuildEvents(fm, State{}, EventInput{EventType: models.EventKickOff}, time.Now()); err == nil {
		t.Error("second kick-off accepted")
	}
}

func TestBuildEventsRejectsInactivePeriod(t *testing.T) {
	team := models.TeamA
	fm := &models.FootballMatch{ID: 1, Status: models.FootballHalfTime}
	_, err := BuildEvents(fm, State{}, EventInput{EventType: models.EventGoal, Team: &team}, time.Now())
	if err == nil {
		t.Error("goal accepted during half time")
	}
}

func TestBuildEventsSecondYellowSynthesizesRed(t *testing.T) {
	team := models.TeamA
	player := "A1"
	fm := &models.FootballMatch{ID: 1, Status: models.FootballSecondHalf}
	in := EventInput{EventType: models.EventYellowCard, Minute: 70, Team: &team, PlayerName: &player}

	current := Fold(setup("A1"), setup("B1"), []models.FootballEvent{{
		ID: uuid.New(), EventType: models.EventYellowCard,
		Period: models.FootballFirstHalf, Team: &team, PlayerName: &player,
	}})

	events, err := BuildEvents(fm, current, in, time.Now())
	if err != nil {
		t.Fatalf("second yellow rejected: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want yellow plus automatic red", len(events))
	}
	red := events[1]
	if red.EventType != models.EventRedCard {
		t.Fatalf("second event type = %s, want red_card", red.EventType)
	}
	if red.CausedBy == nil || *red.CausedBy != events[0].ID {
		t.Errorf("automatic red not linked to its yellow: %v", red.CausedBy)
	}
}

func TestBuildEventsFirstYellowAlone(t *testing.T) {
	team := models.TeamA
	player := "A1"
	fm := &models.FootballMatch{ID: 1, Status: models.FootballFirstHalf}
	in := EventInput{EventType: models.EventYellowCard, Team: &team, PlayerName: &player}

	events, err := BuildEvents(fm, Fold(setup("A1"), setup("B1"), nil), in, time.Now())
	if err != nil {
		t.Fatalf("yellow rejected: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("got %d events for a first yellow, want 1", len(events))
	}
}

func TestUndo(t *testing.T) {
	if _, err := Undo(nil); err == nil {
		t.Error("undo on empty log accepted")
	}

	yellowID := uuid.New()
	redID := uuid.New()
	events := []models.FootballEvent{
		{ID: yellowID, EventType: models.EventYellowCard},
		{ID: redID, EventType: models.EventRedCard, CausedBy: &yellowID},
	}
	ids, err := Undo(events)
	if err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != redID || ids[1] != yellowID {
		t.Errorf("undo ids = %v, want [%v %v]", ids, redID, yellowID)
	}

	marker := []models.FootballEvent{{ID: uuid.New(), EventType: models.EventHalfTime}}
	if _, err := Undo(marker); err == nil {
		t.Error("period marker undo accepted")
	}
}
