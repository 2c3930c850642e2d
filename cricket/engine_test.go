package cricket

import (
	"testing"

	"github.com/Gintoki006/Sportify-sub001/models"
)

func lineup(names ...string) []LineupSlot {
	slots := make([]LineupSlot, 0, len(names))
	for _, n := range names {
		slots = append(slots, LineupSlot{PlayerName: n})
	}
	return slots
}

func ball(batsman, bowler string, runs int) models.BallEvent {
	return models.BallEvent{BatsmanName: batsman, BowlerName: bowler, RunsScored: runs}
}

func extraBall(batsman, bowler string, extra models.ExtraType, extraRuns int) models.BallEvent {
	return models.BallEvent{BatsmanName: batsman, BowlerName: bowler, ExtraType: &extra, ExtraRuns: extraRuns}
}

func wicketBall(batsman, bowler string, dismissal models.DismissalType) models.BallEvent {
	return models.BallEvent{BatsmanName: batsman, BowlerName: bowler, IsWicket: true, DismissalType: &dismissal}
}

func findBatting(t *testing.T, st State, name string) models.BattingEntry {
	t.Helper()
	for _, e := range st.Batting {
		if e.PlayerName == name {
			return e
		}
	}
	t.Fatalf("no batting entry for %s", name)
	return models.BattingEntry{}
}

func findBowling(t *testing.T, st State, name string) models.BowlingEntry {
	t.Helper()
	for _, e := range st.Bowling {
		if e.PlayerName == name {
			return e
		}
	}
	t.Fatalf("no bowling entry for %s", name)
	return models.BowlingEntry{}
}

func TestFoldSeedsLineup(t *testing.T) {
	st := Fold(lineup("Kohli", "Sharma"), lineup("Starc"), nil)

	if len(st.Batting) != 2 || len(st.Bowling) != 1 {
		t.Fatalf("seeded %d batting, %d bowling entries", len(st.Batting), len(st.Bowling))
	}
	for _, e := range st.Batting {
		if !e.InLineup {
			t.Errorf("lineup batsman %s not marked in lineup", e.PlayerName)
		}
	}
	if st.Batting[0].BattingOrder != 1 || st.Batting[1].BattingOrder != 2 {
		t.Errorf("batting order = %d, %d, want 1, 2", st.Batting[0].BattingOrder, st.Batting[1].BattingOrder)
	}
}

func TestFoldStrikeRate(t *testing.T) {
	events := make([]models.BallEvent, 0, 30)
	// 45 runs off 30 balls: alternate singles and twos, then boundary filler.
	runs := []int{4, 4, 4, 4, 4, 4, 4, 4, 4, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	total := 0
	for _, r := range runs {
		events = append(events, ball("Kohli", "Starc", r))
		total += r
	}
	for len(events) < 30 {
		events = append(events, ball("Kohli", "Starc", 0))
	}

	st := Fold(lineup("Kohli", "Sharma"), lineup("Starc"), events)
	bat := findBatting(t, st, "Kohli")
	if bat.Runs != total || bat.BallsFaced != 30 {
		t.Fatalf("batsman has %d runs off %d balls, want %d off 30", bat.Runs, bat.BallsFaced, total)
	}
	if bat.StrikeRate != 150.0 {
		t.Errorf("strike rate = %v, want 150.0", bat.StrikeRate)
	}
	if bat.Fours != 9 {
		t.Errorf("fours = %d, want 9", bat.Fours)
	}
}

func TestFoldEconomy(t *testing.T) {
	// 24 runs conceded over 4.0 overs = 6.0.
	events := make([]models.BallEvent, 0, 24)
	for i := 0; i < 24; i++ {
		events = append(events, ball("Kohli", "Starc", 1))
	}

	st := Fold(lineup("Kohli", "Sharma"), lineup("Starc"), events)
	bowl := findBowling(t, st, "Starc")
	if bowl.OversBowled.TotalBalls() != 24 {
		t.Fatalf("balls bowled = %d, want 24", bowl.OversBowled.TotalBalls())
	}
	if bowl.Economy != 6.0 {
		t.Errorf("economy = %v, want 6.0", bowl.Economy)
	}
}

func TestFoldWideDoesNotCountBallFaced(t *testing.T) {
	st := Fold(lineup("Kohli", "Sharma"), lineup("Starc"), []models.BallEvent{
		extraBall("Kohli", "Starc", models.ExtraWide, 1),
		ball("Kohli", "Starc", 2),
	})

	bat := findBatting(t, st, "Kohli")
	if bat.BallsFaced != 1 {
		t.Errorf("balls faced = %d, want 1 (wide excluded)", bat.BallsFaced)
	}
	if st.TotalRuns != 3 {
		t.Errorf("total runs = %d, want 3", st.TotalRuns)
	}
	if st.Extras != 1 {
		t.Errorf("extras = %d, want 1", st.Extras)
	}
	if st.TotalOvers.TotalBalls() != 1 {
		t.Errorf("legal balls = %d, want 1", st.TotalOvers.TotalBalls())
	}
	bowl := findBowling(t, st, "Starc")
	if bowl.Wides != 1 {
		t.Errorf("wides = %d, want 1", bowl.Wides)
	}
}

func TestFoldByesNotConcededToBowler(t *testing.T) {
	st := Fold(lineup("Kohli", "Sharma"), lineup("Starc"), []models.BallEvent{
		extraBall("Kohli", "Starc", models.ExtraBye, 4),
		extraBall("Kohli", "Starc", models.ExtraLegBye, 1),
	})

	bowl := findBowling(t, st, "Starc")
	if bowl.RunsConceded != 0 {
		t.Errorf("runs conceded = %d, want 0 (byes excluded)", bowl.RunsConceded)
	}
	if st.TotalRuns != 5 {
		t.Errorf("total runs = %d, want 5", st.TotalRuns)
	}
	if st.Extras != 5 {
		t.Errorf("extras = %d, want 5", st.Extras)
	}
}

func TestFoldMaidenOver(t *testing.T) {
	events := make([]models.BallEvent, 0, 6)
	for i := 0; i < 6; i++ {
		events = append(events, ball("Kohli", "Starc", 0))
	}

	st := Fold(lineup("Kohli", "Sharma"), lineup("Starc"), events)
	bowl := findBowling(t, st, "Starc")
	if bowl.Maidens != 1 {
		t.Errorf("maidens = %d, want 1", bowl.Maidens)
	}
}

func TestFoldWicketCredits(t *testing.T) {
	st := Fold(lineup("Kohli", "Sharma"), lineup("Starc"), []models.BallEvent{
		wicketBall("Kohli", "Starc", models.DismissalBowled),
		wicketBall("Sharma", "Starc", models.DismissalRunOut),
	})

	if st.TotalWickets != 2 {
		t.Fatalf("total wickets = %d, want 2", st.TotalWickets)
	}
	bowl := findBowling(t, st, "Starc")
	if bowl.Wickets != 1 {
		t.Errorf("bowler wickets = %d, want 1 (run out not credited)", bowl.Wickets)
	}

	kohli := findBatting(t, st, "Kohli")
	if !kohli.IsOut || kohli.BowlerName == nil || *kohli.BowlerName != "Starc" {
		t.Errorf("dismissed batsman entry = %+v", kohli)
	}
	sharma := findBatting(t, st, "Sharma")
	if sharma.BowlerName != nil {
		t.Errorf("run out should not record a bowler, got %q", *sharma.BowlerName)
	}
}

func TestFoldRetiredNotAWicket(t *testing.T) {
	st := Fold(lineup("Kohli", "Sharma"), lineup("Starc"), []models.BallEvent{
		wicketBall("Kohli", "Starc", models.DismissalRetired),
	})
	if st.TotalWickets != 0 {
		t.Errorf("total wickets = %d, want 0 for retired", st.TotalWickets)
	}
	if findBatting(t, st, "Kohli").IsOut {
		t.Error("retired batsman marked out")
	}
}

func TestFoldLazyBatsmanAppended(t *testing.T) {
	st := Fold(lineup("Kohli", "Sharma"), lineup("Starc"), []models.BallEvent{
		ball("Gill", "Starc", 4),
	})

	gill := findBatting(t, st, "Gill")
	if gill.InLineup {
		t.Error("lazily created batsman marked as lineup entry")
	}
	if gill.BattingOrder != 3 {
		t.Errorf("incoming batsman order = %d, want 3", gill.BattingOrder)
	}
}

func TestFoldUndoByRefold(t *testing.T) {
	events := []models.BallEvent{
		ball("Kohli", "Starc", 4),
		ball("Kohli", "Starc", 6),
		wicketBall("Kohli", "Starc", models.DismissalCaught),
	}

	full := Fold(lineup("Kohli", "Sharma"), lineup("Starc"), events)
	if full.TotalWickets != 1 {
		t.Fatalf("wickets before undo = %d, want 1", full.TotalWickets)
	}

	undone := Fold(lineup("Kohli", "Sharma"), lineup("Starc"), events[:len(events)-1])
	if undone.TotalWickets != 0 {
		t.Errorf("wickets after undo = %d, want 0", undone.TotalWickets)
	}
	if undone.TotalRuns != 10 {
		t.Errorf("runs after undo = %d, want 10", undone.TotalRuns)
	}
	if findBatting(t, undone, "Kohli").IsOut {
		t.Error("batsman still out after undoing the dismissal")
	}
}

func TestNextBall(t *testing.T) {
	over, ballNo := NextBall(models.Overs{Overs: 2, Balls: 3})
	if over != 3 || ballNo != 4 {
		t.Errorf("NextBall(2.3) = %d.%d, want 3.4", over, ballNo)
	}
	over, ballNo = NextBall(models.Overs{})
	if over != 1 || ballNo != 1 {
		t.Errorf("NextBall(0.0) = %d.%d, want 1.1", over, ballNo)
	}
}

func TestDeliveryValidate(t *testing.T) {
	dismissal := models.DismissalBowled
	badExtra := models.ExtraType("overthrow")

	tests := []struct {
		name    string
		d       Delivery
		wantErr bool
	}{
		{"plain", Delivery{BatsmanName: "A", BowlerName: "B", RunsScored: 2}, false},
		{"missing names", Delivery{RunsScored: 1}, true},
		{"negative runs", Delivery{BatsmanName: "A", BowlerName: "B", RunsScored: -1}, true},
		{"wicket without dismissal", Delivery{BatsmanName: "A", BowlerName: "B", IsWicket: true}, true},
		{"wicket with dismissal", Delivery{BatsmanName: "A", BowlerName: "B", IsWicket: true, DismissalType: &dismissal}, false},
		{"unknown extra", Delivery{BatsmanName: "A", BowlerName: "B", ExtraType: &badExtra}, true},
	}
	for _, tt := range tests {
		if err := tt.d.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}
