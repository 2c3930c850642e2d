package football

import (
	"github.com/Gintoki006/Sportify-sub001/models"
)

// Result is the outcome of finalizing a match.
type Result struct {
	ScoreA int
	ScoreB int
	// Winner is nil on a draw that was not settled by penalties.
	Winner *models.Team
}

// Finalize resolves the final score from whichever stage was last active.
// from is the status the match held before the COMPLETED transition.
func Finalize(from models.FootballStatus, sc Scores) Result {
	var res Result
	switch from {
	case models.FootballPenalties:
		// Full-time (plus extra time) score stands; the shootout only picks
		// the winner.
		res.ScoreA = sc.FullTimeA() + sc.ExtraTimeA
		res.ScoreB = sc.FullTimeB() + sc.ExtraTimeB
		switch {
		case sc.PenaltyA > sc.PenaltyB:
			t := models.TeamA
			res.Winner = &t
		case sc.PenaltyB > sc.PenaltyA:
			t := models.TeamB
			res.Winner = &t
		}
	case models.FootballExtraTimeSecond:
		res.ScoreA = sc.FullTimeA() + sc.ExtraTimeA
		res.ScoreB = sc.FullTimeB() + sc.ExtraTimeB
		res.Winner = leader(res.ScoreA, res.ScoreB)
	default:
		res.ScoreA = sc.FullTimeA()
		res.ScoreB = sc.FullTimeB()
		res.Winner = leader(res.ScoreA, res.ScoreB)
	}
	return res
}

func leader(a, b int) *models.Team {
	switch {
	case a > b:
		t := models.TeamA
		return &t
	case b > a:
		t := models.TeamB
		return &t
	}
	return nil
}

// SynthesizeStats computes each player's finalized figures and the metric
// map fed to stat sync. extraTimePlayed extends the minute budget by two
// 15-minute periods.
func SynthesizeStats(st State, res Result, halfDuration int, extraTimePlayed bool) map[string]map[string]float64 {
	total := halfDuration * 2
	if extraTimePlayed {
		total += 30
	}

	metrics := make(map[string]map[string]float64, len(st.Players))
	for i := range st.Players {
		p := &st.Players[i]
		p.MinutesPlayed = minutesPlayed(p, total)

		opponentScore := res.ScoreB
		if p.Team == models.TeamB {
			opponentScore = res.ScoreA
		}
		cleanSheet := 0.0
		if opponentScore == 0 && p.MinutesPlayed > 0 {
			cleanSheet = 1
		}

		metrics[p.PlayerName] = map[string]float64{
			"matches":         1,
			"goals":           float64(p.Goals),
			"assists":         float64(p.Assists),
			"yellow_cards":    float64(p.YellowCards),
			"red_cards":       float64(p.RedCards),
			"fouls":           float64(p.Fouls),
			"shots_on_target": float64(p.ShotsOnTarget),
			"minutes_played":  float64(p.MinutesPlayed),
			"clean_sheets":    cleanSheet,
			"corners":         float64(p.Corners),
			"offsides":        float64(p.Offsides),
		}
	}
	return metrics
}

func minutesPlayed(p *models.FootballPlayerEntry, total int) int {
	start := 0
	if !p.IsStarting {
		if p.MinuteSubbedIn == nil {
			return 0
		}
		start = *p.MinuteSubbedIn
	}
	end := total
	if p.MinuteSubbedOut != nil {
		end = *p.MinuteSubbedOut
	}
	if end < start {
		return 0
	}
	if end > total {
		end = total
	}
	return end - start
}
