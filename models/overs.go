package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Overs counts cricket overs as an explicit pair: completed overs plus legal
// balls into the current over (0..5). The familiar "12.4" notation is base-6
// in its fractional digit, so it is never stored as a float.
type Overs struct {
	Overs int `json:"overs"`
	Balls int `json:"balls"`
}

// OversFromBalls converts a legal-ball count into the overs pair.
func OversFromBalls(balls int) Overs {
	if balls < 0 {
		balls = 0
	}
	return Overs{Overs: balls / 6, Balls: balls % 6}
}

// TotalBalls is the inverse of OversFromBalls.
func (o Overs) TotalBalls() int {
	return o.Overs*6 + o.Balls
}

// Decimal renders the scoreboard notation as a number, e.g. 12.4. It is
// display-only; arithmetic on it would be wrong.
func (o Overs) Decimal() float64 {
	return float64(o.Overs) + float64(o.Balls)/10
}

// TrueOvers is the mathematically exact over count (balls/6), the right
// denominator for economy rates.
func (o Overs) TrueOvers() float64 {
	return float64(o.TotalBalls()) / 6
}

func (o Overs) String() string {
	return fmt.Sprintf("%d.%d", o.Overs, o.Balls)
}

// MarshalJSON emits the scoreboard notation, e.g. 12.4 for 12 overs and 4
// balls.
func (o Overs) MarshalJSON() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalJSON accepts both the scoreboard notation (12.4) and a bare over
// count (12).
func (o *Overs) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	whole, frac, found := strings.Cut(s, ".")
	overs, err := strconv.Atoi(whole)
	if err != nil {
		return fmt.Errorf("invalid overs value %q: %w", s, err)
	}
	balls := 0
	if found {
		balls, err = strconv.Atoi(frac)
		if err != nil {
			return fmt.Errorf("invalid overs value %q: %w", s, err)
		}
	}
	if balls < 0 || balls > 5 {
		return fmt.Errorf("invalid ball count in overs value %q", s)
	}
	*o = Overs{Overs: overs, Balls: balls}
	return nil
}
