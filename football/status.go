package football

import (
	"fmt"

	"github.com/Gintoki006/Sportify-sub001/models"
)

// transitions is the strict period state machine. Anything absent here is
// rejected.
var transitions = map[models.FootballStatus][]models.FootballStatus{
	models.FootballNotStarted:      {models.FootballFirstHalf},
	models.FootballFirstHalf:       {models.FootballHalfTime},
	models.FootballHalfTime:        {models.FootballSecondHalf},
	models.FootballSecondHalf:      {models.FootballFullTime},
	models.FootballFullTime:        {models.FootballExtraTimeFirst, models.FootballCompleted},
	models.FootballExtraTimeFirst:  {models.FootballExtraTimeSecond},
	models.FootballExtraTimeSecond: {models.FootballPenalties, models.FootballCompleted},
	models.FootballPenalties:       {models.FootballCompleted},
}

// CanTransition reports whether from -> to is a legal period transition.
func CanTransition(from, to models.FootballStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a descriptive error for an illegal transition.
func ValidateTransition(from, to models.FootballStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
