package services

import "errors"

// Sentinel errors shared across services and the HTTP error mapping.
var (
	// Not found
	ErrNotFound           = errors.New("requested resource not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrInningsNotFound    = errors.New("innings not found")
	ErrFootballNotFound   = errors.New("football match data not found")

	// Authorization
	ErrForbiddenOperation = errors.New("operation not allowed for the current club role")

	// Precondition violations
	ErrMatchCompleted       = errors.New("match is already completed")
	ErrMatchNotCompleted    = errors.New("match is not completed")
	ErrTiedScoreNotAllowed  = errors.New("tournament matches cannot end in a tie")
	ErrWrongSport           = errors.New("operation does not apply to this match's sport")
	ErrInningsLimitReached  = errors.New("a cricket match has at most two innings")
	ErrFirstInningsNotDone  = errors.New("the second innings cannot start before the first is complete")
	ErrInningsAlreadyActive = errors.New("an innings is already in progress")
	ErrLineupTooSmall       = errors.New("a batting lineup needs at least two players")
	ErrBowlerRequired       = errors.New("an opening bowler or bowling lineup is required")
	ErrNothingToUndo        = errors.New("nothing to undo")
	ErrInvalidStatus        = errors.New("invalid status value")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrMatchNotSetUp        = errors.New("football match has not been set up")
	ErrDuplicateSetup       = errors.New("football match is already set up")
	ErrInvalidBracketSize   = errors.New("bracket size must be a power of two")
	ErrTournamentInProgress = errors.New("tournament has already started")

	// Race lost: an atomic conditional update matched zero rows because a
	// concurrent request got there first.
	ErrScoreConflict = errors.New("match was completed by another request")
)
