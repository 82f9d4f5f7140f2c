package domain

import "errors"

var (
	// ErrDecode is returned when an output is not a well-formed streak token
	ErrDecode = errors.New("not a streak token")

	// ErrInvalidTransition is returned when a proposed day stamp does not follow the cadence exactly
	ErrInvalidTransition = errors.New("invalid streak transition")

	// ErrAuthenticationFailed is returned when the creator signature does not verify
	ErrAuthenticationFailed = errors.New("creator signature invalid")

	// ErrTooEarly is returned when a streak is terminated before its grace deadline
	ErrTooEarly = errors.New("grace period has not lapsed")

	// ErrTerminated is returned when advancing or terminating an already terminated streak
	ErrTerminated = errors.New("streak is terminated")

	// ErrStaleOrFutureTick is returned when a daily streak is not stamped with today's UTC day
	ErrStaleOrFutureTick = errors.New("daily streaks must use today's UTC day stamp")

	// ErrDuplicateDailyTick is returned when a bundle carries two ticks for one streak on the same day
	ErrDuplicateDailyTick = errors.New("duplicate daily tick for identity and namespace")

	// ErrUnsupportedQuery is returned for lookup queries outside the supported shapes
	ErrUnsupportedQuery = errors.New("unsupported query")

	// ErrUnsupportedService is returned for lookup questions addressed to another service
	ErrUnsupportedService = errors.New("lookup service not supported")
)
