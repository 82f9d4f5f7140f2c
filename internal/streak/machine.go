// Package streak implements the state transitions of a streak token.
//
// A streak is Active(count, dayStamp) until it is terminated. Advancing moves
// it to Active(count+1, dayStamp+cadence); terminating is only possible once
// the grace window after the expected tick has lapsed and is absorbing.
// Every function here is pure: callers supply "today" explicitly.
package streak

import (
	"fmt"

	"github.com/feral-file/ff-streaks/internal/domain"
)

// DefaultGraceDays is the extra time after a missed tick before anyone may terminate the streak
const DefaultGraceDays uint32 = 1

// Create returns the genesis token of a new streak anchored at today
func Create(namespace string, cadenceDays uint32, creatorIdentityKey, creatorSignature []byte, today domain.DayStamp) (*domain.StreakToken, error) {
	token := &domain.StreakToken{
		Count:              1,
		DayStamp:           today,
		CreatorIdentityKey: append([]byte(nil), creatorIdentityKey...),
		CreatorSignature:   append([]byte(nil), creatorSignature...),
		Namespace:          namespace,
		CadenceDays:        cadenceDays,
	}
	if err := CheckActive(token); err != nil {
		return nil, err
	}
	return token, nil
}

// CheckActive validates the invariants every live streak token satisfies
func CheckActive(t *domain.StreakToken) error {
	if t.Terminated {
		return domain.ErrTerminated
	}
	if t.Count < 1 {
		return fmt.Errorf("%w: count must be at least 1", domain.ErrDecode)
	}
	if t.CadenceDays < 1 || t.CadenceDays > domain.MaxCadenceDays {
		return fmt.Errorf("%w: cadence must be between 1 and %d days", domain.ErrDecode, domain.MaxCadenceDays)
	}
	if t.Namespace == "" {
		return fmt.Errorf("%w: namespace is required", domain.ErrDecode)
	}
	if len(t.CreatorIdentityKey) == 0 {
		return fmt.Errorf("%w: creator identity key is required", domain.ErrDecode)
	}
	if !t.DayStamp.Valid() {
		return fmt.Errorf("%w: day stamp %d is not YYYYMMDD", domain.ErrDecode, t.DayStamp)
	}
	return nil
}

// NextDayStamp returns the only day stamp the next tick may carry.
// ok is false when the streak can no longer advance.
func NextDayStamp(t *domain.StreakToken) (domain.DayStamp, bool) {
	return t.DayStamp.Plus(t.CadenceDays)
}

// GraceDeadline returns the first day on which the streak may be terminated.
// ok is false when that day lies beyond the last representable day stamp.
func GraceDeadline(t *domain.StreakToken, graceDays uint32) (domain.DayStamp, bool) {
	next, ok := NextDayStamp(t)
	if !ok {
		return 0, false
	}
	return next.Plus(graceDays)
}

// Advance ticks the streak to proposed. Early and late ticks are both
// rejected, so missed periods can never be made up.
func Advance(current *domain.StreakToken, proposed domain.DayStamp) (*domain.StreakToken, error) {
	if current.Terminated {
		return nil, domain.ErrTerminated
	}

	expected, ok := NextDayStamp(current)
	if !ok {
		return nil, fmt.Errorf("%w: no day stamp follows %d with a cadence of %d days",
			domain.ErrInvalidTransition, current.DayStamp, current.CadenceDays)
	}
	if proposed != expected {
		return nil, fmt.Errorf("%w: next day must equal previous day plus cadence (expected %d, got %d)",
			domain.ErrInvalidTransition, expected, proposed)
	}

	next := current.Clone()
	next.Count++
	next.DayStamp = proposed
	return next, nil
}

// Terminate closes a streak whose owner failed to tick within the grace window
func Terminate(current *domain.StreakToken, today domain.DayStamp, graceDays uint32) (*domain.StreakToken, error) {
	if current.Terminated {
		return nil, domain.ErrTerminated
	}

	deadline, ok := GraceDeadline(current, graceDays)
	if !ok {
		return nil, fmt.Errorf("%w: grace window never lapses", domain.ErrTooEarly)
	}
	if today < deadline {
		return nil, fmt.Errorf("%w: streak may be terminated from %d", domain.ErrTooEarly, deadline)
	}

	next := current.Clone()
	next.Count = 0
	next.Terminated = true
	return next, nil
}

// IsSuccessor reports whether next is exactly the token produced by advancing prev.
// Identity fields must be carried over unchanged.
func IsSuccessor(prev, next *domain.StreakToken) error {
	advanced, err := Advance(prev, next.DayStamp)
	if err != nil {
		return err
	}
	if next.Count != advanced.Count {
		return fmt.Errorf("%w: count must increment by one (expected %d, got %d)",
			domain.ErrInvalidTransition, advanced.Count, next.Count)
	}
	if next.CadenceDays != prev.CadenceDays || next.Namespace != prev.Namespace ||
		string(next.CreatorIdentityKey) != string(prev.CreatorIdentityKey) {
		return fmt.Errorf("%w: immutable fields changed", domain.ErrInvalidTransition)
	}
	return nil
}
