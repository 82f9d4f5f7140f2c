package store

import (
	"context"

	"github.com/feral-file/ff-streaks/internal/domain"
	"github.com/feral-file/ff-streaks/internal/store/schema"
)

const (
	// DefaultTopLimit is used when QueryTop is called without a positive limit
	DefaultTopLimit = 100
	// MaxTopLimit caps QueryTop results
	MaxTopLimit = 1000
)

// UpsertStreakInput is the admitted output projected into the index
type UpsertStreakInput struct {
	Outpoint      domain.Outpoint
	LockingScript []byte
	Satoshis      uint64
	Token         *domain.StreakToken
}

// Store defines the interface for the streak index
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// UpsertStreak inserts the record or replaces the one with the same creator and namespace
	UpsertStreak(ctx context.Context, input UpsertStreakInput) error
	// RemoveStreak deletes the record backed by outpoint; removing an unknown outpoint is a no-op.
	// It reports whether a record was deleted.
	RemoveStreak(ctx context.Context, outpoint domain.Outpoint) (bool, error)
	// GetStreak retrieves the record for a logical key, nil if absent
	GetStreak(ctx context.Context, key domain.LogicalKey) (*schema.StreakRecord, error)

	// QueryAll returns every tracked outpoint
	QueryAll(ctx context.Context) ([]domain.Outpoint, error)
	// QueryByCreator returns the outpoints of a creator, optionally within one namespace
	QueryByCreator(ctx context.Context, creatorIdentityKey string, namespace *string) ([]domain.Outpoint, error)
	// QueryTop returns outpoints ordered by descending count
	QueryTop(ctx context.Context, namespace *string, limit int) ([]domain.Outpoint, error)
	// QueryActiveAt returns outpoints whose latest tick is exactly day
	QueryActiveAt(ctx context.Context, day domain.DayStamp, namespace *string) ([]domain.Outpoint, error)
	// QueryBrokenSince returns outpoints whose day stamp is older than reference minus their own cadence
	QueryBrokenSince(ctx context.Context, reference domain.DayStamp, namespace *string) ([]domain.Outpoint, error)
}

// NormalizeTopLimit applies the default and the cap to a QueryTop limit
func NormalizeTopLimit(limit int) int {
	if limit <= 0 {
		return DefaultTopLimit
	}
	return min(limit, MaxTopLimit)
}
