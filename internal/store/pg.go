package store

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/feral-file/ff-streaks/internal/adapter"
	"github.com/feral-file/ff-streaks/internal/domain"
	"github.com/feral-file/ff-streaks/internal/store/schema"
)

type pgStore struct {
	db    *gorm.DB
	clock adapter.Clock
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB, clock adapter.Clock) Store {
	return &pgStore{db: db, clock: clock}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// Zero settings fall back to the defaults of NormalizeConnectionPoolSettings.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
//
// MaxIdleConns never exceeds MaxOpenConns.
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns <= 0 {
		maxOpenConns = 20
	}
	if maxIdleConns <= 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime <= 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime <= 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	maxIdleConns = min(maxIdleConns, maxOpenConns)

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// AutoMigrate creates or updates the streak_records table and its indexes
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&schema.StreakRecord{})
}

// UpsertStreak writes the record in a single INSERT ... ON CONFLICT so that
// concurrent admissions for one logical key never produce two rows
func (s *pgStore) UpsertStreak(ctx context.Context, input UpsertStreakInput) error {
	if input.Token == nil {
		return fmt.Errorf("streak token is required")
	}

	now := s.clock.Now()
	record := schema.StreakRecord{
		Txid:               input.Outpoint.Txid,
		OutputIndex:        input.Outpoint.OutputIndex,
		LockingScript:      hex.EncodeToString(input.LockingScript),
		Satoshis:           input.Satoshis,
		Count:              input.Token.Count,
		DayStamp:           input.Token.DayStamp,
		CreatorIdentityKey: hex.EncodeToString(input.Token.CreatorIdentityKey),
		Namespace:          input.Token.Namespace,
		CadenceDays:        input.Token.CadenceDays,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "creator_identity_key"}, {Name: "namespace"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"txid",
			"output_index",
			"locking_script",
			"satoshis",
			"count",
			"day_stamp",
			"cadence_days",
			"updated_at",
		}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to upsert streak %s: %w", input.Outpoint, err)
	}

	return nil
}

// RemoveStreak deletes the record backed by outpoint
func (s *pgStore) RemoveStreak(ctx context.Context, outpoint domain.Outpoint) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("txid = ? AND output_index = ?", outpoint.Txid, outpoint.OutputIndex).
		Delete(&schema.StreakRecord{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to remove streak %s: %w", outpoint, result.Error)
	}

	return result.RowsAffected > 0, nil
}

// GetStreak retrieves the record for a logical key
func (s *pgStore) GetStreak(ctx context.Context, key domain.LogicalKey) (*schema.StreakRecord, error) {
	var record schema.StreakRecord
	err := s.db.WithContext(ctx).
		Where("creator_identity_key = ? AND namespace = ?", key.CreatorIdentityKey, key.Namespace).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get streak %s: %w", key, err)
	}

	return &record, nil
}

// QueryAll returns every tracked outpoint in insertion order
func (s *pgStore) QueryAll(ctx context.Context) ([]domain.Outpoint, error) {
	return s.queryOutpoints("query all", s.db.WithContext(ctx).Order("id ASC"))
}

// QueryByCreator returns the outpoints of a creator, latest tick first
func (s *pgStore) QueryByCreator(ctx context.Context, creatorIdentityKey string, namespace *string) ([]domain.Outpoint, error) {
	q := s.db.WithContext(ctx).Where("creator_identity_key = ?", creatorIdentityKey)
	q = withNamespace(q, namespace)
	return s.queryOutpoints("query by creator", q.Order("day_stamp DESC").Order("id ASC"))
}

// QueryTop returns outpoints ordered by count; ties go to the most recently updated record
func (s *pgStore) QueryTop(ctx context.Context, namespace *string, limit int) ([]domain.Outpoint, error) {
	q := withNamespace(s.db.WithContext(ctx), namespace).
		Order("count DESC").
		Order("updated_at DESC").
		Order("id DESC").
		Limit(NormalizeTopLimit(limit))
	return s.queryOutpoints("query top", q)
}

// QueryActiveAt returns outpoints whose latest tick is exactly day
func (s *pgStore) QueryActiveAt(ctx context.Context, day domain.DayStamp, namespace *string) ([]domain.Outpoint, error) {
	q := s.db.WithContext(ctx).Where("day_stamp = ?", day.Uint64())
	q = withNamespace(q, namespace)
	return s.queryOutpoints("query active at", q.Order("id ASC"))
}

// QueryBrokenSince compares each record against its own cadence
func (s *pgStore) QueryBrokenSince(ctx context.Context, reference domain.DayStamp, namespace *string) ([]domain.Outpoint, error) {
	q := s.db.WithContext(ctx).Where("day_stamp < ? - cadence_days", reference.Uint64())
	q = withNamespace(q, namespace)
	return s.queryOutpoints("query broken since", q.Order("day_stamp ASC").Order("id ASC"))
}

func withNamespace(q *gorm.DB, namespace *string) *gorm.DB {
	if namespace == nil {
		return q
	}
	return q.Where("namespace = ?", *namespace)
}

func (s *pgStore) queryOutpoints(op string, q *gorm.DB) ([]domain.Outpoint, error) {
	var records []schema.StreakRecord
	if err := q.Select("id", "txid", "output_index").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}

	outpoints := make([]domain.Outpoint, 0, len(records))
	for i := range records {
		outpoints = append(outpoints, records[i].Outpoint())
	}
	return outpoints, nil
}
