package schema

import (
	"time"

	"github.com/feral-file/ff-streaks/internal/domain"
)

// StreakRecord represents the streak_records table - one row per live streak output
type StreakRecord struct {
	// ID is the internal surrogate key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Txid is the id of the transaction carrying the streak output
	Txid string `gorm:"column:txid;not null;type:text;uniqueIndex:idx_streak_records_outpoint,priority:1"`
	// OutputIndex is the index of the streak output within the transaction
	OutputIndex uint32 `gorm:"column:output_index;not null;type:integer;uniqueIndex:idx_streak_records_outpoint,priority:2"`
	// LockingScript is the hex encoded locking script of the output
	LockingScript string `gorm:"column:locking_script;not null;type:text"`
	Satoshis      uint64 `gorm:"column:satoshis;not null;type:bigint"`
	Count         uint64 `gorm:"column:count;not null;type:bigint;index:idx_streak_records_namespace_count,priority:2,sort:desc;index:idx_streak_records_count,sort:desc"`
	// DayStamp is the YYYYMMDD anchor of the latest tick
	DayStamp domain.DayStamp `gorm:"column:day_stamp;not null;type:integer;index:idx_streak_records_creator_day,priority:3,sort:desc"`
	// CreatorIdentityKey is the hex encoded compressed identity key
	CreatorIdentityKey string    `gorm:"column:creator_identity_key;not null;type:text;uniqueIndex:idx_streak_records_logical_key,priority:1;index:idx_streak_records_creator_day,priority:1"`
	Namespace          string    `gorm:"column:namespace;not null;type:text;uniqueIndex:idx_streak_records_logical_key,priority:2;index:idx_streak_records_creator_day,priority:2;index:idx_streak_records_namespace_count,priority:1"`
	CadenceDays        uint32    `gorm:"column:cadence_days;not null;type:integer"`
	CreatedAt          time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the time of the latest upsert
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the StreakRecord model
func (StreakRecord) TableName() string {
	return "streak_records"
}

// Outpoint returns the physical identity of the record
func (r *StreakRecord) Outpoint() domain.Outpoint {
	return domain.Outpoint{Txid: r.Txid, OutputIndex: r.OutputIndex}
}

// Key returns the logical key of the record
func (r *StreakRecord) Key() domain.LogicalKey {
	return domain.LogicalKey{CreatorIdentityKey: r.CreatorIdentityKey, Namespace: r.Namespace}
}
