package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayStampOf(t *testing.T) {
	tests := []struct {
		name     string
		time     time.Time
		expected DayStamp
	}{
		{
			name:     "utc midday",
			time:     time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC),
			expected: 20240601,
		},
		{
			name:     "end of year",
			time:     time.Date(2023, time.December, 31, 23, 59, 59, 0, time.UTC),
			expected: 20231231,
		},
		{
			name:     "non utc location is converted",
			time:     time.Date(2024, time.June, 2, 1, 0, 0, 0, time.FixedZone("UTC+3", 3*60*60)),
			expected: 20240601,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DayStampOf(tt.time))
		})
	}
}

func TestDayStampPlus(t *testing.T) {
	tests := []struct {
		name     string
		stamp    DayStamp
		days     uint32
		expected DayStamp
		ok       bool
	}{
		{name: "next day", stamp: 20240601, days: 1, expected: 20240602, ok: true},
		// integer arithmetic, no calendar rollover
		{name: "past month end", stamp: 20240131, days: 1, expected: 20240132, ok: true},
		{name: "weekly", stamp: 20240101, days: 7, expected: 20240108, ok: true},
		{name: "zero", stamp: 20240101, days: 0, expected: 20240101, ok: true},
		{name: "last stamp", stamp: 99991230, days: 1, expected: 99991231, ok: true},
		{name: "past last stamp", stamp: 99991231, days: 1, ok: false},
		{name: "would wrap uint32", stamp: 20240601, days: math.MaxUint32, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := tt.stamp.Plus(tt.days)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, next)
		})
	}
}

func TestDayStampValid(t *testing.T) {
	tests := []struct {
		name     string
		stamp    DayStamp
		expected bool
	}{
		{name: "regular day", stamp: 20240601, expected: true},
		{name: "cadence overflow day", stamp: 20240132, expected: true},
		{name: "zero", stamp: 0, expected: false},
		{name: "month zero", stamp: 20240001, expected: false},
		{name: "month thirteen", stamp: 20241301, expected: false},
		{name: "day zero", stamp: 20240600, expected: false},
		{name: "before epoch", stamp: 19691231, expected: false},
		{name: "block height like value", stamp: 840000, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.stamp.Valid())
		})
	}
}

func TestOverlayEventValidate(t *testing.T) {
	txid := "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"

	tests := []struct {
		name    string
		event   OverlayEvent
		wantErr bool
	}{
		{
			name:  "admitted",
			event: OverlayEvent{EventType: EventTypeAdmitted, Txid: txid, Topic: TopicStreaks, LockingScript: "0073", Satoshis: 1},
		},
		{
			name:    "admitted without script",
			event:   OverlayEvent{EventType: EventTypeAdmitted, Txid: txid, Topic: TopicStreaks},
			wantErr: true,
		},
		{
			name:    "admitted with non hex script",
			event:   OverlayEvent{EventType: EventTypeAdmitted, Txid: txid, Topic: TopicStreaks, LockingScript: "zz"},
			wantErr: true,
		},
		{
			name:  "spent",
			event: OverlayEvent{EventType: EventTypeSpent, Txid: txid, OutputIndex: 2, Topic: TopicStreaks},
		},
		{
			name:    "spent without topic",
			event:   OverlayEvent{EventType: EventTypeSpent, Txid: txid},
			wantErr: true,
		},
		{
			name:  "evicted without topic",
			event: OverlayEvent{EventType: EventTypeEvicted, Txid: txid},
		},
		{
			name:    "short txid",
			event:   OverlayEvent{EventType: EventTypeEvicted, Txid: "abcd"},
			wantErr: true,
		},
		{
			name:    "unknown type",
			event:   OverlayEvent{EventType: "minted", Txid: txid},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
