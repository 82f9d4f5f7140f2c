package domain

import (
	"strconv"
	"time"
)

// DayStamp is a UTC calendar day encoded as the integer YYYYMMDD.
//
// Day-stamps are compared and advanced as plain integers: Plus never
// normalises into the next month or year, so 20240131 plus one day is
// 20240132. Cadence arithmetic relies on this.
type DayStamp uint32

const (
	minDayStamp DayStamp = 19700101
	maxDayStamp DayStamp = 99991231
)

// DayStampOf returns the UTC day-stamp of t
func DayStampOf(t time.Time) DayStamp {
	t = t.UTC()
	return DayStamp(uint32(t.Year())*10000 + uint32(t.Month())*100 + uint32(t.Day()))
}

// Valid reports whether d looks like a YYYYMMDD value.
// Only the month and day ranges are checked; day 31 of a 30-day month is
// accepted because cadence arithmetic can legitimately produce it.
func (d DayStamp) Valid() bool {
	if d < minDayStamp || d > maxDayStamp {
		return false
	}
	month := (d / 100) % 100
	day := d % 100
	return month >= 1 && month <= 12 && day >= 1
}

// Plus returns d advanced by days using integer addition.
// ok is false when the result would pass 99991231.
func (d DayStamp) Plus(days uint32) (next DayStamp, ok bool) {
	sum := uint64(d) + uint64(days)
	if sum > uint64(maxDayStamp) {
		return 0, false
	}
	return DayStamp(sum), true
}

// Uint64 returns d as an unsigned integer for storage
func (d DayStamp) Uint64() uint64 {
	return uint64(d)
}

func (d DayStamp) String() string {
	return strconv.FormatUint(uint64(d), 10)
}
