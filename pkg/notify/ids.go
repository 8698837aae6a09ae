package notify

import (
	"hash/fnv"

	"github.com/daybreak-app/daybreak/pkg/models"
)

// Notification identifiers are derived from the alarm id alone, never stored,
// so reconciliation can always recompute which identifiers to cancel.
//
// The derivation is 64-bit FNV-1a over the alarm id bytes. Per-weekday
// identifiers XOR the ISO weekday number into the top byte, which keeps every
// weekday identifier distinct from each other and from the daily identifier
// of the same alarm (weekday is always >= 1), and stays stable across runs
// and platforms.

// DailyID returns the notification identifier for a daily (non-repeating)
// alarm.
func DailyID(alarmID string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(alarmID))
	return h.Sum64()
}

// WeekdayID returns the notification identifier for one weekday of a
// repeating alarm. weekday is an ISO weekday number (1=Monday..7=Sunday).
func WeekdayID(alarmID string, weekday int) uint64 {
	return DailyID(alarmID) ^ uint64(weekday)<<56
}

// DerivedIDs returns every notification identifier implied by the alarm's
// current weekday set: the daily identifier when the set is empty, otherwise
// one identifier per configured weekday.
func DerivedIDs(a models.Alarm) []uint64 {
	if !a.Repeats() {
		return []uint64{DailyID(a.ID)}
	}
	ids := make([]uint64, 0, len(a.RepeatWeekdays))
	for _, w := range a.RepeatWeekdays {
		ids = append(ids, WeekdayID(a.ID, w))
	}
	return ids
}
