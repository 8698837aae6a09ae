package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/daybreak-app/daybreak/pkg/models"
)

func TestDailyIDStable(t *testing.T) {
	assert.Equal(t, DailyID("alarm-1"), DailyID("alarm-1"))
	assert.NotEqual(t, DailyID("alarm-1"), DailyID("alarm-2"))
}

func TestWeekdayIDsDistinct(t *testing.T) {
	seen := map[uint64]bool{DailyID("alarm-1"): true}
	for w := 1; w <= 7; w++ {
		id := WeekdayID("alarm-1", w)
		assert.False(t, seen[id], "weekday %d collides", w)
		seen[id] = true
	}
}

func TestWeekdayIDReversible(t *testing.T) {
	// XOR-ing the weekday back out recovers the daily identifier
	for w := 1; w <= 7; w++ {
		id := WeekdayID("alarm-1", w)
		assert.Equal(t, DailyID("alarm-1"), id^uint64(w)<<56)
	}
}

func TestDerivedIDs(t *testing.T) {
	daily := models.Alarm{ID: "alarm-1"}
	assert.Equal(t, []uint64{DailyID("alarm-1")}, DerivedIDs(daily))

	weekly := models.Alarm{ID: "alarm-1", RepeatWeekdays: []int{1, 3, 5}}
	assert.Equal(t, []uint64{
		WeekdayID("alarm-1", 1),
		WeekdayID("alarm-1", 3),
		WeekdayID("alarm-1", 5),
	}, DerivedIDs(weekly))
}
