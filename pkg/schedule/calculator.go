package schedule

import "time"

// maxWeekdaySteps bounds the weekday search. A matching weekday must occur
// within 7 days, so the loop can never legitimately need more iterations.
const maxWeekdaySteps = 8

// ISOWeekday returns the ISO-8601 weekday number for t (1=Monday..7=Sunday).
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// NextDaily returns the next instant at hour:minute in now's location that is
// not before now. An exact match with now is returned as-is, not advanced.
func NextDaily(hour, minute int, now time.Time) time.Time {
	c := at(now, hour, minute, 0)
	if c.Before(now) {
		c = at(now, hour, minute, 1)
	}
	return c
}

// NextOnWeekday returns the next instant at hour:minute whose ISO weekday
// equals weekday and which is not before now.
func NextOnWeekday(hour, minute, weekday int, now time.Time) time.Time {
	c := at(now, hour, minute, 0)
	for i := 0; i < maxWeekdaySteps; i++ {
		if ISOWeekday(c) == weekday && !c.Before(now) {
			return c
		}
		c = at(c, hour, minute, 1)
	}
	return c
}

// at rebuilds the wall-clock time hour:minute on base's calendar day plus
// dayOffset. Reconstructing through time.Date keeps the wall clock stable
// across DST transitions, unlike adding 24h durations.
func at(base time.Time, hour, minute, dayOffset int) time.Time {
	return time.Date(base.Year(), base.Month(), base.Day()+dayOffset,
		hour, minute, 0, 0, base.Location())
}
