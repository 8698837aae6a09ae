// Package calendar exports the alarm list as an iCalendar document so alarms
// can be viewed alongside regular calendar apps.
package calendar

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/daybreak-app/daybreak/pkg/models"
	"github.com/daybreak-app/daybreak/pkg/schedule"
)

const productID = "-//daybreak//alarm-export//EN"

// byDay maps ISO weekday numbers to RFC 5545 BYDAY codes.
var byDay = map[int]string{
	1: "MO", 2: "TU", 3: "WE", 4: "TH", 5: "FR", 6: "SA", 7: "SU",
}

// Export writes one VEVENT per enabled alarm: the next trigger as DTSTART
// and a daily or weekly recurrence rule derived from the weekday set.
func Export(w io.Writer, alarms []models.Alarm, now time.Time) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for _, a := range alarms {
		if !a.Enabled {
			continue
		}
		cal.Children = append(cal.Children, eventFor(a, now))
	}

	return ical.NewEncoder(w).Encode(cal)
}

// ExportFile writes the document to path.
func ExportFile(path string, alarms []models.Alarm, now time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Export(f, alarms, now); err != nil {
		f.Close()
		return fmt.Errorf("export calendar: %w", err)
	}
	return f.Close()
}

func eventFor(a models.Alarm, now time.Time) *ical.Component {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, a.ID)
	event.Props.SetText(ical.PropSummary, a.Label)
	event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())

	var start time.Time
	if a.Repeats() {
		// DTSTART anchors the recurrence at the earliest configured
		// weekday's next occurrence.
		for _, wd := range a.RepeatWeekdays {
			t := schedule.NextOnWeekday(a.Hour, a.Minute, wd, now)
			if start.IsZero() || t.Before(start) {
				start = t
			}
		}
	} else {
		start = schedule.NextDaily(a.Hour, a.Minute, now)
	}
	event.Props.SetDateTime(ical.PropDateTimeStart, start)

	// RRULE values contain semicolons, so the property is set raw rather
	// than through SetText's escaping.
	rule := ical.NewProp(ical.PropRecurrenceRule)
	rule.Value = ruleFor(a)
	event.Props.Set(rule)

	return event.Component
}

func ruleFor(a models.Alarm) string {
	if !a.Repeats() {
		return "FREQ=DAILY"
	}
	days := make([]string, 0, len(a.RepeatWeekdays))
	for _, wd := range a.RepeatWeekdays {
		days = append(days, byDay[wd])
	}
	return "FREQ=WEEKLY;BYDAY=" + strings.Join(days, ",")
}
