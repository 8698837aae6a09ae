package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/daybreak-app/daybreak/pkg/models"
	"github.com/daybreak-app/daybreak/pkg/schedule"
)

func (a *App) setupSystemTray() {
	a.updateSystemTrayMenu()

	// Rebuild the menu whenever the alarm list changes.
	a.store.Subscribe(func() {
		a.updateSystemTrayMenu()
	})
}

func (a *App) updateSystemTrayMenu() {
	desk, ok := a.fyne.(desktop.App)
	if !ok {
		return
	}

	menuItems := []*fyne.MenuItem{}

	upcoming := a.upcomingAlarms(5)
	if len(upcoming) > 0 {
		headerItem := fyne.NewMenuItem("Upcoming:", nil)
		headerItem.Disabled = true
		menuItems = append(menuItems, headerItem)

		for _, u := range upcoming {
			item := fyne.NewMenuItem(fmt.Sprintf("  %s - %s",
				u.at.Format("Mon 3:04 PM"), truncateString(u.label, 35)), nil)
			item.Disabled = true
			menuItems = append(menuItems, item)
		}
		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	}

	menuItems = append(menuItems,
		fyne.NewMenuItem("Export Calendar", func() {
			if _, err := a.ExportCalendar(); err != nil {
				a.log.Warnf("calendar export failed: %v", err)
			}
		}),
		fyne.NewMenuItem("Read Sleep Data", func() {
			go a.ReadSleep(context.Background())
		}),
	)

	menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	menuItems = append(menuItems, fyne.NewMenuItem("Quit", func() {
		a.quit()
	}))

	menu := fyne.NewMenu("Daybreak", menuItems...)
	desk.SetSystemTrayMenu(menu)
}

type upcomingAlarm struct {
	at    time.Time
	label string
}

// upcomingAlarms returns the next trigger of each enabled alarm, soonest
// first, limited to limit entries.
func (a *App) upcomingAlarms(limit int) []upcomingAlarm {
	now := time.Now().In(a.loc)

	var out []upcomingAlarm
	for _, alarm := range a.store.Alarms() {
		if !alarm.Enabled {
			continue
		}
		out = append(out, upcomingAlarm{
			at:    nextTrigger(alarm, now),
			label: alarm.Label,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].at.Before(out[j].at) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// nextTrigger returns the earliest upcoming trigger across the alarm's
// weekday set.
func nextTrigger(alarm models.Alarm, now time.Time) time.Time {
	if !alarm.Repeats() {
		return schedule.NextDaily(alarm.Hour, alarm.Minute, now)
	}
	var earliest time.Time
	for _, w := range alarm.RepeatWeekdays {
		t := schedule.NextOnWeekday(alarm.Hour, alarm.Minute, w, now)
		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
	}
	return earliest
}

// truncateString truncates a string to maxLen characters, adding "..." if needed.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
