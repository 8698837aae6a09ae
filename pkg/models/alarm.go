package models

import (
	"encoding/json"
	"sort"

	"github.com/go-playground/validator/v10"
)

// DefaultLabel is the display text used when an alarm is created without one.
const DefaultLabel = "Alarm"

var validate = validator.New()

// Alarm describes one wake schedule. The JSON field names are the persisted
// storage shape and must stay stable across releases.
type Alarm struct {
	ID      string `json:"id" validate:"required"`
	Hour    int    `json:"hour" validate:"gte=0,lte=23"`
	Minute  int    `json:"minute" validate:"gte=0,lte=59"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`

	// RepeatWeekdays holds ISO weekday numbers (1=Monday..7=Sunday).
	// Empty means the alarm rolls forward daily instead of repeating on
	// fixed weekdays.
	RepeatWeekdays []int `json:"repeatWeekdays" validate:"dive,gte=1,lte=7"`

	// SoundAsset names a bundled wake sound; empty means the platform
	// default alarm sound.
	SoundAsset string `json:"soundAsset,omitempty"`
}

// Repeats reports whether the alarm is pinned to specific weekdays.
func (a Alarm) Repeats() bool {
	return len(a.RepeatWeekdays) > 0
}

// Validate checks field ranges. The store only accepts valid alarms.
func (a Alarm) Validate() error {
	return validate.Struct(a)
}

// Normalize sorts the weekday set and drops duplicates.
func (a *Alarm) Normalize() {
	if len(a.RepeatWeekdays) == 0 {
		return
	}
	seen := make(map[int]bool, len(a.RepeatWeekdays))
	days := a.RepeatWeekdays[:0]
	for _, w := range a.RepeatWeekdays {
		if !seen[w] {
			seen[w] = true
			days = append(days, w)
		}
	}
	sort.Ints(days)
	a.RepeatWeekdays = days
}

// MarshalAlarms serializes the full alarm list for the persistent store.
func MarshalAlarms(alarms []Alarm) (string, error) {
	if alarms == nil {
		alarms = []Alarm{}
	}
	data, err := json.Marshal(alarms)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// UnmarshalAlarms restores the alarm list from its persisted form.
func UnmarshalAlarms(raw string) ([]Alarm, error) {
	if raw == "" {
		return []Alarm{}, nil
	}
	var alarms []Alarm
	if err := json.Unmarshal([]byte(raw), &alarms); err != nil {
		return nil, err
	}
	if alarms == nil {
		alarms = []Alarm{}
	}
	return alarms, nil
}
