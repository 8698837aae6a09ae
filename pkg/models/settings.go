package models

import "encoding/json"

// SleepSettings holds the user's sleep preferences.
type SleepSettings struct {
	RecommendedHours  int `json:"recommendedHours" validate:"gt=0"`
	WarnBeforeMinutes int `json:"warnBeforeMinutes" validate:"gte=0"`
}

// DefaultSleepSettings returns the values used before the user changes anything.
func DefaultSleepSettings() SleepSettings {
	return SleepSettings{
		RecommendedHours:  8,
		WarnBeforeMinutes: 15,
	}
}

// Validate checks field ranges.
func (s SleepSettings) Validate() error {
	return validate.Struct(s)
}

// MarshalSettings serializes the settings for the persistent store.
func MarshalSettings(s SleepSettings) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// UnmarshalSettings restores settings from their persisted form, falling back
// to defaults when nothing has been stored yet.
func UnmarshalSettings(raw string) (SleepSettings, error) {
	if raw == "" {
		return DefaultSleepSettings(), nil
	}
	var s SleepSettings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return DefaultSleepSettings(), err
	}
	return s, nil
}
