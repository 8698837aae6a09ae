package main

import "github.com/daybreak-app/daybreak/pkg/models"

// AppState is a point-in-time snapshot of everything the presentation layer
// shows. Alarms and settings come from the store; the rest is transient and
// never persisted.
type AppState struct {
	Alarms           []models.Alarm
	Settings         models.SleepSettings
	Recording        bool
	LastRecording    string
	HealthAuthorized bool
	SleepHours       float64
}

// State assembles the current snapshot.
func (a *App) State() AppState {
	return AppState{
		Alarms:           a.store.Alarms(),
		Settings:         a.store.Settings(),
		Recording:        a.session.Recording(),
		LastRecording:    a.session.LastRecording(),
		HealthAuthorized: a.sleep.Authorized(),
		SleepHours:       a.sleep.SleepHours(),
	}
}
