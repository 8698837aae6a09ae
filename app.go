package main

import (
	"context"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/daybreak-app/daybreak/pkg/audio"
	"github.com/daybreak-app/daybreak/pkg/calendar"
	"github.com/daybreak-app/daybreak/pkg/health"
	"github.com/daybreak-app/daybreak/pkg/models"
	"github.com/daybreak-app/daybreak/pkg/notify"
	"github.com/daybreak-app/daybreak/pkg/schedule"
	"github.com/daybreak-app/daybreak/pkg/store"
)

// App wires the store, reconciler, scheduler, audio session, and health
// reader together and owns startup sequencing.
type App struct {
	fyne    fyne.App
	log     *zap.SugaredLogger
	loc     *time.Location
	dataDir string
	store   *store.Store
	rec     *notify.Reconciler
	sched   *notify.LocalScheduler
	session *audio.Session
	sleep   *health.Reader
}

func newApp(fyneApp fyne.App, src health.Source, dataDir string, log *zap.SugaredLogger) *App {
	loc := schedule.DeviceLocation()
	log.Infof("device timezone: %s", loc)

	session := audio.NewSession(desktopPermissions{}, filepath.Join(dataDir, "recordings"), log)
	deliverer := &desktopDeliverer{app: fyneApp, session: session, log: log}
	sched := notify.NewLocalScheduler(deliverer, log)
	rec := notify.NewReconciler(sched, loc, log)

	return &App{
		fyne:    fyneApp,
		log:     log,
		loc:     loc,
		dataDir: dataDir,
		store:   store.New(fyneApp.Preferences(), rec, log),
		rec:     rec,
		sched:   sched,
		session: session,
		sleep:   health.NewReader(src, log),
	}
}

// startup loads persisted state and brings every enabled alarm's
// notifications back in sync, then applies the autostart preference.
func (a *App) startup() error {
	if err := a.store.Load(); err != nil {
		return err
	}

	for _, alarm := range a.store.Alarms() {
		if !alarm.Enabled {
			continue
		}
		if err := a.rec.Schedule(alarm); err != nil {
			a.log.Warnf("startup reconcile for alarm %s failed: %v", alarm.ID, err)
		}
	}

	if err := setupAutostart(a.fyne.Preferences().BoolWithFallback(autostartKey, false)); err != nil {
		a.log.Warnf("failed to setup autostart: %v", err)
	}

	return nil
}

func (a *App) run() {
	a.setupSystemTray()
	a.sched.Start()
	a.fyne.Run()
}

func (a *App) quit() {
	a.sched.Stop()
	a.session.StopPlayback()
	a.fyne.Quit()
}

// CreateAlarm builds a new enabled alarm and adds it to the store.
func (a *App) CreateAlarm(hour, minute int, label string, weekdays []int, sound string) (models.Alarm, error) {
	if label == "" {
		label = models.DefaultLabel
	}
	alarm := models.Alarm{
		ID:             uuid.NewString(),
		Hour:           hour,
		Minute:         minute,
		Label:          label,
		Enabled:        true,
		RepeatWeekdays: weekdays,
		SoundAsset:     sound,
	}
	alarm.Normalize()
	if err := alarm.Validate(); err != nil {
		return models.Alarm{}, err
	}
	if err := a.store.Add(alarm); err != nil {
		return models.Alarm{}, err
	}
	return alarm, nil
}

// UpdateAlarm replaces an existing alarm's configuration.
func (a *App) UpdateAlarm(alarm models.Alarm) error {
	alarm.Normalize()
	if err := alarm.Validate(); err != nil {
		return err
	}
	return a.store.Update(alarm)
}

// ToggleAlarm flips one alarm's enabled flag.
func (a *App) ToggleAlarm(id string, enabled bool) error {
	alarm, ok := a.store.Alarm(id)
	if !ok {
		return nil
	}
	alarm.Enabled = enabled
	return a.store.Update(alarm)
}

// DeleteAlarm removes an alarm and its notifications.
func (a *App) DeleteAlarm(id string) error {
	return a.store.Remove(id)
}

// SetSleepSettings replaces the user's sleep preferences.
func (a *App) SetSleepSettings(s models.SleepSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return a.store.SetSettings(s)
}

// SetAutostart stores the launch-at-login preference and applies it.
func (a *App) SetAutostart(enabled bool) error {
	a.fyne.Preferences().SetBool(autostartKey, enabled)
	return setupAutostart(enabled)
}

func (a *App) StartRecording(ctx context.Context) error {
	return a.session.StartRecording(ctx)
}

func (a *App) StopRecording() (string, error) {
	return a.session.StopRecording()
}

// PlayLastRecording plays back the most recent capture, if any.
func (a *App) PlayLastRecording() {
	if path := a.session.LastRecording(); path != "" {
		a.session.PlayFile(path)
	}
}

// PlayWakeSound previews a bundled wake sound by name, looping until
// StopPlayback. An empty name plays the default.
func (a *App) PlayWakeSound(name string) {
	if name == "" {
		name = defaultWakeSound
	}
	a.session.PlayAsset(name)
}

func (a *App) StopPlayback() {
	a.session.StopPlayback()
}

// ReadSleep refreshes the sleep-duration readout from the health source.
func (a *App) ReadSleep(ctx context.Context) {
	a.sleep.Read(ctx)
}

// ExportCalendar writes the enabled alarms as an iCalendar file and returns
// its path.
func (a *App) ExportCalendar() (string, error) {
	path := filepath.Join(a.dataDir, "alarms.ics")
	now := time.Now().In(a.loc)
	if err := calendar.ExportFile(path, a.store.Alarms(), now); err != nil {
		return "", err
	}
	a.log.Infof("exported alarms to %s", path)
	return path, nil
}

// Subscribe registers an observer for store mutations.
func (a *App) Subscribe(fn func()) func() {
	return a.store.Subscribe(fn)
}
