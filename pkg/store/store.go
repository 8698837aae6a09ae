package store

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/daybreak-app/daybreak/pkg/models"
)

// Persisted keys. Their value shapes are part of the storage format and must
// stay readable across releases.
const (
	alarmsKey   = "alarms"
	settingsKey = "settings"
)

// Reconciler keeps the live notification set in sync with one alarm.
type Reconciler interface {
	Schedule(a models.Alarm) error
	Cancel(a models.Alarm) error
}

// Store owns the authoritative alarm list and sleep settings. Every mutation
// persists the full list before touching notifications and runs end to end
// under opMu, so the persist, reconcile, and observer phases of one operation
// complete before the next operation begins. Observer callbacks run inside
// that window and must not mutate the store.
type Store struct {
	opMu sync.Mutex // serializes whole mutations, including reconcile

	mu       sync.Mutex // guards the fields below
	kv       KeyValue
	rec      Reconciler
	log      *zap.SugaredLogger
	alarms   []models.Alarm // insertion order = creation order
	settings models.SleepSettings

	obsMu     sync.Mutex
	observers map[int]func()
	nextObs   int
}

func New(kv KeyValue, rec Reconciler, log *zap.SugaredLogger) *Store {
	return &Store{
		kv:        kv,
		rec:       rec,
		log:       log,
		alarms:    []models.Alarm{},
		settings:  models.DefaultSleepSettings(),
		observers: make(map[int]func()),
	}
}

// Load reads persisted alarms and settings into memory. Missing keys default
// to an empty list and default settings; corrupt values are logged and
// replaced by the same defaults rather than failing startup.
func (s *Store) Load() error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	alarms, err := models.UnmarshalAlarms(s.kv.StringWithFallback(alarmsKey, ""))
	if err != nil {
		s.log.Warnf("store: corrupt alarm list, starting empty: %v", err)
		alarms = []models.Alarm{}
	}
	s.alarms = alarms

	settings, err := models.UnmarshalSettings(s.kv.StringWithFallback(settingsKey, ""))
	if err != nil {
		s.log.Warnf("store: corrupt settings, using defaults: %v", err)
	}
	s.settings = settings
	return nil
}

// Alarms returns a copy of the alarm list in creation order.
func (s *Store) Alarms() []models.Alarm {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Alarm, len(s.alarms))
	copy(out, s.alarms)
	return out
}

// Alarm returns the alarm with the given id.
func (s *Store) Alarm(id string) (models.Alarm, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(id); i >= 0 {
		return s.alarms[i], true
	}
	return models.Alarm{}, false
}

// Settings returns the current sleep settings.
func (s *Store) Settings() models.SleepSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Add appends the alarm, persists the list, and schedules its notifications
// if it is enabled.
func (s *Store) Add(a models.Alarm) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	s.alarms = append(s.alarms, a)
	err := s.persistAlarmsLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if a.Enabled {
		if err := s.reconcile("add", func() error { return s.rec.Schedule(a) }); err != nil {
			return err
		}
	}
	s.notifyObservers()
	return nil
}

// Update replaces the stored alarm with the same id, persists, then cancels
// using the previously stored alarm's weekday scheme before scheduling the
// new one. An unknown id is a silent no-op.
func (s *Store) Update(a models.Alarm) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	i := s.indexLocked(a.ID)
	if i < 0 {
		s.mu.Unlock()
		s.log.Debugf("store: update for unknown alarm %s ignored", a.ID)
		return nil
	}
	prev := s.alarms[i]
	s.alarms[i] = a
	err := s.persistAlarmsLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	// Cancel with the pre-mutation weekday scheme so identifiers from the
	// old configuration cannot leak, then install the new configuration.
	if err := s.reconcile("update", func() error {
		if err := s.rec.Cancel(prev); err != nil {
			return err
		}
		return s.rec.Schedule(a)
	}); err != nil {
		return err
	}
	s.notifyObservers()
	return nil
}

// Remove deletes the alarm, persists the list, and cancels its notifications
// using its last known state. An unknown id is a silent no-op.
func (s *Store) Remove(id string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		s.log.Debugf("store: remove for unknown alarm %s ignored", id)
		return nil
	}
	removed := s.alarms[i]
	s.alarms = append(s.alarms[:i], s.alarms[i+1:]...)
	err := s.persistAlarmsLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if err := s.reconcile("remove", func() error { return s.rec.Cancel(removed) }); err != nil {
		return err
	}
	s.notifyObservers()
	return nil
}

// SetSettings replaces the sleep settings and persists them.
func (s *Store) SetSettings(settings models.SleepSettings) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	s.settings = settings
	raw, err := models.MarshalSettings(settings)
	if err == nil {
		s.kv.SetString(settingsKey, raw)
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("persist settings: %w", err)
	}
	s.notifyObservers()
	return nil
}

// Subscribe registers an observer called after every completed mutation. The
// returned function unsubscribes it.
func (s *Store) Subscribe(fn func()) func() {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *Store) indexLocked(id string) int {
	for i, a := range s.alarms {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persistAlarmsLocked() error {
	raw, err := models.MarshalAlarms(s.alarms)
	if err != nil {
		return fmt.Errorf("persist alarms: %w", err)
	}
	s.kv.SetString(alarmsKey, raw)
	return nil
}

// reconcile runs one notification reconciliation, retrying once before
// surfacing the failure to the caller.
func (s *Store) reconcile(op string, fn func() error) error {
	if err := fn(); err != nil {
		s.log.Warnf("store: %s reconcile failed, retrying: %v", op, err)
		if err := fn(); err != nil {
			return fmt.Errorf("%s reconcile: %w", op, err)
		}
	}
	return nil
}

func (s *Store) notifyObservers() {
	s.obsMu.Lock()
	fns := make([]func(), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
