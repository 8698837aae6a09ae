package notify

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/daybreak-app/daybreak/pkg/models"
	"github.com/daybreak-app/daybreak/pkg/schedule"
)

// WakeBody is the fixed body text carried by every alarm notification.
const WakeBody = "Time to wake up!"

// Reconciler keeps the live notification set in sync with one alarm's
// configuration. Schedule unconditionally cancels before installing, so
// calling it repeatedly on the same alarm is a no-op on the end state.
type Reconciler struct {
	svc Service
	loc *time.Location
	now func() time.Time
	log *zap.SugaredLogger
}

func NewReconciler(svc Service, loc *time.Location, log *zap.SugaredLogger) *Reconciler {
	return &Reconciler{
		svc: svc,
		loc: loc,
		now: time.Now,
		log: log,
	}
}

// Cancel removes every notification identifier derivable from the alarm's
// current weekday set. Callers reconciling an update must pass the alarm's
// state from before the mutation, otherwise notifications installed under the
// old scheme leak.
func (r *Reconciler) Cancel(a models.Alarm) error {
	for _, id := range DerivedIDs(a) {
		if err := r.svc.Cancel(id); err != nil {
			return fmt.Errorf("cancel notification %d for alarm %s: %w", id, a.ID, err)
		}
	}
	return nil
}

// Schedule guarantees that after it returns, the live notifications for the
// alarm exactly match its enabled flag, weekday set, and trigger time. The
// cancel phase completes before any install begins.
func (r *Reconciler) Schedule(a models.Alarm) error {
	if err := r.Cancel(a); err != nil {
		return err
	}
	if !a.Enabled {
		return nil
	}

	now := r.now().In(r.loc)
	if !a.Repeats() {
		at := schedule.NextDaily(a.Hour, a.Minute, now)
		return r.install(a, DailyID(a.ID), at, RepeatDaily)
	}
	for _, w := range a.RepeatWeekdays {
		at := schedule.NextOnWeekday(a.Hour, a.Minute, w, now)
		if err := r.install(a, WeekdayID(a.ID, w), at, RepeatWeekly); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reconciler) install(a models.Alarm, id uint64, at time.Time, repeat Repeat) error {
	req := Request{
		ID:         id,
		Title:      a.Label,
		Body:       WakeBody,
		At:         at,
		Sound:      a.SoundAsset,
		Repeat:     repeat,
		Exact:      true,
		FullScreen: true,
	}
	if err := r.svc.ScheduleAt(req); err != nil {
		return fmt.Errorf("schedule notification %d for alarm %s: %w", id, a.ID, err)
	}
	r.log.Debugf("scheduled notification %d for alarm %s at %s", id, a.ID, at.Format(time.RFC3339))
	return nil
}
