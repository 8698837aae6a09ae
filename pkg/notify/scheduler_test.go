package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingDeliverer struct {
	mu        sync.Mutex
	delivered []Request
}

func (d *recordingDeliverer) Deliver(req Request) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delivered = append(d.delivered, req)
}

func (d *recordingDeliverer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.delivered)
}

func TestScheduleAtAndCancel(t *testing.T) {
	s := NewLocalScheduler(&recordingDeliverer{}, zap.NewNop().Sugar())

	at := time.Date(2025, time.June, 3, 7, 30, 0, 0, time.UTC)
	require.NoError(t, s.ScheduleAt(Request{ID: 1, Title: "Wake", At: at}))
	require.NoError(t, s.ScheduleAt(Request{ID: 2, Title: "Other", At: at.Add(time.Hour)}))
	assert.ElementsMatch(t, []uint64{1, 2}, s.Pending())

	require.NoError(t, s.Cancel(1))
	assert.ElementsMatch(t, []uint64{2}, s.Pending())

	// Cancelling an unknown id is not an error
	require.NoError(t, s.Cancel(99))
}

func TestScheduleAtReplacesExisting(t *testing.T) {
	s := NewLocalScheduler(&recordingDeliverer{}, zap.NewNop().Sugar())

	at := time.Date(2025, time.June, 3, 7, 30, 0, 0, time.UTC)
	require.NoError(t, s.ScheduleAt(Request{ID: 1, At: at}))
	require.NoError(t, s.ScheduleAt(Request{ID: 1, At: at.Add(time.Hour)}))
	assert.ElementsMatch(t, []uint64{1}, s.Pending())

	// Firing at the original minute must not deliver the replaced request
	s.fire(at)
	assert.ElementsMatch(t, []uint64{1}, s.Pending())
}

func TestFireDeliversDueRequests(t *testing.T) {
	d := &recordingDeliverer{}
	s := NewLocalScheduler(d, zap.NewNop().Sugar())

	at := time.Date(2025, time.June, 3, 7, 30, 0, 0, time.UTC)
	require.NoError(t, s.ScheduleAt(Request{ID: 1, Title: "Wake", At: at}))
	require.NoError(t, s.ScheduleAt(Request{ID: 2, Title: "Later", At: at.Add(time.Hour)}))

	s.fire(at.Add(10 * time.Second))
	require.Equal(t, 1, d.count())
	assert.Equal(t, "Wake", d.delivered[0].Title)

	// Non-repeating requests are gone after firing
	assert.ElementsMatch(t, []uint64{2}, s.Pending())
}

func TestFireCatchesUpMissedMinutes(t *testing.T) {
	d := &recordingDeliverer{}
	s := NewLocalScheduler(d, zap.NewNop().Sugar())

	at := time.Date(2025, time.June, 3, 7, 30, 0, 0, time.UTC)
	require.NoError(t, s.ScheduleAt(Request{ID: 1, At: at}))

	// The process slept through the trigger minute
	s.fire(at.Add(30 * time.Minute))
	assert.Equal(t, 1, d.count())
}

func TestFireReinstallsDailyRequest(t *testing.T) {
	d := &recordingDeliverer{}
	s := NewLocalScheduler(d, zap.NewNop().Sugar())

	at := time.Date(2025, time.June, 3, 7, 30, 0, 0, time.UTC)
	require.NoError(t, s.ScheduleAt(Request{ID: 1, At: at, Repeat: RepeatDaily}))

	s.fire(at)
	require.Equal(t, 1, d.count())
	require.ElementsMatch(t, []uint64{1}, s.Pending())

	s.mu.Lock()
	next := s.pending[1].At
	s.mu.Unlock()
	assert.Equal(t, at.AddDate(0, 0, 1), next)
}

func TestFireReinstallsWeeklyRequest(t *testing.T) {
	d := &recordingDeliverer{}
	s := NewLocalScheduler(d, zap.NewNop().Sugar())

	at := time.Date(2025, time.June, 3, 7, 30, 0, 0, time.UTC)
	require.NoError(t, s.ScheduleAt(Request{ID: 1, At: at, Repeat: RepeatWeekly}))

	s.fire(at)
	require.Equal(t, 1, d.count())

	s.mu.Lock()
	next := s.pending[1].At
	s.mu.Unlock()
	assert.Equal(t, at.AddDate(0, 0, 7), next)
}

func TestFireNothingDue(t *testing.T) {
	d := &recordingDeliverer{}
	s := NewLocalScheduler(d, zap.NewNop().Sugar())

	at := time.Date(2025, time.June, 3, 7, 30, 0, 0, time.UTC)
	require.NoError(t, s.ScheduleAt(Request{ID: 1, At: at}))

	s.fire(at.Add(-time.Minute))
	assert.Zero(t, d.count())
	assert.ElementsMatch(t, []uint64{1}, s.Pending())
}

func TestStartStopLifecycle(t *testing.T) {
	s := NewLocalScheduler(&recordingDeliverer{}, zap.NewNop().Sugar())

	// Stop before Start and repeated Stop are both harmless
	s.Stop()
	s.Start()
	s.Start() // second Start must not leak a second loop
	s.Stop()
	s.Stop()

	// The scheduler stays usable and restartable, with concurrent
	// mutations racing the lifecycle calls
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(id uint64) {
			defer wg.Done()
			at := time.Date(2025, time.June, 3, 7, 30, 0, 0, time.UTC)
			assert.NoError(t, s.ScheduleAt(Request{ID: id, At: at}))
		}(uint64(i + 1))
	}
	s.Start()
	wg.Wait()
	s.Stop()
	assert.Len(t, s.Pending(), 4)
}
