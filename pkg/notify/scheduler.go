package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Deliverer presents one due notification to the user.
type Deliverer interface {
	Deliver(req Request)
}

// DeliverFunc adapts a plain function to the Deliverer interface.
type DeliverFunc func(req Request)

func (f DeliverFunc) Deliver(req Request) { f(req) }

// LocalScheduler is an in-process Service. Pending requests are indexed by
// minute-precision fire time and checked once a minute; due requests are
// handed to the Deliverer and, for repeating requests, reinstalled at their
// next occurrence.
type LocalScheduler struct {
	mu sync.Mutex

	// Map of request ID to pending request
	pending map[uint64]Request

	// Map of timestamp (minute precision) to request IDs due at that minute
	idsByTime map[int64][]uint64

	deliver Deliverer
	log     *zap.SugaredLogger
	now     func() time.Time

	ticker *time.Ticker
	done   chan struct{}
}

func NewLocalScheduler(d Deliverer, log *zap.SugaredLogger) *LocalScheduler {
	return &LocalScheduler{
		pending:   make(map[uint64]Request),
		idsByTime: make(map[int64][]uint64),
		deliver:   d,
		log:       log,
		now:       time.Now,
	}
}

// roundToMinute rounds a time down to the nearest minute.
func roundToMinute(t time.Time) time.Time {
	return t.Truncate(time.Minute)
}

// removeLocked deletes id from the pending map and the time index.
func (s *LocalScheduler) removeLocked(id uint64) {
	req, ok := s.pending[id]
	if !ok {
		return
	}
	delete(s.pending, id)

	key := roundToMinute(req.At).Unix()
	ids := s.idsByTime[key]
	for i, other := range ids {
		if other == id {
			s.idsByTime[key] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(s.idsByTime[key]) == 0 {
		delete(s.idsByTime, key)
	}
}

// ScheduleAt installs or replaces the pending request for req.ID.
func (s *LocalScheduler) ScheduleAt(req Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(req.ID)

	s.pending[req.ID] = req
	key := roundToMinute(req.At).Unix()
	s.idsByTime[key] = append(s.idsByTime[key], req.ID)
	return nil
}

// Cancel removes the pending request for id. Cancelling an unknown id is not
// an error, which keeps cancel-before-install sweeps idempotent.
func (s *LocalScheduler) Cancel(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(id)
	return nil
}

// Pending returns the identifiers of all live requests.
func (s *LocalScheduler) Pending() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]uint64, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	return ids
}

// Start begins the minute check loop. Starting an already started scheduler
// is a no-op.
func (s *LocalScheduler) Start() {
	s.mu.Lock()
	if s.done != nil {
		s.mu.Unlock()
		return
	}
	s.ticker = time.NewTicker(1 * time.Minute)
	s.done = make(chan struct{})
	ticker, done := s.ticker, s.done
	s.mu.Unlock()

	go func() {
		for {
			select {
			case <-ticker.C:
				s.fire(s.now())
			case <-done:
				return
			}
		}
	}()
}

// Stop halts the check loop. Pending requests stay installed. Safe to call
// on a stopped or never started scheduler.
func (s *LocalScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
}

// fire delivers every request due at or before now. Minutes missed while the
// process was suspended are caught up rather than dropped.
func (s *LocalScheduler) fire(now time.Time) {
	cutoff := roundToMinute(now).Unix()

	s.mu.Lock()
	var due []Request
	for key, ids := range s.idsByTime {
		if key > cutoff {
			continue
		}
		for _, id := range ids {
			req, ok := s.pending[id]
			if !ok {
				continue
			}
			due = append(due, req)
			delete(s.pending, id)
		}
		delete(s.idsByTime, key)
	}

	// Reinstall repeating requests at their next occurrence before
	// releasing the lock, so a concurrent Cancel sees consistent state.
	for _, req := range due {
		if req.Repeat == RepeatNone {
			continue
		}
		next := req
		next.At = nextOccurrence(req.At, req.Repeat, now)
		s.pending[next.ID] = next
		key := roundToMinute(next.At).Unix()
		s.idsByTime[key] = append(s.idsByTime[key], next.ID)
	}
	s.mu.Unlock()

	for _, req := range due {
		s.log.Infof("notification %d due: %s", req.ID, req.Title)
		s.deliver.Deliver(req)
	}
}

// nextOccurrence steps a fired request's wall-clock time forward by one day
// or one week until it is after now.
func nextOccurrence(at time.Time, repeat Repeat, now time.Time) time.Time {
	step := 1
	if repeat == RepeatWeekly {
		step = 7
	}
	next := at
	for !next.After(now) {
		next = time.Date(next.Year(), next.Month(), next.Day()+step,
			next.Hour(), next.Minute(), 0, 0, next.Location())
	}
	return next
}
