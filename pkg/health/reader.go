package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// readWindow is the trailing window summed for the sleep readout.
const readWindow = 48 * time.Hour

// Reader requests sleep-data authorization and reduces the trailing two days
// of samples to a total duration in hours.
type Reader struct {
	mu         sync.Mutex
	src        Source
	log        *zap.SugaredLogger
	now        func() time.Time
	authorized bool
	hours      float64
}

func NewReader(src Source, log *zap.SugaredLogger) *Reader {
	return &Reader{
		src: src,
		log: log,
		now: time.Now,
	}
}

// Read requests authorization and, if granted, queries all sleep-stage
// samples in the trailing 2-day window. On denial the previous hours value is
// kept; on query failure the value resets to 0. Read never returns an error:
// the feature degrades to a neutral readout instead.
//
// Overlapping samples are not deduplicated; the reduction is a plain sum over
// every returned interval. This is a known inaccuracy of the readout.
func (r *Reader) Read(ctx context.Context) {
	categories := SleepCategories()

	ok, err := r.src.Authorize(ctx, categories)
	if err != nil || !ok {
		if err != nil {
			r.log.Warnf("health: authorization failed: %v", err)
		}
		r.mu.Lock()
		r.authorized = false
		r.mu.Unlock()
		return
	}

	now := r.now()
	samples, err := r.src.Query(ctx, categories, now.Add(-readWindow), now)
	if err != nil {
		r.log.Warnf("health: sleep query failed: %v", err)
		r.mu.Lock()
		r.authorized = true
		r.hours = 0
		r.mu.Unlock()
		return
	}

	var minutes float64
	for _, s := range samples {
		minutes += s.End.Sub(s.Start).Minutes()
	}

	r.mu.Lock()
	r.authorized = true
	r.hours = minutes / 60
	r.mu.Unlock()
}

// Authorized reports the outcome of the last authorization request.
func (r *Reader) Authorized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.authorized
}

// SleepHours returns the last computed total, 0 if never read successfully.
func (r *Reader) SleepHours() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hours
}
