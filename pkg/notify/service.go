package notify

import "time"

// Repeat describes how an installed notification recurs after it fires.
type Repeat int

const (
	RepeatNone Repeat = iota
	RepeatDaily
	RepeatWeekly
)

// Request describes one notification to install with the platform
// notification service.
type Request struct {
	ID    uint64
	Title string
	Body  string
	At    time.Time

	// Sound names a bundled wake sound; empty requests the platform
	// default alarm sound.
	Sound  string
	Repeat Repeat

	// Exact requests exact, idle-bypassing delivery with full-screen
	// presentation. Platforms may demote this under power constraints.
	Exact      bool
	FullScreen bool
}

// Service is the local notification scheduling collaborator. Implementations
// are expected to survive app restarts and deliver at or after the requested
// instant.
type Service interface {
	ScheduleAt(req Request) error
	Cancel(id uint64) error
}
