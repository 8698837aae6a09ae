package health

import (
	"context"
	"time"
)

// Category identifies one sleep-stage sample category in the health data
// source.
type Category string

const (
	CategoryInBed             Category = "inBed"
	CategoryAsleepUnspecified Category = "asleepUnspecified"
	CategoryAsleepCore        Category = "asleepCore"
	CategoryAsleepDeep        Category = "asleepDeep"
	CategoryAsleepREM         Category = "asleepREM"
)

// SleepCategories returns the five sleep-stage categories read for the sleep
// duration readout.
func SleepCategories() []Category {
	return []Category{
		CategoryInBed,
		CategoryAsleepUnspecified,
		CategoryAsleepCore,
		CategoryAsleepDeep,
		CategoryAsleepREM,
	}
}

// Sample is one recorded sleep interval.
type Sample struct {
	Category Category  `json:"category"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// Source is the health data collaborator.
type Source interface {
	// Authorize requests read access for the given categories.
	Authorize(ctx context.Context, categories []Category) (bool, error)

	// Query returns all samples of the given categories in [from, to].
	Query(ctx context.Context, categories []Category, from, to time.Time) ([]Sample, error)
}
