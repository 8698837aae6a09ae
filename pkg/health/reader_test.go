package health

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	granted  bool
	authErr  error
	samples  []Sample
	queryErr error

	queriedFrom time.Time
	queriedTo   time.Time
}

func (f *fakeSource) Authorize(ctx context.Context, categories []Category) (bool, error) {
	return f.granted, f.authErr
}

func (f *fakeSource) Query(ctx context.Context, categories []Category, from, to time.Time) ([]Sample, error) {
	f.queriedFrom, f.queriedTo = from, to
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.samples, nil
}

func testReader(src Source) *Reader {
	r := NewReader(src, zap.NewNop().Sugar())
	r.now = func() time.Time {
		return time.Date(2025, time.June, 3, 8, 0, 0, 0, time.UTC)
	}
	return r
}

func sample(cat Category, start time.Time, d time.Duration) Sample {
	return Sample{Category: cat, Start: start, End: start.Add(d)}
}

func TestReadSumsSampleDurations(t *testing.T) {
	night := time.Date(2025, time.June, 2, 23, 0, 0, 0, time.UTC)
	src := &fakeSource{granted: true, samples: []Sample{
		sample(CategoryAsleepCore, night, 4*time.Hour),
		sample(CategoryAsleepDeep, night.Add(4*time.Hour), 90*time.Minute),
		sample(CategoryAsleepREM, night.Add(330*time.Minute), 2*time.Hour),
	}}

	r := testReader(src)
	r.Read(context.Background())

	assert.True(t, r.Authorized())
	assert.InDelta(t, 7.5, r.SleepHours(), 1e-9)
}

func TestReadOverlappingSamplesDoubleCount(t *testing.T) {
	// Overlap is summed, not merged: an in-bed hour and an asleep hour over
	// the same wall-clock interval count twice.
	start := time.Date(2025, time.June, 2, 23, 0, 0, 0, time.UTC)
	src := &fakeSource{granted: true, samples: []Sample{
		sample(CategoryInBed, start, time.Hour),
		sample(CategoryAsleepCore, start, time.Hour),
	}}

	r := testReader(src)
	r.Read(context.Background())
	assert.InDelta(t, 2.0, r.SleepHours(), 1e-9)
}

func TestReadQueriesTrailingTwoDays(t *testing.T) {
	src := &fakeSource{granted: true}
	r := testReader(src)
	r.Read(context.Background())

	assert.Equal(t, r.now(), src.queriedTo)
	assert.Equal(t, r.now().Add(-48*time.Hour), src.queriedFrom)
}

func TestReadDenialKeepsPreviousHours(t *testing.T) {
	start := time.Date(2025, time.June, 2, 23, 0, 0, 0, time.UTC)
	src := &fakeSource{granted: true, samples: []Sample{
		sample(CategoryAsleepCore, start, 6 * time.Hour),
	}}
	r := testReader(src)
	r.Read(context.Background())
	require.InDelta(t, 6.0, r.SleepHours(), 1e-9)

	src.granted = false
	r.Read(context.Background())
	assert.False(t, r.Authorized())
	assert.InDelta(t, 6.0, r.SleepHours(), 1e-9)
}

func TestReadAuthorizeErrorTreatedAsDenial(t *testing.T) {
	src := &fakeSource{granted: true, authErr: errors.New("store unavailable")}
	r := testReader(src)
	r.Read(context.Background())
	assert.False(t, r.Authorized())
}

func TestReadQueryErrorResetsHours(t *testing.T) {
	start := time.Date(2025, time.June, 2, 23, 0, 0, 0, time.UTC)
	src := &fakeSource{granted: true, samples: []Sample{
		sample(CategoryAsleepCore, start, 6 * time.Hour),
	}}
	r := testReader(src)
	r.Read(context.Background())
	require.InDelta(t, 6.0, r.SleepHours(), 1e-9)

	src.queryErr = errors.New("query timed out")
	r.Read(context.Background())
	assert.True(t, r.Authorized())
	assert.Zero(t, r.SleepHours())
}

func TestFileSourceMissingFileDenies(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "absent.json"))
	ok, err := src.Authorize(context.Background(), SleepCategories())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileSourceFiltersCategoryAndWindow(t *testing.T) {
	now := time.Date(2025, time.June, 3, 8, 0, 0, 0, time.UTC)
	inWindow := sample(CategoryAsleepCore, now.Add(-10*time.Hour), 6*time.Hour)
	tooOld := sample(CategoryAsleepCore, now.Add(-80*time.Hour), 6*time.Hour)
	otherKind := Sample{Category: "mindfulSession", Start: now.Add(-5 * time.Hour), End: now.Add(-4 * time.Hour)}

	path := filepath.Join(t.TempDir(), "sleep_samples.json")
	data, err := json.Marshal([]Sample{inWindow, tooOld, otherKind})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	src := NewFileSource(path)
	ok, err := src.Authorize(context.Background(), SleepCategories())
	require.NoError(t, err)
	require.True(t, ok)

	got, err := src.Query(context.Background(), SleepCategories(), now.Add(-48*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, inWindow.Start.Unix(), got[0].Start.Unix())
}

func TestFileSourceCorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sleep_samples.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	_, err := NewFileSource(path).Query(context.Background(), SleepCategories(),
		time.Now().Add(-48*time.Hour), time.Now())
	assert.Error(t, err)
}
