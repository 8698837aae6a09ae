package health

import (
	"context"
	"encoding/json"
	"os"
	"time"
)

// FileSource reads sleep samples from a JSON file, e.g. one exported from a
// phone's health app. Authorization succeeds when the file is readable.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) Authorize(ctx context.Context, categories []Category) (bool, error) {
	if _, err := os.Stat(f.path); err != nil {
		return false, nil
	}
	return true, nil
}

func (f *FileSource) Query(ctx context.Context, categories []Category, from, to time.Time) ([]Sample, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}

	var all []Sample
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}

	wanted := make(map[Category]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}

	var out []Sample
	for _, s := range all {
		if !wanted[s.Category] {
			continue
		}
		if s.End.Before(from) || s.Start.After(to) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

var _ Source = (*FileSource)(nil)
