package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"qc-tracking-backend/internal/model"
)

// fileStore keeps every record in memory and rewrites the whole JSON array on
// each append. With an empty path nothing is written to disk.
type fileStore struct {
	path    string
	logger  *zap.Logger
	now     func() time.Time
	mu      sync.Mutex
	records []model.Measurement
	nextID  int64
}

// NewFileStore loads path (a JSON array, possibly missing) and returns a
// store that rewrites it after every append.
func NewFileStore(path string, logger *zap.Logger) (Store, error) {
	s := &fileStore{path: path, logger: logger, now: time.Now, nextID: 1}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Info("record file does not exist yet; starting empty", zap.String("path", path))
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.records); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	}
	for _, r := range s.records {
		if r.ID >= s.nextID {
			s.nextID = r.ID + 1
		}
	}
	logger.Info("record file loaded", zap.String("path", path), zap.Int("records", len(s.records)))
	return s, nil
}

func (s *fileStore) Append(ctx context.Context, m model.Measurement) (model.Measurement, error) {
	if err := ctx.Err(); err != nil {
		return model.Measurement{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m = stamp(m, s.now)
	m.ID = s.nextID
	records := append(s.records, m)

	if err := s.flush(records); err != nil {
		return model.Measurement{}, err
	}
	s.records = records
	s.nextID++
	return m, nil
}

func (s *fileStore) ListAll(ctx context.Context) ([]model.Measurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Measurement, len(s.records))
	copy(out, s.records)
	return out, nil
}

// flush rewrites the whole file. The write is not atomic; a crash mid-write
// can leave a truncated file.
func (s *fileStore) flush(records []model.Measurement) error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}
