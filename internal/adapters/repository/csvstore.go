package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"github.com/okian/predboard/internal/domain/sequence"
	"github.com/okian/predboard/pkg/metrics"
)

const actualsStoreName = "actuals"

// CSVFileStore keeps the actuals as a headerless CSV, one value per row.
type CSVFileStore struct {
	path string
	opts fileOptions
	lock *fileLock
}

// NewCSVFileStore returns a store backed by path.
func NewCSVFileStore(path string, opts ...FileOption) *CSVFileStore {
	o := defaultFileOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &CSVFileStore{path: path, opts: o, lock: newFileLock(path, o)}
}

// Path returns the backing file.
func (s *CSVFileStore) Path() string { return s.path }

// Load parses the stored actuals.
func (s *CSVFileStore) Load(_ context.Context) ([]float64, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryLoadLatency(sinceMs(start)) }()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		metrics.RecordRepositoryError(actualsStoreName, "load")
		return nil, fmt.Errorf("open actuals: %w", err)
	}
	defer func() { _ = f.Close() }()

	seq, err := sequence.Parse(f)
	if errors.Is(err, sequence.ErrEmpty) {
		// An emptied file counts as no actuals, not as corruption.
		return nil, ErrNotFound
	}
	if err != nil {
		metrics.RecordRepositoryError(actualsStoreName, "load")
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, s.path, err)
	}
	return seq, nil
}

// Save overwrites the actuals file.
func (s *CSVFileStore) Save(ctx context.Context, seq []float64) error {
	start := time.Now()
	defer func() { metrics.RecordRepositorySaveLatency(sinceMs(start)) }()

	var buf bytes.Buffer
	if err := sequence.Write(&buf, seq); err != nil {
		return err
	}

	return s.lock.with(ctx, func() error {
		if err := os.MkdirAll(filepath.Dir(s.path), os.FileMode(s.opts.dirPermission)); err != nil {
			metrics.RecordRepositoryError(actualsStoreName, "save")
			return fmt.Errorf("create actuals dir: %w", err)
		}
		if err := atomic.WriteFile(s.path, &buf); err != nil {
			metrics.RecordRepositoryError(actualsStoreName, "save")
			return fmt.Errorf("write actuals: %w", err)
		}
		return nil
	})
}

// Clear deletes the actuals file.
func (s *CSVFileStore) Clear(ctx context.Context) error {
	return s.lock.with(ctx, func() error {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			metrics.RecordRepositoryError(actualsStoreName, "clear")
			return fmt.Errorf("remove actuals: %w", err)
		}
		return nil
	})
}
