package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
	"github.com/okian/predboard/internal/domain/model"
	"github.com/okian/predboard/pkg/metrics"
)

const leaderboardStoreName = "leaderboard"

// JSONFileStore keeps the leaderboard as a pretty-printed JSON object keyed
// by name. Writes replace the file atomically.
type JSONFileStore struct {
	path string
	opts fileOptions
	lock *fileLock
}

// NewJSONFileStore returns a store backed by path. The file is created on
// first save.
func NewJSONFileStore(path string, opts ...FileOption) *JSONFileStore {
	o := defaultFileOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &JSONFileStore{path: path, opts: o, lock: newFileLock(path, o)}
}

// Path returns the backing file.
func (s *JSONFileStore) Path() string { return s.path }

// Load reads the board; a missing or blank file is an empty board.
func (s *JSONFileStore) Load(_ context.Context) (model.Board, error) {
	start := time.Now()
	defer func() { metrics.RecordRepositoryLoadLatency(sinceMs(start)) }()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Board{}, nil
	}
	if err != nil {
		metrics.RecordRepositoryError(leaderboardStoreName, "load")
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return model.Board{}, nil
	}

	board := model.Board{}
	if err := json.Unmarshal(data, &board); err != nil {
		metrics.RecordRepositoryError(leaderboardStoreName, "load")
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, s.path, err)
	}
	return board, nil
}

// Save writes the whole board.
func (s *JSONFileStore) Save(_ context.Context, board model.Board) error {
	start := time.Now()
	defer func() { metrics.RecordRepositorySaveLatency(sinceMs(start)) }()

	if board == nil {
		board = model.Board{}
	}
	data, err := json.MarshalIndent(board, "", s.opts.indent)
	if err != nil {
		return fmt.Errorf("encode leaderboard: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), os.FileMode(s.opts.dirPermission)); err != nil {
		metrics.RecordRepositoryError(leaderboardStoreName, "save")
		return fmt.Errorf("create leaderboard dir: %w", err)
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		metrics.RecordRepositoryError(leaderboardStoreName, "save")
		return fmt.Errorf("write leaderboard: %w", err)
	}
	return nil
}

// WithLock runs fn while holding the leaderboard lock file.
func (s *JSONFileStore) WithLock(ctx context.Context, fn func() error) error {
	return s.lock.with(ctx, fn)
}

func sinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
