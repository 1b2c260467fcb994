package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/okian/predboard/internal/domain/model"
	"github.com/okian/predboard/internal/domain/scoring"
	"github.com/okian/predboard/internal/domain/types"
	"github.com/okian/predboard/pkg/logger"
	"github.com/okian/predboard/pkg/metrics"
)

// Board applies the best-of update rule on top of a LeaderboardStore and
// ranks its records.
type Board struct {
	mu     sync.Mutex
	store  LeaderboardStore
	logger logger.Logger
}

// NewBoard wraps store.
func NewBoard(store LeaderboardStore, opts ...BoardOption) *Board {
	b := &Board{store: store}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// UpdateBest stores rec for name if name has no record yet or rec has a
// strictly higher accuracy. It reports whether the board changed; when it
// did not, nothing is written.
func (b *Board) UpdateBest(ctx context.Context, name string, rec model.Record) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, ErrMissingName
	}
	if err := rec.Validate(); err != nil {
		return false, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	updated := false
	size := 0
	err := b.withLock(ctx, func() error {
		board, err := b.store.Load(ctx)
		if err != nil {
			return err
		}
		if prev, ok := board[name]; ok && !rec.Beats(prev) {
			size = len(board)
			return nil
		}
		board[name] = rec
		if err := b.store.Save(ctx, board); err != nil {
			return err
		}
		updated = true
		size = len(board)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("update leaderboard: %w", err)
	}

	metrics.UpdateLeaderboardSize(size)
	if updated {
		metrics.RecordLeaderboardUpdate()
		if b.logger != nil {
			b.logger.Debug(ctx, "leaderboard updated",
				logger.String("name", name),
				logger.Float64("accuracy", rec.Accuracy),
			)
		}
	}
	return updated, nil
}

func (b *Board) withLock(ctx context.Context, fn func() error) error {
	if l, ok := b.store.(Locker); ok {
		return l.WithLock(ctx, fn)
	}
	return fn()
}

// TopN returns the first n ranked entries; n <= 0 returns all of them.
func (b *Board) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	board, err := b.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	entries := Ranking(board)
	if n > 0 && n < len(entries) {
		entries = entries[:n]
	}
	return entries, nil
}

// Rank returns the ranked entry for name.
func (b *Board) Rank(ctx context.Context, name string) (types.Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return types.Entry{}, ErrMissingName
	}
	board, err := b.store.Load(ctx)
	if err != nil {
		return types.Entry{}, err
	}
	if _, ok := board[name]; !ok {
		return types.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	for _, e := range Ranking(board) {
		if e.Name == name {
			return e, nil
		}
	}
	return types.Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Count returns the number of names on the board.
func (b *Board) Count(ctx context.Context) (int, error) {
	board, err := b.store.Load(ctx)
	if err != nil {
		return 0, err
	}
	return len(board), nil
}

// Ranking orders the board by accuracy, highest first. Equal accuracies are
// ordered by earliest timestamp, then by name.
func Ranking(board model.Board) []types.Entry {
	entries := make([]types.Entry, 0, len(board))
	for name, rec := range board {
		entries = append(entries, types.Entry{
			Name:      name,
			Accuracy:  rec.Accuracy,
			Display:   scoring.Format(rec.Accuracy),
			Correct:   rec.Correct,
			Total:     rec.Total,
			Timestamp: rec.Timestamp,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Accuracy != b.Accuracy {
			return a.Accuracy > b.Accuracy
		}
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		return a.Name < b.Name
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
