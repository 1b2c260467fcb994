// Package repository persists the actuals sequence and the leaderboard and
// derives rankings from it.
package repository

import (
	"context"

	"github.com/okian/predboard/internal/domain/model"
)

// LeaderboardStore loads and saves the whole name -> record map.
type LeaderboardStore interface {
	// Load returns the stored board; a store that was never written
	// returns an empty board.
	Load(ctx context.Context) (model.Board, error)
	// Save replaces the stored board.
	Save(ctx context.Context, board model.Board) error
}

// ActualsStore loads and replaces the ground-truth sequence.
type ActualsStore interface {
	// Load returns ErrNotFound when no actuals are stored.
	Load(ctx context.Context) ([]float64, error)
	// Save overwrites any existing actuals.
	Save(ctx context.Context, seq []float64) error
	// Clear removes the actuals; clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

// Locker is implemented by stores that can serialise a read-modify-write
// sequence against other writers.
type Locker interface {
	WithLock(ctx context.Context, fn func() error) error
}
