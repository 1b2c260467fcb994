package repository

import (
	"context"
	"sync"

	"github.com/okian/predboard/internal/domain/model"
)

// MemoryLeaderboardStore keeps the board in memory.
type MemoryLeaderboardStore struct {
	mu    sync.RWMutex
	board model.Board
	saves int
}

// NewMemoryLeaderboardStore returns an empty in-memory board.
func NewMemoryLeaderboardStore() *MemoryLeaderboardStore {
	return &MemoryLeaderboardStore{board: model.Board{}}
}

// Load returns a copy of the board.
func (s *MemoryLeaderboardStore) Load(_ context.Context) (model.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.board.Clone(), nil
}

// Save replaces the board with a copy of board.
func (s *MemoryLeaderboardStore) Save(_ context.Context, board model.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board = board.Clone()
	s.saves++
	return nil
}

// Saves reports how many times Save was called.
func (s *MemoryLeaderboardStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// MemoryActualsStore keeps the actuals in memory.
type MemoryActualsStore struct {
	mu  sync.RWMutex
	seq []float64
}

// NewMemoryActualsStore returns an empty in-memory actuals store.
func NewMemoryActualsStore() *MemoryActualsStore {
	return &MemoryActualsStore{}
}

// Load returns a copy of the actuals or ErrNotFound.
func (s *MemoryActualsStore) Load(_ context.Context) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.seq) == 0 {
		return nil, ErrNotFound
	}
	return append([]float64(nil), s.seq...), nil
}

// Save replaces the actuals.
func (s *MemoryActualsStore) Save(_ context.Context, seq []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = append([]float64(nil), seq...)
	return nil
}

// Clear drops the actuals.
func (s *MemoryActualsStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = nil
	return nil
}
