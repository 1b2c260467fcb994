// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	repository "github.com/okian/predboard/internal/adapters/repository"
	"github.com/okian/predboard/internal/auth"
	"github.com/okian/predboard/internal/domain/model"
	"github.com/okian/predboard/internal/domain/scoring"
	"github.com/okian/predboard/internal/domain/sequence"
	"github.com/okian/predboard/internal/domain/types"
	"github.com/okian/predboard/internal/session"
	"github.com/okian/predboard/pkg/logger"
	"github.com/okian/predboard/pkg/metrics"
)

// Submission outcomes used as metric labels.
const (
	outcomeAccepted = "accepted"
	outcomeParse    = "parse_error"
	outcomeMismatch = "length_mismatch"
	outcomeEmpty    = "empty"
	outcomeNoActual = "no_actuals"
	outcomeNoName   = "missing_name"
)

var defaultNames = []string{"Bob", "Alex", "Ben"}

// Service implements the API dependencies for the accuracy leaderboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	leaderboard repository.LeaderboardStore
	actuals     repository.ActualsStore
	board       *repository.Board
	authorizer  auth.Authorizer
	sessions    *session.Manager

	// Configuration
	names      []string
	watchPath  string
	now        func() time.Time
	generation atomic.Uint64

	// State
	started bool
	watcher *repository.Watcher

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLeaderboardStore sets where best scores are kept.
func WithLeaderboardStore(store repository.LeaderboardStore) Option {
	return func(s *Service) {
		if store != nil {
			s.leaderboard = store
		}
	}
}

// WithActualsStore sets where the admin-uploaded actuals are kept.
func WithActualsStore(store repository.ActualsStore) Option {
	return func(s *Service) {
		if store != nil {
			s.actuals = store
		}
	}
}

// WithAuthorizer sets the admin gate.
func WithAuthorizer(a auth.Authorizer) Option {
	return func(s *Service) {
		if a != nil {
			s.authorizer = a
		}
	}
}

// WithSessions sets the session manager.
func WithSessions(m *session.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.sessions = m
		}
	}
}

// WithNames sets the preset names offered to submitters.
func WithNames(names []string) Option {
	return func(s *Service) {
		if len(names) > 0 {
			s.names = append([]string(nil), names...)
		}
	}
}

// WithClock overrides time.Now for submission timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithActualsWatch makes Start watch path and drop cached actuals whenever
// the file changes outside the service.
func WithActualsWatch(path string) Option {
	return func(s *Service) {
		s.watchPath = path
	}
}

// New constructs a new Service. Without options it keeps everything in
// memory and denies every admin credential.
func New(opts ...Option) *Service {
	s := &Service{
		leaderboard: repository.NewMemoryLeaderboardStore(),
		actuals:     repository.NewMemoryActualsStore(),
		authorizer:  auth.Deny,
		names:       append([]string(nil), defaultNames...),
		now:         time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.sessions == nil {
		s.sessions = session.NewManager()
	}
	s.board = repository.NewBoard(s.leaderboard, repository.WithBoardLogger(s.logger))
	return s
}

// Start starts the optional actuals watcher.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.watchPath != "" {
		w, err := repository.WatchFile(ctx, s.watchPath, s.InvalidateActuals, s.logger)
		if err != nil {
			return err
		}
		s.watcher = w
	}

	if n, err := s.board.Count(ctx); err == nil {
		metrics.UpdateLeaderboardSize(n)
	} else {
		s.logger.Warn(ctx, "leaderboard unreadable at startup", logger.Error(err))
	}

	s.started = true
	s.logger.Info(ctx, "accuracy service started",
		logger.Int("names", len(s.names)),
		logger.Bool("watchActuals", s.watchPath != ""),
	)
	return nil
}

// Stop releases the watcher.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.watcher != nil {
		_ = s.watcher.Close()
		s.watcher = nil
	}
	s.started = false
	s.logger.Info(context.Background(), "accuracy service stopped")
}

// Session returns the session for id, creating one when id is unknown.
func (s *Service) Session(id string) (*session.State, bool) {
	st, created := s.sessions.Get(id)
	if created {
		metrics.UpdateActiveSessions(s.sessions.Len())
	}
	return st, created
}

// SweepSessions drops idle sessions.
func (s *Service) SweepSessions() int {
	n := s.sessions.Sweep()
	metrics.UpdateActiveSessions(s.sessions.Len())
	return n
}

// Unlock passes the admin gate for st when credential is accepted.
func (s *Service) Unlock(ctx context.Context, st *session.State, credential string) error {
	if !s.authorizer.Authorize(ctx, credential) {
		metrics.RecordAuthFailure()
		s.logger.Warn(ctx, "admin unlock rejected", logger.String("session", st.ID))
		return auth.ErrUnauthorized
	}
	st.SetAdminUnlocked(true)
	s.logger.Info(ctx, "admin unlocked", logger.String("session", st.ID))
	return nil
}

// Lock drops admin rights for st and ends the session; the next request
// starts a fresh one.
func (s *Service) Lock(ctx context.Context, st *session.State) {
	st.SetAdminUnlocked(false)
	s.sessions.Drop(st.ID)
	metrics.UpdateActiveSessions(s.sessions.Len())
	s.logger.Info(ctx, "admin locked", logger.String("session", st.ID))
}

// UploadActuals replaces the stored actuals with the values read from r.
func (s *Service) UploadActuals(ctx context.Context, st *session.State, r io.Reader) (types.ActualsStatus, error) {
	if !st.AdminUnlocked() {
		metrics.RecordAuthFailure()
		return types.ActualsStatus{}, auth.ErrUnauthorized
	}

	seq, err := sequence.Parse(r)
	if err != nil {
		return types.ActualsStatus{}, err
	}
	if err := s.actuals.Save(ctx, seq); err != nil {
		return types.ActualsStatus{}, err
	}

	gen := s.generation.Add(1)
	st.CacheActuals(seq, gen)

	metrics.RecordActualsUpload()
	metrics.UpdateActualsLength(len(seq))
	s.logger.Info(ctx, "actuals uploaded", logger.Int("count", len(seq)))
	return types.ActualsStatus{Loaded: true, Count: len(seq)}, nil
}

// ClearActuals removes the stored actuals so a new file can be uploaded.
func (s *Service) ClearActuals(ctx context.Context, st *session.State) error {
	if !st.AdminUnlocked() {
		metrics.RecordAuthFailure()
		return auth.ErrUnauthorized
	}
	if err := s.actuals.Clear(ctx); err != nil {
		return err
	}

	gen := s.generation.Add(1)
	st.CacheActuals(nil, gen)

	metrics.RecordActualsCleared()
	metrics.UpdateActualsLength(0)
	s.logger.Info(ctx, "actuals cleared")
	return nil
}

// ActualsStatus reports whether actuals are available to st.
func (s *Service) ActualsStatus(ctx context.Context, st *session.State) (types.ActualsStatus, error) {
	seq, err := s.loadActuals(ctx, st)
	if errors.Is(err, ErrNoActuals) {
		return types.ActualsStatus{}, nil
	}
	if err != nil {
		return types.ActualsStatus{}, err
	}
	return types.ActualsStatus{Loaded: true, Count: len(seq)}, nil
}

// InvalidateActuals makes every session reload the actuals on next use.
func (s *Service) InvalidateActuals() {
	gen := s.generation.Add(1)
	s.logger.Debug(context.Background(), "actuals invalidated", logger.Any("generation", gen))
}

func (s *Service) loadActuals(ctx context.Context, st *session.State) ([]float64, error) {
	gen := s.generation.Load()
	if st != nil {
		if seq, ok := st.Actuals(gen); ok {
			return seq, nil
		}
	}

	seq, err := s.actuals.Load(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoActuals
	}
	if err != nil {
		return nil, err
	}
	if st != nil {
		st.CacheActuals(seq, gen)
	}
	metrics.UpdateActualsLength(len(seq))
	return seq, nil
}

// Submit scores the predictions read from r against the actuals and keeps
// the result on the leaderboard if it is name's best. Nothing is stored when
// any step fails.
func (s *Service) Submit(ctx context.Context, st *session.State, name string, r io.Reader) (types.Outcome, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		metrics.RecordSubmission(outcomeNoName)
		return types.Outcome{}, ErrMissingName
	}

	predicted, err := sequence.Parse(r)
	if err != nil {
		metrics.RecordSubmission(outcomeParse)
		return types.Outcome{}, err
	}

	actual, err := s.loadActuals(ctx, st)
	if err != nil {
		if errors.Is(err, ErrNoActuals) {
			metrics.RecordSubmission(outcomeNoActual)
		}
		return types.Outcome{}, err
	}

	res, err := scoring.Accuracy(actual, predicted)
	switch {
	case errors.Is(err, scoring.ErrLengthMismatch):
		metrics.RecordSubmission(outcomeMismatch)
		return types.Outcome{}, err
	case errors.Is(err, scoring.ErrEmptyInput):
		metrics.RecordSubmission(outcomeEmpty)
		return types.Outcome{}, err
	case err != nil:
		return types.Outcome{}, err
	}

	updated, err := s.board.UpdateBest(ctx, name, model.NewRecord(res, s.now()))
	if err != nil {
		return types.Outcome{}, err
	}
	best, err := s.board.Rank(ctx, name)
	if err != nil {
		return types.Outcome{}, err
	}

	metrics.RecordSubmission(outcomeAccepted)
	metrics.RecordSubmissionAccuracy(res.Accuracy)
	s.logger.Info(ctx, "prediction scored",
		logger.String("name", name),
		logger.Int("correct", res.Correct),
		logger.Int("total", res.Total),
		logger.Bool("updated", updated),
	)

	return types.Outcome{
		Name:     name,
		Correct:  res.Correct,
		Total:    res.Total,
		Accuracy: res.Accuracy,
		Display:  scoring.Format(res.Accuracy),
		Updated:  updated,
		Best:     best,
	}, nil
}

// Leaderboard returns the top limit entries; limit <= 0 returns all.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]types.Entry, error) {
	return s.board.TopN(ctx, limit)
}

// Rank returns the ranked entry for name.
func (s *Service) Rank(ctx context.Context, name string) (types.Entry, error) {
	return s.board.Rank(ctx, name)
}

// Names returns the preset submitter names.
func (s *Service) Names() []string {
	return append([]string(nil), s.names...)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":           s.started,
		"sessions":          s.sessions.Len(),
		"actualsGeneration": s.generation.Load(),
		"watchActuals":      s.watcher != nil,
	}

	if n, err := s.board.Count(ctx); err == nil {
		stats["leaderboardSize"] = n
		metrics.UpdateLeaderboardSize(n)
	}

	seq, err := s.actuals.Load(ctx)
	switch {
	case err == nil:
		stats["actualsLoaded"] = true
		stats["actualsLength"] = len(seq)
	case errors.Is(err, repository.ErrNotFound):
		stats["actualsLoaded"] = false
		stats["actualsLength"] = 0
	}

	metrics.UpdateActiveSessions(s.sessions.Len())
	return stats
}
