package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// fileLock serialises writers within the process and, through a sibling
// "<path>.lock" file, across processes.
type fileLock struct {
	mu      sync.Mutex
	path    string
	enabled bool
	retry   time.Duration
	dirPerm os.FileMode
}

func newFileLock(target string, o fileOptions) *fileLock {
	return &fileLock{
		path:    target + ".lock",
		enabled: o.lock,
		retry:   o.lockRetry,
		dirPerm: os.FileMode(o.dirPermission),
	}
}

func (l *fileLock) with(ctx context.Context, fn func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled {
		return fn()
	}

	if err := os.MkdirAll(filepath.Dir(l.path), l.dirPerm); err != nil {
		return fmt.Errorf("create lock dir: %w", err)
	}
	fl := flock.New(l.path)
	locked, err := fl.TryLockContext(ctx, l.retry)
	if err != nil {
		return fmt.Errorf("acquire %s: %w", l.path, err)
	}
	if !locked {
		return fmt.Errorf("acquire %s: %w", l.path, ctx.Err())
	}
	defer func() { _ = fl.Unlock() }()

	return fn()
}
