package repository

import (
	"time"

	"github.com/okian/predboard/pkg/logger"
)

// FileOption configures the file-backed stores.
type FileOption func(*fileOptions)

type fileOptions struct {
	lock          bool
	lockRetry     time.Duration
	indent        string
	dirPermission uint32
}

func defaultFileOptions() fileOptions {
	return fileOptions{
		lock:          true,
		lockRetry:     10 * time.Millisecond,
		indent:        "  ",
		dirPermission: 0o755,
	}
}

// WithFileLock toggles the advisory lock file used by WithLock.
func WithFileLock(enabled bool) FileOption {
	return func(o *fileOptions) { o.lock = enabled }
}

// WithLockRetry sets how often a busy lock is retried.
func WithLockRetry(d time.Duration) FileOption {
	return func(o *fileOptions) {
		if d > 0 {
			o.lockRetry = d
		}
	}
}

// BoardOption configures a Board.
type BoardOption func(*Board)

// WithBoardLogger sets the logger used by the board.
func WithBoardLogger(l logger.Logger) BoardOption {
	return func(b *Board) {
		if l != nil {
			b.logger = l
		}
	}
}
