package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrStorageUnavailable matches every failure of the underlying database
	// (disk full, permission denied, corrupt file, closed pool).
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrNotFound is part of the taxonomy but no operation looks rows up by id.
	ErrNotFound = errors.New("not found")
	// ErrConcurrentWriteConflict is reported only when another connection
	// keeps the file busy through every retry. In-process writes are
	// serialized.
	ErrConcurrentWriteConflict = errors.New("concurrent write conflict")
	ErrClosed                  = errors.New("store closed")
)

// StorageError wraps a driver error with the operation that hit it. It matches
// ErrStorageUnavailable under errors.Is.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrStorageUnavailable, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorageUnavailable, e.Err}
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

const writeAttempts = 5

// withBusyRetry retries fn while SQLite reports the file busy or locked by
// another connection.
func withBusyRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 1; attempt <= writeAttempts; attempt++ {
		if err = fn(); err == nil || !isBusy(err) {
			return err
		}
		if attempt == writeAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 25 * time.Millisecond):
		}
	}
	return fmt.Errorf("%w: %w", ErrConcurrentWriteConflict, err)
}

func isBusy(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
	}
	return false
}
