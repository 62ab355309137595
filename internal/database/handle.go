package database

import (
	"errors"
	"sync"

	"gorm.io/gorm"
)

var ErrHandleClosed = errors.New("database handle closed")

// Handle opens the database on first use and hands the same *gorm.DB to
// every caller afterwards. Concurrent first calls open it exactly once.
type Handle struct {
	cfg  Config
	open func(Config) (*gorm.DB, error)

	once sync.Once
	db   *gorm.DB
	err  error

	closeMu sync.Mutex
	closed  bool
}

func NewHandle(cfg Config) *Handle {
	return &Handle{cfg: cfg, open: Init}
}

// DB returns the shared connection, opening it if needed. An open failure is
// sticky: every later call returns the same error.
func (h *Handle) DB() (*gorm.DB, error) {
	h.once.Do(func() {
		h.db, h.err = h.open(h.cfg)
	})
	return h.db, h.err
}

// Close closes the connection if it was opened. Later calls are no-ops.
func (h *Handle) Close() error {
	h.closeMu.Lock()
	defer h.closeMu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true

	// Make sure a concurrent first DB() cannot open after we close.
	h.once.Do(func() { h.err = ErrHandleClosed })
	if h.db == nil {
		return nil
	}
	return Close(h.db)
}
