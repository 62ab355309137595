package repositories

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"pricep/internal/models"
	"pricep/internal/observable"
)

// HistoryRepository is the durable, append-only record of past searches.
// Snapshots handed to subscribers are shared between them and must be
// treated as read-only.
type HistoryRepository interface {
	Insert(ctx context.Context, item *models.HistoryItem) error
	ListAll(ctx context.Context) ([]models.HistoryItem, error)
	ClearAll(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
	Subscribe(ctx context.Context) (*observable.Subscription[[]models.HistoryItem], error)
	Close()
}

type historyRepository struct {
	db   *gorm.DB
	feed *observable.Feed[[]models.HistoryItem]
	now  func() time.Time

	mu     sync.RWMutex
	closed bool
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return newHistoryRepository(db, time.Now)
}

func newHistoryRepository(db *gorm.DB, now func() time.Time) *historyRepository {
	return &historyRepository{
		db:   db,
		feed: observable.NewFeed[[]models.HistoryItem](),
		now:  now,
	}
}

// Insert stores a copy of item under a freshly assigned id. A zero Timestamp
// is replaced with the current time. On success item is updated with the
// stored id and timestamp.
func (r *historyRepository) Insert(ctx context.Context, item *models.HistoryItem) error {
	if item == nil {
		return fmt.Errorf("history item is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}

	row := *item
	row.ID = 0
	if row.Timestamp == 0 {
		row.Timestamp = r.now().UnixMilli()
	}

	err := withBusyRetry(ctx, func() error {
		return r.db.WithContext(ctx).Create(&row).Error
	})
	if err != nil {
		return storageErr("insert history item", err)
	}

	*item = row
	r.publishLocked(ctx)
	return nil
}

func (r *historyRepository) ListAll(ctx context.Context) ([]models.HistoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ErrClosed
	}
	items, err := r.query(ctx)
	if err != nil {
		return nil, storageErr("list history", err)
	}
	return items, nil
}

// ClearAll deletes every row. Clearing an empty table succeeds.
func (r *historyRepository) ClearAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}

	err := withBusyRetry(ctx, func() error {
		return r.db.WithContext(ctx).
			Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&models.HistoryItem{}).Error
	})
	if err != nil {
		return storageErr("clear history", err)
	}

	r.publishLocked(ctx)
	return nil
}

func (r *historyRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return 0, ErrClosed
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.HistoryItem{}).Count(&n).Error; err != nil {
		return 0, storageErr("count history", err)
	}
	return n, nil
}

// Subscribe delivers the current list immediately and a fresh full list after
// every insert or clear.
func (r *historyRepository) Subscribe(ctx context.Context) (*observable.Subscription[[]models.HistoryItem], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ErrClosed
	}
	items, err := r.query(ctx)
	if err != nil {
		return nil, storageErr("subscribe history", err)
	}
	return r.feed.Subscribe(ctx, items), nil
}

func (r *historyRepository) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.feed.Close()
}

func (r *historyRepository) query(ctx context.Context) ([]models.HistoryItem, error) {
	items := make([]models.HistoryItem, 0)
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Order("id DESC").
		Find(&items).Error
	return items, err
}

// publishLocked must be called with the write lock held so snapshots reach
// subscribers in commit order.
func (r *historyRepository) publishLocked(ctx context.Context) {
	items, err := r.query(context.WithoutCancel(ctx))
	if err != nil {
		log.Printf("history: snapshot after write failed: %v", err)
		return
	}
	r.feed.Publish(items)
}
