package repositories

import (
	"context"
	"errors"
	"log"
	"strconv"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pricep/internal/models"
	"pricep/internal/observable"
)

// PreferencesRepository persists user settings as key/value rows. Each key
// is observable on its own; writing one key never notifies the other.
type PreferencesRepository interface {
	Settings(ctx context.Context) (models.Settings, error)
	DarkMode(ctx context.Context) (bool, error)
	SelectedLanguage(ctx context.Context) (string, error)
	SetDarkMode(ctx context.Context, enabled bool) error
	SetSelectedLanguage(ctx context.Context, language string) error
	Reset(ctx context.Context) error
	WatchDarkMode(ctx context.Context) (*observable.Subscription[bool], error)
	WatchSelectedLanguage(ctx context.Context) (*observable.Subscription[string], error)
	Close()
}

type preferencesRepository struct {
	db           *gorm.DB
	darkModeFeed *observable.Feed[bool]
	languageFeed *observable.Feed[string]

	mu     sync.RWMutex
	closed bool
}

func NewPreferencesRepository(db *gorm.DB) PreferencesRepository {
	return &preferencesRepository{
		db:           db,
		darkModeFeed: observable.NewFeed[bool](),
		languageFeed: observable.NewFeed[string](),
	}
}

func (r *preferencesRepository) Settings(ctx context.Context) (models.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return models.Settings{}, ErrClosed
	}
	dark, err := r.darkMode(ctx, r.db)
	if err != nil {
		return models.Settings{}, storageErr("read settings", err)
	}
	lang, err := r.language(ctx, r.db)
	if err != nil {
		return models.Settings{}, storageErr("read settings", err)
	}
	return models.Settings{DarkMode: dark, SelectedLanguage: lang}, nil
}

func (r *preferencesRepository) DarkMode(ctx context.Context) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return models.DefaultDarkMode, ErrClosed
	}
	v, err := r.darkMode(ctx, r.db)
	if err != nil {
		return models.DefaultDarkMode, storageErr("read dark mode", err)
	}
	return v, nil
}

func (r *preferencesRepository) SelectedLanguage(ctx context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return models.DefaultSelectedLanguage, ErrClosed
	}
	v, err := r.language(ctx, r.db)
	if err != nil {
		return models.DefaultSelectedLanguage, storageErr("read selected language", err)
	}
	return v, nil
}

func (r *preferencesRepository) SetDarkMode(ctx context.Context, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	err := withBusyRetry(ctx, func() error {
		return upsertPreference(ctx, r.db, models.PrefDarkMode, strconv.FormatBool(enabled))
	})
	if err != nil {
		return storageErr("save dark mode", err)
	}
	r.darkModeFeed.Publish(enabled)
	return nil
}

func (r *preferencesRepository) SetSelectedLanguage(ctx context.Context, language string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	err := withBusyRetry(ctx, func() error {
		return upsertPreference(ctx, r.db, models.PrefSelectedLanguage, language)
	})
	if err != nil {
		return storageErr("save selected language", err)
	}
	r.languageFeed.Publish(language)
	return nil
}

// Reset wipes every stored preference except the selected language, which is
// written back inside the same transaction. Language subscribers are never
// notified since their value cannot change; dark mode subscribers hear about
// the reset only when it changes their value.
func (r *preferencesRepository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}

	prevDark, err := r.darkMode(ctx, r.db)
	if err != nil {
		return storageErr("reset settings", err)
	}

	err = withBusyRetry(ctx, func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			lang, ok, err := getPreference(ctx, tx, models.PrefSelectedLanguage)
			if err != nil {
				return err
			}
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Preference{}).Error; err != nil {
				return err
			}
			if ok {
				return upsertPreference(ctx, tx, models.PrefSelectedLanguage, lang)
			}
			return nil
		})
	})
	if err != nil {
		return storageErr("reset settings", err)
	}

	if prevDark != models.DefaultDarkMode {
		r.darkModeFeed.Publish(models.DefaultDarkMode)
	}
	return nil
}

func (r *preferencesRepository) WatchDarkMode(ctx context.Context) (*observable.Subscription[bool], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ErrClosed
	}
	v, err := r.darkMode(ctx, r.db)
	if err != nil {
		return nil, storageErr("watch dark mode", err)
	}
	return r.darkModeFeed.Subscribe(ctx, v), nil
}

func (r *preferencesRepository) WatchSelectedLanguage(ctx context.Context) (*observable.Subscription[string], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ErrClosed
	}
	v, err := r.language(ctx, r.db)
	if err != nil {
		return nil, storageErr("watch selected language", err)
	}
	return r.languageFeed.Subscribe(ctx, v), nil
}

func (r *preferencesRepository) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.darkModeFeed.Close()
	r.languageFeed.Close()
}

func (r *preferencesRepository) darkMode(ctx context.Context, db *gorm.DB) (bool, error) {
	raw, ok, err := getPreference(ctx, db, models.PrefDarkMode)
	if err != nil || !ok {
		return models.DefaultDarkMode, err
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("preferences: ignoring malformed %s value %q", models.PrefDarkMode, raw)
		return models.DefaultDarkMode, nil
	}
	return v, nil
}

func (r *preferencesRepository) language(ctx context.Context, db *gorm.DB) (string, error) {
	raw, ok, err := getPreference(ctx, db, models.PrefSelectedLanguage)
	if err != nil || !ok {
		return models.DefaultSelectedLanguage, err
	}
	return raw, nil
}

func getPreference(ctx context.Context, db *gorm.DB, key models.PreferenceKey) (string, bool, error) {
	var pref models.Preference
	if err := db.WithContext(ctx).Where("`key` = ?", key).Take(&pref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return pref.Value, true, nil
}

func upsertPreference(ctx context.Context, db *gorm.DB, key models.PreferenceKey, value string) error {
	pref := models.Preference{Key: key, Value: value}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&pref).Error
}
