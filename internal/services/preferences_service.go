package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pricep/internal/models"
	"pricep/internal/observable"
	"pricep/internal/repositories"
)

var ErrUnsupportedLanguage = errors.New("unsupported language")

type PreferencesService interface {
	Get(ctx context.Context) (models.Settings, error)
	DarkMode(ctx context.Context) (bool, error)
	SelectedLanguage(ctx context.Context) (string, error)
	SetDarkMode(ctx context.Context, enabled bool) error
	SetSelectedLanguage(ctx context.Context, language string) error
	ResetSettings(ctx context.Context) error
	WatchDarkMode(ctx context.Context) (*observable.Subscription[bool], error)
	WatchSelectedLanguage(ctx context.Context) (*observable.Subscription[string], error)
}

type preferencesService struct {
	prefs repositories.PreferencesRepository
}

func NewPreferencesService(prefs repositories.PreferencesRepository) PreferencesService {
	return &preferencesService{prefs: prefs}
}

func (s *preferencesService) Get(ctx context.Context) (models.Settings, error) {
	return s.prefs.Settings(ctx)
}

func (s *preferencesService) DarkMode(ctx context.Context) (bool, error) {
	return s.prefs.DarkMode(ctx)
}

func (s *preferencesService) SelectedLanguage(ctx context.Context) (string, error) {
	return s.prefs.SelectedLanguage(ctx)
}

func (s *preferencesService) SetDarkMode(ctx context.Context, enabled bool) error {
	return s.prefs.SetDarkMode(ctx, enabled)
}

func (s *preferencesService) SetSelectedLanguage(ctx context.Context, language string) error {
	language = strings.TrimSpace(language)
	if !models.IsSupportedLanguage(language) {
		return fmt.Errorf("%w: %q (expected one of %s)", ErrUnsupportedLanguage, language, strings.Join(models.Languages, ", "))
	}
	return s.prefs.SetSelectedLanguage(ctx, language)
}

// ResetSettings restores defaults for everything except the selected language.
func (s *preferencesService) ResetSettings(ctx context.Context) error {
	return s.prefs.Reset(ctx)
}

func (s *preferencesService) WatchDarkMode(ctx context.Context) (*observable.Subscription[bool], error) {
	return s.prefs.WatchDarkMode(ctx)
}

func (s *preferencesService) WatchSelectedLanguage(ctx context.Context) (*observable.Subscription[string], error) {
	return s.prefs.WatchSelectedLanguage(ctx)
}
