package mocks

import (
	"context"

	"pricep/internal/models"
	"pricep/internal/observable"
)

type PreferencesRepositoryMock struct {
	SettingsFunc              func(ctx context.Context) (models.Settings, error)
	DarkModeFunc              func(ctx context.Context) (bool, error)
	SelectedLanguageFunc      func(ctx context.Context) (string, error)
	SetDarkModeFunc           func(ctx context.Context, enabled bool) error
	SetSelectedLanguageFunc   func(ctx context.Context, language string) error
	ResetFunc                 func(ctx context.Context) error
	WatchDarkModeFunc         func(ctx context.Context) (*observable.Subscription[bool], error)
	WatchSelectedLanguageFunc func(ctx context.Context) (*observable.Subscription[string], error)
	CloseFunc                 func()
}

func (m *PreferencesRepositoryMock) Settings(ctx context.Context) (models.Settings, error) {
	if m.SettingsFunc != nil {
		return m.SettingsFunc(ctx)
	}
	return models.DefaultSettings(), nil
}

func (m *PreferencesRepositoryMock) DarkMode(ctx context.Context) (bool, error) {
	if m.DarkModeFunc != nil {
		return m.DarkModeFunc(ctx)
	}
	return models.DefaultDarkMode, nil
}

func (m *PreferencesRepositoryMock) SelectedLanguage(ctx context.Context) (string, error) {
	if m.SelectedLanguageFunc != nil {
		return m.SelectedLanguageFunc(ctx)
	}
	return models.DefaultSelectedLanguage, nil
}

func (m *PreferencesRepositoryMock) SetDarkMode(ctx context.Context, enabled bool) error {
	if m.SetDarkModeFunc != nil {
		return m.SetDarkModeFunc(ctx, enabled)
	}
	return nil
}

func (m *PreferencesRepositoryMock) SetSelectedLanguage(ctx context.Context, language string) error {
	if m.SetSelectedLanguageFunc != nil {
		return m.SetSelectedLanguageFunc(ctx, language)
	}
	return nil
}

func (m *PreferencesRepositoryMock) Reset(ctx context.Context) error {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx)
	}
	return nil
}

func (m *PreferencesRepositoryMock) WatchDarkMode(ctx context.Context) (*observable.Subscription[bool], error) {
	if m.WatchDarkModeFunc != nil {
		return m.WatchDarkModeFunc(ctx)
	}
	return observable.NewFeed[bool]().Subscribe(ctx, models.DefaultDarkMode), nil
}

func (m *PreferencesRepositoryMock) WatchSelectedLanguage(ctx context.Context) (*observable.Subscription[string], error) {
	if m.WatchSelectedLanguageFunc != nil {
		return m.WatchSelectedLanguageFunc(ctx)
	}
	return observable.NewFeed[string]().Subscribe(ctx, models.DefaultSelectedLanguage), nil
}

func (m *PreferencesRepositoryMock) Close() {
	if m.CloseFunc != nil {
		m.CloseFunc()
	}
}
