package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"pricep/internal/appcontext"
	"pricep/internal/models"
	"pricep/internal/services"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

var errNotReady = errors.New("application is not ready")

// App struct
type App struct {
	ctx      context.Context
	provider *appcontext.Provider
	app      *appcontext.Context
}

// NewApp creates a new App application struct
func NewApp(provider *appcontext.Provider) *App {
	return &App{provider: provider}
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	app, err := a.provider.Get(ctx)
	if err != nil {
		runtime.LogError(ctx, fmt.Sprintf("failed to open application context: %v", err))
		return
	}
	a.app = app

	app.Events.Startup(ctx)
	if _, err := app.Events.StartStream(app.History, app.Preferences); err != nil {
		runtime.LogError(ctx, fmt.Sprintf("failed to start event stream: %v", err))
	}
}

// shutdown is called when the app is closing. Clean up resources here.
func (a *App) shutdown(ctx context.Context) {
	if err := a.provider.Close(); err != nil {
		runtime.LogError(ctx, fmt.Sprintf("failed to close database: %v", err))
		return
	}
	runtime.LogInfo(ctx, "database closed")
}

func (a *App) ready() (*appcontext.Context, error) {
	if a.app == nil {
		return nil, errNotReady
	}
	return a.app, nil
}

// SearchText looks up prices for query and records it in history.
func (a *App) SearchText(query string) (*services.SearchResult, error) {
	app, err := a.ready()
	if err != nil {
		return nil, err
	}
	res, err := app.Search.SearchText(a.ctx, query, true)
	if err != nil && res == nil {
		runtime.LogError(a.ctx, fmt.Sprintf("text search failed: %v", err))
		return nil, err
	}
	if err != nil {
		runtime.LogWarning(a.ctx, fmt.Sprintf("search succeeded but was not saved: %v", err))
	}
	return res, nil
}

// SearchPhoto takes a base64 JPEG, describes it and searches for the
// description.
func (a *App) SearchPhoto(imageBase64 string) (*services.SearchResult, error) {
	app, err := a.ready()
	if err != nil {
		return nil, err
	}
	image, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	res, err := app.Search.SearchImage(a.ctx, image, true)
	if err != nil && res == nil {
		runtime.LogError(a.ctx, fmt.Sprintf("photo search failed: %v", err))
		return nil, err
	}
	if err != nil {
		runtime.LogWarning(a.ctx, fmt.Sprintf("search succeeded but was not saved: %v", err))
	}
	return res, nil
}

// History returns all records, newest first.
func (a *App) History() ([]models.HistoryItem, error) {
	app, err := a.ready()
	if err != nil {
		return nil, err
	}
	return app.History.List(a.ctx)
}

func (a *App) ClearHistory() error {
	app, err := a.ready()
	if err != nil {
		return err
	}
	return app.History.ClearHistory(a.ctx)
}

func (a *App) Settings() (models.Settings, error) {
	app, err := a.ready()
	if err != nil {
		return models.DefaultSettings(), err
	}
	return app.Preferences.Get(a.ctx)
}

func (a *App) SetDarkMode(enabled bool) error {
	app, err := a.ready()
	if err != nil {
		return err
	}
	return app.Preferences.SetDarkMode(a.ctx, enabled)
}

func (a *App) SetSelectedLanguage(language string) error {
	app, err := a.ready()
	if err != nil {
		return err
	}
	return app.Preferences.SetSelectedLanguage(a.ctx, language)
}

// ResetSettings restores defaults but keeps the selected language.
func (a *App) ResetSettings() error {
	app, err := a.ready()
	if err != nil {
		return err
	}
	return app.Preferences.ResetSettings(a.ctx)
}

// Languages lists the languages the UI can be switched to.
func (a *App) Languages() []string {
	return append([]string(nil), models.Languages...)
}
