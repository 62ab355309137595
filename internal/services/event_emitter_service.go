package services

import (
	"context"
	"errors"
	"sync"

	"pricep/internal/events"
	"pricep/internal/models"
)

// EventEmitterService pushes history and settings snapshots to the
// presentation layer as named events for as long as the stream runs.
type EventEmitterService struct {
	context context.Context
	emit    events.EmitFunc

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewEventEmitterService(emit events.EmitFunc) *EventEmitterService {
	if emit == nil {
		emit = events.Discard
	}
	return &EventEmitterService{emit: emit}
}

func (e *EventEmitterService) Startup(ctx context.Context) {
	e.context = ctx
}

// StartStream subscribes to history and both preferences and forwards every
// snapshot. It returns false when the service has no context or is already
// streaming.
func (e *EventEmitterService) StartStream(history HistoryService, prefs PreferencesService) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.context == nil || e.running {
		return false, nil
	}
	if history == nil || prefs == nil {
		return false, errors.New("history and preferences services are required")
	}

	ctx, cancel := context.WithCancel(e.context)

	historySub, err := history.AllHistoryItems(ctx)
	if err != nil {
		cancel()
		return false, err
	}
	darkSub, err := prefs.WatchDarkMode(ctx)
	if err != nil {
		cancel()
		historySub.Unsubscribe()
		return false, err
	}
	langSub, err := prefs.WatchSelectedLanguage(ctx)
	if err != nil {
		cancel()
		historySub.Unsubscribe()
		darkSub.Unsubscribe()
		return false, err
	}

	e.cancel = cancel
	e.running = true

	forward(&e.wg, historySub.Updates(), func(items []models.HistoryItem) {
		e.emit(e.context, events.HistoryUpdated, events.NewHistoryEvent(items))
	})
	forward(&e.wg, darkSub.Updates(), func(v bool) {
		e.emit(e.context, events.DarkModeChanged, events.NewSettingsEvent(models.PrefDarkMode, v))
	})
	forward(&e.wg, langSub.Updates(), func(v string) {
		e.emit(e.context, events.SelectedLanguageChanged, events.NewSettingsEvent(models.PrefSelectedLanguage, v))
	})
	return true, nil
}

// StopStream cancels the subscriptions and waits for the forwarders to exit.
func (e *EventEmitterService) StopStream() {
	e.mu.Lock()
	cancel := e.cancel
	running := e.running
	e.running = false
	e.cancel = nil
	e.mu.Unlock()

	if running && cancel != nil {
		cancel()
	}
	e.wg.Wait()
}

func forward[T any](wg *sync.WaitGroup, ch <-chan T, fn func(T)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		for v := range ch {
			fn(v)
		}
	}()
}
