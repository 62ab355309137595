package events

import (
	"time"

	"github.com/google/uuid"

	"pricep/internal/models"
)

const (
	HistoryUpdated          = "history:updated"
	DarkModeChanged         = "settings:dark_mode"
	SelectedLanguageChanged = "settings:selected_language"
)

// HistoryEvent carries a full history snapshot, newest first.
type HistoryEvent struct {
	ID        string               `json:"id"`
	Items     []models.HistoryItem `json:"items"`
	Timestamp time.Time            `json:"timestamp"`
}

// SettingsEvent carries the new value of a single preference.
type SettingsEvent struct {
	ID        string               `json:"id"`
	Key       models.PreferenceKey `json:"key"`
	Value     any                  `json:"value"`
	Timestamp time.Time            `json:"timestamp"`
}

func NewHistoryEvent(items []models.HistoryItem) HistoryEvent {
	return HistoryEvent{
		ID:        uuid.NewString(),
		Items:     items,
		Timestamp: time.Now(),
	}
}

func NewSettingsEvent(key models.PreferenceKey, value any) SettingsEvent {
	return SettingsEvent{
		ID:        uuid.NewString(),
		Key:       key,
		Value:     value,
		Timestamp: time.Now(),
	}
}
