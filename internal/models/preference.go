package models

import "time"

// PreferenceKey names a row in the preferences table.
type PreferenceKey string

const (
	PrefDarkMode         PreferenceKey = "dark_mode"
	PrefSelectedLanguage PreferenceKey = "selected_language"
)

const (
	LanguageRussian = "Russian"
	LanguageEnglish = "English"

	DefaultDarkMode         = false
	DefaultSelectedLanguage = LanguageRussian
)

// Languages lists the selectable UI languages in display order.
var Languages = []string{LanguageRussian, LanguageEnglish}

// Preference is a single key/value setting. Values are stored as text.
type Preference struct {
	Key       PreferenceKey `gorm:"primaryKey;size:64"`
	Value     string        `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// Settings is a point-in-time view of every known preference.
type Settings struct {
	DarkMode         bool   `json:"darkMode"`
	SelectedLanguage string `json:"selectedLanguage"`
}

func DefaultSettings() Settings {
	return Settings{
		DarkMode:         DefaultDarkMode,
		SelectedLanguage: DefaultSelectedLanguage,
	}
}

// IsSupportedLanguage reports whether lang is one of Languages.
func IsSupportedLanguage(lang string) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// LanguageCode maps a display language to its locale code.
func LanguageCode(lang string) string {
	if lang == LanguageEnglish {
		return "en"
	}
	return "ru"
}
