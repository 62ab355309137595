package services

import (
	"pricep/internal/repositories"

	"gorm.io/gorm"
)

// DbServices aggregates all domain services backed by the database.
type DbServices struct {
	History     HistoryService
	Preferences PreferencesService

	historyRepo repositories.HistoryRepository
	prefsRepo   repositories.PreferencesRepository
}

// NewDbServices constructs the service container using repositories backed by db.
func NewDbServices(db *gorm.DB) *DbServices {
	historyRepo := repositories.NewHistoryRepository(db)
	prefsRepo := repositories.NewPreferencesRepository(db)

	return &DbServices{
		History:     NewHistoryService(historyRepo),
		Preferences: NewPreferencesService(prefsRepo),
		historyRepo: historyRepo,
		prefsRepo:   prefsRepo,
	}
}

// Close ends every open subscription. The database itself is left open.
func (s *DbServices) Close() {
	s.historyRepo.Close()
	s.prefsRepo.Close()
}
