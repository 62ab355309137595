package services

import (
	"context"

	"pricep/internal/models"
	"pricep/internal/observable"
	"pricep/internal/repositories"
)

// HistoryService is the narrow entry point presentation code uses for search
// history. It forwards to the repository unchanged, errors included.
type HistoryService interface {
	Insert(ctx context.Context, requestText, responseText string) (*models.HistoryItem, error)
	ClearHistory(ctx context.Context) error
	List(ctx context.Context) ([]models.HistoryItem, error)
	AllHistoryItems(ctx context.Context) (*observable.Subscription[[]models.HistoryItem], error)
}

type historyService struct {
	history repositories.HistoryRepository
}

func NewHistoryService(history repositories.HistoryRepository) HistoryService {
	return &historyService{history: history}
}

func (s *historyService) Insert(ctx context.Context, requestText, responseText string) (*models.HistoryItem, error) {
	item := &models.HistoryItem{
		RequestText:  requestText,
		ResponseText: responseText,
	}
	if err := s.history.Insert(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *historyService) ClearHistory(ctx context.Context) error {
	return s.history.ClearAll(ctx)
}

func (s *historyService) List(ctx context.Context) ([]models.HistoryItem, error) {
	return s.history.ListAll(ctx)
}

func (s *historyService) AllHistoryItems(ctx context.Context) (*observable.Subscription[[]models.HistoryItem], error) {
	return s.history.Subscribe(ctx)
}
