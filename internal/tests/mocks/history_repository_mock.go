package mocks

import (
	"context"

	"pricep/internal/models"
	"pricep/internal/observable"
)

type HistoryRepositoryMock struct {
	InsertFunc    func(ctx context.Context, item *models.HistoryItem) error
	ListAllFunc   func(ctx context.Context) ([]models.HistoryItem, error)
	ClearAllFunc  func(ctx context.Context) error
	CountFunc     func(ctx context.Context) (int64, error)
	SubscribeFunc func(ctx context.Context) (*observable.Subscription[[]models.HistoryItem], error)
	CloseFunc     func()
}

func (m *HistoryRepositoryMock) Insert(ctx context.Context, item *models.HistoryItem) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, item)
	}
	item.ID = 1
	return nil
}

func (m *HistoryRepositoryMock) ListAll(ctx context.Context) ([]models.HistoryItem, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return []models.HistoryItem{}, nil
}

func (m *HistoryRepositoryMock) ClearAll(ctx context.Context) error {
	if m.ClearAllFunc != nil {
		return m.ClearAllFunc(ctx)
	}
	return nil
}

func (m *HistoryRepositoryMock) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *HistoryRepositoryMock) Subscribe(ctx context.Context) (*observable.Subscription[[]models.HistoryItem], error) {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx)
	}
	return observable.NewFeed[[]models.HistoryItem]().Subscribe(ctx, []models.HistoryItem{}), nil
}

func (m *HistoryRepositoryMock) Close() {
	if m.CloseFunc != nil {
		m.CloseFunc()
	}
}
