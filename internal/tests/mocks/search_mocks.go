package mocks

import (
	"context"

	"pricep/internal/models"
)

type PriceAPIMock struct {
	SearchTextFunc  func(ctx context.Context, query string) (*models.TextResponse, error)
	SearchImageFunc func(ctx context.Context, image []byte) (*models.TextResponse, error)
	DefineImageFunc func(ctx context.Context, image []byte) (*models.DefineImageResponse, error)
}

func (m *PriceAPIMock) SearchText(ctx context.Context, query string) (*models.TextResponse, error) {
	if m.SearchTextFunc != nil {
		return m.SearchTextFunc(ctx, query)
	}
	return &models.TextResponse{}, nil
}

func (m *PriceAPIMock) SearchImage(ctx context.Context, image []byte) (*models.TextResponse, error) {
	if m.SearchImageFunc != nil {
		return m.SearchImageFunc(ctx, image)
	}
	return &models.TextResponse{}, nil
}

func (m *PriceAPIMock) DefineImage(ctx context.Context, image []byte) (*models.DefineImageResponse, error) {
	if m.DefineImageFunc != nil {
		return m.DefineImageFunc(ctx, image)
	}
	return &models.DefineImageResponse{}, nil
}

type ImageDescriberMock struct {
	DescribeImageFunc func(ctx context.Context, image []byte) (string, error)
}

func (m *ImageDescriberMock) DescribeImage(ctx context.Context, image []byte) (string, error) {
	if m.DescribeImageFunc != nil {
		return m.DescribeImageFunc(ctx, image)
	}
	return "", nil
}
