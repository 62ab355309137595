package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pricep/internal/models"
	"pricep/internal/pricing"
)

var (
	ErrEmptyQuery = errors.New("query is required")
	ErrEmptyImage = errors.New("image is required")
)

// PhotoRequestText is recorded in history for searches made straight from a
// photo, where no text query exists.
const PhotoRequestText = "[photo]"

// PriceAPI is the subset of the backend client the search service needs.
type PriceAPI interface {
	SearchText(ctx context.Context, query string) (*models.TextResponse, error)
	SearchImage(ctx context.Context, image []byte) (*models.TextResponse, error)
	DefineImage(ctx context.Context, image []byte) (*models.DefineImageResponse, error)
}

type ImageDescriber interface {
	DescribeImage(ctx context.Context, image []byte) (string, error)
}

type SearchResult struct {
	Query      string               `json:"query"`
	Text       string               `json:"text"`
	Links      map[string]string    `json:"links"`
	AnswerText string               `json:"answerText"`
	MainURL    string               `json:"mainUrl"`
	Saved      *models.HistoryItem  `json:"saved,omitempty"`
	Products   []models.ProductInfo `json:"products"`
}

// SearchService runs a backend round trip and records the exchange in
// history when asked to. A failed round trip never touches history.
type SearchService struct {
	api       PriceAPI
	history   HistoryService
	describer ImageDescriber
}

// NewSearchService wires the backend client and history. describer may be
// nil, in which case photos are described by the backend.
func NewSearchService(api PriceAPI, history HistoryService, describer ImageDescriber) *SearchService {
	return &SearchService{api: api, history: history, describer: describer}
}

func (s *SearchService) SearchText(ctx context.Context, query string, persist bool) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	resp, err := s.api.SearchText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search text: %w", err)
	}
	return s.finish(ctx, query, resp, persist)
}

// SearchImage describes the photo, then searches for the description. The
// description becomes the recorded request text.
func (s *SearchService) SearchImage(ctx context.Context, image []byte, persist bool) (*SearchResult, error) {
	desc, err := s.DescribeImage(ctx, image)
	if err != nil {
		return nil, err
	}
	return s.SearchText(ctx, desc, persist)
}

// SearchImageDirect sends the photo to the backend image search endpoint.
func (s *SearchService) SearchImageDirect(ctx context.Context, image []byte, persist bool) (*SearchResult, error) {
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}
	resp, err := s.api.SearchImage(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("search image: %w", err)
	}
	return s.finish(ctx, PhotoRequestText, resp, persist)
}

func (s *SearchService) DescribeImage(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", ErrEmptyImage
	}
	if s.describer != nil {
		desc, err := s.describer.DescribeImage(ctx, image)
		if err != nil {
			return "", fmt.Errorf("describe image: %w", err)
		}
		return strings.TrimSpace(desc), nil
	}
	resp, err := s.api.DefineImage(ctx, image)
	if err != nil {
		return "", fmt.Errorf("define image: %w", err)
	}
	desc := strings.TrimSpace(resp.AnswerText)
	if desc == "" {
		return "", fmt.Errorf("define image: empty answer")
	}
	return desc, nil
}

func (s *SearchService) finish(ctx context.Context, query string, resp *models.TextResponse, persist bool) (*SearchResult, error) {
	text, links := pricing.FormatResponse(resp)
	if text == "" {
		text = resp.AnswerText
	}
	res := &SearchResult{
		Query:      query,
		Text:       text,
		Links:      links,
		AnswerText: resp.AnswerText,
		MainURL:    resp.MainURL,
		Products:   resp.ProductInfo,
	}
	if !persist {
		return res, nil
	}
	item, err := s.history.Insert(ctx, query, text)
	if err != nil {
		return res, fmt.Errorf("save history: %w", err)
	}
	res.Saved = item
	return res, nil
}
