package appcontext

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"pricep/internal/config"
	"pricep/internal/models"
	"pricep/internal/services"
)

type stubAPI struct{}

func (stubAPI) SearchText(context.Context, string) (*models.TextResponse, error) {
	return &models.TextResponse{AnswerText: "nothing found"}, nil
}

func (stubAPI) SearchImage(context.Context, []byte) (*models.TextResponse, error) {
	return nil, errors.New("offline")
}

func (stubAPI) DefineImage(context.Context, []byte) (*models.DefineImageResponse, error) {
	return &models.DefineImageResponse{AnswerText: "milk"}, nil
}

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	cfg := &config.Config{
		DBPath:     filepath.Join(t.TempDir(), "app.db"),
		DBLogLevel: "silent",
	}
	require.Equal(t, logger.Silent, cfg.GormLogLevel())
	p := NewProvider(cfg,
		WithKeyring(keyring.NewArrayKeyring(nil)),
		WithPriceAPI(stubAPI{}),
	)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestProvider_GetReturnsSameContext(t *testing.T) {
	p := newTestProvider(t)

	var wg sync.WaitGroup
	got := make([]*Context, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := p.Get(context.Background())
			assert.NoError(t, err)
			got[i] = c
		}(i)
	}
	wg.Wait()

	require.NotNil(t, got[0])
	for _, c := range got[1:] {
		assert.Same(t, got[0], c)
	}
}

func TestProvider_SearchRecordsHistory(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()
	app, err := p.Get(ctx)
	require.NoError(t, err)

	res, err := app.Search.SearchText(ctx, "milk", true)
	require.NoError(t, err)
	assert.Equal(t, "nothing found", res.Text)

	items, err := app.History.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "milk", items[0].RequestText)

	_, err = app.Search.SearchImageDirect(ctx, []byte{0xff, 0xd8}, true)
	assert.Error(t, err)
	items, err = app.History.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestProvider_DescribeFallsBackToBackend(t *testing.T) {
	p := newTestProvider(t)
	app, err := p.Get(context.Background())
	require.NoError(t, err)

	desc, err := app.Search.DescribeImage(context.Background(), []byte{1})
	require.NoError(t, err)
	assert.Equal(t, "milk", desc)
}

func TestProvider_KeyringWired(t *testing.T) {
	p := newTestProvider(t)
	app, err := p.Get(context.Background())
	require.NoError(t, err)

	require.NoError(t, app.Keyring.StoreApiKey(services.ProviderPriceAPI, []byte("secret")))
	got, err := app.Keyring.GetApiKey(services.ProviderPriceAPI)
	require.NoError(t, err)
	assert.Equal(t, "secret", got)
}

func TestProvider_CloseBeforeGet(t *testing.T) {
	p := newTestProvider(t)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	_, err := p.Get(context.Background())
	assert.ErrorIs(t, err, ErrProviderClosed)
}

func TestProvider_CloseEndsSubscriptions(t *testing.T) {
	p := newTestProvider(t)
	app, err := p.Get(context.Background())
	require.NoError(t, err)

	sub, err := app.History.AllHistoryItems(context.Background())
	require.NoError(t, err)
	<-sub.Updates()

	require.NoError(t, p.Close())
	_, ok := <-sub.Updates()
	assert.False(t, ok)
}
