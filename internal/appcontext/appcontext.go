package appcontext

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/99designs/keyring"

	"pricep/internal/config"
	"pricep/internal/database"
	"pricep/internal/events"
	"pricep/internal/llm/client"
	"pricep/internal/pricing"
	"pricep/internal/services"
)

var ErrProviderClosed = errors.New("application context closed")

// Context is the set of services every entry point works with. It is built
// once per process by a Provider.
type Context struct {
	Config      *config.Config
	History     services.HistoryService
	Preferences services.PreferencesService
	Search      *services.SearchService
	Keyring     *services.KeyringService
	Events      *services.EventEmitterService

	db *services.DbServices
}

type Option func(*Provider)

// WithKeyring replaces the OS keyring.
func WithKeyring(ring keyring.Keyring) Option {
	return func(p *Provider) { p.ring = ring }
}

// WithPriceAPI replaces the HTTP backend client.
func WithPriceAPI(api services.PriceAPI) Option {
	return func(p *Provider) { p.api = api }
}

// WithEmitter sets where feed snapshots are pushed once the event stream
// starts. The default discards them.
func WithEmitter(emit events.EmitFunc) Option {
	return func(p *Provider) { p.emit = emit }
}

// WithDescriber replaces the LLM image describer chosen from config.
func WithDescriber(d services.ImageDescriber) Option {
	return func(p *Provider) { p.describer = d }
}

// Provider lazily opens storage and builds the Context on first Get.
// Concurrent first calls share a single build.
type Provider struct {
	cfg    *config.Config
	handle *database.Handle

	ring      keyring.Keyring
	api       services.PriceAPI
	describer services.ImageDescriber
	emit      events.EmitFunc

	once   sync.Once
	appCtx *Context
	err    error

	mu     sync.Mutex
	closed bool
}

func NewProvider(cfg *config.Config, opts ...Option) *Provider {
	p := &Provider{
		cfg: cfg,
		handle: database.NewHandle(database.Config{
			Path:     cfg.DBPath,
			LogLevel: cfg.GormLogLevel(),
		}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Get returns the shared Context, building it on first use. A build failure
// is returned to every caller.
func (p *Provider) Get(ctx context.Context) (*Context, error) {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return nil, ErrProviderClosed
	}

	p.once.Do(func() {
		p.appCtx, p.err = p.build(ctx)
	})
	return p.appCtx, p.err
}

func (p *Provider) build(ctx context.Context) (*Context, error) {
	if database.IsDevelopment() {
		path := p.cfg.DBPath
		if path == "" {
			path = database.GetDefaultDBPath()
		}
		log.Printf("development build, database at %s", path)
	}

	db, err := p.handle.DB()
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	dbServices := services.NewDbServices(db)

	ring := p.ring
	if ring == nil {
		ring, err = services.OpenKeyring(p.cfg.KeyringBackend, p.cfg.KeyringDir)
		if err != nil {
			log.Printf("keyring unavailable, keeping secrets in memory: %v", err)
			ring = keyring.NewArrayKeyring(nil)
		}
	}
	keys := services.NewKeyringService(ring)

	api := p.api
	if api == nil {
		api = pricing.NewClient(p.cfg.APIBaseURL, p.cfg.APITimeout,
			pricing.WithToken(func() (string, error) {
				return keys.GetApiKey(services.ProviderPriceAPI)
			}))
	}

	describer := p.describer
	if describer == nil && p.cfg.LLMProvider != "" {
		describer, err = newDescriber(ctx, p.cfg, keys)
		if err != nil {
			log.Printf("image describer disabled: %v", err)
			describer = nil
		}
	}

	return &Context{
		Config:      p.cfg,
		History:     dbServices.History,
		Preferences: dbServices.Preferences,
		Search:      services.NewSearchService(api, dbServices.History, describer),
		Keyring:     keys,
		Events:      services.NewEventEmitterService(p.emit),
		db:          dbServices,
	}, nil
}

func newDescriber(ctx context.Context, cfg *config.Config, keys *services.KeyringService) (services.ImageDescriber, error) {
	key, err := keys.GetApiKey(cfg.LLMProvider)
	if err != nil {
		return nil, fmt.Errorf("read %s key: %w", cfg.LLMProvider, err)
	}
	if key == "" {
		return nil, fmt.Errorf("no API key stored for %s", cfg.LLMProvider)
	}
	return client.NewClient(ctx, cfg.LLMProvider, key, cfg.LLMModel)
}

// Close ends all subscriptions, then closes the database. Safe to call more
// than once and before Get.
func (p *Provider) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	// Fail any Get racing with Close rather than build on a closed handle.
	p.once.Do(func() { p.err = ErrProviderClosed })

	if p.appCtx != nil {
		p.appCtx.Events.StopStream()
		p.appCtx.db.Close()
	}
	return p.handle.Close()
}
