package core

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"InstaCatalog/entity"
	repository "InstaCatalog/internal/database"
	"InstaCatalog/internal/lib/sl"
	"InstaCatalog/internal/service/instagram"
)

var (
	ErrInvalidUsername   = instagram.ErrInvalidUsername
	ErrNotFound          = repository.ErrNotFound
	ErrQueueFull         = errors.New("generation queue is full")
	ErrAlreadyProcessing = errors.New("catalog is already being generated")
	ErrStopped           = errors.New("service is stopping")
)

type Repository interface {
	SaveCatalog(ctx context.Context, catalog *entity.Catalog) error
	GetCatalog(ctx context.Context, username string) (*entity.Catalog, error)
	ListCatalogs(ctx context.Context) ([]entity.CatalogSummary, error)
	DeleteCatalog(ctx context.Context, username string) error

	SaveSite(ctx context.Context, username string, html []byte) error
	GetSite(ctx context.Context, username string) ([]byte, error)

	SaveStatus(ctx context.Context, status entity.StatusRecord) error
	GetStatus(ctx context.Context, username string) (*entity.StatusRecord, error)
	ListStatuses(ctx context.Context) ([]entity.StatusRecord, error)
}

type ProfileSource interface {
	Profile(ctx context.Context, username string) (*entity.Profile, error)
}

type CatalogBuilder interface {
	Build(p *entity.Profile) *entity.Catalog
	Enrich(ctx context.Context, c *entity.Catalog)
	SiteURL(username string) string
}

type SiteRenderer interface {
	Render(c *entity.Catalog) ([]byte, error)
	RenderNotFound(username string) []byte
}

// Messenger delivers replies to WhatsApp users.
type Messenger interface {
	SendMessage(ctx context.Context, to, text string) error
	MarkRead(ctx context.Context, messageID string) error
}

type StatusBroadcaster interface {
	BroadcastStatus(status entity.StatusRecord)
	Clients() int
}

// Notifier receives admin alerts.
type Notifier interface {
	SendMessage(msg string)
}

type Options struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
	// Integrations lists optional services that are switched on, for the debug snapshot.
	Integrations map[string]bool
}

type job struct {
	id       string
	username string
	phone    string
}

type Core struct {
	repo      Repository
	scraper   ProfileSource
	builder   CatalogBuilder
	renderer  SiteRenderer
	messenger Messenger
	hub       StatusBroadcaster
	notifier  Notifier

	opts    Options
	started time.Time
	jobs    chan job
	wg      sync.WaitGroup
	sending sync.WaitGroup
	quit    chan struct{}

	mu          sync.Mutex
	running     bool
	stopped     bool
	pending     int
	active      map[string]entity.StatusRecord
	lastRequest map[string]string

	log *slog.Logger
}

func New(opts Options, log *slog.Logger) *Core {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.QueueSize < 1 {
		opts.QueueSize = 1
	}
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = 2 * time.Minute
	}
	return &Core{
		opts:        opts,
		started:     time.Now(),
		jobs:        make(chan job, opts.QueueSize),
		quit:        make(chan struct{}),
		active:      make(map[string]entity.StatusRecord),
		lastRequest: make(map[string]string),
		log:         log.With(sl.Module("core")),
	}
}

func (c *Core) SetRepository(repo Repository) {
	c.repo = repo
}

func (c *Core) SetScraper(scraper ProfileSource) {
	c.scraper = scraper
}

func (c *Core) SetBuilder(builder CatalogBuilder) {
	c.builder = builder
}

func (c *Core) SetRenderer(renderer SiteRenderer) {
	c.renderer = renderer
}

func (c *Core) SetMessenger(messenger Messenger) {
	c.messenger = messenger
}

func (c *Core) SetStatusBroadcaster(hub StatusBroadcaster) {
	c.hub = hub
}

func (c *Core) SetNotifier(notifier Notifier) {
	c.notifier = notifier
}

// Start launches the worker pool. Calling it twice has no effect.
func (c *Core) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running || c.stopped {
		return
	}
	c.running = true
	for i := 0; i < c.opts.Workers; i++ {
		c.wg.Add(1)
		go c.worker()
	}
	c.log.With(
		slog.Int("workers", c.opts.Workers),
		slog.Int("queue", c.opts.QueueSize),
	).Info("worker pool started")
}

// Stop rejects new requests, lets running jobs finish and marks jobs still waiting in the queue as failed.
func (c *Core) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	c.mu.Unlock()

	c.sending.Wait()
	close(c.quit)
	c.wg.Wait()

	for {
		select {
		case j := <-c.jobs:
			c.finish(context.Background(), j, entity.StatusFailed, "service restarted before the job started")
		default:
			c.log.Info("worker pool stopped")
			return
		}
	}
}
