package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"InstaCatalog/entity"
	"InstaCatalog/internal/lib/sl"
	"InstaCatalog/internal/service/instagram"
)

// CatalogPage returns the rendered site. When there is none it returns the
// not-found page together with ErrNotFound.
func (c *Core) CatalogPage(ctx context.Context, input string) ([]byte, error) {
	username, err := instagram.ValidateUsername(input)
	if err != nil {
		return c.notFoundPage(strings.TrimPrefix(input, "@")), ErrNotFound
	}
	if c.repo == nil {
		return c.notFoundPage(username), ErrNotFound
	}

	html, err := c.repo.GetSite(ctx, username)
	if err == nil {
		return html, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// the catalog may have outlived its page
	catalog, err := c.repo.GetCatalog(ctx, username)
	if err != nil || c.renderer == nil {
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return c.notFoundPage(username), ErrNotFound
	}
	html, err = c.renderer.Render(catalog)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if err = c.repo.SaveSite(ctx, username, html); err != nil {
		c.log.With(sl.Err(err), slog.String("username", username)).Warn("re-save site")
	}
	return html, nil
}

func (c *Core) notFoundPage(username string) []byte {
	if c.renderer == nil {
		return []byte("catalog not found")
	}
	return c.renderer.RenderNotFound(username)
}

// Status returns the state of the latest job for the username.
func (c *Core) Status(ctx context.Context, input string) (*entity.StatusRecord, error) {
	username, err := instagram.ValidateUsername(input)
	if err != nil {
		return nil, ErrNotFound
	}

	c.mu.Lock()
	record, ok := c.active[username]
	c.mu.Unlock()
	if ok {
		return &record, nil
	}
	if c.repo == nil {
		return nil, ErrNotFound
	}
	return c.repo.GetStatus(ctx, username)
}

func (c *Core) ListCatalogs(ctx context.Context) ([]entity.CatalogSummary, error) {
	if c.repo == nil {
		return nil, errors.New("repository not set")
	}
	return c.repo.ListCatalogs(ctx)
}

// DeleteCatalog removes a catalog and its page. A catalog that is being regenerated can't be deleted.
func (c *Core) DeleteCatalog(ctx context.Context, input string) error {
	username, err := instagram.ValidateUsername(input)
	if err != nil {
		return ErrInvalidUsername
	}
	if c.repo == nil {
		return errors.New("repository not set")
	}

	c.mu.Lock()
	_, busy := c.active[username]
	c.mu.Unlock()
	if busy {
		return ErrAlreadyProcessing
	}

	if err = c.repo.DeleteCatalog(ctx, username); err != nil {
		return err
	}
	c.log.With(slog.String("username", username)).Info("catalog deleted")
	return nil
}

type DebugInfo struct {
	Status           string                  `json:"status"`
	StartedAt        time.Time               `json:"started_at"`
	Uptime           string                  `json:"uptime"`
	Workers          int                     `json:"workers"`
	QueueLength      int                     `json:"queue_length"`
	QueueCapacity    int                     `json:"queue_capacity"`
	ActiveJobs       []entity.StatusRecord   `json:"active_jobs"`
	Catalogs         int                     `json:"catalogs"`
	Statuses         map[entity.Status]int   `json:"statuses"`
	Integrations     map[string]bool         `json:"integrations"`
	WebsocketClients int                     `json:"websocket_clients"`
	Recent           []entity.CatalogSummary `json:"recent_catalogs"`
}

const debugRecent = 5

// Debug is a point-in-time snapshot of the service. Storage errors are logged and leave counts at zero.
func (c *Core) Debug(ctx context.Context) DebugInfo {
	info := DebugInfo{
		Status:        "running",
		StartedAt:     c.started.UTC(),
		Uptime:        time.Since(c.started).Round(time.Second).String(),
		Workers:       c.opts.Workers,
		QueueCapacity: c.opts.QueueSize,
		ActiveJobs:    []entity.StatusRecord{},
		Statuses:      make(map[entity.Status]int),
		Integrations:  c.opts.Integrations,
		Recent:        []entity.CatalogSummary{},
	}

	c.mu.Lock()
	if c.stopped {
		info.Status = "stopping"
	}
	info.QueueLength = c.pending
	for _, record := range c.active {
		info.ActiveJobs = append(info.ActiveJobs, record)
	}
	c.mu.Unlock()

	if c.hub != nil {
		info.WebsocketClients = c.hub.Clients()
	}
	if c.repo == nil {
		return info
	}

	catalogs, err := c.repo.ListCatalogs(ctx)
	if err != nil {
		c.log.With(sl.Err(err)).Error("debug: list catalogs")
	}
	info.Catalogs = len(catalogs)
	info.Recent = append(info.Recent, catalogs[:min(len(catalogs), debugRecent)]...)

	statuses, err := c.repo.ListStatuses(ctx)
	if err != nil {
		c.log.With(sl.Err(err)).Error("debug: list statuses")
	}
	for _, s := range statuses {
		info.Statuses[s.Status]++
	}
	return info
}

// StatsReport is the admin summary sent to Telegram.
func (c *Core) StatsReport() string {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	info := c.Debug(ctx)

	var b strings.Builder
	fmt.Fprintf(&b, "Uptime: %s\n", info.Uptime)
	fmt.Fprintf(&b, "Queue: %d/%d, workers: %d\n", info.QueueLength, info.QueueCapacity, info.Workers)
	fmt.Fprintf(&b, "Active jobs: %d\n", len(info.ActiveJobs))
	fmt.Fprintf(&b, "Catalogs: %d\n", info.Catalogs)
	fmt.Fprintf(&b, "Completed: %d, failed: %d", info.Statuses[entity.StatusCompleted], info.Statuses[entity.StatusFailed])
	for _, s := range info.Recent {
		fmt.Fprintf(&b, "\n- %s (@%s), %d products", s.BusinessName, s.Username, s.ProductCount)
	}
	return b.String()
}
