package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"InstaCatalog/bot/whatsapp"
	"InstaCatalog/entity"
	"InstaCatalog/internal/lib/sl"
	"InstaCatalog/internal/service/instagram"

	"github.com/google/uuid"
)

const storeTimeout = 5 * time.Second

// RequestCatalog queues a generation job for the username. A username that is
// already queued or being generated is not queued again: its current status is
// returned together with ErrAlreadyProcessing.
func (c *Core) RequestCatalog(ctx context.Context, input, phone string) (entity.StatusRecord, error) {
	username, err := instagram.ValidateUsername(input)
	if err != nil {
		return entity.StatusRecord{}, ErrInvalidUsername
	}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return entity.StatusRecord{}, ErrStopped
	}
	if phone != "" {
		c.lastRequest[phone] = username
	}
	if current, ok := c.active[username]; ok {
		c.mu.Unlock()
		return current, ErrAlreadyProcessing
	}
	if c.pending >= c.opts.QueueSize {
		c.mu.Unlock()
		c.log.With(slog.String("username", username)).Warn("queue full, request rejected")
		return entity.StatusRecord{}, ErrQueueFull
	}

	j := job{id: uuid.NewString(), username: username, phone: phone}
	record := entity.StatusRecord{
		Username:    username,
		Status:      entity.StatusQueued,
		JobID:       j.id,
		RequestedBy: phone,
		UpdatedAt:   time.Now().UTC(),
	}
	c.pending++
	c.active[username] = record
	c.sending.Add(1)
	c.mu.Unlock()

	c.publish(ctx, record)

	// a slot was reserved above so this never blocks
	c.jobs <- j
	c.sending.Done()

	c.log.With(
		slog.String("username", username),
		slog.String("job", j.id),
	).Info("catalog requested")
	return record, nil
}

func (c *Core) worker() {
	defer c.wg.Done()
	for {
		select {
		case <-c.quit:
			return
		case j := <-c.jobs:
			c.mu.Lock()
			c.pending--
			c.mu.Unlock()
			c.run(j)
		}
	}
}

func (c *Core) run(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.JobTimeout)
	defer cancel()

	log := c.log.With(slog.String("username", j.username), slog.String("job", j.id))
	start := time.Now()

	catalog, err := c.generate(ctx, j, log)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("timed out after %s", c.opts.JobTimeout)
		}
		log.With(sl.Err(err)).Error("catalog generation failed")
		c.finish(ctx, j, entity.StatusFailed, err.Error())
		c.reply(j.phone, whatsapp.MsgFailed(j.username))
		return
	}

	message := fmt.Sprintf("%d products", len(catalog.Products))
	c.finish(ctx, j, entity.StatusCompleted, message)
	c.reply(j.phone, whatsapp.MsgCompleted(catalog.BusinessName, len(catalog.Products), catalog.SiteURL))
	if c.notifier != nil {
		c.notifier.SendMessage(fmt.Sprintf("New catalog: %s (@%s), %d products",
			catalog.BusinessName, catalog.Username, len(catalog.Products)))
	}
	log.With(
		slog.String("source", catalog.Source),
		slog.Int("products", len(catalog.Products)),
		slog.Duration("took", time.Since(start)),
	).Info("catalog generated")
}

func (c *Core) generate(ctx context.Context, j job, log *slog.Logger) (*entity.Catalog, error) {
	if c.scraper == nil || c.builder == nil || c.renderer == nil || c.repo == nil {
		return nil, errors.New("generation pipeline not configured")
	}

	c.transition(ctx, j, entity.StatusScraping, "")
	profile, err := c.scraper.Profile(ctx, j.username)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.With(
			sl.Err(err),
			slog.String("kind", string(instagram.KindOf(err))),
		).Warn("profile unavailable, using fallback")
		profile = fallbackProfile(j.username)
	}

	c.transition(ctx, j, entity.StatusGenerating, "")
	catalog := c.builder.Build(profile)
	catalog.ID = j.id
	c.builder.Enrich(ctx, catalog)
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	html, err := c.renderer.Render(catalog)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if err = c.repo.SaveCatalog(ctx, catalog); err != nil {
		return nil, fmt.Errorf("save catalog: %w", err)
	}
	if err = c.repo.SaveSite(ctx, catalog.Username, html); err != nil {
		return nil, fmt.Errorf("save site: %w", err)
	}
	return catalog, nil
}

func fallbackProfile(username string) *entity.Profile {
	return &entity.Profile{
		Username:  username,
		Source:    "fallback",
		FetchedAt: time.Now().UTC(),
	}
}

// transition records an intermediate state of a running job.
func (c *Core) transition(ctx context.Context, j job, status entity.Status, message string) {
	record := c.record(j, status, message)
	c.mu.Lock()
	c.active[j.username] = record
	c.mu.Unlock()
	c.publish(ctx, record)
}

// finish records a terminal state and releases the username for new requests.
func (c *Core) finish(ctx context.Context, j job, status entity.Status, message string) {
	record := c.record(j, status, message)
	c.mu.Lock()
	delete(c.active, j.username)
	c.mu.Unlock()
	c.publish(ctx, record)
}

func (c *Core) record(j job, status entity.Status, message string) entity.StatusRecord {
	return entity.StatusRecord{
		Username:    j.username,
		Status:      status,
		Message:     message,
		JobID:       j.id,
		RequestedBy: j.phone,
		UpdatedAt:   time.Now().UTC(),
	}
}

func (c *Core) publish(ctx context.Context, record entity.StatusRecord) {
	if c.repo != nil {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
		defer cancel()
		if err := c.repo.SaveStatus(ctx, record); err != nil {
			c.log.With(
				sl.Err(err),
				slog.String("username", record.Username),
			).Error("save status")
		}
	}
	if c.hub != nil {
		c.hub.BroadcastStatus(record)
	}
}

func (c *Core) reply(to, text string) {
	if c.messenger == nil || strings.TrimSpace(to) == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := c.messenger.SendMessage(ctx, to, text); err != nil {
		c.log.With(
			sl.Err(err),
			slog.String("to", to),
		).Error("send whatsapp message")
	}
}
