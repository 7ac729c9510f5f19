package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"InstaCatalog/entity"
	"InstaCatalog/internal/lib/sl"
	"InstaCatalog/internal/service/palette"

	"golang.org/x/sync/errgroup"
)

const enrichLimit = 4

// Rehoster copies a remote image to storage we control and returns its new URL.
type Rehoster interface {
	Rehost(ctx context.Context, imageURL, publicID string) (string, error)
}

// Analyzer labels an image and reports its dominant colours.
type Analyzer interface {
	Analyze(ctx context.Context, imageURL string) (*entity.ImageAnalysis, error)
}

// Writer produces marketing copy.
type Writer interface {
	Tagline(ctx context.Context, c *entity.Catalog) (string, error)
	ProductBlurb(ctx context.Context, p entity.Product, businessType string) (string, error)
}

// Enabled reports whether Enrich would call anything.
func (b *Builder) Enabled() bool {
	return b.rehoster != nil || b.analyzer != nil || b.writer != nil
}

// Enrich runs the configured enrichers. Failures are logged and leave the affected field as it was.
func (b *Builder) Enrich(ctx context.Context, c *entity.Catalog) {
	if !b.Enabled() {
		return
	}
	log := b.log.With(slog.String("username", c.Username))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichLimit)

	if b.analyzer != nil && c.ProfilePicURL != "" {
		picURL := c.ProfilePicURL
		g.Go(func() error {
			res, err := b.analyzer.Analyze(gctx, picURL)
			if err != nil {
				log.Warn("profile image analysis failed", sl.Err(err))
				return nil
			}
			c.Palette = palette.FromColors(res.Colors, c.BusinessName)
			return nil
		})
	}

	for i := range c.Products {
		g.Go(func() error {
			b.enrichProduct(gctx, log, c, i)
			return nil
		})
	}
	_ = g.Wait()

	if b.rehoster != nil && c.ProfilePicURL != "" {
		if u, err := b.rehoster.Rehost(ctx, c.ProfilePicURL, fmt.Sprintf("%s/avatar", c.Username)); err != nil {
			log.Warn("profile image rehost failed", sl.Err(err))
		} else {
			c.ProfilePicURL = u
		}
	}

	if b.writer != nil && ctx.Err() == nil {
		tagline, err := b.writer.Tagline(ctx, c)
		if err != nil {
			log.Warn("tagline failed", sl.Err(err))
		} else {
			c.Tagline = tagline
		}
	}
}

// enrichProduct only touches c.Products[i].
func (b *Builder) enrichProduct(ctx context.Context, log *slog.Logger, c *entity.Catalog, i int) {
	p := c.Products[i]
	if p.Fallback {
		return
	}
	log = log.With(slog.Int("product", i))

	if b.rehoster != nil && p.ImageURL != "" {
		u, err := b.rehoster.Rehost(ctx, p.ImageURL, fmt.Sprintf("%s/%d", c.Username, i))
		if err != nil {
			log.Warn("image rehost failed", sl.Err(err))
		} else {
			p.ImageURL = u
		}
	}

	if b.analyzer != nil && p.ImageURL != "" {
		res, err := b.analyzer.Analyze(ctx, p.ImageURL)
		if err != nil {
			log.Warn("image analysis failed", sl.Err(err))
		} else {
			p.Labels = res.Labels
		}
	}

	if b.writer != nil && onlyHashtags(p.Description) {
		blurb, err := b.writer.ProductBlurb(ctx, p, c.BusinessType)
		if err != nil {
			log.Warn("product blurb failed", sl.Err(err))
		} else {
			p.Description = blurb
		}
	}

	c.Products[i] = p
}
