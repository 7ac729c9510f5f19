package catalog

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"InstaCatalog/entity"
	"InstaCatalog/internal/lib/sl"
	"InstaCatalog/internal/service/business"
	"InstaCatalog/internal/service/palette"
)

type Options struct {
	OrderPhone  string
	MaxProducts int
	Currency    string
	// SiteBaseURL is the public address the catalog pages are served from.
	SiteBaseURL string
}

type Builder struct {
	opts     Options
	rehoster Rehoster
	analyzer Analyzer
	writer   Writer
	log      *slog.Logger
}

func NewBuilder(opts Options, log *slog.Logger) *Builder {
	if opts.MaxProducts <= 0 {
		opts.MaxProducts = 12
	}
	if opts.Currency == "" {
		opts.Currency = "₹"
	}
	opts.SiteBaseURL = strings.TrimRight(opts.SiteBaseURL, "/")
	return &Builder{
		opts: opts,
		log:  log.With(sl.Module("catalog")),
	}
}

func (b *Builder) SetRehoster(r Rehoster) {
	b.rehoster = r
}

func (b *Builder) SetAnalyzer(a Analyzer) {
	b.analyzer = a
}

func (b *Builder) SetWriter(w Writer) {
	b.writer = w
}

// SiteURL is where the catalog for username is served.
func (b *Builder) SiteURL(username string) string {
	return fmt.Sprintf("%s/catalog/%s", b.opts.SiteBaseURL, username)
}

// Build turns a profile into a catalog without calling any external service.
func (b *Builder) Build(p *entity.Profile) *entity.Catalog {
	texts := []string{p.Bio, p.DisplayName, p.Username, p.Category}
	for _, post := range p.Posts {
		texts = append(texts, post.Caption)
	}
	typ := business.Classify(texts...)
	name := BusinessName(p.DisplayName, p.Username)

	c := &entity.Catalog{
		Username:      p.Username,
		BusinessName:  name,
		BusinessType:  typ.Name,
		Emoji:         typ.Emoji,
		Bio:           strings.TrimSpace(p.Bio),
		ProfilePicURL: p.ProfilePicURL,
		Followers:     p.Followers,
		OrderPhone:    b.opts.OrderPhone,
		Palette:       palette.FromName(name),
		Source:        p.Source,
		SiteURL:       b.SiteURL(p.Username),
		GeneratedAt:   time.Now().UTC(),
	}

	c.Products = b.products(p)
	if len(c.Products) == 0 {
		c.Products = b.fallbackProducts(typ, p.ProfilePicURL)
	}
	return c
}

func (b *Builder) products(p *entity.Profile) []entity.Product {
	var products []entity.Product
	for _, post := range p.Posts {
		if len(products) >= b.opts.MaxProducts {
			break
		}
		if post.ImageURL == "" {
			continue
		}

		name := extractName(post.Caption)
		if name == "" {
			name = fmt.Sprintf("Item %d", len(products)+1)
		}
		price := extractPrice(post.Caption, b.opts.Currency)

		product := entity.Product{
			Name:        name,
			Description: extractDescription(post.Caption),
			Price:       price,
			ImageURL:    post.ImageURL,
			OrderURL:    OrderLink(b.opts.OrderPhone, name, price),
		}
		if post.Shortcode != "" {
			product.PostURL = fmt.Sprintf("https://www.instagram.com/p/%s/", post.Shortcode)
		}
		products = append(products, product)
	}
	return products
}

func (b *Builder) fallbackProducts(typ business.Type, imageURL string) []entity.Product {
	products := make([]entity.Product, 0, len(typ.Templates))
	for _, t := range typ.Templates {
		price := b.opts.Currency + t.Price
		products = append(products, entity.Product{
			Name:        t.Name,
			Description: t.Description,
			Price:       price,
			ImageURL:    imageURL,
			OrderURL:    OrderLink(b.opts.OrderPhone, t.Name, price),
			Fallback:    true,
		})
	}
	return products
}
