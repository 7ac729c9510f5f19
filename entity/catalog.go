package entity

import "time"

// Catalog is the data behind one generated catalog website.
type Catalog struct {
	ID            string    `json:"id" bson:"catalog_id"`
	Username      string    `json:"username" bson:"username"`
	BusinessName  string    `json:"business_name" bson:"business_name"`
	BusinessType  string    `json:"business_type" bson:"business_type"`
	Emoji         string    `json:"emoji,omitempty" bson:"emoji,omitempty"`
	Tagline       string    `json:"tagline,omitempty" bson:"tagline,omitempty"`
	Bio           string    `json:"bio" bson:"bio"`
	ProfilePicURL string    `json:"profile_pic_url" bson:"profile_pic_url"`
	Followers     int       `json:"followers" bson:"followers"`
	OrderPhone    string    `json:"order_phone" bson:"order_phone"`
	Palette       Palette   `json:"palette" bson:"palette"`
	Products      []Product `json:"products" bson:"products"`
	Source        string    `json:"source" bson:"source"`
	SiteURL       string    `json:"site_url" bson:"site_url"`
	GeneratedAt   time.Time `json:"generated_at" bson:"generated_at"`
}

// CatalogSummary is the list view of a catalog.
type CatalogSummary struct {
	Username     string    `json:"username" bson:"username"`
	BusinessName string    `json:"business_name" bson:"business_name"`
	BusinessType string    `json:"business_type" bson:"business_type"`
	ProductCount int       `json:"product_count" bson:"product_count"`
	SiteURL      string    `json:"site_url" bson:"site_url"`
	GeneratedAt  time.Time `json:"generated_at" bson:"generated_at"`
}

func (c *Catalog) Summary() CatalogSummary {
	return CatalogSummary{
		Username:     c.Username,
		BusinessName: c.BusinessName,
		BusinessType: c.BusinessType,
		ProductCount: len(c.Products),
		SiteURL:      c.SiteURL,
		GeneratedAt:  c.GeneratedAt,
	}
}

// Palette holds hex colours (#rrggbb) used by the site template.
type Palette struct {
	Primary    string `json:"primary" bson:"primary"`
	Secondary  string `json:"secondary" bson:"secondary"`
	Accent     string `json:"accent" bson:"accent"`
	Background string `json:"background" bson:"background"`
	Text       string `json:"text" bson:"text"`
}
