package site

import (
	"strings"
	"testing"
	"time"

	"InstaCatalog/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *entity.Catalog {
	return &entity.Catalog{
		Username:      "thepeacelily.in",
		BusinessName:  "The Peace Lily",
		BusinessType:  "Plant Nursery",
		Emoji:         "🌿",
		Tagline:       "Green joy delivered",
		Bio:           "Indoor plants <delivered> across Pune",
		ProfilePicURL: "https://cdn.example.com/pic.jpg",
		Followers:     12500,
		Palette: entity.Palette{
			Primary:    "#2E7D32",
			Secondary:  "#558B2F",
			Accent:     "#7D2E79",
			Background: "#F4FAF4",
			Text:       "red;}</style><script>",
		},
		Products: []entity.Product{
			{
				Name:        "Peace Lily",
				Description: "White pot included",
				Price:       "₹449",
				ImageURL:    "https://cdn.example.com/p1.jpg",
				OrderURL:    "https://wa.me/919876543210?text=Hi%21%20I%27d%20like%20to%20order%3A%20Peace%20Lily",
				Labels:      []string{"Houseplant"},
			},
			{
				Name:     "Money Plant",
				Price:    "₹299",
				OrderURL: "https://wa.me/919876543210?text=Money",
			},
		},
		GeneratedAt: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRender(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)

	out, err := r.Render(testCatalog())
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "<h1>The Peace Lily</h1>")
	assert.Contains(t, html, "Plant Nursery")
	assert.Contains(t, html, "Green joy delivered")
	assert.Contains(t, html, "12.5K followers")
	assert.Contains(t, html, "--primary: #2E7D32;")
	assert.Contains(t, html, "<h3>Peace Lily</h3>")
	assert.Contains(t, html, "<h3>Money Plant</h3>")
	assert.Contains(t, html, "₹449")
	assert.Contains(t, html, "Houseplant")
	assert.Contains(t, html, `href="https://wa.me/919876543210?text=Hi%21%20I%27d%20like%20to%20order%3A%20Peace%20Lily"`)
	assert.Equal(t, 2, strings.Count(html, "Order on WhatsApp"))
	assert.Contains(t, html, "https://www.instagram.com/thepeacelily.in/")
	assert.Contains(t, html, "Updated 1 Oct 2026")

	// user supplied text is escaped
	assert.Contains(t, html, "Indoor plants &lt;delivered&gt; across Pune")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "--text: inherit;")
}

func TestRender_NoOrderLinkHidesButton(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)

	c := testCatalog()
	c.Products[1].OrderURL = ""
	out, err := r.Render(c)
	require.NoError(t, err)
	html := string(out)

	assert.Equal(t, 1, strings.Count(html, "Order on WhatsApp"))
	assert.NotContains(t, html, `href=""`)
}

func TestRenderNotFound(t *testing.T) {
	r, err := NewRenderer("15550001111")
	require.NoError(t, err)

	html := string(r.RenderNotFound("ghost.shop"))
	assert.Contains(t, html, "No catalog for @ghost.shop yet")
	assert.Contains(t, html, "https://wa.me/15550001111")
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "987", FormatCount(987))
	assert.Equal(t, "9999", FormatCount(9999))
	assert.Equal(t, "12.5K", FormatCount(12500))
	assert.Equal(t, "10K", FormatCount(10000))
	assert.Equal(t, "3.2M", FormatCount(3200000))
	assert.Equal(t, "1M", FormatCount(1000000))
	assert.Equal(t, "1M", FormatCount(999999))
	assert.Equal(t, "1M", FormatCount(999950))
	assert.Equal(t, "999.9K", FormatCount(999949))
	assert.Equal(t, "1.3M", FormatCount(1260000))
}
