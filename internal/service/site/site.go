package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"regexp"

	"InstaCatalog/entity"
)

//go:embed templates/*.html
var files embed.FS

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type Renderer struct {
	catalog  *template.Template
	notFound *template.Template
	botLink  string
}

// NewRenderer parses the embedded templates. botPhone, when set, adds a wa.me link to the 404 page.
func NewRenderer(botPhone string) (*Renderer, error) {
	funcs := template.FuncMap{
		"color":     color,
		"followers": FormatCount,
	}
	catalog, err := template.New("catalog.html").Funcs(funcs).ParseFS(files, "templates/catalog.html")
	if err != nil {
		return nil, fmt.Errorf("parse catalog template: %w", err)
	}
	notFound, err := template.New("notfound.html").ParseFS(files, "templates/notfound.html")
	if err != nil {
		return nil, fmt.Errorf("parse not found template: %w", err)
	}

	r := &Renderer{catalog: catalog, notFound: notFound}
	if botPhone != "" {
		r.botLink = "https://wa.me/" + botPhone
	}
	return r, nil
}

func (r *Renderer) Render(c *entity.Catalog) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.catalog.Execute(&buf, c); err != nil {
		return nil, fmt.Errorf("render catalog %s: %w", c.Username, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) RenderNotFound(username string) []byte {
	var buf bytes.Buffer
	data := struct {
		Username string
		BotLink  string
	}{username, r.botLink}
	if err := r.notFound.Execute(&buf, data); err != nil {
		return []byte("catalog not found")
	}
	return buf.Bytes()
}

// color only lets through #rrggbb values so they can be placed in a style block.
func color(v string) template.CSS {
	if hexColor.MatchString(v) {
		return template.CSS(v)
	}
	return template.CSS("inherit")
}

// FormatCount renders follower counts the way Instagram shows them: 987, 12.5K, 3.2M.
func FormatCount(n int) string {
	switch {
	// 999,950 and up would print as 1000K
	case n >= 999_950:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1_000_000)) + "M"
	case n >= 10_000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1_000)) + "K"
	default:
		return fmt.Sprintf("%d", n)
	}
}

func trimZero(s string) string {
	if len(s) > 2 && s[len(s)-2:] == ".0" {
		return s[:len(s)-2]
	}
	return s
}
