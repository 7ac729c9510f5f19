package instagram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"InstaCatalog/entity"

	"github.com/PuerkitoBio/goquery"
)

var (
	sharedDataRe = regexp.MustCompile(`(?s)window\._sharedData\s*=\s*(\{.*\})\s*;?\s*$`)
	bioRe        = regexp.MustCompile(`"biography"\s*:\s*("(?:[^"\\]|\\.)*")`)
	fullNameRe   = regexp.MustCompile(`"full_name"\s*:\s*("(?:[^"\\]|\\.)*")`)
	picRe        = regexp.MustCompile(`"profile_pic_url(?:_hd)?"\s*:\s*("(?:[^"\\]|\\.)*")`)
	followedByRe = regexp.MustCompile(`"edge_followed_by"\s*:\s*\{\s*"count"\s*:\s*(\d+)`)
	followRe     = regexp.MustCompile(`"edge_follow"\s*:\s*\{\s*"count"\s*:\s*(\d+)`)
	shortcodeRe  = regexp.MustCompile(`/(?:p|reel)/([A-Za-z0-9_-]+)`)
)

// parseHTML extracts what it can from a profile page: embedded JSON first,
// then ld+json, then Open Graph tags and finally CDN post images.
func parseHTML(body []byte, username string, maxPosts int) (*entity.Profile, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	p := &entity.Profile{Username: username}

	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if m := sharedDataRe.FindStringSubmatch(text); m != nil {
			var r apiResponse
			if err := json.Unmarshal([]byte(m[1]), &r); err == nil {
				if u := r.user(); u != nil {
					*p = *u.toProfile(username, maxPosts)
					return false
				}
			}
		}
		if strings.Contains(text, `"biography"`) || strings.Contains(text, "edge_followed_by") {
			embeddedFields(text, p)
		}
		return true
	})

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		ldJSON([]byte(s.Text()), p)
	})

	metaTags(doc, p)

	if len(p.Posts) == 0 {
		p.Posts = cdnImages(doc, maxPosts)
	}
	// the login wall carries only generic Open Graph tags
	if p.IsEmpty() {
		return nil, &Error{Kind: KindBlocked, Message: "login wall"}
	}
	return p, nil
}

func embeddedFields(text string, p *entity.Profile) {
	str := func(re *regexp.Regexp) string {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return ""
		}
		v, err := strconv.Unquote(m[1])
		if err != nil {
			var s string
			if json.Unmarshal([]byte(m[1]), &s) != nil {
				return ""
			}
			v = s
		}
		return strings.TrimSpace(v)
	}
	num := func(re *regexp.Regexp) int {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return 0
		}
		n, _ := strconv.Atoi(m[1])
		return n
	}

	if p.Bio == "" {
		p.Bio = str(bioRe)
	}
	if p.DisplayName == "" {
		p.DisplayName = str(fullNameRe)
	}
	if p.ProfilePicURL == "" {
		p.ProfilePicURL = str(picRe)
	}
	if p.Followers == 0 {
		p.Followers = num(followedByRe)
	}
	if p.Following == 0 {
		p.Following = num(followRe)
	}
}

type ldProfile struct {
	Name          string          `json:"name"`
	AlternateName string          `json:"alternateName"`
	Description   string          `json:"description"`
	Image         json.RawMessage `json:"image"`
	MainEntity    *ldProfile      `json:"mainEntity"`
	Interaction   []struct {
		Type  string `json:"interactionType"`
		Count any    `json:"userInteractionCount"`
	} `json:"interactionStatistic"`
}

func ldJSON(raw []byte, p *entity.Profile) {
	var ld ldProfile
	if err := json.Unmarshal(raw, &ld); err != nil {
		return
	}
	if ld.MainEntity != nil {
		ldJSON(mustMarshal(ld.MainEntity), p)
	}

	if p.DisplayName == "" {
		p.DisplayName = strings.TrimSpace(ld.Name)
	}
	if p.Bio == "" {
		p.Bio = strings.TrimSpace(ld.Description)
	}
	if p.ProfilePicURL == "" && len(ld.Image) > 0 {
		var s string
		if json.Unmarshal(ld.Image, &s) == nil {
			p.ProfilePicURL = s
		} else {
			var obj struct {
				URL string `json:"url"`
			}
			if json.Unmarshal(ld.Image, &obj) == nil {
				p.ProfilePicURL = obj.URL
			}
		}
	}
	for _, st := range ld.Interaction {
		if p.Followers == 0 && strings.Contains(st.Type, "FollowAction") {
			p.Followers = ParseCount(fmt.Sprint(st.Count))
		}
	}
}

func mustMarshal(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}

func metaTags(doc *goquery.Document, p *entity.Profile) {
	meta := func(sel string) string {
		return strings.TrimSpace(doc.Find(sel).First().AttrOr("content", ""))
	}

	title := meta(`meta[property="og:title"]`)
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	desc := meta(`meta[property="og:description"]`)
	if desc == "" {
		desc = meta(`meta[name="description"]`)
	}

	if mc, ok := parseMetaDescription(desc); ok {
		if p.Followers == 0 {
			p.Followers = mc.Followers
		}
		if p.Following == 0 {
			p.Following = mc.Following
		}
		if p.PostCount == 0 {
			p.PostCount = mc.Posts
		}
		if p.DisplayName == "" {
			p.DisplayName = mc.DisplayName
		}
		// og:image is the profile picture only on a real profile page
		if p.ProfilePicURL == "" {
			p.ProfilePicURL = meta(`meta[property="og:image"]`)
		}
	}

	if p.DisplayName == "" && !genericTitle(title) {
		p.DisplayName = cleanTitle(title)
	}
}

func genericTitle(title string) bool {
	t := strings.ToLower(cleanTitle(title))
	if t == "" || t == "instagram" {
		return true
	}
	for _, prefix := range []string{"login", "log in", "page not found", "content unavailable"} {
		if strings.HasPrefix(t, prefix) {
			return true
		}
	}
	return false
}

func isPostImage(src string) bool {
	if !strings.Contains(src, "scontent") {
		return false
	}
	lower := strings.ToLower(src)
	for _, skip := range []string{"profile", "avatar", "story", "s150x150"} {
		if strings.Contains(lower, skip) {
			return false
		}
	}
	return true
}

func cdnImages(doc *goquery.Document, maxPosts int) []entity.Post {
	var posts []entity.Post
	seen := make(map[string]bool)

	doc.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		if len(posts) >= maxPosts {
			return false
		}
		src := img.AttrOr("src", "")
		if !isPostImage(src) || seen[src] {
			return true
		}
		seen[src] = true

		post := entity.Post{ImageURL: src, Caption: strings.TrimSpace(img.AttrOr("alt", ""))}
		if href, ok := img.Closest("a").Attr("href"); ok {
			if m := shortcodeRe.FindStringSubmatch(href); m != nil {
				post.Shortcode = m[1]
			}
		}
		posts = append(posts, post)
		return true
	})
	return posts
}
