package instagram

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"InstaCatalog/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webProfileJSON = `{
  "data": {"user": {
    "username": "yarn.tales",
    "full_name": "Yarn Tales",
    "biography": "Handmade crochet with love 🧶\nDM to order",
    "profile_pic_url": "https://scontent.cdninstagram.com/pic.jpg",
    "profile_pic_url_hd": "https://scontent.cdninstagram.com/pic_hd.jpg",
    "edge_followed_by": {"count": 1520},
    "edge_follow": {"count": 180},
    "edge_owner_to_timeline_media": {
      "count": 3,
      "edges": [
        {"node": {"shortcode": "A1", "display_url": "https://scontent.cdninstagram.com/a1.jpg",
          "edge_media_to_caption": {"edges": [{"node": {"text": "Sunflower keychain ₹249"}}]},
          "edge_liked_by": {"count": 40}, "edge_media_to_comment": {"count": 3}, "taken_at_timestamp": 1700000000}},
        {"node": {"shortcode": "A2", "display_url": "https://scontent.cdninstagram.com/a2.jpg",
          "edge_media_to_caption": {"edges": []}}},
        {"node": {"shortcode": "A3", "display_url": "https://scontent.cdninstagram.com/a3.jpg"}}
      ]
    }
  }},
  "status": "ok"
}`

const profileHTML = `<!DOCTYPE html>
<html><head>
<title>The Peace Lily (@thepeacelily.in) • Instagram photos and videos</title>
<meta property="og:title" content="The Peace Lily (@thepeacelily.in) • Instagram photos and videos">
<meta property="og:description" content="2,345 Followers, 120 Following, 88 Posts - See Instagram photos and videos from The Peace Lily (@thepeacelily.in)">
<meta property="og:image" content="https://scontent.cdninstagram.com/profile_pic.jpg">
</head><body>
<img src="https://scontent.cdninstagram.com/v/t51/profile_pic_small.jpg" alt="profile">
<a href="/p/P1/"><img src="https://scontent.cdninstagram.com/v/t51/p1.jpg" alt="Peace lily in a white pot"></a>
<a href="/p/P2/"><img src="https://scontent.cdninstagram.com/v/t51/p2.jpg" alt="Money plant"></a>
<a href="/p/P2/"><img src="https://scontent.cdninstagram.com/v/t51/p2.jpg" alt="Money plant"></a>
<img src="https://example.com/logo.png">
</body></html>`

const legacyJSON = `{"graphql": {"user": {
  "full_name": "Cake House",
  "biography": "Home baker",
  "edge_followed_by": {"count": 99},
  "edge_owner_to_timeline_media": {"count": 0, "edges": []}
}}}`

func testScraper(t *testing.T, handler http.HandlerFunc) (*Scraper, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := New(Options{
		BaseURL:       srv.URL,
		UserAgent:     "InstaCatalogTest/1.0",
		AppID:         "test-app",
		Timeout:       5 * time.Second,
		RatePerMinute: 6000,
		MaxPosts:      2,
	}, slog.New(slog.DiscardHandler))
	return s, srv
}

func TestProfile_WebProfileInfo(t *testing.T) {
	s, _ := testScraper(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/web_profile_info/", r.URL.Path)
		assert.Equal(t, "yarn.tales", r.URL.Query().Get("username"))
		assert.Equal(t, "InstaCatalogTest/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "test-app", r.Header.Get("X-IG-App-ID"))
		_, _ = w.Write([]byte(webProfileJSON))
	})

	p, err := s.Profile(context.Background(), "yarn.tales")
	require.NoError(t, err)

	assert.Equal(t, "web_profile_info", p.Source)
	assert.Equal(t, "Yarn Tales", p.DisplayName)
	assert.Equal(t, 1520, p.Followers)
	assert.Equal(t, 180, p.Following)
	assert.Equal(t, 3, p.PostCount)
	assert.Equal(t, "https://scontent.cdninstagram.com/pic_hd.jpg", p.ProfilePicURL)
	require.Len(t, p.Posts, 2)
	assert.Equal(t, "Sunflower keychain ₹249", p.Posts[0].Caption)
	assert.Equal(t, 40, p.Posts[0].Likes)
	assert.Equal(t, int64(1700000000), p.Posts[0].TakenAt.Unix())
	assert.False(t, p.FetchedAt.IsZero())
}

func TestProfile_FallsBackToHTML(t *testing.T) {
	s, _ := testScraper(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/users/web_profile_info/" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		assert.Equal(t, "/thepeacelily.in/", r.URL.Path)
		_, _ = w.Write([]byte(profileHTML))
	})

	p, err := s.Profile(context.Background(), "thepeacelily.in")
	require.NoError(t, err)

	assert.Equal(t, "html", p.Source)
	assert.Equal(t, "The Peace Lily", p.DisplayName)
	assert.Equal(t, 2345, p.Followers)
	assert.Equal(t, 120, p.Following)
	assert.Equal(t, 88, p.PostCount)
	assert.Equal(t, "https://scontent.cdninstagram.com/profile_pic.jpg", p.ProfilePicURL)
	require.Len(t, p.Posts, 2)
	assert.Equal(t, "P1", p.Posts[0].Shortcode)
	assert.Equal(t, "Peace lily in a white pot", p.Posts[0].Caption)
	assert.Equal(t, "https://scontent.cdninstagram.com/v/t51/p2.jpg", p.Posts[1].ImageURL)
}

func TestProfile_LegacyJSON(t *testing.T) {
	s, _ := testScraper(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/users/web_profile_info/":
			w.WriteHeader(http.StatusTooManyRequests)
		case r.URL.Query().Get("__a") == "1":
			assert.Equal(t, "dis", r.URL.Query().Get("__d"))
			_, _ = w.Write([]byte(legacyJSON))
		default:
			_, _ = w.Write([]byte(`<html><head><title>Instagram</title></head><body></body></html>`))
		}
	})

	p, err := s.Profile(context.Background(), "cake_house")
	require.NoError(t, err)
	assert.Equal(t, "legacy_json", p.Source)
	assert.Equal(t, "Cake House", p.DisplayName)
	assert.Equal(t, 99, p.Followers)
}

func TestProfile_AllStrategiesFail(t *testing.T) {
	s, _ := testScraper(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := s.Profile(context.Background(), "ghost")
	require.Error(t, err)

	var ie *Error
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, KindNotFound, ie.Kind)
	assert.Len(t, ie.Causes, 3)
	assert.Contains(t, err.Error(), "@ghost")
}

func TestProfile_CircuitOpens(t *testing.T) {
	var hits atomic.Int32
	s, _ := testScraper(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := s.Profile(context.Background(), "shop")
	require.Error(t, err)
	assert.Equal(t, KindNetwork, KindOf(err))

	_, err = s.Profile(context.Background(), "shop")
	require.Error(t, err)
	assert.Equal(t, KindBlocked, KindOf(err))
	assert.Equal(t, int32(5), hits.Load())
}

type memCache struct {
	mu   sync.Mutex
	data map[string]*entity.Profile
}

func (c *memCache) Get(_ context.Context, username string) (*entity.Profile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.data[username]
	return p, ok
}

func (c *memCache) Set(_ context.Context, p *entity.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[p.Username] = p
}

func TestProfile_Cache(t *testing.T) {
	var hits atomic.Int32
	s, _ := testScraper(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(webProfileJSON))
	})
	cache := &memCache{data: map[string]*entity.Profile{}}
	s.SetCache(cache)

	first, err := s.Profile(context.Background(), "yarn.tales")
	require.NoError(t, err)
	second, err := s.Profile(context.Background(), "yarn.tales")
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, first.DisplayName, second.DisplayName)
}

func TestParseHTML_SharedData(t *testing.T) {
	page := `<html><body><script type="text/javascript">window._sharedData = {"entry_data":{"ProfilePage":[{"graphql":{"user":{"full_name":"Ink Studio","biography":"Illustrations","edge_followed_by":{"count":12}}}}]}};</script></body></html>`

	p, err := parseHTML([]byte(page), "ink.studio", 12)
	require.NoError(t, err)
	assert.Equal(t, "Ink Studio", p.DisplayName)
	assert.Equal(t, "Illustrations", p.Bio)
	assert.Equal(t, 12, p.Followers)
}

func TestParseHTML_EmbeddedFields(t *testing.T) {
	page := `<html><body><script type="application/json">{"require":[{"user":{"biography":"Silver jewellery ✨ 💍","full_name":"Shine","edge_followed_by":{"count":4321},"edge_follow":{"count":10}}}]}</script></body></html>`

	p, err := parseHTML([]byte(page), "shine", 12)
	require.NoError(t, err)
	assert.Equal(t, "Silver jewellery ✨ 💍", p.Bio)
	assert.Equal(t, "Shine", p.DisplayName)
	assert.Equal(t, 4321, p.Followers)
	assert.Equal(t, 10, p.Following)
}

func TestParseHTML_LDJSON(t *testing.T) {
	page := `<html><head><script type="application/ld+json">{"@type":"ProfilePage","mainEntity":{"name":"Nest Decor","description":"Minimal home decor","image":{"url":"https://scontent.cdninstagram.com/n.jpg"},"interactionStatistic":[{"interactionType":"http://schema.org/FollowAction","userInteractionCount":"5200"}]}}</script></head></html>`

	p, err := parseHTML([]byte(page), "nest", 12)
	require.NoError(t, err)
	assert.Equal(t, "Nest Decor", p.DisplayName)
	assert.Equal(t, "Minimal home decor", p.Bio)
	assert.Equal(t, "https://scontent.cdninstagram.com/n.jpg", p.ProfilePicURL)
	assert.Equal(t, 5200, p.Followers)
}

const loginWallHTML = `<!DOCTYPE html>
<html><head>
<title>Instagram</title>
<meta property="og:title" content="Instagram">
<meta property="og:description" content="Create an account or log in to Instagram - Share what you're into with the people who get you.">
<meta property="og:image" content="https://static.cdninstagram.com/rsrc.php/v3/yt/r/30PrGfR3xhB.png">
</head><body>
<img src="https://static.cdninstagram.com/rsrc.php/v3/logo.png">
<form action="/accounts/login/"></form>
</body></html>`

func TestParseHTML_LoginWall(t *testing.T) {
	p, err := parseHTML([]byte(loginWallHTML), "yarn.tales", 12)
	require.Error(t, err)
	assert.Nil(t, p)
	assert.Equal(t, KindBlocked, KindOf(err))

	for _, title := range []string{"Login • Instagram", "Page Not Found • Instagram"} {
		_, err = parseHTML([]byte(`<html><head><title>`+title+`</title></head></html>`), "yarn.tales", 12)
		assert.Equal(t, KindBlocked, KindOf(err), title)
	}
}

func TestProfile_LoginWallIsNotAProfile(t *testing.T) {
	var legacyOK atomic.Bool
	s, _ := testScraper(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/users/web_profile_info/":
			w.WriteHeader(http.StatusUnauthorized)
		case r.URL.Query().Get("__a") == "1" && legacyOK.Load():
			_, _ = w.Write([]byte(legacyJSON))
		default:
			_, _ = w.Write([]byte(loginWallHTML))
		}
	})

	_, err := s.Profile(context.Background(), "yarn.tales")
	require.Error(t, err)
	assert.Equal(t, KindBlocked, KindOf(err))
	assert.Contains(t, err.Error(), "login wall")

	legacyOK.Store(true)
	p, err := s.Profile(context.Background(), "cake_house")
	require.NoError(t, err)
	assert.Equal(t, "legacy_json", p.Source)
	assert.Equal(t, "Cake House", p.DisplayName)
	assert.NotContains(t, p.Bio, "log in")
}
