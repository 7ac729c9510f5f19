package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"InstaCatalog/entity"
	"InstaCatalog/internal/lib/sl"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const maxBodySize = 5 << 20

type Options struct {
	BaseURL       string
	UserAgent     string
	AppID         string
	Timeout       time.Duration
	RatePerMinute int
	MaxPosts      int
}

// Cache stores successfully scraped profiles.
type Cache interface {
	Get(ctx context.Context, username string) (*entity.Profile, bool)
	Set(ctx context.Context, profile *entity.Profile)
}

type strategy struct {
	name  string
	fetch func(ctx context.Context, username string) (*entity.Profile, error)
}

type Scraper struct {
	client     *http.Client
	opts       Options
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	cache      Cache
	strategies []strategy
	log        *slog.Logger
}

func New(opts Options, log *slog.Logger) *Scraper {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://www.instagram.com"
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RatePerMinute <= 0 {
		opts.RatePerMinute = 20
	}
	if opts.MaxPosts <= 0 {
		opts.MaxPosts = 12
	}

	s := &Scraper{
		client:  &http.Client{Timeout: opts.Timeout},
		opts:    opts,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RatePerMinute)), 3),
		log:     log.With(sl.Module("instagram")),
	}
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "instagram",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// a missing profile or an odd page is not a sign Instagram is pushing back
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			k := KindOf(err)
			return k == KindNotFound || k == KindParse
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.log.Warn("circuit breaker state changed",
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})
	s.strategies = []strategy{
		{name: "web_profile_info", fetch: s.webProfileInfo},
		{name: "html", fetch: s.profilePage},
		{name: "legacy_json", fetch: s.legacyJSON},
	}
	return s
}

func (s *Scraper) SetCache(cache Cache) {
	s.cache = cache
}

func (s *Scraper) SetHTTPClient(client *http.Client) {
	s.client = client
}

// Profile runs the strategies in order and returns the first non-empty result.
func (s *Scraper) Profile(ctx context.Context, username string) (*entity.Profile, error) {
	log := s.log.With(slog.String("username", username))

	if s.cache != nil {
		if p, ok := s.cache.Get(ctx, username); ok {
			log.Debug("profile served from cache")
			return p, nil
		}
	}

	var causes []error
	for _, st := range s.strategies {
		p, err := st.fetch(ctx, username)
		if err == nil && p.IsEmpty() {
			err = &Error{Kind: KindEmpty, Message: "nothing extracted"}
		}
		if err != nil {
			log.Warn("strategy failed", slog.String("strategy", st.name), sl.Err(err))
			causes = append(causes, fmt.Errorf("%s: %w", st.name, err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		p.Username = username
		p.Source = st.name
		p.FetchedAt = time.Now().UTC()
		if len(p.Posts) > s.opts.MaxPosts {
			p.Posts = p.Posts[:s.opts.MaxPosts]
		}
		log.Info("profile extracted",
			slog.String("strategy", st.name),
			slog.Int("posts", len(p.Posts)),
			slog.Int("followers", p.Followers))

		if s.cache != nil {
			s.cache.Set(ctx, p)
		}
		return p, nil
	}
	return nil, aggregate(username, causes)
}

func (s *Scraper) webProfileInfo(ctx context.Context, username string) (*entity.Profile, error) {
	u := fmt.Sprintf("%s/api/v1/users/web_profile_info/?username=%s", s.opts.BaseURL, url.QueryEscape(username))
	body, err := s.get(ctx, u, true)
	if err != nil {
		return nil, err
	}
	return s.decodeJSON(body, username)
}

func (s *Scraper) profilePage(ctx context.Context, username string) (*entity.Profile, error) {
	body, err := s.get(ctx, fmt.Sprintf("%s/%s/", s.opts.BaseURL, url.PathEscape(username)), false)
	if err != nil {
		return nil, err
	}
	p, err := parseHTML(body, username, s.opts.MaxPosts)
	if err != nil {
		var ie *Error
		if errors.As(err, &ie) {
			return nil, ie
		}
		return nil, &Error{Kind: KindParse, Message: err.Error()}
	}
	return p, nil
}

func (s *Scraper) legacyJSON(ctx context.Context, username string) (*entity.Profile, error) {
	body, err := s.get(ctx, fmt.Sprintf("%s/%s/?__a=1&__d=dis", s.opts.BaseURL, url.PathEscape(username)), true)
	if err != nil {
		return nil, err
	}
	p, err := s.decodeJSON(body, username)
	if err != nil && KindOf(err) == KindParse {
		// the endpoint often answers with the HTML page instead
		if hp, herr := parseHTML(body, username, s.opts.MaxPosts); herr == nil && !hp.IsEmpty() {
			return hp, nil
		}
	}
	return p, err
}

func (s *Scraper) decodeJSON(body []byte, username string) (*entity.Profile, error) {
	var r apiResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, &Error{Kind: KindParse, Message: fmt.Sprintf("decode json: %v", err)}
	}
	if r.RequiresToLogin {
		return nil, &Error{Kind: KindBlocked, Message: "login required"}
	}
	u := r.user()
	if u == nil {
		if r.Status == "fail" {
			return nil, &Error{Kind: KindBlocked, Message: "request refused"}
		}
		return nil, &Error{Kind: KindNotFound, Message: "no user in response"}
	}
	return u.toProfile(username, s.opts.MaxPosts), nil
}

// get performs one rate-limited GET through the circuit breaker.
func (s *Scraper) get(ctx context.Context, rawURL string, api bool) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, &Error{Kind: KindNetwork, Message: fmt.Sprintf("rate limiter: %v", err)}
	}

	res, err := s.breaker.Execute(func() (interface{}, error) {
		return s.do(ctx, rawURL, api)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &Error{Kind: KindBlocked, Message: "circuit open, instagram requests paused"}
		}
		return nil, err
	}
	return res.([]byte), nil
}

func (s *Scraper) do(ctx context.Context, rawURL string, api bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if api {
		req.Header.Set("Accept", "application/json")
		if s.opts.AppID != "" {
			req.Header.Set("X-IG-App-ID", s.opts.AppID)
		}
	} else {
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	s.log.Debug("instagram request",
		slog.String("url", rawURL),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.Request != nil && strings.Contains(resp.Request.URL.Path, "/accounts/login") {
		return nil, &Error{Kind: KindBlocked, Status: resp.StatusCode, Message: "redirected to login"}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, &Error{Kind: KindNotFound, Status: resp.StatusCode, Message: "profile not found"}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &Error{Kind: KindRateLimited, Status: resp.StatusCode, Message: "rate limited"}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &Error{Kind: KindBlocked, Status: resp.StatusCode, Message: "access denied"}
	default:
		return nil, &Error{Kind: KindNetwork, Status: resp.StatusCode, Message: "unexpected status"}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: fmt.Sprintf("read body: %v", err)}
	}
	return body, nil
}
