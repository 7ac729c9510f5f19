package authenticate

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"InstaCatalog/internal/lib/api/response"
	"InstaCatalog/internal/lib/sl"
	"InstaCatalog/internal/lib/ticket"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Authenticate interface {
	AuthenticateByToken(token string) (string, error)
}

// New guards a route group with "Authorization: Bearer <token>".
func New(log *slog.Logger, auth Authenticate) func(next http.Handler) http.Handler {
	mod := sl.Module("middleware.authenticate")
	log.With(mod).Info("authenticate middleware initialized")

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			logger := log.With(
				mod,
				slog.String("path", r.URL.Path),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			header := r.Header.Get("Authorization")
			if header == "" {
				logger.Debug("authorization header not found")
				authFailed(w, r, "Authorization header not found")
				return
			}
			token, ok := strings.CutPrefix(header, "Bearer ")
			token = strings.TrimSpace(token)
			if !ok || token == "" {
				logger.Debug("token not found")
				authFailed(w, r, "Token not found")
				return
			}

			if auth == nil {
				authFailed(w, r, "Unauthorized: authentication not enabled")
				return
			}

			client, err := auth.AuthenticateByToken(token)
			if err != nil {
				logger.With(sl.Err(err), sl.Secret("token", token)).Warn("authentication failed")
				authFailed(w, r, "Unauthorized: invalid token")
				return
			}
			w.Header().Set("X-Client", client)
			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

func authFailed(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error(message))
}

var (
	ErrKeyNotConfigured = errors.New("api key not configured")
	ErrInvalidKey       = errors.New("invalid api key")
)

const ticketTTL = 5 * time.Minute

// KeyAuth accepts a single static API key. Websocket clients may present
// either the key or a ticket issued by Ticket.
type KeyAuth struct {
	key string
}

func NewKeyAuth(key string) *KeyAuth {
	return &KeyAuth{key: key}
}

func (k *KeyAuth) AuthenticateByToken(token string) (string, error) {
	if k.key == "" {
		return "", ErrKeyNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(k.key)) != 1 {
		return "", ErrInvalidKey
	}
	return "api", nil
}

func (k *KeyAuth) ValidateToken(token string) (string, error) {
	if subject, ok := ticket.Verify(token, k.key); ok {
		return subject, nil
	}
	return k.AuthenticateByToken(token)
}

// Ticket issues a short-lived websocket ticket for an authenticated client.
func (k *KeyAuth) Ticket(subject string) (string, time.Duration) {
	return ticket.Sign(subject, k.key, ticketTTL), ticketTTL
}
