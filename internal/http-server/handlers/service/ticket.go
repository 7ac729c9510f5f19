package service

import (
	"log/slog"
	"net/http"
	"time"

	"InstaCatalog/internal/lib/api/response"

	"github.com/go-chi/render"
)

type TicketIssuer interface {
	Ticket(subject string) (string, time.Duration)
}

type ticketResponse struct {
	Ticket    string `json:"ticket"`
	ExpiresIn int    `json:"expires_in"`
}

// WsTicket issues a short-lived token to use as /ws?token=...
func WsTicket(_ *slog.Logger, issuer TicketIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ttl := issuer.Ticket("dashboard")
		render.JSON(w, r, response.Ok(ticketResponse{
			Ticket:    token,
			ExpiresIn: int(ttl.Seconds()),
		}))
	}
}
