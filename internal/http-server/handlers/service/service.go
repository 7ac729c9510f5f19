package service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"InstaCatalog/impl/core"

	"github.com/go-chi/render"
)

type Core interface {
	Debug(ctx context.Context) core.DebugInfo
}

type homeResponse struct {
	Message   string   `json:"message"`
	Endpoints []string `json:"endpoints"`
	Status    string   `json:"status"`
}

func Home(_ *slog.Logger, endpoints []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, homeResponse{
			Message:   "WhatsApp Instagram Bot is running!",
			Endpoints: endpoints,
			Status:    "active",
		})
	}
}

func Health(_ *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func Debug(_ *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, handler.Debug(r.Context()))
	}
}
