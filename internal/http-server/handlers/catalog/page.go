package catalog

import (
	"errors"
	"log/slog"
	"net/http"

	"InstaCatalog/impl/core"
	"InstaCatalog/internal/lib/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Page serves the generated catalog website.
func Page(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")
		logger := log.With(
			sl.Module("http.handlers.catalog"),
			slog.String("username", username),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		html, err := handler.CatalogPage(r.Context(), username)
		status := http.StatusOK
		switch {
		case errors.Is(err, core.ErrNotFound):
			status = http.StatusNotFound
		case err != nil:
			logger.Error("load catalog page", sl.Err(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if status == http.StatusOK {
			w.Header().Set("Cache-Control", "public, max-age=60")
		}
		w.WriteHeader(status)
		if _, err = w.Write(html); err != nil {
			logger.Debug("write catalog page", sl.Err(err))
		}
	}
}
