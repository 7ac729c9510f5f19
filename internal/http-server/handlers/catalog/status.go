package catalog

import (
	"errors"
	"log/slog"
	"net/http"

	"InstaCatalog/impl/core"
	"InstaCatalog/internal/lib/api/response"
	"InstaCatalog/internal/lib/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// Status reports the last known job state for a username.
func Status(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")

		record, err := handler.Status(r.Context(), username)
		if errors.Is(err, core.ErrNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, map[string]string{"status": "not_found"})
			return
		}
		if err != nil {
			log.With(sl.Module("http.handlers.catalog")).Error("get status", sl.Err(err), slog.String("username", username))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to read status"))
			return
		}
		render.JSON(w, r, record)
	}
}
