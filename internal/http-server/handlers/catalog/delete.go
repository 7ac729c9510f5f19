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

func Delete(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")

		err := handler.DeleteCatalog(r.Context(), username)
		switch {
		case err == nil:
			render.JSON(w, r, response.Ok(map[string]string{"username": username}))
		case errors.Is(err, core.ErrNotFound):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Catalog not found"))
		case errors.Is(err, core.ErrInvalidUsername):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid Instagram username"))
		case errors.Is(err, core.ErrAlreadyProcessing):
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("Catalog is being generated"))
		default:
			log.With(sl.Module("http.handlers.catalog")).Error("delete catalog", sl.Err(err), slog.String("username", username))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to delete catalog"))
		}
	}
}
