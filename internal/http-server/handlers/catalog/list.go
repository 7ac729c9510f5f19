package catalog

import (
	"log/slog"
	"net/http"

	"InstaCatalog/internal/lib/api/response"
	"InstaCatalog/internal/lib/sl"

	"github.com/go-chi/render"
)

func List(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := handler.ListCatalogs(r.Context())
		if err != nil {
			log.With(sl.Module("http.handlers.catalog")).Error("list catalogs", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to list catalogs"))
			return
		}
		render.JSON(w, r, response.Ok(list))
	}
}
