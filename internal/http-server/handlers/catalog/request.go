package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"InstaCatalog/impl/core"
	"InstaCatalog/internal/lib/api/response"
	"InstaCatalog/internal/lib/sl"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Username string `json:"username" validate:"required,max=200"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,numeric,min=7,max=15"`
}

var validate = validator.New()

// RequestCatalog queues generation from the admin API.
func RequestCatalog(log *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.catalog"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Debug("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid request body"))
			return
		}
		if err := validate.Struct(req); err != nil {
			var verrs validator.ValidationErrors
			message := "Invalid request"
			if errors.As(err, &verrs) && len(verrs) > 0 {
				message = fmt.Sprintf("Invalid field %s: %s", verrs[0].Field(), verrs[0].Tag())
			}
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error(message))
			return
		}

		record, err := handler.RequestCatalog(r.Context(), req.Username, req.Phone)
		switch {
		case err == nil:
			logger.Info("catalog requested", slog.String("username", record.Username), slog.String("job", record.JobID))
			render.Status(r, http.StatusAccepted)
			render.JSON(w, r, response.Ok(record))
		case errors.Is(err, core.ErrAlreadyProcessing):
			render.JSON(w, r, response.Ok(record))
		case errors.Is(err, core.ErrInvalidUsername):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid Instagram username"))
		case errors.Is(err, core.ErrQueueFull), errors.Is(err, core.ErrStopped):
			w.Header().Set("Retry-After", "60")
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			logger.Error("request catalog", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to queue catalog"))
		}
	}
}
