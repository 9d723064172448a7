package create_exclusive_window

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AllocationService/internal/api/handlers"
	"github.com/m04kA/SMC-AllocationService/internal/service/calendar"
	"github.com/m04kA/SMC-AllocationService/internal/service/calendar/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
)

type Handler struct {
	service CalendarService
	logger  Logger
}

func NewHandler(service CalendarService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/calendar/exclusive-windows
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateExclusiveWindowRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /calendar/exclusive-windows - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.CreateExclusiveWindow(r.Context(), &req)
	if err != nil {
		if errors.Is(err, calendar.ErrInvalidInput) {
			h.logger.Warn("POST /calendar/exclusive-windows - Invalid window: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
		h.logger.Error("POST /calendar/exclusive-windows - Failed to create window: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /calendar/exclusive-windows - Window created: id=%d, weekday=%d", resp.ID, resp.Weekday)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}
