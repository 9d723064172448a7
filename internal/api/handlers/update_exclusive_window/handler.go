package update_exclusive_window

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AllocationService/internal/api/handlers"
	"github.com/m04kA/SMC-AllocationService/internal/service/calendar"
	"github.com/m04kA/SMC-AllocationService/internal/service/calendar/models"
)

const (
	msgInvalidWindowID    = "некорректный ID окна"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "эксклюзивное окно не найдено"
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

// Handle PATCH /api/v1/calendar/exclusive-windows/{windowId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	windowID, err := strconv.ParseInt(vars["windowId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /calendar/exclusive-windows/{id} - Invalid window ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidWindowID)
		return
	}

	var req models.UpdateExclusiveWindowRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /calendar/exclusive-windows/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.UpdateExclusiveWindow(r.Context(), windowID, &req)
	if err != nil {
		switch {
		case errors.Is(err, calendar.ErrWindowNotFound):
			h.logger.Warn("PATCH /calendar/exclusive-windows/{id} - Window not found: id=%d", windowID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, calendar.ErrInvalidInput):
			h.logger.Warn("PATCH /calendar/exclusive-windows/{id} - Invalid window: id=%d: %v", windowID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PATCH /calendar/exclusive-windows/{id} - Failed to update window: id=%d, error=%v",
				windowID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /calendar/exclusive-windows/{id} - Window updated: id=%d", windowID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
