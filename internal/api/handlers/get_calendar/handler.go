package get_calendar

import (
	"net/http"

	"github.com/m04kA/SMC-AllocationService/internal/api/handlers"
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

// Handle GET /api/v1/calendar
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.GetCalendar(r.Context())
	if err != nil {
		h.logger.Error("GET /calendar - Failed to get calendar: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
