package update_weekday_rule

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
	msgInvalidWeekday     = "некорректный день недели, ожидается 0-6"
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

// Handle PUT /api/v1/calendar/weekdays/{weekday}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	weekday, err := strconv.Atoi(vars["weekday"])
	if err != nil || weekday < 0 || weekday > 6 {
		h.logger.Warn("PUT /calendar/weekdays/{weekday} - Invalid weekday: %s", vars["weekday"])
		handlers.RespondBadRequest(w, msgInvalidWeekday)
		return
	}

	var req models.UpsertWeekdayRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /calendar/weekdays/{weekday} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.UpsertWeekdayRule(r.Context(), weekday, &req)
	if err != nil {
		if errors.Is(err, calendar.ErrInvalidInput) {
			h.logger.Warn("PUT /calendar/weekdays/{weekday} - Invalid rule: weekday=%d: %v", weekday, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
		h.logger.Error("PUT /calendar/weekdays/{weekday} - Failed to save rule: weekday=%d, error=%v", weekday, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /calendar/weekdays/{weekday} - Rule saved: weekday=%d, isOpen=%v", weekday, req.IsOpen)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
