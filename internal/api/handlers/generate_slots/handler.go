package generate_slots

import (
	"errors"
	"io"
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

// Handle POST /api/v1/slots/generate
// Тело запроса опционально: пустое тело запускает генерацию с настройками
// по умолчанию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /slots/generate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.service.GenerateSlots(r.Context(), &req)
	if err != nil {
		if errors.Is(err, calendar.ErrInvalidInput) {
			h.logger.Warn("POST /slots/generate - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
		h.logger.Error("POST /slots/generate - Generation failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /slots/generate - Generated: created=%d, deleted=%d, anomalies=%d",
		resp.CreatedCount, resp.DeletedCount, len(resp.Anomalies))
	handlers.RespondJSON(w, http.StatusOK, resp)
}
