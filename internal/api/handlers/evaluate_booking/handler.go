package evaluate_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AllocationService/internal/api/handlers"
	usecase "github.com/m04kA/SMC-AllocationService/internal/usecase/evaluate_booking"
)

const msgInvalidRequestBody = "некорректное тело запроса"

type Handler struct {
	usecase EvaluateBookingUseCase
	logger  Logger
}

func NewHandler(uc EvaluateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		usecase: uc,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/evaluate
// Отказы в бронировании возвращаются как 200 с eligible=false и кодом причины
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req usecase.Request
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/evaluate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.usecase.Execute(r.Context(), req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidInput) {
			h.logger.Warn("POST /bookings/evaluate - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
		h.logger.Error("POST /bookings/evaluate - Failed to evaluate: slot_id=%d, error=%v", req.SlotID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /bookings/evaluate - Evaluated: slot_id=%d, eligible=%v, reason=%s",
		req.SlotID, resp.Eligible, resp.Reason)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
