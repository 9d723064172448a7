package move_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AllocationService/internal/api/handlers"
	usecase "github.com/m04kA/SMC-AllocationService/internal/usecase/move_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBookingNotFound    = "бронирование не найдено"
	msgNotMovable         = "бронирование не может быть перенесено"
	msgSlotNotFound       = "целевой слот не найден"
	msgSlotBlocked        = "целевой слот заблокирован"
	msgTypeMismatch       = "целевой слот другого типа"
	msgCapacityFull       = "в целевом слоте нет свободной вместимости"
)

type Handler struct {
	usecase MoveBookingUseCase
	logger  Logger
}

func NewHandler(uc MoveBookingUseCase, logger Logger) *Handler {
	return &Handler{
		usecase: uc,
		logger:  logger,
	}
}

// MoveBookingRequest HTTP request model
type MoveBookingRequest struct {
	TargetSlotID int64 `json:"targetSlotId"`
}

// Handle PATCH /api/v1/bookings/{bookingId}/move
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/move - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req MoveBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/move - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.usecase.Execute(r.Context(), usecase.Request{
		BookingID:    bookingID,
		TargetSlotID: req.TargetSlotID,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/move - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, usecase.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/move - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, usecase.ErrNotMovable):
			h.logger.Warn("PATCH /bookings/{id}/move - Not movable: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNotMovable)

		case errors.Is(err, usecase.ErrSlotNotFound):
			h.logger.Warn("PATCH /bookings/{id}/move - Target slot not found: slot_id=%d", req.TargetSlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, usecase.ErrSlotBlocked):
			h.logger.Warn("PATCH /bookings/{id}/move - Target slot blocked: slot_id=%d", req.TargetSlotID)
			handlers.RespondConflict(w, msgSlotBlocked)

		case errors.Is(err, usecase.ErrSlotTypeMismatch):
			h.logger.Warn("PATCH /bookings/{id}/move - Slot type mismatch: slot_id=%d", req.TargetSlotID)
			handlers.RespondConflict(w, msgTypeMismatch)

		case errors.Is(err, usecase.ErrCapacityExceeded):
			h.logger.Warn("PATCH /bookings/{id}/move - Capacity full: slot_id=%d", req.TargetSlotID)
			handlers.RespondConflict(w, msgCapacityFull)

		default:
			h.logger.Error("PATCH /bookings/{id}/move - Failed to move booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/move - Booking moved: booking_id=%d, target_slot=%d",
		bookingID, req.TargetSlotID)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
