package allocate_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AllocationService/internal/api/handlers"
	usecase "github.com/m04kA/SMC-AllocationService/internal/usecase/allocate_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgSlotNotFound        = "слот не найден"
	msgSlotBlocked         = "слот заблокирован"
	msgPurposeNotAllowed   = "тип слота не допускает такое бронирование"
	msgCapacityFull        = "в слоте нет свободной вместимости"
	msgRequesterNotFound   = "инициатор бронирования не найден"
	msgRequesterInactive   = "аккаунт деактивирован"
	msgAlreadyBookedToday  = "у сотрудника уже есть бронирование в этот день"
	msgQuotaExceeded       = "дневная квота аккаунта исчерпана"
	msgInsufficientCredits = "недостаточно кредитов и нет активной подписки"
	msgDuplicateBooking    = "бронирование на этот слот уже существует"
)

type Handler struct {
	usecase AllocateBookingUseCase
	logger  Logger
}

func NewHandler(uc AllocateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		usecase: uc,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req usecase.Request
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	resp, err := h.usecase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, usecase.ErrSlotNotFound):
			h.logger.Warn("POST /bookings - Slot not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, usecase.ErrSlotBlocked):
			h.logger.Warn("POST /bookings - Slot blocked: slot_id=%d", req.SlotID)
			handlers.RespondConflict(w, msgSlotBlocked)

		case errors.Is(err, usecase.ErrPurposeNotAllowed):
			h.logger.Warn("POST /bookings - Purpose not allowed: slot_id=%d", req.SlotID)
			handlers.RespondConflict(w, msgPurposeNotAllowed)

		case errors.Is(err, usecase.ErrCapacityExceeded):
			h.logger.Warn("POST /bookings - Capacity full: slot_id=%d", req.SlotID)
			handlers.RespondConflict(w, msgCapacityFull)

		case errors.Is(err, usecase.ErrRequesterNotFound):
			h.logger.Warn("POST /bookings - Requester not found: %v", err)
			handlers.RespondNotFound(w, msgRequesterNotFound)

		case errors.Is(err, usecase.ErrRequesterInactive):
			h.logger.Warn("POST /bookings - Requester inactive: %v", err)
			handlers.RespondUnprocessable(w, msgRequesterInactive)

		case errors.Is(err, usecase.ErrAlreadyBookedToday):
			h.logger.Warn("POST /bookings - Already booked today: %v", err)
			handlers.RespondConflict(w, msgAlreadyBookedToday)

		case errors.Is(err, usecase.ErrQuotaExceeded):
			h.logger.Warn("POST /bookings - Quota exceeded: %v", err)
			handlers.RespondConflict(w, msgQuotaExceeded)

		case errors.Is(err, usecase.ErrInsufficientCredits):
			h.logger.Warn("POST /bookings - Insufficient credits: %v", err)
			handlers.RespondUnprocessable(w, msgInsufficientCredits)

		case errors.Is(err, usecase.ErrDuplicateBooking):
			h.logger.Warn("POST /bookings - Duplicate booking: %v", err)
			handlers.RespondConflict(w, msgDuplicateBooking)

		default:
			h.logger.Error("POST /bookings - Failed to allocate booking: slot_id=%d, error=%v", req.SlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: id=%d, slot_id=%d", resp.Booking.ID, resp.Booking.SlotID)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}
