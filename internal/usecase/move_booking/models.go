package move_booking

import (
	"github.com/m04kA/SMC-AllocationService/internal/domain"
)

// Request запрос на перенос бронирования в другой слот
type Request struct {
	BookingID    int64 `json:"booking_id"`
	TargetSlotID int64 `json:"target_slot_id"`
}

// Response бронирование после переноса
type Response struct {
	Booking *domain.Booking `json:"booking"`
}
