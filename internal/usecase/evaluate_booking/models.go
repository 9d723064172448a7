package evaluate_booking

import (
	"github.com/m04kA/SMC-AllocationService/internal/domain"
)

// Reason код отказа в бронировании
// Клиенты строят пользовательские сообщения по коду, не по тексту
type Reason string

const (
	ReasonSlotInvalid        Reason = "SLOT_INVALID"
	ReasonSlotBlocked        Reason = "SLOT_BLOCKED"
	ReasonCapacityFull       Reason = "GLOBAL_CAPACITY_FULL"
	ReasonUserAlreadyBooked  Reason = "USER_ALREADY_BOOKED"
	ReasonQuotaExceeded      Reason = "TENANT_QUOTA_EXCEEDED"
	ReasonCustomerInactive   Reason = "CUSTOMER_INACTIVE"
	ReasonCustomerInvalid    Reason = "CUSTOMER_INVALID"
	ReasonInsufficientCredit Reason = "INSUFFICIENT_CREDITS"
	ReasonDuplicateBooking   Reason = "DUPLICATE_BOOKING"
)

// Request запрос на проверку возможности бронирования
// Заполняется ровно одно из полей EmployeeID / SubscriberID
type Request struct {
	SlotID       int64                 `json:"slot_id"`
	EmployeeID   *int64                `json:"employee_id,omitempty"`
	SubscriberID *int64                `json:"subscriber_id,omitempty"`
	Purpose      domain.BookingPurpose `json:"purpose,omitempty"`
	PointCost    int                   `json:"point_cost,omitempty"`
}

// Requester собирает tagged union из полей запроса
func (r Request) Requester() domain.Requester {
	if r.EmployeeID != nil {
		return domain.NewEmployeeRequester(*r.EmployeeID)
	}
	if r.SubscriberID != nil {
		return domain.NewSubscriberRequester(*r.SubscriberID)
	}
	return domain.Requester{}
}

// Response результат проверки
// Результат носит справочный характер: allocate повторяет все проверки
// в транзакции записи и может отказать, даже если evaluate вернул eligible
type Response struct {
	Eligible bool   `json:"eligible"`
	Reason   Reason `json:"reason,omitempty"`
}

func rejected(reason Reason) *Response {
	return &Response{Eligible: false, Reason: reason}
}
