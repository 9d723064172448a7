package allocate_booking

import (
	"github.com/m04kA/SMC-AllocationService/internal/domain"
)

// Request запрос на создание бронирования
// Заполняется ровно одно из полей EmployeeID / SubscriberID
type Request struct {
	SlotID       int64                 `json:"slot_id"`
	EmployeeID   *int64                `json:"employee_id,omitempty"`
	SubscriberID *int64                `json:"subscriber_id,omitempty"`
	Purpose      domain.BookingPurpose `json:"purpose,omitempty"`
	// PointCost = 0 — использовать стоимость по умолчанию
	PointCost int `json:"point_cost,omitempty"`
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

// Response созданное бронирование
type Response struct {
	Booking *domain.Booking `json:"booking"`
	// CreditDebited true, если при создании был списан кредит подписчика
	CreditDebited bool `json:"credit_debited"`
}
