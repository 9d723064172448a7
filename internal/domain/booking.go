package domain

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AllocationService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusNoShow    BookingStatus = "no_show"
)

// BookingPurpose определяет путь бронирования
// Обычные слоты бронируются через regular, эксклюзивные окна — только через analysis
type BookingPurpose string

const (
	PurposeRegular  BookingPurpose = "regular"
	PurposeAnalysis BookingPurpose = "analysis"
)

// RequesterKind вид инициатора бронирования
type RequesterKind string

const (
	RequesterEmployee   RequesterKind = "employee"
	RequesterSubscriber RequesterKind = "subscriber"
)

// ErrInvalidRequester возвращается, когда requester заполнен некорректно
var ErrInvalidRequester = errors.New("domain: exactly one of employee or subscriber must be set")

// Requester tagged union: сотрудник корпоративного аккаунта XOR индивидуальный подписчик
// Заполнено ровно одно из полей EmployeeID / SubscriberID
type Requester struct {
	Kind         RequesterKind
	EmployeeID   *int64
	SubscriberID *int64
}

// NewEmployeeRequester создает requester для сотрудника корпоративного аккаунта
func NewEmployeeRequester(employeeID int64) Requester {
	return Requester{
		Kind:       RequesterEmployee,
		EmployeeID: &employeeID,
	}
}

// NewSubscriberRequester создает requester для индивидуального подписчика
func NewSubscriberRequester(subscriberID int64) Requester {
	return Requester{
		Kind:         RequesterSubscriber,
		SubscriberID: &subscriberID,
	}
}

// Validate проверяет структурный инвариант union: заполнено ровно одно поле
func (r Requester) Validate() error {
	switch r.Kind {
	case RequesterEmployee:
		if r.EmployeeID == nil || r.SubscriberID != nil {
			return ErrInvalidRequester
		}
	case RequesterSubscriber:
		if r.SubscriberID == nil || r.EmployeeID != nil {
			return ErrInvalidRequester
		}
	default:
		return ErrInvalidRequester
	}
	return nil
}

// Booking represents an allocation of points on a slot.
// Строки append-only: отмена меняет статус, но никогда не удаляет запись
type Booking struct {
	ID     int64
	SlotID int64

	// Денормализованные данные слота для истории и выборок по дню
	SlotDate  time.Time
	StartTime types.TimeString
	EndTime   types.TimeString

	Kind         RequesterKind
	EmployeeID   *int64
	AccountID    *int64 // Денормализованный ID корпоративного аккаунта (для квоты по дню)
	SubscriberID *int64

	Purpose BookingPurpose
	Status  BookingStatus

	// PointCost snapshot стоимости на момент создания, при переносе не пересчитывается
	PointCost int

	// CreditDebited true, если при создании был списан кредит подписчика
	CreditDebited bool

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Requester восстанавливает tagged union из денормализованных полей
func (b *Booking) Requester() Requester {
	return Requester{
		Kind:         b.Kind,
		EmployeeID:   b.EmployeeID,
		SubscriberID: b.SubscriberID,
	}
}

// IsActive returns true if the booking counts toward capacity and quota
// Завершённые и no-show бронирования остаются активными: они занимали слот
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusConfirmed
}

// CanBeMoved returns true if the booking can be moved to another slot
func (b *Booking) CanBeMoved() bool {
	return b.Status == StatusConfirmed
}

// BookingsFilter фильтр для выборки бронирований
type BookingsFilter struct {
	EmployeeID   *int64
	AccountID    *int64
	SubscriberID *int64
	SlotDate     *time.Time
	Status       *BookingStatus
	// ActiveOnly исключает отменённые бронирования
	ActiveOnly bool
}
