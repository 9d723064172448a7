package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidRequester возвращается, когда не указан ровно один инициатор
	ErrInvalidRequester = errors.New("exactly one of employeeId or subscriberId must be set")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListBookingsRequest запрос на получение бронирований инициатора
type ListBookingsRequest struct {
	EmployeeID   *int64     `json:"employeeId,omitempty"`
	SubscriberID *int64     `json:"subscriberId,omitempty"`
	AccountID    *int64     `json:"accountId,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	Status       *string    `json:"status,omitempty"`
	// ActiveOnly исключает отменённые бронирования
	ActiveOnly bool `json:"activeOnly,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		EmployeeID:   r.EmployeeID,
		SubscriberID: r.SubscriberID,
		AccountID:    r.AccountID,
		SlotDate:     r.Date,
		ActiveOnly:   r.ActiveOnly,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID     int64 `json:"id"`
	SlotID int64 `json:"slotId"`

	Date      string `json:"date"`      // "2025-10-15"
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "10:10"

	RequesterKind string `json:"requesterKind"`
	EmployeeID    *int64 `json:"employeeId,omitempty"`
	AccountID     *int64 `json:"accountId,omitempty"`
	SubscriberID  *int64 `json:"subscriberId,omitempty"`

	Purpose   string `json:"purpose"`
	Status    string `json:"status"`
	PointCost int    `json:"pointCost"`

	CreditDebited bool `json:"creditDebited"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:            b.ID,
		SlotID:        b.SlotID,
		Date:          b.SlotDate.Format(domain.DateFormat),
		StartTime:     b.StartTime.String(),
		EndTime:       b.EndTime.String(),
		RequesterKind: string(b.Kind),
		EmployeeID:    b.EmployeeID,
		AccountID:     b.AccountID,
		SubscriberID:  b.SubscriberID,
		Purpose:       string(b.Purpose),
		Status:        string(b.Status),
		PointCost:     b.PointCost,
		CreditDebited: b.CreditDebited,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}

	resp.CancellationReason = b.CancellationReason
	if b.CancelledAt != nil {
		cancelledAt := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledAt
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(s) {
	case domain.StatusConfirmed:
		return domain.StatusConfirmed, nil
	case domain.StatusCancelled:
		return domain.StatusCancelled, nil
	case domain.StatusCompleted:
		return domain.StatusCompleted, nil
	case domain.StatusNoShow:
		return domain.StatusNoShow, nil
	default:
		return "", ErrInvalidStatus
	}
}
