package evaluate_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	SumActivePointsBySlot(ctx context.Context, slotID int64) (int, error)
	CountActiveByAccountAndDate(ctx context.Context, accountID int64, date time.Time) (int, error)
	ExistsActiveByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (bool, error)
	ExistsActiveBySubscriberAndSlot(ctx context.Context, subscriberID, slotID int64) (bool, error)
}

// AccountRepository интерфейс репозитория аккаунтов и подписчиков
type AccountRepository interface {
	GetBusinessAccount(ctx context.Context, id int64) (*domain.BusinessAccount, error)
	GetEmployee(ctx context.Context, id int64) (*domain.Employee, error)
	GetSubscriber(ctx context.Context, id int64) (*domain.IndividualSubscriber, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
