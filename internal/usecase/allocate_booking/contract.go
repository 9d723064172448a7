package allocate_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	"github.com/m04kA/SMC-AllocationService/internal/integrations/notifier"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	AddBookedPoints(ctx context.Context, id int64, delta int) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
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
	DebitCredit(ctx context.Context, subscriberID int64) error
}

// TransactionManager интерфейс для управления транзакциями
// Все проверки и запись выполняются в одной serializable транзакции
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// NotificationClient интерфейс клиента сервиса уведомлений
type NotificationClient interface {
	SendBookingConfirmed(ctx context.Context, event notifier.BookingConfirmedEvent) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
