package generate_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
)

// CalendarRepository интерфейс репозитория календарных правил
type CalendarRepository interface {
	ListWeekdayRules(ctx context.Context) ([]*domain.WeekdayRule, error)
	ListExclusiveWindows(ctx context.Context, activeOnly bool) ([]*domain.ExclusiveWindow, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	DeleteUnbooked(ctx context.Context, date time.Time) (int64, error)
	BatchInsert(ctx context.Context, slots []domain.NewSlot) (int64, error)
}

// TransactionManager интерфейс для управления транзакциями
// Каждый день обрабатывается в отдельной транзакции
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
