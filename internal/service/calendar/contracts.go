package calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	"github.com/m04kA/SMC-AllocationService/internal/usecase/generate_slots"
)

// CalendarRepository интерфейс репозитория календарных правил
type CalendarRepository interface {
	ListWeekdayRules(ctx context.Context) ([]*domain.WeekdayRule, error)
	GetWeekdayRule(ctx context.Context, weekday time.Weekday) (*domain.WeekdayRule, error)
	UpsertWeekdayRule(ctx context.Context, rule *domain.WeekdayRule) (*domain.WeekdayRule, error)
	ListExclusiveWindows(ctx context.Context, activeOnly bool) ([]*domain.ExclusiveWindow, error)
	CreateExclusiveWindow(ctx context.Context, window *domain.ExclusiveWindow) (*domain.ExclusiveWindow, error)
	UpdateExclusiveWindow(ctx context.Context, window *domain.ExclusiveWindow) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Slot, error)
	SetBlocked(ctx context.Context, id int64, blocked bool) error
}

// TransactionManager интерфейс для управления транзакциями
// Правило дня недели и его перерывы сохраняются атомарно
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotGenerator интерфейс генератора сетки слотов
// Любое изменение календаря запускает полную перегенерацию горизонта
type SlotGenerator interface {
	Execute(ctx context.Context, req generate_slots.Request) (*generate_slots.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
