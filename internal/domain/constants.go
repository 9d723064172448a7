package domain

// Default configuration values
const (
	// SlotGranularityMinutes фиксированный шаг сетки слотов
	SlotGranularityMinutes = 10

	DefaultHorizonDays             = 60
	DefaultRegularCapacityPoints   = 6
	DefaultExclusiveCapacityPoints = 1
	DefaultPointCost               = 1
)

// Business validation constants
const (
	MinPointCost                = 1
	MaxPointCost                = 100
	MinHorizonDays              = 1
	MaxHorizonDays              = 365
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, учитываемые в проверках вместимости и квот
// Отменённые бронирования освобождают вместимость, остальные — нет
var ActiveStatuses = []BookingStatus{
	StatusConfirmed,
	StatusCompleted,
	StatusNoShow,
}
