package domain

import (
	"time"

	"github.com/m04kA/SMC-AllocationService/pkg/types"
)

// SlotType тип слота
type SlotType string

const (
	// SlotRegular обычный слот в рамках рабочих часов
	SlotRegular SlotType = "regular"
	// SlotExclusive слот внутри эксклюзивного окна, бронируется только через analysis
	SlotExclusive SlotType = "exclusive"
)

// Slot represents a bookable fixed-granularity interval with capacity in points
type Slot struct {
	ID        int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString

	CapacityPoints int
	// BookedPoints денормализованный счётчик занятости, только для отображения.
	// Проверки вместимости всегда пересчитывают сумму по таблице bookings
	BookedPoints int

	Type      SlotType
	IsBlocked bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AllowsPurpose возвращает true, если слот бронируется через указанный путь
func (s *Slot) AllowsPurpose(purpose BookingPurpose) bool {
	switch s.Type {
	case SlotExclusive:
		return purpose == PurposeAnalysis
	default:
		return purpose == PurposeRegular
	}
}

// FreePointsDisplay возвращает свободные points по денормализованному счётчику
// Только для отображения, не для проверок
func (s *Slot) FreePointsDisplay() int {
	free := s.CapacityPoints - s.BookedPoints
	if free < 0 {
		return 0
	}
	return free
}

// NewSlot слот, подготовленный генератором к вставке
type NewSlot struct {
	Date           time.Time
	StartTime      types.TimeString
	EndTime        types.TimeString
	CapacityPoints int
	Type           SlotType
}
