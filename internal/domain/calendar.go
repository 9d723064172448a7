package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AllocationService/pkg/types"
)

var (
	// ErrInvalidTimeRange возвращается при инвертированном диапазоне времени
	ErrInvalidTimeRange = errors.New("domain: start time must be before end time")

	// ErrBreakOutsideHours возвращается, когда перерыв выходит за рабочие часы
	ErrBreakOutsideHours = errors.New("domain: break must lie within opening hours")

	// ErrBreaksOverlap возвращается при пересекающихся перерывах
	ErrBreaksOverlap = errors.New("domain: breaks must not overlap")

	// ErrInvalidWeekday возвращается при некорректном дне недели
	ErrInvalidWeekday = errors.New("domain: weekday must be in range 0-6")
)

// BreakWindow перерыв внутри рабочих часов дня недели
type BreakWindow struct {
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Contains возвращает true, если время t попадает в перерыв: t ∈ [start, end)
func (b BreakWindow) Contains(t types.TimeString) bool {
	return !t.IsBefore(b.StartTime) && t.IsBefore(b.EndTime)
}

// WeekdayRule правило рабочих часов для одного дня недели
// Ровно одно правило на каждый день 0 (воскресенье) — 6 (суббота)
type WeekdayRule struct {
	ID        int64
	Weekday   time.Weekday
	IsOpen    bool
	OpenTime  types.TimeString
	CloseTime types.TimeString
	// Breaks упорядоченные непересекающиеся перерывы внутри [OpenTime, CloseTime)
	Breaks []BreakWindow

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет инварианты правила: open < close, перерывы внутри
// рабочих часов и без пересечений
func (r *WeekdayRule) Validate() error {
	if r.Weekday < time.Sunday || r.Weekday > time.Saturday {
		return ErrInvalidWeekday
	}

	if !r.IsOpen {
		return nil
	}

	if err := r.OpenTime.Validate(); err != nil {
		return fmt.Errorf("open time: %w", err)
	}
	if err := r.CloseTime.Validate(); err != nil {
		return fmt.Errorf("close time: %w", err)
	}
	if !r.OpenTime.IsBefore(r.CloseTime) {
		return ErrInvalidTimeRange
	}

	for i, br := range r.Breaks {
		if err := br.StartTime.Validate(); err != nil {
			return fmt.Errorf("break %d start: %w", i, err)
		}
		if err := br.EndTime.Validate(); err != nil {
			return fmt.Errorf("break %d end: %w", i, err)
		}
		if !br.StartTime.IsBefore(br.EndTime) {
			return fmt.Errorf("break %d: %w", i, ErrInvalidTimeRange)
		}
		if br.StartTime.IsBefore(r.OpenTime) || br.EndTime.IsAfter(r.CloseTime) {
			return fmt.Errorf("break %d: %w", i, ErrBreakOutsideHours)
		}
		if i > 0 && r.Breaks[i-1].EndTime.IsAfter(br.StartTime) {
			return fmt.Errorf("break %d: %w", i, ErrBreaksOverlap)
		}
	}

	return nil
}

// InBreak возвращает true, если время t попадает в один из перерывов
func (r *WeekdayRule) InBreak(t types.TimeString) bool {
	for _, br := range r.Breaks {
		if br.Contains(t) {
			return true
		}
	}
	return false
}

// ExclusiveWindow повторяющееся недельное окно эксклюзивного использования
// Может выходить за рамки обычных рабочих часов и расширять границы дня.
// Несколько окон на день допустимы, пересечения разрешены
type ExclusiveWindow struct {
	ID        int64
	Weekday   time.Weekday
	StartTime types.TimeString
	EndTime   types.TimeString
	IsActive  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет корректность окна
func (w *ExclusiveWindow) Validate() error {
	if w.Weekday < time.Sunday || w.Weekday > time.Saturday {
		return ErrInvalidWeekday
	}
	if err := w.StartTime.Validate(); err != nil {
		return fmt.Errorf("start time: %w", err)
	}
	if err := w.EndTime.Validate(); err != nil {
		return fmt.Errorf("end time: %w", err)
	}
	if !w.StartTime.IsBefore(w.EndTime) {
		return ErrInvalidTimeRange
	}
	return nil
}

// Contains возвращает true, если время t попадает в окно: t ∈ [start, end)
func (w *ExclusiveWindow) Contains(t types.TimeString) bool {
	return !t.IsBefore(w.StartTime) && t.IsBefore(w.EndTime)
}
