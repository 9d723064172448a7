package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	"github.com/m04kA/SMC-AllocationService/pkg/types"
)

var (
	// ErrInvalidTime возвращается при некорректном формате времени
	ErrInvalidTime = errors.New("invalid time format, expected HH:MM")

	// ErrInvalidWeekday возвращается при некорректном дне недели
	ErrInvalidWeekday = errors.New("weekday must be in range 0-6")
)

// ParseTime парсит время "HH:MM" с валидацией
func ParseTime(s string) (types.TimeString, error) {
	ts, err := types.NewTimeStringFromString(s)
	if err != nil {
		return "", ErrInvalidTime
	}
	return ts, nil
}

// Request модели

// BreakDTO перерыв внутри рабочих часов
type BreakDTO struct {
	StartTime string `json:"startTime"` // "12:00"
	EndTime   string `json:"endTime"`   // "13:00"
}

// UpsertWeekdayRuleRequest запрос на сохранение правила дня недели
type UpsertWeekdayRuleRequest struct {
	IsOpen    bool       `json:"isOpen"`
	OpenTime  string     `json:"openTime,omitempty"`  // "08:00"
	CloseTime string     `json:"closeTime,omitempty"` // "18:00"
	Breaks    []BreakDTO `json:"breaks,omitempty"`
}

// ToDomain конвертирует request в domain модель с валидацией форматов времени
func (r *UpsertWeekdayRuleRequest) ToDomain(weekday int) (*domain.WeekdayRule, error) {
	if weekday < 0 || weekday > 6 {
		return nil, ErrInvalidWeekday
	}

	rule := &domain.WeekdayRule{
		Weekday: time.Weekday(weekday),
		IsOpen:  r.IsOpen,
	}

	if !r.IsOpen {
		return rule, nil
	}

	var err error
	if rule.OpenTime, err = types.NewTimeStringFromString(r.OpenTime); err != nil {
		return nil, ErrInvalidTime
	}
	if rule.CloseTime, err = types.NewTimeStringFromString(r.CloseTime); err != nil {
		return nil, ErrInvalidTime
	}

	for _, b := range r.Breaks {
		br := domain.BreakWindow{}
		if br.StartTime, err = types.NewTimeStringFromString(b.StartTime); err != nil {
			return nil, ErrInvalidTime
		}
		if br.EndTime, err = types.NewTimeStringFromString(b.EndTime); err != nil {
			return nil, ErrInvalidTime
		}
		rule.Breaks = append(rule.Breaks, br)
	}

	return rule, nil
}

// CreateExclusiveWindowRequest запрос на создание эксклюзивного окна
type CreateExclusiveWindowRequest struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"startTime"` // "13:00"
	EndTime   string `json:"endTime"`   // "14:00"
	IsActive  *bool  `json:"isActive,omitempty"`
}

// ToDomain конвертирует request в domain модель
func (r *CreateExclusiveWindowRequest) ToDomain() (*domain.ExclusiveWindow, error) {
	if r.Weekday < 0 || r.Weekday > 6 {
		return nil, ErrInvalidWeekday
	}

	window := &domain.ExclusiveWindow{
		Weekday:  time.Weekday(r.Weekday),
		IsActive: true,
	}
	if r.IsActive != nil {
		window.IsActive = *r.IsActive
	}

	var err error
	if window.StartTime, err = types.NewTimeStringFromString(r.StartTime); err != nil {
		return nil, ErrInvalidTime
	}
	if window.EndTime, err = types.NewTimeStringFromString(r.EndTime); err != nil {
		return nil, ErrInvalidTime
	}

	return window, nil
}

// UpdateExclusiveWindowRequest запрос на изменение эксклюзивного окна
// Незаполненные поля не меняются
type UpdateExclusiveWindowRequest struct {
	StartTime *string `json:"startTime,omitempty"`
	EndTime   *string `json:"endTime,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// BlockSlotRequest запрос на блокировку/разблокировку слота
type BlockSlotRequest struct {
	Blocked bool `json:"blocked"`
}

// GenerateSlotsRequest запрос на перегенерацию сетки слотов
type GenerateSlotsRequest struct {
	HorizonDays int `json:"horizonDays,omitempty"`
}

// Response модели

// WeekdayRuleResponse правило дня недели
type WeekdayRuleResponse struct {
	Weekday   int        `json:"weekday"`
	IsOpen    bool       `json:"isOpen"`
	OpenTime  string     `json:"openTime,omitempty"`
	CloseTime string     `json:"closeTime,omitempty"`
	Breaks    []BreakDTO `json:"breaks,omitempty"`
}

// ExclusiveWindowResponse эксклюзивное окно
type ExclusiveWindowResponse struct {
	ID        int64  `json:"id"`
	Weekday   int    `json:"weekday"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	IsActive  bool   `json:"isActive"`
}

// CalendarResponse полная конфигурация календаря
type CalendarResponse struct {
	Weekdays         []WeekdayRuleResponse     `json:"weekdays"`
	ExclusiveWindows []ExclusiveWindowResponse `json:"exclusiveWindows"`
}

// SlotResponse слот расписания
type SlotResponse struct {
	ID             int64  `json:"id"`
	Date           string `json:"date"`      // "2025-10-15"
	StartTime      string `json:"startTime"` // "10:00"
	EndTime        string `json:"endTime"`   // "10:10"
	Type           string `json:"type"`
	CapacityPoints int    `json:"capacityPoints"`
	// FreePoints по денормализованному счётчику, только для отображения
	FreePoints int  `json:"freePoints"`
	IsBlocked  bool `json:"isBlocked"`
}

// SlotListResponse список слотов
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// GenerationResponse результат перегенерации сетки
type GenerationResponse struct {
	CreatedCount  int64        `json:"createdCount"`
	DeletedCount  int64        `json:"deletedCount"`
	ProcessedDays int          `json:"processedDays"`
	SkippedDays   int          `json:"skippedDays"`
	Anomalies     []AnomalyDTO `json:"anomalies,omitempty"`
}

// AnomalyDTO диагностика некорректного правила или окна
type AnomalyDTO struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// Методы конвертации

// FromDomainWeekdayRule конвертирует domain модель в DTO
func FromDomainWeekdayRule(r *domain.WeekdayRule) WeekdayRuleResponse {
	resp := WeekdayRuleResponse{
		Weekday: int(r.Weekday),
		IsOpen:  r.IsOpen,
	}
	if r.IsOpen {
		resp.OpenTime = r.OpenTime.String()
		resp.CloseTime = r.CloseTime.String()
	}
	for _, b := range r.Breaks {
		resp.Breaks = append(resp.Breaks, BreakDTO{
			StartTime: b.StartTime.String(),
			EndTime:   b.EndTime.String(),
		})
	}
	return resp
}

// FromDomainExclusiveWindow конвертирует domain модель в DTO
func FromDomainExclusiveWindow(w *domain.ExclusiveWindow) ExclusiveWindowResponse {
	return ExclusiveWindowResponse{
		ID:        w.ID,
		Weekday:   int(w.Weekday),
		StartTime: w.StartTime.String(),
		EndTime:   w.EndTime.String(),
		IsActive:  w.IsActive,
	}
}

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.Slot) SlotResponse {
	return SlotResponse{
		ID:             s.ID,
		Date:           s.Date.Format(domain.DateFormat),
		StartTime:      s.StartTime.String(),
		EndTime:        s.EndTime.String(),
		Type:           string(s.Type),
		CapacityPoints: s.CapacityPoints,
		FreePoints:     s.FreePointsDisplay(),
		IsBlocked:      s.IsBlocked,
	}
}

// FromDomainSlotList конвертирует список domain моделей в DTO
func FromDomainSlotList(slots []*domain.Slot) *SlotListResponse {
	resp := &SlotListResponse{
		Slots: make([]SlotResponse, 0, len(slots)),
	}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, FromDomainSlot(s))
	}
	return resp
}
