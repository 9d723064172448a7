package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	calendarRepo "github.com/m04kA/SMC-AllocationService/internal/infra/storage/calendar"
	slotRepo "github.com/m04kA/SMC-AllocationService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AllocationService/internal/service/calendar/models"
	"github.com/m04kA/SMC-AllocationService/internal/usecase/generate_slots"
)

// Service сервис конфигурации календаря и сетки слотов
// Любое изменение правил или окон запускает полную перегенерацию горизонта
type Service struct {
	calendarRepo CalendarRepository
	slotRepo     SlotRepository
	generator    SlotGenerator
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса календаря
func NewService(
	calendarRepo CalendarRepository,
	slotRepo SlotRepository,
	generator SlotGenerator,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		calendarRepo: calendarRepo,
		slotRepo:     slotRepo,
		generator:    generator,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetCalendar возвращает полную конфигурацию: правила дней недели и
// эксклюзивные окна, включая неактивные
func (s *Service) GetCalendar(ctx context.Context) (*models.CalendarResponse, error) {
	rules, err := s.calendarRepo.ListWeekdayRules(ctx)
	if err != nil {
		s.logger.Error("GetCalendar: failed to list weekday rules: %v", err)
		return nil, fmt.Errorf("%w: GetCalendar - repository error: %v", ErrInternal, err)
	}

	windows, err := s.calendarRepo.ListExclusiveWindows(ctx, false)
	if err != nil {
		s.logger.Error("GetCalendar: failed to list exclusive windows: %v", err)
		return nil, fmt.Errorf("%w: GetCalendar - repository error: %v", ErrInternal, err)
	}

	resp := &models.CalendarResponse{
		Weekdays:         make([]models.WeekdayRuleResponse, 0, len(rules)),
		ExclusiveWindows: make([]models.ExclusiveWindowResponse, 0, len(windows)),
	}
	for _, r := range rules {
		resp.Weekdays = append(resp.Weekdays, models.FromDomainWeekdayRule(r))
	}
	for _, w := range windows {
		resp.ExclusiveWindows = append(resp.ExclusiveWindows, models.FromDomainExclusiveWindow(w))
	}

	return resp, nil
}

// UpsertWeekdayRule сохраняет правило дня недели и перегенерирует сетку
func (s *Service) UpsertWeekdayRule(ctx context.Context, weekday int, req *models.UpsertWeekdayRuleRequest) (*models.WeekdayRuleResponse, error) {
	s.logger.Info("UpsertWeekdayRule: weekday=%d, isOpen=%v", weekday, req.IsOpen)

	rule, err := req.ToDomain(weekday)
	if err != nil {
		s.logger.Warn("UpsertWeekdayRule: invalid request for weekday=%d: %v", weekday, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := rule.Validate(); err != nil {
		s.logger.Warn("UpsertWeekdayRule: invalid rule for weekday=%d: %v", weekday, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Правило и его перерывы пишутся тремя запросами, поэтому в одной транзакции
	var saved *domain.WeekdayRule
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		var txErr error
		saved, txErr = s.calendarRepo.UpsertWeekdayRule(ctx, rule)
		return txErr
	})
	if err != nil {
		s.logger.Error("UpsertWeekdayRule: repository error for weekday=%d: %v", weekday, err)
		return nil, fmt.Errorf("%w: UpsertWeekdayRule - repository error: %v", ErrInternal, err)
	}

	if err := s.regenerate(ctx); err != nil {
		return nil, err
	}

	resp := models.FromDomainWeekdayRule(saved)
	return &resp, nil
}

// CreateExclusiveWindow создает эксклюзивное окно и перегенерирует сетку
func (s *Service) CreateExclusiveWindow(ctx context.Context, req *models.CreateExclusiveWindowRequest) (*models.ExclusiveWindowResponse, error) {
	s.logger.Info("CreateExclusiveWindow: weekday=%d, %s-%s", req.Weekday, req.StartTime, req.EndTime)

	window, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("CreateExclusiveWindow: invalid request: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := window.Validate(); err != nil {
		s.logger.Warn("CreateExclusiveWindow: invalid window: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.calendarRepo.CreateExclusiveWindow(ctx, window)
	if err != nil {
		s.logger.Error("CreateExclusiveWindow: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateExclusiveWindow - repository error: %v", ErrInternal, err)
	}

	if err := s.regenerate(ctx); err != nil {
		return nil, err
	}

	resp := models.FromDomainExclusiveWindow(created)
	return &resp, nil
}

// UpdateExclusiveWindow изменяет эксклюзивное окно и перегенерирует сетку
// Незаполненные поля запроса не меняются
func (s *Service) UpdateExclusiveWindow(ctx context.Context, id int64, req *models.UpdateExclusiveWindowRequest) (*models.ExclusiveWindowResponse, error) {
	s.logger.Info("UpdateExclusiveWindow: id=%d", id)

	windows, err := s.calendarRepo.ListExclusiveWindows(ctx, false)
	if err != nil {
		s.logger.Error("UpdateExclusiveWindow: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateExclusiveWindow - repository error: %v", ErrInternal, err)
	}

	window := findWindow(windows, id)
	if window == nil {
		s.logger.Warn("UpdateExclusiveWindow: window id=%d not found", id)
		return nil, ErrWindowNotFound
	}

	if req.StartTime != nil {
		start, err := models.ParseTime(*req.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		window.StartTime = start
	}
	if req.EndTime != nil {
		end, err := models.ParseTime(*req.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		window.EndTime = end
	}
	if req.IsActive != nil {
		window.IsActive = *req.IsActive
	}

	if err := window.Validate(); err != nil {
		s.logger.Warn("UpdateExclusiveWindow: invalid window id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.calendarRepo.UpdateExclusiveWindow(ctx, window); err != nil {
		if errors.Is(err, calendarRepo.ErrWindowNotFound) {
			return nil, ErrWindowNotFound
		}
		s.logger.Error("UpdateExclusiveWindow: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateExclusiveWindow - repository error: %v", ErrInternal, err)
	}

	if err := s.regenerate(ctx); err != nil {
		return nil, err
	}

	resp := models.FromDomainExclusiveWindow(window)
	return &resp, nil
}

// ListSlots возвращает слоты за период
func (s *Service) ListSlots(ctx context.Context, from, to time.Time) (*models.SlotListResponse, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: 'to' must not be before 'from'", ErrInvalidInput)
	}

	slots, err := s.slotRepo.ListByDateRange(ctx, from, to)
	if err != nil {
		s.logger.Error("ListSlots: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListSlots - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSlotList(slots), nil
}

// BlockSlot блокирует или разблокирует слот для новых бронирований
// Существующие бронирования не затрагиваются
func (s *Service) BlockSlot(ctx context.Context, slotID int64, req *models.BlockSlotRequest) error {
	s.logger.Info("BlockSlot: slot=%d, blocked=%v", slotID, req.Blocked)

	if err := s.slotRepo.SetBlocked(ctx, slotID, req.Blocked); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("BlockSlot: slot id=%d not found", slotID)
			return ErrSlotNotFound
		}
		s.logger.Error("BlockSlot: repository error for slot id=%d: %v", slotID, err)
		return fmt.Errorf("%w: BlockSlot - repository error: %v", ErrInternal, err)
	}

	return nil
}

// GenerateSlots запускает перегенерацию сетки слотов вручную
func (s *Service) GenerateSlots(ctx context.Context, req *models.GenerateSlotsRequest) (*models.GenerationResponse, error) {
	result, err := s.generator.Execute(ctx, generate_slots.Request{HorizonDays: req.HorizonDays})
	if err != nil {
		if errors.Is(err, generate_slots.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		s.logger.Error("GenerateSlots: generation failed: %v", err)
		return nil, fmt.Errorf("%w: GenerateSlots - generation failed: %v", ErrInternal, err)
	}

	return toGenerationResponse(result), nil
}

// regenerate перегенерирует сетку после изменения календаря
func (s *Service) regenerate(ctx context.Context) error {
	result, err := s.generator.Execute(ctx, generate_slots.Request{})
	if err != nil {
		s.logger.Error("regenerate: slot regeneration failed: %v", err)
		return fmt.Errorf("%w: calendar saved, slot regeneration failed: %v", ErrInternal, err)
	}

	s.logger.Info("regenerate: created %d slots, deleted %d stale slots", result.CreatedCount, result.DeletedCount)
	return nil
}

func toGenerationResponse(r *generate_slots.Response) *models.GenerationResponse {
	resp := &models.GenerationResponse{
		CreatedCount:  r.CreatedCount,
		DeletedCount:  r.DeletedCount,
		ProcessedDays: r.ProcessedDays,
		SkippedDays:   r.SkippedDays,
	}
	for _, a := range r.Anomalies {
		resp.Anomalies = append(resp.Anomalies, models.AnomalyDTO{Date: a.Date, Reason: a.Reason})
	}
	return resp
}

func findWindow(windows []*domain.ExclusiveWindow, id int64) *domain.ExclusiveWindow {
	for _, w := range windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}
