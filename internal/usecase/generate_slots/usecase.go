package generate_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
)

// UseCase генерация сетки слотов по недельным правилам и эксклюзивным окнам.
// Сетка перестраивается с первого дня текущего месяца на весь горизонт,
// слоты с бронированиями не трогаются
type UseCase struct {
	calendarRepo CalendarRepository
	slotRepo     SlotRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger

	loc               *time.Location
	horizonDays       int
	regularCapacity   int
	exclusiveCapacity int
}

func NewUseCase(
	calendarRepo CalendarRepository,
	slotRepo SlotRepository,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
	loc *time.Location,
	horizonDays int,
	regularCapacity int,
	exclusiveCapacity int,
) *UseCase {
	return &UseCase{
		calendarRepo:      calendarRepo,
		slotRepo:          slotRepo,
		txManager:         txManager,
		timeProvider:      timeProvider,
		logger:            logger,
		loc:               loc,
		horizonDays:       horizonDays,
		regularCapacity:   regularCapacity,
		exclusiveCapacity: exclusiveCapacity,
	}
}

// Execute перестраивает сетку слотов начиная с первого дня текущего месяца.
// Прошедшие дни пропускаются, каждый день обрабатывается в отдельной транзакции
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	horizon := req.HorizonDays
	if horizon == 0 {
		horizon = uc.horizonDays
	}
	if horizon < 0 {
		return nil, fmt.Errorf("%w: Execute - horizon days must be non-negative, got %d", ErrInvalidInput, req.HorizonDays)
	}

	rules, err := uc.calendarRepo.ListWeekdayRules(ctx)
	if err != nil {
		uc.logger.Error("generate_slots: failed to load weekday rules: %v", err)
		return nil, fmt.Errorf("%w: Execute - load weekday rules: %v", ErrInternal, err)
	}

	windows, err := uc.calendarRepo.ListExclusiveWindows(ctx, true)
	if err != nil {
		uc.logger.Error("generate_slots: failed to load exclusive windows: %v", err)
		return nil, fmt.Errorf("%w: Execute - load exclusive windows: %v", ErrInternal, err)
	}

	rulesByWeekday := make(map[time.Weekday]*domain.WeekdayRule, len(rules))
	for _, r := range rules {
		rulesByWeekday[r.Weekday] = r
	}

	today := domain.NewFacilityDay(uc.timeProvider.Now(), uc.loc)
	start := today.FirstOfMonth()
	end := today.AddDays(horizon)

	resp := &Response{}
	seenAnomalies := make(map[string]bool)

	for day := start; day.Before(end); day = day.AddDays(1) {
		// Прошедшие дни не перегенерируются
		if day.Before(today) {
			resp.SkippedDays++
			continue
		}

		slots, anomalies := buildDaySlots(
			day.Date(),
			day.Weekday(),
			rulesByWeekday[day.Weekday()],
			windows,
			uc.regularCapacity,
			uc.exclusiveCapacity,
		)
		for _, a := range anomalies {
			// Одна и та же проблема правила повторяется каждую неделю горизонта
			if seenAnomalies[a] {
				continue
			}
			seenAnomalies[a] = true
			resp.Anomalies = append(resp.Anomalies, Anomaly{Date: day.String(), Reason: a})
			uc.logger.Warn("generate_slots: %s: %s", day.String(), a)
		}

		date := day.Date()
		err := uc.txManager.Do(ctx, func(ctx context.Context) error {
			deleted, err := uc.slotRepo.DeleteUnbooked(ctx, date)
			if err != nil {
				return fmt.Errorf("delete unbooked slots: %w", err)
			}
			resp.DeletedCount += deleted

			if len(slots) == 0 {
				return nil
			}

			created, err := uc.slotRepo.BatchInsert(ctx, slots)
			if err != nil {
				return fmt.Errorf("insert slots: %w", err)
			}
			resp.CreatedCount += created
			return nil
		})
		if err != nil {
			uc.logger.Error("generate_slots: day %s failed: %v", day.String(), err)
			return nil, fmt.Errorf("%w: Execute - regenerate day %s: %v", ErrInternal, day.String(), err)
		}

		resp.ProcessedDays++
	}

	uc.logger.Info("generate_slots: processed %d days, created %d slots, deleted %d stale slots",
		resp.ProcessedDays, resp.CreatedCount, resp.DeletedCount)

	return resp, nil
}
