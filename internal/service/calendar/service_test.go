package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	storageSlot "github.com/m04kA/SMC-AllocationService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AllocationService/internal/service/calendar/models"
	"github.com/m04kA/SMC-AllocationService/internal/usecase/generate_slots"
	"github.com/m04kA/SMC-AllocationService/pkg/ptr"
)

type fakeCalendarRepo struct {
	rules   []*domain.WeekdayRule
	windows []*domain.ExclusiveWindow

	upsertedRule  *domain.WeekdayRule
	upsertErr     error
	createdWindow *domain.ExclusiveWindow
	updatedWindow *domain.ExclusiveWindow

	tx         *fakeTxManager
	upsertInTx bool
}

func (f *fakeCalendarRepo) ListWeekdayRules(ctx context.Context) ([]*domain.WeekdayRule, error) {
	return f.rules, nil
}

func (f *fakeCalendarRepo) GetWeekdayRule(ctx context.Context, weekday time.Weekday) (*domain.WeekdayRule, error) {
	for _, r := range f.rules {
		if r.Weekday == weekday {
			return r, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeCalendarRepo) UpsertWeekdayRule(ctx context.Context, rule *domain.WeekdayRule) (*domain.WeekdayRule, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	f.upsertedRule = rule
	f.upsertInTx = f.tx != nil && f.tx.inTx
	return rule, nil
}

func (f *fakeCalendarRepo) ListExclusiveWindows(ctx context.Context, activeOnly bool) ([]*domain.ExclusiveWindow, error) {
	return f.windows, nil
}

func (f *fakeCalendarRepo) CreateExclusiveWindow(ctx context.Context, window *domain.ExclusiveWindow) (*domain.ExclusiveWindow, error) {
	created := *window
	created.ID = 1
	f.createdWindow = &created
	return &created, nil
}

func (f *fakeCalendarRepo) UpdateExclusiveWindow(ctx context.Context, window *domain.ExclusiveWindow) error {
	f.updatedWindow = window
	return nil
}

type fakeSlotRepo struct {
	slots       []*domain.Slot
	setBlockedI int64
	setBlockedV bool
	notFound    bool
}

func (f *fakeSlotRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Slot, error) {
	return f.slots, nil
}

func (f *fakeSlotRepo) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	if f.notFound {
		return storageSlot.ErrSlotNotFound
	}
	f.setBlockedI = id
	f.setBlockedV = blocked
	return nil
}

type fakeTxManager struct {
	calls int
	inTx  bool
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	f.inTx = true
	defer func() { f.inTx = false }()
	return fn(ctx)
}

type fakeGenerator struct {
	calls []generate_slots.Request
	resp  *generate_slots.Response
	err   error
}

func (f *fakeGenerator) Execute(ctx context.Context, req generate_slots.Request) (*generate_slots.Response, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.resp != nil {
		return f.resp, nil
	}
	return &generate_slots.Response{}, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixture struct {
	calendarRepo *fakeCalendarRepo
	slotRepo     *fakeSlotRepo
	generator    *fakeGenerator
	tx           *fakeTxManager
	svc          *Service
}

func newFixture() *fixture {
	f := &fixture{
		calendarRepo: &fakeCalendarRepo{},
		slotRepo:     &fakeSlotRepo{},
		generator:    &fakeGenerator{},
		tx:           &fakeTxManager{},
	}
	f.calendarRepo.tx = f.tx
	f.svc = NewService(f.calendarRepo, f.slotRepo, f.generator, f.tx, nopLogger{})
	return f
}

func TestUpsertWeekdayRule(t *testing.T) {
	t.Run("saves and regenerates", func(t *testing.T) {
		f := newFixture()

		resp, err := f.svc.UpsertWeekdayRule(context.Background(), 1, &models.UpsertWeekdayRuleRequest{
			IsOpen:    true,
			OpenTime:  "08:00",
			CloseTime: "18:00",
			Breaks:    []models.BreakDTO{{StartTime: "12:00", EndTime: "13:00"}},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, resp.Weekday)
		assert.Equal(t, "08:00", resp.OpenTime)
		require.NotNil(t, f.calendarRepo.upsertedRule)
		require.Len(t, f.generator.calls, 1)
	})

	t.Run("rule and breaks are saved in one transaction", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.UpsertWeekdayRule(context.Background(), 1, &models.UpsertWeekdayRuleRequest{
			IsOpen:    true,
			OpenTime:  "08:00",
			CloseTime: "18:00",
			Breaks:    []models.BreakDTO{{StartTime: "12:00", EndTime: "13:00"}},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, f.tx.calls)
		assert.True(t, f.calendarRepo.upsertInTx)
	})

	t.Run("failed upsert rolls back and skips regeneration", func(t *testing.T) {
		f := newFixture()
		f.calendarRepo.upsertErr = errors.New("pq: connection reset")

		_, err := f.svc.UpsertWeekdayRule(context.Background(), 1, &models.UpsertWeekdayRuleRequest{IsOpen: false})
		require.ErrorIs(t, err, ErrInternal)
		assert.Empty(t, f.generator.calls)
	})

	t.Run("invalid rule does not touch repository", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.UpsertWeekdayRule(context.Background(), 1, &models.UpsertWeekdayRuleRequest{
			IsOpen:    true,
			OpenTime:  "18:00",
			CloseTime: "08:00",
		})
		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Nil(t, f.calendarRepo.upsertedRule)
		assert.Empty(t, f.generator.calls)
	})

	t.Run("invalid weekday", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.UpsertWeekdayRule(context.Background(), 7, &models.UpsertWeekdayRuleRequest{IsOpen: false})
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("regeneration failure is reported", func(t *testing.T) {
		f := newFixture()
		f.generator.err = errors.New("deadlock")

		_, err := f.svc.UpsertWeekdayRule(context.Background(), 1, &models.UpsertWeekdayRuleRequest{IsOpen: false})
		require.ErrorIs(t, err, ErrInternal)
		// Правило уже сохранено, упала только перегенерация
		assert.NotNil(t, f.calendarRepo.upsertedRule)
	})
}

func TestCreateExclusiveWindow(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.CreateExclusiveWindow(context.Background(), &models.CreateExclusiveWindowRequest{
		Weekday:   1,
		StartTime: "13:00",
		EndTime:   "14:00",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	// IsActive по умолчанию true
	assert.True(t, resp.IsActive)
	require.Len(t, f.generator.calls, 1)
}

func TestUpdateExclusiveWindow(t *testing.T) {
	t.Run("applies partial patch", func(t *testing.T) {
		f := newFixture()
		f.calendarRepo.windows = []*domain.ExclusiveWindow{
			{ID: 5, Weekday: time.Monday, StartTime: "13:00", EndTime: "14:00", IsActive: true},
		}

		resp, err := f.svc.UpdateExclusiveWindow(context.Background(), 5, &models.UpdateExclusiveWindowRequest{
			EndTime:  ptr.Ptr("15:00"),
			IsActive: ptr.Ptr(false),
		})
		require.NoError(t, err)

		assert.Equal(t, "13:00", resp.StartTime)
		assert.Equal(t, "15:00", resp.EndTime)
		assert.False(t, resp.IsActive)
		require.NotNil(t, f.calendarRepo.updatedWindow)
		require.Len(t, f.generator.calls, 1)
	})

	t.Run("window not found", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.UpdateExclusiveWindow(context.Background(), 99, &models.UpdateExclusiveWindowRequest{})
		require.ErrorIs(t, err, ErrWindowNotFound)
	})

	t.Run("patch producing invalid window rejected", func(t *testing.T) {
		f := newFixture()
		f.calendarRepo.windows = []*domain.ExclusiveWindow{
			{ID: 5, Weekday: time.Monday, StartTime: "13:00", EndTime: "14:00", IsActive: true},
		}

		_, err := f.svc.UpdateExclusiveWindow(context.Background(), 5, &models.UpdateExclusiveWindowRequest{
			EndTime: ptr.Ptr("12:00"),
		})
		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Empty(t, f.generator.calls)
	})
}

func TestGetCalendar(t *testing.T) {
	f := newFixture()
	f.calendarRepo.rules = []*domain.WeekdayRule{
		{Weekday: time.Monday, IsOpen: true, OpenTime: "08:00", CloseTime: "18:00"},
		{Weekday: time.Sunday, IsOpen: false},
	}
	f.calendarRepo.windows = []*domain.ExclusiveWindow{
		{ID: 1, Weekday: time.Monday, StartTime: "13:00", EndTime: "14:00", IsActive: false},
	}

	resp, err := f.svc.GetCalendar(context.Background())
	require.NoError(t, err)

	require.Len(t, resp.Weekdays, 2)
	assert.Equal(t, "08:00", resp.Weekdays[0].OpenTime)
	assert.Empty(t, resp.Weekdays[1].OpenTime)
	// Неактивные окна тоже возвращаются
	require.Len(t, resp.ExclusiveWindows, 1)
	assert.False(t, resp.ExclusiveWindows[0].IsActive)
}

func TestListSlots(t *testing.T) {
	f := newFixture()
	f.slotRepo.slots = []*domain.Slot{
		{
			ID:             1,
			Date:           time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
			StartTime:      "10:00",
			EndTime:        "10:10",
			CapacityPoints: 6,
			BookedPoints:   4,
			Type:           domain.SlotRegular,
		},
	}

	from := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	resp, err := f.svc.ListSlots(context.Background(), from, from.AddDate(0, 0, 7))
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "2025-10-15", resp.Slots[0].Date)
	assert.Equal(t, 2, resp.Slots[0].FreePoints)

	_, err = f.svc.ListSlots(context.Background(), from, from.AddDate(0, 0, -1))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestBlockSlot(t *testing.T) {
	f := newFixture()

	err := f.svc.BlockSlot(context.Background(), 10, &models.BlockSlotRequest{Blocked: true})
	require.NoError(t, err)
	assert.Equal(t, int64(10), f.slotRepo.setBlockedI)
	assert.True(t, f.slotRepo.setBlockedV)

	f.slotRepo.notFound = true
	err = f.svc.BlockSlot(context.Background(), 99, &models.BlockSlotRequest{Blocked: true})
	require.ErrorIs(t, err, ErrSlotNotFound)
}

func TestGenerateSlots(t *testing.T) {
	t.Run("passes horizon and maps result", func(t *testing.T) {
		f := newFixture()
		f.generator.resp = &generate_slots.Response{
			CreatedCount:  120,
			DeletedCount:  10,
			ProcessedDays: 20,
			SkippedDays:   5,
			Anomalies:     []generate_slots.Anomaly{{Date: "2025-10-13", Reason: "weekday rule is invalid"}},
		}

		resp, err := f.svc.GenerateSlots(context.Background(), &models.GenerateSlotsRequest{HorizonDays: 20})
		require.NoError(t, err)

		require.Len(t, f.generator.calls, 1)
		assert.Equal(t, 20, f.generator.calls[0].HorizonDays)
		assert.Equal(t, int64(120), resp.CreatedCount)
		require.Len(t, resp.Anomalies, 1)
		assert.Equal(t, "2025-10-13", resp.Anomalies[0].Date)
	})

	t.Run("invalid horizon", func(t *testing.T) {
		f := newFixture()
		f.generator.err = generate_slots.ErrInvalidInput

		_, err := f.svc.GenerateSlots(context.Background(), &models.GenerateSlotsRequest{HorizonDays: -1})
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}
