package generate_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
)

type fakeCalendarRepo struct {
	rules   []*domain.WeekdayRule
	windows []*domain.ExclusiveWindow
	err     error
}

func (f *fakeCalendarRepo) ListWeekdayRules(ctx context.Context) ([]*domain.WeekdayRule, error) {
	return f.rules, f.err
}

func (f *fakeCalendarRepo) ListExclusiveWindows(ctx context.Context, activeOnly bool) ([]*domain.ExclusiveWindow, error) {
	return f.windows, f.err
}

type fakeSlotRepo struct {
	deletedDates  []time.Time
	insertedDates []time.Time
	insertedSlots int64
	deletePerDay  int64
	insertErr     error
}

func (f *fakeSlotRepo) DeleteUnbooked(ctx context.Context, date time.Time) (int64, error) {
	f.deletedDates = append(f.deletedDates, date)
	return f.deletePerDay, nil
}

func (f *fakeSlotRepo) BatchInsert(ctx context.Context, slots []domain.NewSlot) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.insertedDates = append(f.insertedDates, slots[0].Date)
	f.insertedSlots += int64(len(slots))
	return int64(len(slots)), nil
}

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func allOpenRules() []*domain.WeekdayRule {
	rules := make([]*domain.WeekdayRule, 0, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		rules = append(rules, &domain.WeekdayRule{
			Weekday:   wd,
			IsOpen:    true,
			OpenTime:  "09:00",
			CloseTime: "10:00",
		})
	}
	return rules
}

func newTestUseCase(calendarRepo *fakeCalendarRepo, slotRepo *fakeSlotRepo, tx *fakeTxManager, now time.Time, horizon int) *UseCase {
	return NewUseCase(
		calendarRepo,
		slotRepo,
		tx,
		&fakeTimeProvider{now: now},
		nopLogger{},
		time.UTC,
		horizon,
		regularCapacity,
		exclusiveCapacity,
	)
}

func TestExecute_SkipsPastDaysOfCurrentMonth(t *testing.T) {
	// 15 октября: дни 1-14 пропускаются, 15-17 перегенерируются
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	slotRepo := &fakeSlotRepo{deletePerDay: 2}
	tx := &fakeTxManager{}
	uc := newTestUseCase(&fakeCalendarRepo{rules: allOpenRules()}, slotRepo, tx, now, 3)

	resp, err := uc.Execute(context.Background(), Request{})
	require.NoError(t, err)

	assert.Equal(t, 14, resp.SkippedDays)
	assert.Equal(t, 3, resp.ProcessedDays)
	assert.Equal(t, 3, tx.calls)
	assert.Equal(t, int64(6), resp.DeletedCount)
	// 6 слотов в час на каждый из трёх дней
	assert.Equal(t, int64(18), resp.CreatedCount)

	require.Len(t, slotRepo.deletedDates, 3)
	assert.Equal(t, time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), slotRepo.deletedDates[0])
	assert.Equal(t, time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC), slotRepo.deletedDates[2])
}

func TestExecute_ClosedDaysStillPurgedButNotInserted(t *testing.T) {
	now := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	slotRepo := &fakeSlotRepo{}
	uc := newTestUseCase(&fakeCalendarRepo{}, slotRepo, &fakeTxManager{}, now, 2)

	resp, err := uc.Execute(context.Background(), Request{})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.ProcessedDays)
	assert.Len(t, slotRepo.deletedDates, 2)
	assert.Empty(t, slotRepo.insertedDates)
	assert.Zero(t, resp.CreatedCount)
}

func TestExecute_RequestHorizonOverridesConfig(t *testing.T) {
	now := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	slotRepo := &fakeSlotRepo{}
	uc := newTestUseCase(&fakeCalendarRepo{}, slotRepo, &fakeTxManager{}, now, 60)

	resp, err := uc.Execute(context.Background(), Request{HorizonDays: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ProcessedDays)
}

func TestExecute_NegativeHorizonRejected(t *testing.T) {
	now := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	uc := newTestUseCase(&fakeCalendarRepo{}, &fakeSlotRepo{}, &fakeTxManager{}, now, 60)

	_, err := uc.Execute(context.Background(), Request{HorizonDays: -5})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_AnomaliesDeduplicatedAcrossWeeks(t *testing.T) {
	// Сломанное правило понедельника встречается в горизонте несколько раз,
	// но аномалия фиксируется один раз с датой первого вхождения
	now := time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC) // понедельник
	rules := []*domain.WeekdayRule{
		{Weekday: time.Monday, IsOpen: true, OpenTime: "18:00", CloseTime: "08:00"},
	}
	uc := newTestUseCase(&fakeCalendarRepo{rules: rules}, &fakeSlotRepo{}, &fakeTxManager{}, now, 21)

	resp, err := uc.Execute(context.Background(), Request{})
	require.NoError(t, err)

	require.Len(t, resp.Anomalies, 1)
	assert.Equal(t, "2025-10-13", resp.Anomalies[0].Date)
	assert.Contains(t, resp.Anomalies[0].Reason, "day treated as closed")
}

func TestExecute_DayFailureAbortsRun(t *testing.T) {
	now := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	slotRepo := &fakeSlotRepo{insertErr: errors.New("pq: deadlock detected")}
	uc := newTestUseCase(&fakeCalendarRepo{rules: allOpenRules()}, slotRepo, &fakeTxManager{}, now, 5)

	_, err := uc.Execute(context.Background(), Request{})
	require.ErrorIs(t, err, ErrInternal)
}

func TestExecute_CalendarLoadFailure(t *testing.T) {
	now := time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	repo := &fakeCalendarRepo{err: errors.New("connection refused")}
	uc := newTestUseCase(repo, &fakeSlotRepo{}, &fakeTxManager{}, now, 5)

	_, err := uc.Execute(context.Background(), Request{})
	require.ErrorIs(t, err, ErrInternal)
}
