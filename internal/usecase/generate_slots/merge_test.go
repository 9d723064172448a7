package generate_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	"github.com/m04kA/SMC-AllocationService/pkg/types"
)

const (
	regularCapacity   = 6
	exclusiveCapacity = 1
)

func monday() time.Time {
	return time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC) // понедельник
}

func startTimes(slots []domain.NewSlot) []string {
	times := make([]string, 0, len(slots))
	for _, s := range slots {
		times = append(times, s.StartTime.String())
	}
	return times
}

func findSlot(slots []domain.NewSlot, start types.TimeString) *domain.NewSlot {
	for i := range slots {
		if slots[i].StartTime == start {
			return &slots[i]
		}
	}
	return nil
}

func TestBuildDaySlots_WorkingDayWithBreak(t *testing.T) {
	rule := &domain.WeekdayRule{
		Weekday:   time.Monday,
		IsOpen:    true,
		OpenTime:  "08:00",
		CloseTime: "18:00",
		Breaks: []domain.BreakWindow{
			{StartTime: "12:00", EndTime: "13:00"},
		},
	}

	slots, anomalies := buildDaySlots(monday(), time.Monday, rule, nil, regularCapacity, exclusiveCapacity)
	require.Empty(t, anomalies)

	// 10 рабочих часов по 6 слотов минус 6 слотов перерыва
	assert.Len(t, slots, 54)

	times := startTimes(slots)
	assert.NotContains(t, times, "07:50")
	assert.Contains(t, times, "08:00")
	assert.Contains(t, times, "11:50")
	assert.NotContains(t, times, "12:00")
	assert.NotContains(t, times, "12:50")
	assert.Contains(t, times, "13:00")
	assert.Contains(t, times, "17:50")
	assert.NotContains(t, times, "18:00")

	first := findSlot(slots, "08:00")
	require.NotNil(t, first)
	assert.Equal(t, domain.SlotRegular, first.Type)
	assert.Equal(t, regularCapacity, first.CapacityPoints)
	assert.Equal(t, types.TimeString("08:10"), first.EndTime)
}

func TestBuildDaySlots_ClosedDayWithExclusiveWindow(t *testing.T) {
	rule := &domain.WeekdayRule{Weekday: time.Monday, IsOpen: false}
	windows := []*domain.ExclusiveWindow{
		{ID: 1, Weekday: time.Monday, StartTime: "13:00", EndTime: "14:00", IsActive: true},
	}

	slots, anomalies := buildDaySlots(monday(), time.Monday, rule, windows, regularCapacity, exclusiveCapacity)
	require.Empty(t, anomalies)

	require.Len(t, slots, 6)
	assert.Equal(t, []string{"13:00", "13:10", "13:20", "13:30", "13:40", "13:50"}, startTimes(slots))
	for _, s := range slots {
		assert.Equal(t, domain.SlotExclusive, s.Type)
		assert.Equal(t, exclusiveCapacity, s.CapacityPoints)
	}
}

func TestBuildDaySlots_WindowNotGridAligned(t *testing.T) {
	rule := &domain.WeekdayRule{Weekday: time.Monday, IsOpen: false}
	// Окно не выровнено по сетке: слот принадлежит окну по своему началу
	windows := []*domain.ExclusiveWindow{
		{ID: 1, Weekday: time.Monday, StartTime: "13:05", EndTime: "13:25", IsActive: true},
	}

	slots, anomalies := buildDaySlots(monday(), time.Monday, rule, windows, regularCapacity, exclusiveCapacity)
	require.Empty(t, anomalies)

	assert.Equal(t, []string{"13:10", "13:20"}, startTimes(slots))
	for _, s := range slots {
		assert.Equal(t, domain.SlotExclusive, s.Type)
	}
}

func TestBuildDaySlots_AdjacentWindowsCoverWholeRange(t *testing.T) {
	rule := &domain.WeekdayRule{Weekday: time.Monday, IsOpen: false}
	windows := []*domain.ExclusiveWindow{
		{ID: 1, Weekday: time.Monday, StartTime: "13:00", EndTime: "13:15", IsActive: true},
		{ID: 2, Weekday: time.Monday, StartTime: "13:15", EndTime: "14:00", IsActive: true},
	}

	slots, anomalies := buildDaySlots(monday(), time.Monday, rule, windows, regularCapacity, exclusiveCapacity)
	require.Empty(t, anomalies)

	assert.Equal(t, []string{"13:00", "13:10", "13:20", "13:30", "13:40", "13:50"}, startTimes(slots))
}

func TestBuildDaySlots_ExclusiveWindowTakesPriority(t *testing.T) {
	rule := &domain.WeekdayRule{
		Weekday:   time.Monday,
		IsOpen:    true,
		OpenTime:  "08:00",
		CloseTime: "18:00",
	}
	windows := []*domain.ExclusiveWindow{
		{ID: 1, Weekday: time.Monday, StartTime: "10:00", EndTime: "11:00", IsActive: true},
	}

	slots, anomalies := buildDaySlots(monday(), time.Monday, rule, windows, regularCapacity, exclusiveCapacity)
	require.Empty(t, anomalies)

	inside := findSlot(slots, "10:30")
	require.NotNil(t, inside)
	assert.Equal(t, domain.SlotExclusive, inside.Type)
	assert.Equal(t, exclusiveCapacity, inside.CapacityPoints)

	outside := findSlot(slots, "11:00")
	require.NotNil(t, outside)
	assert.Equal(t, domain.SlotRegular, outside.Type)
}

func TestBuildDaySlots_WindowWidensWorkingHours(t *testing.T) {
	rule := &domain.WeekdayRule{
		Weekday:   time.Monday,
		IsOpen:    true,
		OpenTime:  "08:00",
		CloseTime: "18:00",
	}
	// Окно за пределами рабочих часов расширяет границы дня
	windows := []*domain.ExclusiveWindow{
		{ID: 1, Weekday: time.Monday, StartTime: "19:00", EndTime: "20:00", IsActive: true},
	}

	slots, anomalies := buildDaySlots(monday(), time.Monday, rule, windows, regularCapacity, exclusiveCapacity)
	require.Empty(t, anomalies)

	times := startTimes(slots)
	// Между закрытием и началом окна слотов нет
	assert.NotContains(t, times, "18:00")
	assert.NotContains(t, times, "18:50")
	assert.Contains(t, times, "19:00")
	assert.Contains(t, times, "19:50")
	assert.NotContains(t, times, "20:00")

	evening := findSlot(slots, "19:30")
	require.NotNil(t, evening)
	assert.Equal(t, domain.SlotExclusive, evening.Type)
}

func TestBuildDaySlots_InvalidRuleTreatedAsClosed(t *testing.T) {
	rule := &domain.WeekdayRule{
		Weekday:   time.Monday,
		IsOpen:    true,
		OpenTime:  "18:00",
		CloseTime: "08:00", // инвертированные часы
	}

	slots, anomalies := buildDaySlots(monday(), time.Monday, rule, nil, regularCapacity, exclusiveCapacity)
	assert.Empty(t, slots)
	require.Len(t, anomalies, 1)
	assert.Contains(t, anomalies[0], "day treated as closed")
}

func TestBuildDaySlots_InvalidWindowSkipped(t *testing.T) {
	rule := &domain.WeekdayRule{
		Weekday:   time.Monday,
		IsOpen:    true,
		OpenTime:  "08:00",
		CloseTime: "10:00",
	}
	windows := []*domain.ExclusiveWindow{
		{ID: 7, Weekday: time.Monday, StartTime: "14:00", EndTime: "13:00", IsActive: true},
	}

	slots, anomalies := buildDaySlots(monday(), time.Monday, rule, windows, regularCapacity, exclusiveCapacity)

	// Рабочие часы генерируются, некорректное окно пропущено
	assert.Len(t, slots, 12)
	require.Len(t, anomalies, 1)
	assert.Contains(t, anomalies[0], "window 7")
}

func TestBuildDaySlots_InactiveAndOtherWeekdayWindowsIgnored(t *testing.T) {
	rule := &domain.WeekdayRule{Weekday: time.Monday, IsOpen: false}
	windows := []*domain.ExclusiveWindow{
		{ID: 1, Weekday: time.Monday, StartTime: "13:00", EndTime: "14:00", IsActive: false},
		{ID: 2, Weekday: time.Tuesday, StartTime: "13:00", EndTime: "14:00", IsActive: true},
	}

	slots, anomalies := buildDaySlots(monday(), time.Monday, rule, windows, regularCapacity, exclusiveCapacity)
	assert.Empty(t, slots)
	assert.Empty(t, anomalies)
}

func TestBuildDaySlots_NoRuleNoWindows(t *testing.T) {
	slots, anomalies := buildDaySlots(monday(), time.Monday, nil, nil, regularCapacity, exclusiveCapacity)
	assert.Empty(t, slots)
	assert.Empty(t, anomalies)
}
