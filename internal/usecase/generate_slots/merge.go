package generate_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	"github.com/m04kA/SMC-AllocationService/pkg/types"
)

// buildDaySlots строит сетку слотов на один день: правило рабочего дня
// задаёт REGULAR-интервалы, эксклюзивные окна имеют приоритет и могут
// выходить за пределы рабочих часов.
func buildDaySlots(
	date time.Time,
	weekday time.Weekday,
	rule *domain.WeekdayRule,
	windows []*domain.ExclusiveWindow,
	regularCapacity int,
	exclusiveCapacity int,
) ([]domain.NewSlot, []string) {
	var anomalies []string

	if rule != nil {
		if err := rule.Validate(); err != nil {
			anomalies = append(anomalies, fmt.Sprintf("weekday rule is invalid, day treated as closed: %v", err))
			rule = nil
		}
	}

	var dayWindows []*domain.ExclusiveWindow
	for _, w := range windows {
		if w.Weekday != weekday || !w.IsActive {
			continue
		}
		if err := w.Validate(); err != nil {
			anomalies = append(anomalies, fmt.Sprintf("exclusive window %d is invalid and was skipped: %v", w.ID, err))
			continue
		}
		dayWindows = append(dayWindows, w)
	}

	open := rule != nil && rule.IsOpen
	if !open && len(dayWindows) == 0 {
		return nil, anomalies
	}

	// Границы сетки: рабочие часы, расширенные эксклюзивными окнами
	gridStart := 24 * 60
	gridEnd := 0
	if open {
		gridStart = minutesOf(rule.OpenTime)
		gridEnd = minutesOf(rule.CloseTime)
	}
	for _, w := range dayWindows {
		if s := minutesOf(w.StartTime); s < gridStart {
			gridStart = s
		}
		if e := minutesOf(w.EndTime); e > gridEnd {
			gridEnd = e
		}
	}

	// Начало сетки выравнивается вниз, конец вверх: слот принадлежит окну
	// по своему началу, поэтому последний неполный интервал окна не теряется
	gridStart -= gridStart % domain.SlotGranularityMinutes
	if rem := gridEnd % domain.SlotGranularityMinutes; rem != 0 {
		gridEnd += domain.SlotGranularityMinutes - rem
	}

	var slots []domain.NewSlot
	for t := gridStart; t+domain.SlotGranularityMinutes <= gridEnd; t += domain.SlotGranularityMinutes {
		slotEnd := t + domain.SlotGranularityMinutes

		exclusive := false
		for _, w := range dayWindows {
			if t >= minutesOf(w.StartTime) && t < minutesOf(w.EndTime) {
				exclusive = true
				break
			}
		}

		var slotType domain.SlotType
		var capacity int
		switch {
		case exclusive:
			slotType = domain.SlotExclusive
			capacity = exclusiveCapacity
		case open && withinWorkingHours(rule, t, slotEnd):
			slotType = domain.SlotRegular
			capacity = regularCapacity
		default:
			continue
		}

		slots = append(slots, domain.NewSlot{
			Date:           date,
			StartTime:      fromMinutes(t),
			EndTime:        fromMinutes(slotEnd),
			CapacityPoints: capacity,
			Type:           slotType,
		})
	}

	return slots, anomalies
}

func withinWorkingHours(rule *domain.WeekdayRule, startMin, endMin int) bool {
	if startMin < minutesOf(rule.OpenTime) || endMin > minutesOf(rule.CloseTime) {
		return false
	}
	for _, b := range rule.Breaks {
		// Слот, пересекающийся с перерывом, не создаётся
		if startMin < minutesOf(b.EndTime) && endMin > minutesOf(b.StartTime) {
			return false
		}
	}
	return true
}

// minutesOf и fromMinutes применяются только к уже провалидированным значениям
func minutesOf(t types.TimeString) int {
	m, _ := t.Minutes()
	return m
}

func fromMinutes(minutes int) types.TimeString {
	t, _ := types.FromMinutes(minutes)
	return t
}
