package domain

import "time"

// FacilityDay календарный день в часовом поясе объекта
// Вычисляется один раз на запрос и используется для квот и проверок "один раз в день",
// чтобы не размазывать конвертации таймзон по коду
type FacilityDay struct {
	date time.Time // полночь дня в таймзоне объекта
}

// NewFacilityDay создает FacilityDay из произвольного момента времени
func NewFacilityDay(t time.Time, loc *time.Location) FacilityDay {
	local := t.In(loc)
	return FacilityDay{
		date: time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc),
	}
}

// Date возвращает полночь дня в таймзоне объекта
func (d FacilityDay) Date() time.Time {
	return d.date
}

// Weekday возвращает день недели
func (d FacilityDay) Weekday() time.Weekday {
	return d.date.Weekday()
}

// String возвращает дату в формате YYYY-MM-DD
func (d FacilityDay) String() string {
	return d.date.Format(DateFormat)
}

// AddDays возвращает день, сдвинутый на n дней
func (d FacilityDay) AddDays(n int) FacilityDay {
	return FacilityDay{date: d.date.AddDate(0, 0, n)}
}

// FirstOfMonth возвращает первый день месяца этого дня
func (d FacilityDay) FirstOfMonth() FacilityDay {
	return FacilityDay{
		date: time.Date(d.date.Year(), d.date.Month(), 1, 0, 0, 0, 0, d.date.Location()),
	}
}

// Before возвращает true, если d раньше other
func (d FacilityDay) Before(other FacilityDay) bool {
	return d.date.Before(other.date)
}

// Equal возвращает true, если дни совпадают
func (d FacilityDay) Equal(other FacilityDay) bool {
	return d.date.Equal(other.date)
}
