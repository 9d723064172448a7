package domain

import "time"

// BusinessAccount корпоративный аккаунт с общей дневной квотой для сотрудников
type BusinessAccount struct {
	ID   int64
	Name string
	// DailyQuotaPoints дневной лимит активных бронирований всех сотрудников аккаунта
	DailyQuotaPoints int
	IsActive         bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Employee сотрудник корпоративного аккаунта
type Employee struct {
	ID        int64
	AccountID int64
	Name      string
	Email     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IndividualSubscriber индивидуальный подписчик с балансом кредитов
type IndividualSubscriber struct {
	ID    int64
	Name  string
	Email string
	// CreditBalance количество кредитов; создание бронирования списывает один,
	// если дата слота не покрыта активной подпиской
	CreditBalance int
	// SubscriptionActiveUntil дата окончания подписки (включительно), nil = нет подписки
	SubscriptionActiveUntil *time.Time
	IsActive                bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasActiveSubscription возвращает true, если подписка покрывает указанную дату
// Дата сравнивается по дню, без времени
func (s *IndividualSubscriber) HasActiveSubscription(date time.Time) bool {
	if s.SubscriptionActiveUntil == nil {
		return false
	}
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	until := s.SubscriptionActiveUntil
	u := time.Date(until.Year(), until.Month(), until.Day(), 0, 0, 0, 0, time.UTC)
	return !d.After(u)
}
