package notifier

// BookingConfirmedEvent событие "бронирование подтверждено" для сервиса уведомлений
type BookingConfirmedEvent struct {
	EventID        string `json:"event_id"`
	RecipientEmail string `json:"recipient_email"`
	Date           string `json:"date"`       // "2025-10-15"
	StartTime      string `json:"start_time"` // "10:00"
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
