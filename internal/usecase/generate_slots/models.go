package generate_slots

// Request запрос на генерацию слотов
// HorizonDays = 0 — использовать горизонт из конфигурации
type Request struct {
	HorizonDays int `json:"horizon_days,omitempty"`
}

// Anomaly described a calendar rule or window that could not be applied for a day.
type Anomaly struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// Response результат генерации слотов
type Response struct {
	CreatedCount  int64     `json:"created_count"`
	DeletedCount  int64     `json:"deleted_count"`
	ProcessedDays int       `json:"processed_days"`
	SkippedDays   int       `json:"skipped_days"`
	Anomalies     []Anomaly `json:"anomalies,omitempty"`
}
