package list_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AllocationService/internal/service/calendar/models"
)

type CalendarService interface {
	ListSlots(ctx context.Context, from, to time.Time) (*models.SlotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
