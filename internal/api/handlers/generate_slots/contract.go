package generate_slots

import (
	"context"

	"github.com/m04kA/SMC-AllocationService/internal/service/calendar/models"
)

type CalendarService interface {
	GenerateSlots(ctx context.Context, req *models.GenerateSlotsRequest) (*models.GenerationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
