package create_exclusive_window

import (
	"context"

	"github.com/m04kA/SMC-AllocationService/internal/service/calendar/models"
)

type CalendarService interface {
	CreateExclusiveWindow(ctx context.Context, req *models.CreateExclusiveWindowRequest) (*models.ExclusiveWindowResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
