package update_exclusive_window

import (
	"context"

	"github.com/m04kA/SMC-AllocationService/internal/service/calendar/models"
)

type CalendarService interface {
	UpdateExclusiveWindow(ctx context.Context, id int64, req *models.UpdateExclusiveWindowRequest) (*models.ExclusiveWindowResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
