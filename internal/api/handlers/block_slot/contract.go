package block_slot

import (
	"context"

	"github.com/m04kA/SMC-AllocationService/internal/service/calendar/models"
)

type CalendarService interface {
	BlockSlot(ctx context.Context, slotID int64, req *models.BlockSlotRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
