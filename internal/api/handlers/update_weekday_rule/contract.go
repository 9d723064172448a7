package update_weekday_rule

import (
	"context"

	"github.com/m04kA/SMC-AllocationService/internal/service/calendar/models"
)

type CalendarService interface {
	UpsertWeekdayRule(ctx context.Context, weekday int, req *models.UpsertWeekdayRuleRequest) (*models.WeekdayRuleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
