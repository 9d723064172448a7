package allocate_booking

import (
	"context"

	usecase "github.com/m04kA/SMC-AllocationService/internal/usecase/allocate_booking"
)

type AllocateBookingUseCase interface {
	Execute(ctx context.Context, req usecase.Request) (*usecase.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
