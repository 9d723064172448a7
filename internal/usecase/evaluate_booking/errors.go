package evaluate_booking

import "errors"

var (
	ErrInvalidInput = errors.New("evaluate_booking.usecase: invalid input data")
	ErrInternal     = errors.New("evaluate_booking.usecase: internal error")
)
