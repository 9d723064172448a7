package generate_slots

import "errors"

var (
	ErrInvalidInput = errors.New("generate_slots.usecase: invalid input data")
	ErrInternal     = errors.New("generate_slots.usecase: internal error")
)
