package move_booking

import "errors"

var (
	ErrInvalidInput = errors.New("move_booking.usecase: invalid input data")

	// ErrBookingNotFound бронирование не найдено
	ErrBookingNotFound = errors.New("move_booking.usecase: booking not found")

	// ErrNotMovable переносятся только подтверждённые бронирования
	ErrNotMovable = errors.New("move_booking.usecase: booking cannot be moved")

	// ErrSlotNotFound целевой слот не существует
	ErrSlotNotFound = errors.New("move_booking.usecase: target slot not found")

	// ErrSlotBlocked целевой слот заблокирован
	ErrSlotBlocked = errors.New("move_booking.usecase: target slot is blocked")

	// ErrSlotTypeMismatch целевой слот другого типа
	ErrSlotTypeMismatch = errors.New("move_booking.usecase: target slot type does not match")

	// ErrCapacityExceeded в целевом слоте недостаточно свободной вместимости
	ErrCapacityExceeded = errors.New("move_booking.usecase: target slot capacity exceeded")

	ErrInternal = errors.New("move_booking.usecase: internal error")
)
