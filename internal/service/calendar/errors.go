package calendar

import "errors"

var (
	// ErrRuleNotFound возвращается, когда правило дня недели не найдено
	ErrRuleNotFound = errors.New("weekday rule not found")

	// ErrWindowNotFound возвращается, когда эксклюзивное окно не найдено
	ErrWindowNotFound = errors.New("exclusive window not found")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
