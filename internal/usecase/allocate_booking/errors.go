package allocate_booking

import "errors"

var (
	ErrInvalidInput = errors.New("allocate_booking.usecase: invalid input data")

	// ErrSlotNotFound слот не существует
	ErrSlotNotFound = errors.New("allocate_booking.usecase: slot not found")

	// ErrSlotBlocked слот заблокирован администратором
	ErrSlotBlocked = errors.New("allocate_booking.usecase: slot is blocked")

	// ErrPurposeNotAllowed тип слота не соответствует пути бронирования
	ErrPurposeNotAllowed = errors.New("allocate_booking.usecase: slot does not allow this booking purpose")

	// ErrCapacityExceeded суммарная стоимость активных бронирований превысит вместимость слота
	ErrCapacityExceeded = errors.New("allocate_booking.usecase: slot capacity exceeded")

	// ErrRequesterNotFound сотрудник или подписчик не найден
	ErrRequesterNotFound = errors.New("allocate_booking.usecase: requester not found")

	// ErrRequesterInactive аккаунт или подписчик деактивирован
	ErrRequesterInactive = errors.New("allocate_booking.usecase: requester is inactive")

	// ErrAlreadyBookedToday у сотрудника уже есть активное бронирование в этот день
	ErrAlreadyBookedToday = errors.New("allocate_booking.usecase: employee already has a booking on this date")

	// ErrQuotaExceeded дневная квота корпоративного аккаунта исчерпана
	ErrQuotaExceeded = errors.New("allocate_booking.usecase: account daily quota exceeded")

	// ErrInsufficientCredits у подписчика нет кредитов и нет активной подписки
	ErrInsufficientCredits = errors.New("allocate_booking.usecase: insufficient credits and no active subscription")

	// ErrDuplicateBooking у подписчика уже есть активное бронирование на этот слот
	ErrDuplicateBooking = errors.New("allocate_booking.usecase: duplicate booking for this slot")

	ErrInternal = errors.New("allocate_booking.usecase: internal error")
)
