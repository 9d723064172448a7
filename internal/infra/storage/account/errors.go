package account

import "errors"

var (
	// ErrAccountNotFound возвращается, когда корпоративный аккаунт не найден
	ErrAccountNotFound = errors.New("account.repository: business account not found")

	// ErrEmployeeNotFound возвращается, когда сотрудник не найден
	ErrEmployeeNotFound = errors.New("account.repository: employee not found")

	// ErrSubscriberNotFound возвращается, когда подписчик не найден
	ErrSubscriberNotFound = errors.New("account.repository: subscriber not found")

	// ErrInsufficientCredits возвращается, когда баланс кредитов недостаточен для списания
	ErrInsufficientCredits = errors.New("account.repository: insufficient credit balance")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("account.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("account.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("account.repository: failed to scan row")
)
