package calendar

import "errors"

var (
	// ErrRuleNotFound возвращается, когда правило дня недели не найдено
	ErrRuleNotFound = errors.New("calendar.repository: weekday rule not found")

	// ErrWindowNotFound возвращается, когда эксклюзивное окно не найдено
	ErrWindowNotFound = errors.New("calendar.repository: exclusive window not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("calendar.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("calendar.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("calendar.repository: failed to scan row")
)
