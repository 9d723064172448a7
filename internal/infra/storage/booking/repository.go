package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	"github.com/m04kA/SMC-AllocationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AllocationService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с бронированиями
// Строки бронирований append-only: никакой метод не делает физическое удаление
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Вызывается внутри транзакции аллокации: проверка вместимости и вставка
// должны выполняться в одной атомарной единице
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"slot_id",
			"slot_date",
			"start_time",
			"end_time",
			"requester_kind",
			"employee_id",
			"account_id",
			"subscriber_id",
			"purpose",
			"status",
			"point_cost",
			"credit_debited",
		).
		Values(
			b.SlotID,
			b.SlotDate,
			b.StartTime,
			b.EndTime,
			string(b.Kind),
			b.EmployeeID,
			b.AccountID,
			b.SubscriberID,
			string(b.Purpose),
			string(b.Status),
			b.PointCost,
			b.CreditDebited,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return b, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBookings().
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// SumActivePointsBySlot возвращает сумму point_cost неотменённых бронирований слота
// Авторитетная величина занятости: проверки вместимости используют только её,
// денормализованный счётчик слота в расчётах не участвует
func (r *Repository) SumActivePointsBySlot(ctx context.Context, slotID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(SUM(point_cost), 0)").
		From("bookings").
		Where(squirrel.Eq{"slot_id": slotID}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: SumActivePointsBySlot - build select query: %v", ErrBuildQuery, err)
	}

	var sum int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&sum); err != nil {
		return 0, fmt.Errorf("%w: SumActivePointsBySlot - scan sum: %v", ErrScanRow, err)
	}

	return sum, nil
}

// CountActiveByAccountAndDate возвращает количество неотменённых бронирований
// сотрудников аккаунта на указанную дату. Используется для дневной квоты
func (r *Repository) CountActiveByAccountAndDate(ctx context.Context, accountID int64, date time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"account_id": accountID}).
		Where(squirrel.Eq{"slot_date": date}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveByAccountAndDate - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveByAccountAndDate - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// ExistsActiveByEmployeeAndDate возвращает true, если у сотрудника уже есть
// неотменённое бронирование на указанную дату (любой слот)
func (r *Repository) ExistsActiveByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"employee_id": employeeID}).
		Where(squirrel.Eq{"slot_date": date}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ExistsActiveByEmployeeAndDate - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: ExistsActiveByEmployeeAndDate - scan count: %v", ErrScanRow, err)
	}

	return count > 0, nil
}

// ExistsActiveBySubscriberAndSlot возвращает true, если у подписчика уже есть
// неотменённое бронирование на этот конкретный слот
func (r *Repository) ExistsActiveBySubscriberAndSlot(ctx context.Context, subscriberID, slotID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"subscriber_id": subscriberID}).
		Where(squirrel.Eq{"slot_id": slotID}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ExistsActiveBySubscriberAndSlot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: ExistsActiveBySubscriberAndSlot - scan count: %v", ErrScanRow, err)
	}

	return count > 0, nil
}

// List возвращает бронирования по фильтру
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := selectBookings()

	if filter.EmployeeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"employee_id": *filter.EmployeeID})
	}
	if filter.AccountID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"account_id": *filter.AccountID})
	}
	if filter.SubscriberID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"subscriber_id": *filter.SubscriberID})
	}
	if filter.SlotDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"slot_date": *filter.SlotDate})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	} else if filter.ActiveOnly {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": string(domain.StatusCancelled)})
	}

	query, args, err := selectBuilder.
		OrderBy("slot_date DESC, start_time DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan booking: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

// Cancel переводит бронирование в статус cancelled с указанием причины
// Строка сохраняется, вместимость освобождается за счёт смены статуса
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", string(domain.StatusCancelled)).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// MoveToSlot переносит бронирование на другой слот
// PointCost не меняется: snapshot стоимости сохраняется при переносе
func (r *Repository) MoveToSlot(ctx context.Context, id int64, target *domain.Slot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("slot_id", target.ID).
		Set("slot_date", target.Date).
		Set("start_time", target.StartTime).
		Set("end_time", target.EndTime).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MoveToSlot - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MoveToSlot - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MoveToSlot - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func selectBookings() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"slot_id",
		"slot_date",
		"start_time",
		"end_time",
		"requester_kind",
		"employee_id",
		"account_id",
		"subscriber_id",
		"purpose",
		"status",
		"point_cost",
		"credit_debited",
		"cancellation_reason",
		"cancelled_at",
		"created_at",
		"updated_at",
	).From("bookings")
}

// rowScanner общий интерфейс для *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var kind, purpose, status string
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.SlotID,
		&b.SlotDate,
		&b.StartTime,
		&b.EndTime,
		&kind,
		&b.EmployeeID,
		&b.AccountID,
		&b.SubscriberID,
		&purpose,
		&status,
		&b.PointCost,
		&b.CreditDebited,
		&b.CancellationReason,
		&b.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Kind = domain.RequesterKind(kind)
	b.Purpose = domain.BookingPurpose(purpose)
	b.Status = domain.BookingStatus(status)
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}
