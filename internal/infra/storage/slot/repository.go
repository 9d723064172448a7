package slot

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

// Repository репозиторий для работы со слотами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// BatchInsert вставляет слоты одного дня одним запросом
// Дубликаты по (slot_date, start_time) молча пропускаются, возвращается
// количество реально вставленных строк
func (r *Repository) BatchInsert(ctx context.Context, slots []domain.NewSlot) (int64, error) {
	if len(slots) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert("slots").
		Columns("slot_date", "start_time", "end_time", "capacity_points", "slot_type")

	for _, s := range slots {
		insertBuilder = insertBuilder.Values(s.Date, s.StartTime, s.EndTime, s.CapacityPoints, string(s.Type))
	}

	query, args, err := insertBuilder.
		Suffix("ON CONFLICT (slot_date, start_time) DO NOTHING").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: BatchInsert - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: BatchInsert - execute insert: %v", ErrExecQuery, err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: BatchInsert - get rows affected: %v", ErrExecQuery, err)
	}

	return inserted, nil
}

// DeleteUnbooked удаляет слоты дня, на которые нет ни одной строки бронирования
// (любого статуса). Слот с бронированиями никогда не удаляется
func (r *Repository) DeleteUnbooked(ctx context.Context, date time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("slots").
		Where(squirrel.Eq{"slot_date": date}).
		Where("NOT EXISTS (SELECT 1 FROM bookings b WHERE b.slot_id = slots.id)").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteUnbooked - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteUnbooked - execute delete: %v", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteUnbooked - get rows affected: %v", ErrExecQuery, err)
	}

	return deleted, nil
}

// GetByID получает слот по ID
// Внутри транзакции строка блокируется через FOR UPDATE: слот является
// точкой сериализации для проверки вместимости
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"slot_date",
		"start_time",
		"end_time",
		"capacity_points",
		"booked_points",
		"slot_type",
		"is_blocked",
		"created_at",
		"updated_at",
	).
		From("slots").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	slot, err := scanSlot(row)
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// ListByDateRange возвращает слоты в диапазоне дат [from, to] включительно
func (r *Repository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"slot_date",
		"start_time",
		"end_time",
		"capacity_points",
		"booked_points",
		"slot_type",
		"is_blocked",
		"created_at",
		"updated_at",
	).
		From("slots").
		Where(squirrel.GtOrEq{"slot_date": from}).
		Where(squirrel.LtOrEq{"slot_date": to}).
		OrderBy("slot_date ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByDateRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDateRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByDateRange - scan slot: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByDateRange - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// AddBookedPoints изменяет денормализованный счётчик занятости на delta
// Счётчик используется только для отображения, не для проверок вместимости
func (r *Repository) AddBookedPoints(ctx context.Context, id int64, delta int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("booked_points", squirrel.Expr("GREATEST(booked_points + ?, 0)", delta)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AddBookedPoints - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: AddBookedPoints - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AddBookedPoints - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// SetBlocked переключает административную блокировку слота
func (r *Repository) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("is_blocked", blocked).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetBlocked - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetBlocked - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetBlocked - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// rowScanner общий интерфейс для *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var slot domain.Slot
	var slotType string
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&slot.ID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.CapacityPoints,
		&slot.BookedPoints,
		&slotType,
		&slot.IsBlocked,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	slot.Type = domain.SlotType(slotType)
	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}
