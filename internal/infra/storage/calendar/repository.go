package calendar

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

// Repository репозиторий для работы с календарными правилами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория календаря
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListWeekdayRules возвращает все правила дней недели с перерывами,
// упорядоченные по дню недели
func (r *Repository) ListWeekdayRules(ctx context.Context) ([]*domain.WeekdayRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"weekday",
		"is_open",
		"open_time",
		"close_time",
		"created_at",
		"updated_at",
	).
		From("weekday_rules").
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListWeekdayRules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWeekdayRules - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.WeekdayRule, 0)
	byID := make(map[int64]*domain.WeekdayRule)

	for rows.Next() {
		var rule domain.WeekdayRule
		var weekday int
		var openTime, closeTime sql.NullString
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rule.ID,
			&weekday,
			&rule.IsOpen,
			&openTime,
			&closeTime,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListWeekdayRules - scan rule: %v", ErrScanRow, err)
		}

		rule.Weekday = time.Weekday(weekday)
		if openTime.Valid {
			if err := rule.OpenTime.Scan(openTime.String); err != nil {
				return nil, fmt.Errorf("%w: ListWeekdayRules - scan open time: %v", ErrScanRow, err)
			}
		}
		if closeTime.Valid {
			if err := rule.CloseTime.Scan(closeTime.String); err != nil {
				return nil, fmt.Errorf("%w: ListWeekdayRules - scan close time: %v", ErrScanRow, err)
			}
		}
		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time
		rule.Breaks = make([]domain.BreakWindow, 0)

		rules = append(rules, &rule)
		byID[rule.ID] = &rule
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListWeekdayRules - rows error: %v", ErrScanRow, err)
	}

	if err := r.attachBreaks(ctx, byID); err != nil {
		return nil, err
	}

	return rules, nil
}

// GetWeekdayRule возвращает правило для одного дня недели с перерывами
func (r *Repository) GetWeekdayRule(ctx context.Context, weekday time.Weekday) (*domain.WeekdayRule, error) {
	rules, err := r.ListWeekdayRules(ctx)
	if err != nil {
		return nil, err
	}
	for _, rule := range rules {
		if rule.Weekday == weekday {
			return rule, nil
		}
	}
	return nil, ErrRuleNotFound
}

// UpsertWeekdayRule создает или обновляет правило дня недели вместе с перерывами
// Перерывы заменяются целиком. Вызывается внутри транзакции
func (r *Repository) UpsertWeekdayRule(ctx context.Context, rule *domain.WeekdayRule) (*domain.WeekdayRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("weekday_rules").
		Columns("weekday", "is_open", "open_time", "close_time").
		Values(int(rule.Weekday), rule.IsOpen, rule.OpenTime, rule.CloseTime).
		Suffix(`ON CONFLICT (weekday) DO UPDATE SET
			is_open = EXCLUDED.is_open,
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertWeekdayRule - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertWeekdayRule - execute upsert: %v", ErrExecQuery, err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	// Заменяем перерывы целиком
	deleteQuery, deleteArgs, err := psqlbuilder.Delete("weekday_rule_breaks").
		Where(squirrel.Eq{"weekday_rule_id": rule.ID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertWeekdayRule - build delete breaks query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return nil, fmt.Errorf("%w: UpsertWeekdayRule - delete breaks: %v", ErrExecQuery, err)
	}

	if len(rule.Breaks) > 0 {
		insertBuilder := psqlbuilder.Insert("weekday_rule_breaks").
			Columns("weekday_rule_id", "start_time", "end_time")
		for _, br := range rule.Breaks {
			insertBuilder = insertBuilder.Values(rule.ID, br.StartTime, br.EndTime)
		}

		insertQuery, insertArgs, err := insertBuilder.ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: UpsertWeekdayRule - build insert breaks query: %v", ErrBuildQuery, err)
		}

		if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return nil, fmt.Errorf("%w: UpsertWeekdayRule - insert breaks: %v", ErrExecQuery, err)
		}
	}

	return rule, nil
}

// ListExclusiveWindows возвращает эксклюзивные окна
// При activeOnly=true возвращаются только активные окна
func (r *Repository) ListExclusiveWindows(ctx context.Context, activeOnly bool) ([]*domain.ExclusiveWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"weekday",
		"start_time",
		"end_time",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("exclusive_windows").
		OrderBy("weekday ASC, start_time ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListExclusiveWindows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExclusiveWindows - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	windows := make([]*domain.ExclusiveWindow, 0)
	for rows.Next() {
		var window domain.ExclusiveWindow
		var weekday int
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&window.ID,
			&weekday,
			&window.StartTime,
			&window.EndTime,
			&window.IsActive,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListExclusiveWindows - scan window: %v", ErrScanRow, err)
		}

		window.Weekday = time.Weekday(weekday)
		window.CreatedAt = createdAt.Time
		window.UpdatedAt = updatedAt.Time
		windows = append(windows, &window)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListExclusiveWindows - rows error: %v", ErrScanRow, err)
	}

	return windows, nil
}

// CreateExclusiveWindow создает новое эксклюзивное окно
func (r *Repository) CreateExclusiveWindow(ctx context.Context, window *domain.ExclusiveWindow) (*domain.ExclusiveWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("exclusive_windows").
		Columns("weekday", "start_time", "end_time", "is_active").
		Values(int(window.Weekday), window.StartTime, window.EndTime, window.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateExclusiveWindow - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&window.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateExclusiveWindow - execute insert: %v", ErrExecQuery, err)
	}

	window.CreatedAt = createdAt.Time
	window.UpdatedAt = updatedAt.Time

	return window, nil
}

// UpdateExclusiveWindow обновляет существующее эксклюзивное окно
func (r *Repository) UpdateExclusiveWindow(ctx context.Context, window *domain.ExclusiveWindow) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("exclusive_windows").
		Set("weekday", int(window.Weekday)).
		Set("start_time", window.StartTime).
		Set("end_time", window.EndTime).
		Set("is_active", window.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": window.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateExclusiveWindow - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateExclusiveWindow - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateExclusiveWindow - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrWindowNotFound
	}

	return nil
}

// attachBreaks загружает перерывы для набора правил
func (r *Repository) attachBreaks(ctx context.Context, byID map[int64]*domain.WeekdayRule) error {
	if len(byID) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query, args, err := psqlbuilder.Select("weekday_rule_id", "start_time", "end_time").
		From("weekday_rule_breaks").
		Where(squirrel.Eq{"weekday_rule_id": ids}).
		OrderBy("weekday_rule_id ASC, start_time ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: attachBreaks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachBreaks - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var ruleID int64
		var br domain.BreakWindow

		if err := rows.Scan(&ruleID, &br.StartTime, &br.EndTime); err != nil {
			return fmt.Errorf("%w: attachBreaks - scan break: %v", ErrScanRow, err)
		}

		if rule, ok := byID[ruleID]; ok {
			rule.Breaks = append(rule.Breaks, br)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachBreaks - rows error: %v", ErrScanRow, err)
	}

	return nil
}
