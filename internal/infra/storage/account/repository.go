package account

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	"github.com/m04kA/SMC-AllocationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AllocationService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с аккаунтами, сотрудниками и подписчиками
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория аккаунтов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBusinessAccount получает корпоративный аккаунт по ID
func (r *Repository) GetBusinessAccount(ctx context.Context, id int64) (*domain.BusinessAccount, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"daily_quota_points",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("business_accounts").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessAccount - build select query: %v", ErrBuildQuery, err)
	}

	var account domain.BusinessAccount
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&account.ID,
		&account.Name,
		&account.DailyQuotaPoints,
		&account.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessAccount - scan account: %v", ErrScanRow, err)
	}

	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time

	return &account, nil
}

// GetEmployee получает сотрудника по ID
func (r *Repository) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"account_id",
		"name",
		"email",
		"created_at",
		"updated_at",
	).
		From("employees").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetEmployee - build select query: %v", ErrBuildQuery, err)
	}

	var employee domain.Employee
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&employee.ID,
		&employee.AccountID,
		&employee.Name,
		&employee.Email,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetEmployee - scan employee: %v", ErrScanRow, err)
	}

	employee.CreatedAt = createdAt.Time
	employee.UpdatedAt = updatedAt.Time

	return &employee, nil
}

// GetSubscriber получает подписчика по ID
// Внутри транзакции строка блокируется через FOR UPDATE: баланс кредитов
// меняется в той же транзакции, что и вставка бронирования
func (r *Repository) GetSubscriber(ctx context.Context, id int64) (*domain.IndividualSubscriber, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"name",
		"email",
		"credit_balance",
		"subscription_active_until",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("subscribers").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSubscriber - build select query: %v", ErrBuildQuery, err)
	}

	var subscriber domain.IndividualSubscriber
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&subscriber.ID,
		&subscriber.Name,
		&subscriber.Email,
		&subscriber.CreditBalance,
		&subscriber.SubscriptionActiveUntil,
		&subscriber.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSubscriberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSubscriber - scan subscriber: %v", ErrScanRow, err)
	}

	subscriber.CreatedAt = createdAt.Time
	subscriber.UpdatedAt = updatedAt.Time

	return &subscriber, nil
}

// DebitCredit списывает один кредит с баланса подписчика
// Guarded update: при нулевом балансе запрос не затрагивает строк и
// возвращается ErrInsufficientCredits, баланс не может уйти в минус
func (r *Repository) DebitCredit(ctx context.Context, subscriberID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("subscribers").
		Set("credit_balance", squirrel.Expr("credit_balance - 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": subscriberID}).
		Where(squirrel.GtOrEq{"credit_balance": 1}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DebitCredit - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DebitCredit - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DebitCredit - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrInsufficientCredits
	}

	return nil
}
