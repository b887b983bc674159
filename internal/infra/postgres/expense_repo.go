package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/be9expensphie/expensphie/internal/platform/expense"
	"github.com/be9expensphie/expensphie/pkg/money"
)

// ExpenseRepository implements the repository interface using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new PostgreSQL expense repository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

// Create persists an expense together with its splits in one transaction
func (r *ExpenseRepository) Create(ctx context.Context, e *expense.Expense) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO expenses (household_id, category, amount, currency, date, method, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err = tx.QueryRow(ctx, query,
		e.HouseholdID,
		e.Category,
		e.Amount.Value(),
		nullString(e.Currency),
		e.Date,
		nullString(e.Method),
		e.Status,
		e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	splitQuery := `
		INSERT INTO expense_splits (expense_id, member_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	for i := range e.Splits {
		s := &e.Splits[i]
		s.ExpenseID = e.ID
		if err := tx.QueryRow(ctx, splitQuery, s.ExpenseID, s.MemberID, s.Amount.Value()).Scan(&s.ID); err != nil {
			return fmt.Errorf("failed to create expense split: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit expense: %w", err)
	}
	return nil
}

// GetByID retrieves an expense with its splits
func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*expense.Expense, error) {
	query := expenseSelect + ` WHERE e.id = $1`

	e, err := r.scanExpense(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	if err := r.loadSplits(ctx, []*expense.Expense{e}); err != nil {
		return nil, err
	}
	return e, nil
}

// GetByIDAndHousehold retrieves an expense with its splits, scoped to a household
func (r *ExpenseRepository) GetByIDAndHousehold(ctx context.Context, id, householdID int64) (*expense.Expense, error) {
	query := expenseSelect + ` WHERE e.id = $1 AND e.household_id = $2`

	e, err := r.scanExpense(r.pool.QueryRow(ctx, query, id, householdID))
	if err != nil {
		return nil, err
	}

	if err := r.loadSplits(ctx, []*expense.Expense{e}); err != nil {
		return nil, err
	}
	return e, nil
}

// ListByHousehold retrieves a household's expenses, newest first
func (r *ExpenseRepository) ListByHousehold(ctx context.Context, householdID int64, f expense.Filter) ([]*expense.Expense, error) {
	var sb strings.Builder
	sb.WriteString(expenseSelect)
	sb.WriteString(` WHERE e.household_id = $1`)

	args := []any{householdID}
	if f.Status != "" {
		args = append(args, f.Status)
		fmt.Fprintf(&sb, " AND e.status = $%d", len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		fmt.Fprintf(&sb, " AND e.date >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		fmt.Fprintf(&sb, " AND e.date <= $%d", len(args))
	}
	sb.WriteString(` ORDER BY e.date DESC NULLS LAST, e.id DESC`)

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*expense.Expense
	for rows.Next() {
		e, err := r.scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadSplits(ctx, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// UpdateStatus sets the status of an expense
func (r *ExpenseRepository) UpdateStatus(ctx context.Context, id int64, status expense.Status) error {
	result, err := r.pool.Exec(ctx, `UPDATE expenses SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update expense status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return expense.ErrExpenseNotFound
	}
	return nil
}

// GetSplit retrieves a single split
func (r *ExpenseRepository) GetSplit(ctx context.Context, splitID int64) (*expense.Split, error) {
	query := `SELECT id, expense_id, member_id, amount FROM expense_splits WHERE id = $1`

	var s expense.Split
	var amount float64
	err := r.pool.QueryRow(ctx, query, splitID).Scan(&s.ID, &s.ExpenseID, &s.MemberID, &amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, expense.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to get expense split: %w", err)
	}
	s.Amount = money.FromFloat(amount)
	return &s, nil
}

// expenseSelect resolves the author's full name through the creating
// member's user record; created_by is a household_members id.
const expenseSelect = `
	SELECT e.id, e.household_id, e.category, e.amount, e.currency, e.date, e.method,
	       e.status, e.created_by, u.full_name, e.created_at
	FROM expenses e
	JOIN household_members m ON m.id = e.created_by
	JOIN users u ON u.id = m.user_id
`

func (r *ExpenseRepository) scanExpense(row pgx.Row) (*expense.Expense, error) {
	var e expense.Expense
	var amount float64
	var currency, method sql.NullString
	var date sql.NullTime

	err := row.Scan(
		&e.ID,
		&e.HouseholdID,
		&e.Category,
		&amount,
		&currency,
		&date,
		&method,
		&e.Status,
		&e.CreatedBy,
		&e.CreatedByName,
		&e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, expense.ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	e.Amount = money.FromFloat(amount)
	e.Currency = currency.String
	e.Method = method.String
	if date.Valid {
		d := date.Time
		e.Date = &d
	}
	return &e, nil
}

// loadSplits fills in the splits of the given expenses with one query.
func (r *ExpenseRepository) loadSplits(ctx context.Context, expenses []*expense.Expense) error {
	if len(expenses) == 0 {
		return nil
	}

	byID := make(map[int64]*expense.Expense, len(expenses))
	ids := make([]int64, 0, len(expenses))
	for _, e := range expenses {
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}

	query := `
		SELECT id, expense_id, member_id, amount
		FROM expense_splits
		WHERE expense_id = ANY($1)
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load expense splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s expense.Split
		var amount float64
		if err := rows.Scan(&s.ID, &s.ExpenseID, &s.MemberID, &amount); err != nil {
			return fmt.Errorf("failed to scan expense split: %w", err)
		}
		s.Amount = money.FromFloat(amount)
		if e, ok := byID[s.ExpenseID]; ok {
			e.Splits = append(e.Splits, s)
		}
	}
	return rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
