package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/be9expensphie/expensphie/internal/platform/settlement"
	"github.com/be9expensphie/expensphie/pkg/money"
)

// SettlementRepository implements the repository interface using PostgreSQL
type SettlementRepository struct {
	pool *pgxpool.Pool
}

// NewSettlementRepository creates a new PostgreSQL settlement repository
func NewSettlementRepository(pool *pgxpool.Pool) *SettlementRepository {
	return &SettlementRepository{pool: pool}
}

// Create persists a new settlement
func (r *SettlementRepository) Create(ctx context.Context, s *settlement.Settlement) error {
	query := `
		INSERT INTO settlements (from_member_id, to_member_id, expense_split_id, amount, currency, date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		s.FromMemberID,
		s.ToMemberID,
		s.ExpenseSplitID,
		s.Amount.Value(),
		nullString(s.Currency),
		s.Date,
		s.Status,
	).Scan(&s.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return settlement.ErrDuplicateSettlement
		}
		return fmt.Errorf("failed to create settlement: %w", err)
	}

	return nil
}

// GetByID retrieves a settlement by ID
func (r *SettlementRepository) GetByID(ctx context.Context, id int64) (*settlement.Settlement, error) {
	query := settlementSelect + ` WHERE s.id = $1`
	return r.scanSettlement(r.pool.QueryRow(ctx, query, id))
}

// ListForMember retrieves settlements where the member is either side,
// restricted to approved expenses, newest first
func (r *SettlementRepository) ListForMember(ctx context.Context, memberID int64) ([]*settlement.Settlement, error) {
	query := settlementSelect + `
		WHERE (s.from_member_id = $1 OR s.to_member_id = $1)
		  AND e.status = 'APPROVED'
		ORDER BY s.date DESC NULLS LAST, s.id DESC
	`
	return r.list(ctx, query, memberID)
}

// ListAwaitingForHousehold retrieves the household's settlements in
// AWAITING_APPROVAL, newest first
func (r *SettlementRepository) ListAwaitingForHousehold(ctx context.Context, householdID int64) ([]*settlement.Settlement, error) {
	query := settlementSelect + `
		WHERE m.household_id = $1 AND s.status = $2
		ORDER BY s.date DESC NULLS LAST, s.id DESC
	`
	return r.list(ctx, query, householdID, settlement.StatusAwaitingApproval)
}

// ListPendingForMemberInWindow retrieves the member's not-yet-completed
// settlements dated inside [from, to]
func (r *SettlementRepository) ListPendingForMemberInWindow(ctx context.Context, memberID int64, from, to time.Time) ([]*settlement.Settlement, error) {
	query := settlementSelect + `
		WHERE s.from_member_id = $1
		  AND s.status <> $2
		  AND s.date >= $3 AND s.date <= $4
		ORDER BY s.date DESC, s.id DESC
	`
	return r.list(ctx, query, memberID, settlement.StatusCompleted, from, to)
}

// UpdateStatus sets the status of a settlement
func (r *SettlementRepository) UpdateStatus(ctx context.Context, id int64, status settlement.Status) error {
	result, err := r.pool.Exec(ctx, `UPDATE settlements SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update settlement status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return settlement.ErrSettlementNotFound
	}
	return nil
}

// ExistsForSplit checks for an existing settlement on the same split and
// member pair
func (r *SettlementRepository) ExistsForSplit(ctx context.Context, fromMemberID, toMemberID, splitID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM settlements
			WHERE from_member_id = $1 AND to_member_id = $2 AND expense_split_id = $3
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, fromMemberID, toMemberID, splitID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check settlement existence: %w", err)
	}
	return exists, nil
}

// settlementSelect joins in the creditor's name and the split's expense
// category for display.
const settlementSelect = `
	SELECT s.id, s.from_member_id, s.to_member_id, tu.full_name, s.expense_split_id,
	       e.category, s.amount, s.currency, s.date, s.status
	FROM settlements s
	JOIN household_members m ON m.id = s.from_member_id
	JOIN household_members tm ON tm.id = s.to_member_id
	JOIN users tu ON tu.id = tm.user_id
	JOIN expense_splits sp ON sp.id = s.expense_split_id
	JOIN expenses e ON e.id = sp.expense_id
`

func (r *SettlementRepository) list(ctx context.Context, query string, args ...any) ([]*settlement.Settlement, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*settlement.Settlement
	for rows.Next() {
		s, err := r.scanSettlement(rows)
		if err != nil {
			return nil, err
		}
		settlements = append(settlements, s)
	}
	return settlements, rows.Err()
}

func (r *SettlementRepository) scanSettlement(row pgx.Row) (*settlement.Settlement, error) {
	var s settlement.Settlement
	var amount float64
	var currency sql.NullString
	var date sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.FromMemberID,
		&s.ToMemberID,
		&s.ToMemberName,
		&s.ExpenseSplitID,
		&s.ExpenseCategory,
		&amount,
		&currency,
		&date,
		&s.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, settlement.ErrSettlementNotFound
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	s.Amount = money.FromFloat(amount)
	s.Currency = currency.String
	if date.Valid {
		d := date.Time
		s.Date = &d
	}
	return &s, nil
}
