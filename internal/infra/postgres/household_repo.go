package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/be9expensphie/expensphie/internal/platform/household"
)

// HouseholdRepository implements the repository interface using PostgreSQL
type HouseholdRepository struct {
	pool *pgxpool.Pool
}

// NewHouseholdRepository creates a new PostgreSQL household repository
func NewHouseholdRepository(pool *pgxpool.Pool) *HouseholdRepository {
	return &HouseholdRepository{pool: pool}
}

// CreateHousehold creates a new household
func (r *HouseholdRepository) CreateHousehold(ctx context.Context, h *household.Household) error {
	query := `
		INSERT INTO households (name, code, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, h.Name, h.Code, h.CreatedBy).Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return household.ErrDuplicateName
		}
		return fmt.Errorf("failed to create household: %w", err)
	}

	return nil
}

// GetHouseholdByID retrieves a household by ID
func (r *HouseholdRepository) GetHouseholdByID(ctx context.Context, id int64) (*household.Household, error) {
	query := `
		SELECT id, name, code, created_by, created_at
		FROM households
		WHERE id = $1
	`
	return r.scanHousehold(r.pool.QueryRow(ctx, query, id))
}

// GetHouseholdByCode retrieves a household by invite code
func (r *HouseholdRepository) GetHouseholdByCode(ctx context.Context, code string) (*household.Household, error) {
	query := `
		SELECT id, name, code, created_by, created_at
		FROM households
		WHERE code = $1
	`
	return r.scanHousehold(r.pool.QueryRow(ctx, query, code))
}

// ExistsByName checks if a household with the given name exists
func (r *HouseholdRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM households WHERE name = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check household existence: %w", err)
	}

	return exists, nil
}

// AddMember adds a user to a household. Re-adding an existing member is
// treated as success and fills in the existing record.
func (r *HouseholdRepository) AddMember(ctx context.Context, m *household.Member) error {
	query := `
		INSERT INTO household_members (household_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (household_id, user_id) DO NOTHING
		RETURNING id, joined_at
	`

	err := r.pool.QueryRow(ctx, query, m.HouseholdID, m.UserID, m.Role).Scan(&m.ID, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			existing, gerr := r.GetMemberByUserAndHousehold(ctx, m.UserID, m.HouseholdID)
			if gerr != nil {
				return gerr
			}
			*m = *existing
			return nil
		}
		return fmt.Errorf("failed to add member: %w", err)
	}

	return nil
}

// GetMember retrieves a member by ID
func (r *HouseholdRepository) GetMember(ctx context.Context, id int64) (*household.Member, error) {
	query := memberSelect + ` WHERE m.id = $1`
	return r.scanMember(r.pool.QueryRow(ctx, query, id))
}

// GetMemberByUserAndHousehold retrieves the membership of a user in a household
func (r *HouseholdRepository) GetMemberByUserAndHousehold(ctx context.Context, userID, householdID int64) (*household.Member, error) {
	query := memberSelect + ` WHERE m.user_id = $1 AND m.household_id = $2`
	return r.scanMember(r.pool.QueryRow(ctx, query, userID, householdID))
}

// ListMembers retrieves all members of a household
func (r *HouseholdRepository) ListMembers(ctx context.Context, householdID int64) ([]*household.Member, error) {
	query := memberSelect + ` WHERE m.household_id = $1 ORDER BY m.joined_at, m.id`

	rows, err := r.pool.Query(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*household.Member
	for rows.Next() {
		m, err := r.scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

// ListMembershipsForUser retrieves the user's memberships across all households
func (r *HouseholdRepository) ListMembershipsForUser(ctx context.Context, userID int64) ([]household.Membership, error) {
	query := `
		SELECT h.id, h.name, h.code, m.role, m.id
		FROM household_members m
		JOIN households h ON h.id = m.household_id
		WHERE m.user_id = $1
		ORDER BY m.joined_at, m.id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []household.Membership
	for rows.Next() {
		var ms household.Membership
		if err := rows.Scan(&ms.HouseholdID, &ms.Name, &ms.Code, &ms.Role, &ms.MemberID); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, ms)
	}

	return memberships, rows.Err()
}

// memberSelect joins the member's full name in from the users table.
const memberSelect = `
	SELECT m.id, m.household_id, m.user_id, u.full_name, m.role, m.joined_at
	FROM household_members m
	JOIN users u ON u.id = m.user_id
`

func (r *HouseholdRepository) scanHousehold(row pgx.Row) (*household.Household, error) {
	var h household.Household
	err := row.Scan(&h.ID, &h.Name, &h.Code, &h.CreatedBy, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, household.ErrHouseholdNotFound
		}
		return nil, fmt.Errorf("failed to get household: %w", err)
	}
	return &h, nil
}

func (r *HouseholdRepository) scanMember(row pgx.Row) (*household.Member, error) {
	var m household.Member
	err := row.Scan(&m.ID, &m.HouseholdID, &m.UserID, &m.FullName, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, household.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return &m, nil
}
