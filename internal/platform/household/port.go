package household

import "context"

// Repository defines the interface for household data access.
type Repository interface {
	// CreateHousehold creates a new household
	CreateHousehold(ctx context.Context, h *Household) error

	// GetHouseholdByID retrieves a household by ID
	GetHouseholdByID(ctx context.Context, id int64) (*Household, error)

	// GetHouseholdByCode retrieves a household by invite code
	GetHouseholdByCode(ctx context.Context, code string) (*Household, error)

	// ExistsByName checks if a household with the given name exists
	ExistsByName(ctx context.Context, name string) (bool, error)

	// AddMember adds a user to a household
	AddMember(ctx context.Context, m *Member) error

	// GetMember retrieves a member by ID
	GetMember(ctx context.Context, id int64) (*Member, error)

	// GetMemberByUserAndHousehold retrieves the membership of a user in a household
	GetMemberByUserAndHousehold(ctx context.Context, userID, householdID int64) (*Member, error)

	// ListMembers retrieves all members of a household
	ListMembers(ctx context.Context, householdID int64) ([]*Member, error)

	// ListMembershipsForUser retrieves the user's memberships across all households
	ListMembershipsForUser(ctx context.Context, userID int64) ([]Membership, error)
}

// SessionStore persists the saved active-household selection per user.
type SessionStore interface {
	// ActiveHouseholdID returns the saved household id for the user.
	// The boolean is false when no selection has been saved.
	ActiveHouseholdID(ctx context.Context, userID int64) (int64, bool, error)

	// SetActiveHouseholdID saves the user's active household selection
	SetActiveHouseholdID(ctx context.Context, userID, householdID int64) error

	// ClearActiveHouseholdID discards the saved selection
	ClearActiveHouseholdID(ctx context.Context, userID int64) error
}
