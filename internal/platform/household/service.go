package household

import (
	"context"
	"fmt"
)

// Service provides business logic for household operations.
type Service struct {
	repo    Repository
	session SessionStore
}

// NewService creates a new household service.
func NewService(repo Repository, session SessionStore) *Service {
	return &Service{repo: repo, session: session}
}

// Create creates a household with a generated invite code and enrolls the
// creating user as its admin. The new membership becomes the user's active
// selection.
func (s *Service) Create(ctx context.Context, userID int64, name string) (*Membership, error) {
	h := &Household{Name: name, CreatedBy: userID}
	if err := h.ValidateCreate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByName(ctx, h.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check household name: %w", err)
	}
	if exists {
		return nil, ErrDuplicateName
	}

	h.Code = NewCode()
	if err := s.repo.CreateHousehold(ctx, h); err != nil {
		return nil, fmt.Errorf("failed to create household: %w", err)
	}

	m := &Member{HouseholdID: h.ID, UserID: userID, Role: RoleAdmin}
	if err := s.repo.AddMember(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to add creator as admin: %w", err)
	}

	membership := &Membership{
		HouseholdID: h.ID,
		Name:        h.Name,
		Code:        h.Code,
		Role:        m.Role,
		MemberID:    m.ID,
	}
	if err := s.session.SetActiveHouseholdID(ctx, userID, h.ID); err != nil {
		return nil, fmt.Errorf("failed to save active household: %w", err)
	}
	return membership, nil
}

// Join enrolls the user in the household identified by the invite code.
// Joining a household the user already belongs to returns the existing
// membership unchanged. The joined household becomes the active selection.
func (s *Service) Join(ctx context.Context, userID int64, code string) (*Membership, error) {
	if !IsValidCode(code) {
		return nil, ErrInvalidCode
	}

	h, err := s.repo.GetHouseholdByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	member, err := s.repo.GetMemberByUserAndHousehold(ctx, userID, h.ID)
	switch {
	case err == nil:
		// Already a member: idempotent join.
	case err == ErrMemberNotFound:
		member = &Member{HouseholdID: h.ID, UserID: userID, Role: RoleMember}
		if err := s.repo.AddMember(ctx, member); err != nil {
			return nil, fmt.Errorf("failed to join household: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to look up membership: %w", err)
	}

	membership := &Membership{
		HouseholdID: h.ID,
		Name:        h.Name,
		Code:        h.Code,
		Role:        member.Role,
		MemberID:    member.ID,
	}
	if err := s.session.SetActiveHouseholdID(ctx, userID, h.ID); err != nil {
		return nil, fmt.Errorf("failed to save active household: %w", err)
	}
	return membership, nil
}

// ListForUser retrieves all memberships of a user.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]Membership, error) {
	memberships, err := s.repo.ListMembershipsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return memberships, nil
}

// Members lists the members of a household. The requesting user must
// belong to the household.
func (s *Service) Members(ctx context.Context, userID, householdID int64) ([]*Member, error) {
	if _, err := s.RequireMember(ctx, userID, householdID); err != nil {
		return nil, err
	}
	members, err := s.repo.ListMembers(ctx, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// GetMember retrieves a member record by id.
func (s *Service) GetMember(ctx context.Context, id int64) (*Member, error) {
	return s.repo.GetMember(ctx, id)
}

// RequireMember returns the user's membership in the household, or
// ErrNotMember.
func (s *Service) RequireMember(ctx context.Context, userID, householdID int64) (*Member, error) {
	member, err := s.repo.GetMemberByUserAndHousehold(ctx, userID, householdID)
	if err != nil {
		if err == ErrMemberNotFound {
			return nil, ErrNotMember
		}
		return nil, err
	}
	return member, nil
}

// RequireAdmin is the single authorization check for admin-only actions.
// Every approve/reject call site goes through here instead of re-deriving
// the role.
func (s *Service) RequireAdmin(ctx context.Context, userID, householdID int64) (*Member, error) {
	member, err := s.RequireMember(ctx, userID, householdID)
	if err != nil {
		return nil, err
	}
	if !member.IsAdmin() {
		return nil, ErrNotAdmin
	}
	return member, nil
}

// Active resolves the user's active household against their current
// membership list and saved selection, persisting the resolved choice so
// the next load starts from it.
func (s *Service) Active(ctx context.Context, userID int64) (*Membership, []Membership, error) {
	memberships, err := s.repo.ListMembershipsForUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list memberships: %w", err)
	}

	savedID, found, err := s.session.ActiveHouseholdID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read saved selection: %w", err)
	}
	if !found {
		savedID = 0
	}

	active := ResolveActive(memberships, savedID, nil)
	if active == nil {
		return nil, memberships, nil
	}
	if active.HouseholdID != savedID {
		if err := s.session.SetActiveHouseholdID(ctx, userID, active.HouseholdID); err != nil {
			return nil, nil, fmt.Errorf("failed to save active household: %w", err)
		}
	}
	return active, memberships, nil
}

// SetActive saves an explicit active-household selection. The user must be
// a member of the chosen household.
func (s *Service) SetActive(ctx context.Context, userID, householdID int64) (*Member, error) {
	member, err := s.RequireMember(ctx, userID, householdID)
	if err != nil {
		return nil, err
	}
	if err := s.session.SetActiveHouseholdID(ctx, userID, householdID); err != nil {
		return nil, fmt.Errorf("failed to save active household: %w", err)
	}
	return member, nil
}

// ClearActive discards the saved selection, e.g. on logout.
func (s *Service) ClearActive(ctx context.Context, userID int64) error {
	if err := s.session.ClearActiveHouseholdID(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear active household: %w", err)
	}
	return nil
}
