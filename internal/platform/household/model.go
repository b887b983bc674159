package household

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is a member's role within one household.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// IsValid checks if the role is a known value.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleMember
}

// ParseRole normalizes a role string, accepting the prefixed legacy forms
// ROLE_ADMIN / ROLE_MEMBER still emitted by older clients.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "ROLE_"))
	return r, r.IsValid()
}

// Household is a group of members who share expenses.
type Household struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Member ties a user to a household with a role.
type Member struct {
	ID          int64     `json:"id"`
	HouseholdID int64     `json:"household_id"`
	UserID      int64     `json:"user_id"`
	FullName    string    `json:"full_name"`
	Role        Role      `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

// IsAdmin reports whether the member holds the admin role.
func (m *Member) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// Membership is the per-user view of one household: what the "my
// households" listing returns and what the active-selection resolver
// operates on.
type Membership struct {
	HouseholdID int64  `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Role        Role   `json:"role"`
	MemberID    int64  `json:"member_id"`
}

// CodeLength is the length of a household invite code.
const CodeLength = 8

var codePattern = regexp.MustCompile(`^[a-zA-Z0-9]{8}$`)

// IsValidCode reports whether s is a well-formed invite code: exactly
// eight alphanumeric characters.
func IsValidCode(s string) bool {
	return codePattern.MatchString(s)
}

// NewCode generates a fresh invite code.
func NewCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:CodeLength]
}

// ValidateCreate validates household fields for creation.
func (h *Household) ValidateCreate() error {
	if strings.TrimSpace(h.Name) == "" {
		return ErrMissingName
	}
	if len(h.Name) > 100 {
		return ErrNameTooLong
	}
	return nil
}
