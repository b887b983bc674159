package household

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveActive_SavedIDWins(t *testing.T) {
	memberships := []Membership{
		{HouseholdID: 1, Name: "Home", Role: RoleAdmin},
		{HouseholdID: 2, Name: "Flat", Role: RoleMember},
	}

	active := ResolveActive(memberships, 2, nil)

	require.NotNil(t, active)
	assert.Equal(t, int64(2), active.HouseholdID)
}

func TestResolveActive_PreviousSelectionRefreshed(t *testing.T) {
	// The previous selection held a stale role; the resolver must return
	// the fresh record from the list, not the stale pointer.
	previous := &Membership{HouseholdID: 2, Name: "Flat", Role: RoleMember}
	memberships := []Membership{
		{HouseholdID: 1, Name: "Home", Role: RoleMember},
		{HouseholdID: 2, Name: "Flat", Role: RoleAdmin},
	}

	active := ResolveActive(memberships, 0, previous)

	require.NotNil(t, active)
	assert.Equal(t, int64(2), active.HouseholdID)
	assert.Equal(t, RoleAdmin, active.Role, "refreshed record must carry the new role")
}

func TestResolveActive_FallsBackToFirst(t *testing.T) {
	memberships := []Membership{
		{HouseholdID: 7, Name: "Home"},
		{HouseholdID: 8, Name: "Flat"},
	}

	// Saved id no longer matches, previous selection gone.
	active := ResolveActive(memberships, 99, &Membership{HouseholdID: 42})

	require.NotNil(t, active)
	assert.Equal(t, int64(7), active.HouseholdID)
}

func TestResolveActive_EmptyListYieldsNil(t *testing.T) {
	assert.Nil(t, ResolveActive(nil, 1, nil))
	assert.Nil(t, ResolveActive([]Membership{}, 0, &Membership{HouseholdID: 1}))
}

func TestAddMembership_AppendsAndDeduplicates(t *testing.T) {
	list := []Membership{{HouseholdID: 1, Name: "Home"}}

	list = AddMembership(list, Membership{HouseholdID: 3, Name: "X"})
	require.Len(t, list, 2)
	assert.Equal(t, int64(3), list[1].HouseholdID)

	// Adding the same household again is a no-op.
	list = AddMembership(list, Membership{HouseholdID: 3, Name: "X again"})
	assert.Len(t, list, 2)
	assert.Equal(t, "X", list[1].Name)
}
