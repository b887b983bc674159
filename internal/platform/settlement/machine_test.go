package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/be9expensphie/expensphie/internal/platform/household"
)

func TestTransition_RequestByPayer(t *testing.T) {
	stl := &Settlement{ID: 1, FromMemberID: 10, ToMemberID: 20, Status: StatusPending}

	next, err := Transition(stl, ActionRequest, Actor{MemberID: 10, Role: household.RoleMember})
	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingApproval, next)
}

func TestTransition_RequestByOtherMember(t *testing.T) {
	stl := &Settlement{ID: 1, FromMemberID: 10, ToMemberID: 20, Status: StatusPending}

	_, err := Transition(stl, ActionRequest, Actor{MemberID: 20, Role: household.RoleMember})
	assert.ErrorIs(t, err, ErrNotCounterparty)
}

func TestTransition_CancelReturnsToPending(t *testing.T) {
	stl := &Settlement{ID: 1, FromMemberID: 10, Status: StatusAwaitingApproval}

	next, err := Transition(stl, ActionCancel, Actor{MemberID: 10, Role: household.RoleMember})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, next)
}

func TestTransition_CancelWhenPending(t *testing.T) {
	stl := &Settlement{ID: 1, FromMemberID: 10, Status: StatusPending}

	_, err := Transition(stl, ActionCancel, Actor{MemberID: 10, Role: household.RoleMember})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransition_ApproveByAdmin(t *testing.T) {
	stl := &Settlement{ID: 1, FromMemberID: 10, Status: StatusAwaitingApproval}

	next, err := Transition(stl, ActionApprove, Actor{MemberID: 30, Role: household.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, next)
}

func TestTransition_ApproveByNonAdmin(t *testing.T) {
	stl := &Settlement{ID: 1, FromMemberID: 10, Status: StatusAwaitingApproval}

	_, err := Transition(stl, ActionApprove, Actor{MemberID: 10, Role: household.RoleMember})
	assert.ErrorIs(t, err, ErrAdminOnly)
}

func TestTransition_ApproveWhenPending(t *testing.T) {
	stl := &Settlement{ID: 1, FromMemberID: 10, Status: StatusPending}

	_, err := Transition(stl, ActionApprove, Actor{MemberID: 30, Role: household.RoleAdmin})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransition_RejectByAdmin(t *testing.T) {
	stl := &Settlement{ID: 1, FromMemberID: 10, Status: StatusAwaitingApproval}

	next, err := Transition(stl, ActionReject, Actor{MemberID: 30, Role: household.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, next)
}

func TestTransition_CompletedIsTerminal(t *testing.T) {
	stl := &Settlement{ID: 1, FromMemberID: 10, Status: StatusCompleted}

	for _, action := range []Action{ActionRequest, ActionCancel} {
		_, err := Transition(stl, action, Actor{MemberID: 10, Role: household.RoleMember})
		assert.ErrorIs(t, err, ErrAlreadyCompleted, "action %s", action)
	}
	for _, action := range []Action{ActionApprove, ActionReject} {
		_, err := Transition(stl, action, Actor{MemberID: 30, Role: household.RoleAdmin})
		assert.ErrorIs(t, err, ErrAlreadyCompleted, "action %s", action)
	}
}

func TestTransition_UnknownAction(t *testing.T) {
	stl := &Settlement{ID: 1, FromMemberID: 10, Status: StatusPending}

	_, err := Transition(stl, Action("burn"), Actor{MemberID: 10, Role: household.RoleAdmin})
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestTransition_DoesNotMutate(t *testing.T) {
	stl := &Settlement{ID: 1, FromMemberID: 10, Status: StatusPending}

	_, err := Transition(stl, ActionRequest, Actor{MemberID: 10, Role: household.RoleMember})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stl.Status)
}

func TestParseStatus_LegacyAlias(t *testing.T) {
	got, ok := ParseStatus("WAITING_FOR_APPROVAL")
	require.True(t, ok)
	assert.Equal(t, StatusAwaitingApproval, got)

	got, ok = ParseStatus(" awaiting_approval ")
	require.True(t, ok)
	assert.Equal(t, StatusAwaitingApproval, got)

	_, ok = ParseStatus("SETTLED")
	assert.False(t, ok)
}
