package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanApprovalActions(t *testing.T) {
	for _, action := range []Action{ActionApproveRequests, ActionViewPendingRequests, ActionViewAllUsers} {
		assert.True(t, Can(RoleTL, action), "tl should have %s", action)
		assert.True(t, Can(RoleManager, action), "manager should have %s", action)
		assert.True(t, Can(RoleAdmin, action), "admin should have %s", action)
		assert.False(t, Can(RoleEmployee, action), "employee should not have %s", action)
	}
}

func TestCanAdminOnlyActions(t *testing.T) {
	for _, action := range []Action{ActionDeleteUsers, ActionManageHolidays} {
		assert.True(t, Can(RoleAdmin, action))
		assert.False(t, Can(RoleManager, action), "manager should not have %s", action)
		assert.False(t, Can(RoleTL, action), "tl should not have %s", action)
		assert.False(t, Can(RoleEmployee, action), "employee should not have %s", action)
	}
}

func TestCanManageUsers(t *testing.T) {
	assert.True(t, Can(RoleManager, ActionManageUsers))
	assert.True(t, Can(RoleAdmin, ActionManageUsers))
	assert.False(t, Can(RoleTL, ActionManageUsers))
	assert.False(t, Can(RoleEmployee, ActionManageUsers))
}

func TestCanUnknownInputsDenied(t *testing.T) {
	assert.False(t, Can("superuser", ActionApproveRequests))
	assert.False(t, Can("", ActionApproveRequests))
	assert.False(t, Can(RoleAdmin, Action("launch_missiles")))
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleEmployee, RoleTL, RoleManager, RoleAdmin} {
		assert.True(t, ValidRole(role))
	}
	assert.False(t, ValidRole("owner"))
	assert.False(t, ValidRole(""))
	assert.False(t, ValidRole("Admin"))
}

func TestValidCommentCategory(t *testing.T) {
	assert.True(t, ValidCommentCategory(CategoryFollowup))
	assert.True(t, ValidCommentCategory(CategoryHot))
	assert.True(t, ValidCommentCategory(CategoryBlock))
	// assigned is reserved for the assignment engine.
	assert.False(t, ValidCommentCategory(CategoryAssigned))
	assert.False(t, ValidCommentCategory(""))
}

func TestValidDecision(t *testing.T) {
	assert.True(t, ValidDecision(RequestStatusApproved))
	assert.True(t, ValidDecision(RequestStatusRejected))
	assert.False(t, ValidDecision(RequestStatusPending))
	assert.False(t, ValidDecision("cancelled"))
}
