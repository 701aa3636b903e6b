package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandRoles_Empty(t *testing.T) {
	assert.Nil(t, ExpandRoles(nil))
	assert.Nil(t, ExpandRoles([]Role{}))
}

func TestExpandRoles_FlatRoles(t *testing.T) {
	a := NewRole("clerk", "Stock Clerk")
	b := NewRole("manager", "Stock Manager")

	expanded := ExpandRoles([]Role{*a, *b})

	assert.Len(t, expanded, 2)
}

func TestExpandRoles_ParentChain(t *testing.T) {
	admin := NewRole("admin", "Administrator")
	manager := NewRole("manager", "Stock Manager")
	manager.Parent = admin
	clerk := NewRole("clerk", "Stock Clerk")
	clerk.Parent = manager

	expanded := ExpandRoles([]Role{*clerk})

	codes := make([]string, 0, len(expanded))
	for _, r := range expanded {
		codes = append(codes, r.Code)
	}
	assert.ElementsMatch(t, []string{"clerk", "manager", "admin"}, codes)
}

func TestExpandRoles_SharedParentAppearsOnce(t *testing.T) {
	admin := NewRole("admin", "Administrator")
	manager := NewRole("manager", "Stock Manager")
	manager.Parent = admin
	auditor := NewRole("auditor", "Auditor")
	auditor.Parent = admin

	expanded := ExpandRoles([]Role{*manager, *auditor})

	assert.Len(t, expanded, 3)
}

func TestExpandRoles_CycleDoesNotLoop(t *testing.T) {
	a := NewRole("a", "A")
	b := NewRole("b", "B")
	a.Parent = b
	b.Parent = a

	expanded := ExpandRoles([]Role{*a})

	assert.Len(t, expanded, 2)
}

func TestUserHasRole_Inherited(t *testing.T) {
	admin := NewRole("admin", "Administrator")
	manager := NewRole("manager", "Stock Manager")
	manager.Parent = admin

	u := NewUser("jdoe")
	u.Roles = []Role{*manager}

	assert.True(t, u.HasRole("manager"))
	assert.True(t, u.HasRole("admin"))
	assert.False(t, u.HasRole("clerk"))
}
