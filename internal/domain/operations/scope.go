package operations

import (
	"stockops/internal/core/id"
	"stockops/internal/domain/auth"
)

// ApprovableTypeIDs computes the set of operation types the user is
// authorized to approve: a type qualifies if its approving user is the
// given user, or its approving role is in the user's expanded role set.
// With no roles only the user rule applies.
//
// The result is a sub-filter composed into larger queries, never a
// user-facing list on its own. Pure computation over the provided data.
func ApprovableTypeIDs(user *auth.User, types []*OperationType) []id.ID {
	if user == nil || len(types) == 0 {
		return nil
	}

	roles := user.AllRoles()
	roleSet := make(map[id.ID]struct{}, len(roles))
	for _, r := range roles {
		roleSet[r.ID] = struct{}{}
	}

	var ids []id.ID
	for _, t := range types {
		if typeInScope(user, roleSet, t) {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// CanProcess reports whether the user is permitted to process operations of
// the given type. Callers must check this before submitting an operation;
// submission itself does not re-check.
func CanProcess(user *auth.User, opType *OperationType) bool {
	if user == nil || opType == nil {
		return false
	}

	roles := user.AllRoles()
	roleSet := make(map[id.ID]struct{}, len(roles))
	for _, r := range roles {
		roleSet[r.ID] = struct{}{}
	}

	return typeInScope(user, roleSet, opType)
}

func typeInScope(user *auth.User, roleSet map[id.ID]struct{}, t *OperationType) bool {
	if t == nil {
		return false
	}
	if t.ApproverUserID != nil && *t.ApproverUserID == user.ID {
		return true
	}
	if t.ApproverRoleID != nil && len(roleSet) > 0 {
		if _, ok := roleSet[*t.ApproverRoleID]; ok {
			return true
		}
	}
	return false
}
