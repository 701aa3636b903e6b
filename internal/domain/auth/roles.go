package auth

import "stockops/internal/core/id"

// ExpandRoles returns the transitive closure of the given roles over the
// parent relation: every role in the input plus all its ancestors, each
// role appearing once. A malformed graph with a parent cycle does not loop.
//
// Expansion is a pure function kept separate from authorization scoping so
// the traversal can be tested on its own.
func ExpandRoles(roles []Role) []Role {
	if len(roles) == 0 {
		return nil
	}

	seen := make(map[id.ID]struct{}, len(roles))
	expanded := make([]Role, 0, len(roles))

	var visit func(r Role)
	visit = func(r Role) {
		if _, ok := seen[r.ID]; ok {
			return
		}
		seen[r.ID] = struct{}{}
		expanded = append(expanded, r)
		if r.Parent != nil {
			visit(*r.Parent)
		}
	}

	for _, r := range roles {
		visit(r)
	}

	return expanded
}

// RoleIDs extracts the id set of a role slice.
func RoleIDs(roles []Role) []id.ID {
	if len(roles) == 0 {
		return nil
	}
	ids := make([]id.ID, 0, len(roles))
	for _, r := range roles {
		ids = append(ids, r.ID)
	}
	return ids
}
