package domain

import "slices"

// Managed groups. Every user belongs to exactly one of them.
const (
	GroupAdministrators = "administrators"
	GroupOperators      = "operators"
)

// Realm roles granted through group membership.
const (
	RoleAdministrator = "administrator"
	RoleOperator      = "operator"
)

// Groups lists the managed groups.
var Groups = []string{GroupAdministrators, GroupOperators}

// IsValidGroup reports whether group is one of the managed groups. The match is exact.
func IsValidGroup(group string) bool {
	return slices.Contains(Groups, group)
}
