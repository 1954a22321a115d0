package user

import "strings"

// Role is the closed set of access levels a user can hold.
type Role string

const (
	RoleMasterAdmin Role = "MASTER_ADMIN"
	RoleAdmin       Role = "ADMIN"
	RoleUser        Role = "USER"
)

// Roles lists every valid role.
var Roles = []Role{RoleMasterAdmin, RoleAdmin, RoleUser}

// AdminRoles is the allow-list used by every ADMIN-gated route.
var AdminRoles = []Role{RoleAdmin, RoleMasterAdmin}

func (r Role) Valid() bool {
	for _, v := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// In reports whether r is a member of allowed.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// ParseRole accepts a role name regardless of case.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Identity is what authentication attaches to a request.
type Identity struct {
	ID   string
	Role Role
}

// CanManage reports whether the identity may create or modify a record
// holding target. Only a MASTER_ADMIN may touch MASTER_ADMIN records.
func (i Identity) CanManage(target Role) bool {
	if target == RoleMasterAdmin {
		return i.Role == RoleMasterAdmin
	}
	return true
}
