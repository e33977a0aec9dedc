package auth

// Role is a caller's access tier. Tiers are strictly ordered: each one
// inherits everything below it.
type Role string

const (
	RoleUser         Role = "user"
	RoleOrganisation Role = "organisation"
	RoleAdmin        Role = "admin"
)

// Permission names a gated capability.
type Permission string

const (
	PermCheck          Permission = "detection:check"
	PermReport         Permission = "reports:submit"
	PermBulkCheck      Permission = "detection:bulk"
	PermViewAnalytics  Permission = "analytics:read"
	PermManageRegistry Permission = "registry:manage"
)

// rolePermissions is the precomputed closure of the role hierarchy. Lookups
// at request time are a single map hit, never a hierarchy walk.
var rolePermissions = func() map[Role]map[Permission]bool {
	base := map[Role][]Permission{
		RoleUser:         {PermCheck, PermReport},
		RoleOrganisation: {PermBulkCheck, PermViewAnalytics},
		RoleAdmin:        {PermManageRegistry},
	}
	order := []Role{RoleUser, RoleOrganisation, RoleAdmin}

	closure := make(map[Role]map[Permission]bool, len(order))
	var inherited []Permission
	for _, role := range order {
		inherited = append(inherited, base[role]...)
		perms := make(map[Permission]bool, len(inherited))
		for _, p := range inherited {
			perms[p] = true
		}
		closure[role] = perms
	}
	return closure
}()

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Has reports whether the role grants the permission, directly or by
// inheritance.
func (r Role) Has(p Permission) bool {
	return rolePermissions[r][p]
}

// Quota returns the per-window detection quota for a role given the
// configured tier limits. A non-positive quota means unlimited.
func (r Role) Quota(userQuota, orgQuota int) int {
	switch r {
	case RoleOrganisation:
		return orgQuota
	case RoleAdmin:
		return 0
	default:
		return userQuota
	}
}
