package authz

import (
	"sort"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const rbacModel = `
[request_definition]
r = sub, obj

[policy_definition]
p = sub, obj

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj
`

// RoleHierarchy answers "which roles does role X act as" from the fixed
// hierarchy. allowed_roles in issued tokens and the RequireRole middleware
// both derive from here.
type RoleHierarchy struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewRoleHierarchy() (*RoleHierarchy, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, role := range AllRoles() {
		if _, err := e.AddPolicy(role, role); err != nil {
			return nil, err
		}
	}
	for _, edge := range hierarchyEdges {
		if _, err := e.AddGroupingPolicy(edge[0], edge[1]); err != nil {
			return nil, err
		}
	}

	return &RoleHierarchy{enforcer: e}, nil
}

// AllowedRoles returns the role itself plus everything it inherits,
// sorted for stable token claims.
func (h *RoleHierarchy) AllowedRoles(role string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	implicit, err := h.enforcer.GetImplicitRolesForUser(role)
	if err != nil {
		return []string{role}
	}

	roles := append([]string{role}, implicit...)
	sort.Strings(roles)
	return roles
}

// Allows reports whether a holder of role may act as needed.
func (h *RoleHierarchy) Allows(role, needed string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	ok, err := h.enforcer.Enforce(role, needed)
	if err != nil {
		return false
	}
	return ok
}
