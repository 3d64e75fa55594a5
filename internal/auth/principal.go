// Package auth covers credentials, session tokens and role checks.
package auth

import (
	"context"

	"lendflow/internal/model"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID   int64      `json:"userId"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
}

// Is reports whether the caller holds role r.
func (p Principal) Is(r model.Role) bool { return p.Role == r }

type principalKey struct{}

// WithPrincipal stores p on ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the caller stored on ctx, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

var dashboards = map[model.Role]string{
	model.RoleAdmin:    "/admin/dashboard",
	model.RoleLender:   "/lender/dashboard",
	model.RoleBorrower: "/borrower/dashboard",
}

// DashboardPath is where a role lands after login.
func DashboardPath(r model.Role) string {
	if p, ok := dashboards[r]; ok {
		return p
	}
	return "/dashboard"
}

// HasAnyRole reports whether r is one of required. An empty list allows everyone.
func HasAnyRole(r model.Role, required ...model.Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, want := range required {
		if r == want {
			return true
		}
	}
	return false
}
