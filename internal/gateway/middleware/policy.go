package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"padron-electoral/internal/core/domain"
	"padron-electoral/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Policy is a declarative per-route authorization requirement evaluated by
// Authorize. Policy is data, not repeated role-string comparisons in every
// handler.
type Policy struct {
	kind        policyKind
	role        string
	roles       []string
	permissions []string
	ownerParam  string
}

type policyKind int

const (
	policyRole policyKind = iota
	policyAnyRole
	policyAnyPermission
	policyAllPermissions
	policyOwnerOrAdmin
)

// RequireRole permits only the named role
func RequireRole(role string) Policy {
	return Policy{kind: policyRole, role: role}
}

// RequireAnyRole permits any of the named roles
func RequireAnyRole(roles ...string) Policy {
	return Policy{kind: policyAnyRole, roles: roles}
}

// RequireAnyPermission permits a claim holding at least one listed permission
func RequireAnyPermission(permissions ...string) Policy {
	return Policy{kind: policyAnyPermission, permissions: permissions}
}

// RequireAllPermissions permits only a claim holding every listed permission
func RequireAllPermissions(permissions ...string) Policy {
	return Policy{kind: policyAllPermissions, permissions: permissions}
}

// OwnerOrAdmin permits the request when the named route parameter equals
// the acting user's id, or the acting user is an administrator.
func OwnerOrAdmin(param string) Policy {
	return Policy{kind: policyOwnerOrAdmin, ownerParam: param}
}

// Authorize enforces a policy against the claims attached by Authenticate.
// Unlike credential errors, 403 messages may enumerate what is missing.
func Authorize(p Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromCtx(c)
		if !ok {
			return response.Unauthorized(c, "Authentication required")
		}

		switch p.kind {
		case policyRole:
			if claims.Rol != p.role {
				return response.Forbidden(c, fmt.Sprintf("Access denied: role %q required", p.role))
			}

		case policyAnyRole:
			for _, role := range p.roles {
				if claims.Rol == role {
					return c.Next()
				}
			}
			return response.Forbidden(c, fmt.Sprintf("Access denied: one of these roles required: %s", strings.Join(p.roles, ", ")))

		case policyAnyPermission:
			for _, code := range p.permissions {
				if claims.HasPermission(code) {
					return c.Next()
				}
			}
			return response.Forbidden(c, fmt.Sprintf("Access denied: one of these permissions required: %s", strings.Join(p.permissions, ", ")))

		case policyAllPermissions:
			var missing []string
			for _, code := range p.permissions {
				if !claims.HasPermission(code) {
					missing = append(missing, code)
				}
			}
			if len(missing) > 0 {
				return response.Forbidden(c, fmt.Sprintf("Access denied: missing permissions: %s", strings.Join(missing, ", ")))
			}

		case policyOwnerOrAdmin:
			if claims.IsAdmin() {
				return c.Next()
			}
			id, err := strconv.ParseUint(c.Params(p.ownerParam), 10, 64)
			if err != nil || uint(id) != claims.ID {
				return response.Forbidden(c, "Access denied: only the resource owner or an administrator may access this resource")
			}
		}

		return c.Next()
	}
}

// AdminOnly is shorthand for the administrator role policy
func AdminOnly() fiber.Handler {
	return Authorize(RequireRole(domain.RoleAdministrador))
}
