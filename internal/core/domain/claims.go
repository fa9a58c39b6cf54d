package domain

// UserClaims is the identity a verified access token resolves to. The role
// and permission snapshot come from the token; name, email and active status
// come from the live user record so that deactivation takes effect before
// the token expires.
type UserClaims struct {
	ID       uint     `json:"id"`
	Username string   `json:"username"`
	FullName string   `json:"fullName"`
	Email    string   `json:"email"`
	Rol      string   `json:"rol"`
	Permisos []string `json:"permisos"`
	Active   bool     `json:"active"`
}

// HasPermission reports whether the snapshot contains the permission code.
func (uc *UserClaims) HasPermission(code string) bool {
	for _, p := range uc.Permisos {
		if p == code {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user carries the administrator role.
func (uc *UserClaims) IsAdmin() bool {
	return uc.Rol == RoleAdministrador
}

// Default role names. The seeder may extend these but the gateway policies
// rely on the administrator name being stable.
const (
	RoleAdministrador = "administrador"
	RoleConsultor     = "consultor"
	RoleEncargado     = "encargado_relevamiento"
)
