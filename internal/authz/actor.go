// Package authz centralizes the role/permission rules so authorization is
// auditable in one place instead of scattered per-handler checks.
package authz

// Closed role set.
const (
	RoleUser   = "user"
	RoleBarber = "barber"
	RoleAdmin  = "admin"
)

// Fine-grained capabilities carried in the session token.
const (
	PermCreateAppointment  = "create_appointment"
	PermUpdateAppointments = "update_appointments"
	PermViewAppointments   = "view_appointments"
)

// Actor is the authenticated caller as supplied by the session layer. The
// core trusts it as given and never re-validates credentials.
type Actor struct {
	ID          string
	Roles       []string
	Permissions []string
}

func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (a Actor) HasPermission(perm string) bool {
	for _, p := range a.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

func (a Actor) IsAdmin() bool {
	return a.HasRole(RoleAdmin)
}

// IsBarberWith reports whether the actor holds the barber role together
// with the given capability.
func (a Actor) IsBarberWith(perm string) bool {
	return a.HasRole(RoleBarber) && a.HasPermission(perm)
}
