package model

// User is a registered account. The password is kept in clear text so the
// recovery screen can show it back.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Identity is the authenticated view of a user, without the password.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// Identity returns the reduced identity of u.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username, Name: u.Name, Role: u.Role}
}

// Roles.
const (
	RoleAdmin      = "admin"
	RoleTechnician = "tecnico"
)

// ValidRole reports whether role is a known role.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleTechnician
}

// RoleAtLeast checks if role meets or exceeds the minimum required role.
func RoleAtLeast(role, minimum string) bool {
	levels := map[string]int{
		RoleAdmin:      2,
		RoleTechnician: 1,
	}
	return levels[role] >= levels[minimum] && levels[minimum] > 0
}

// RoleName returns the display name of a role.
func RoleName(role string) string {
	switch role {
	case RoleAdmin:
		return "Administrador"
	case RoleTechnician:
		return "Técnico"
	default:
		return role
	}
}
