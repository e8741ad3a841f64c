package domain

// Role is the trust tier of a marketplace user.
type Role string

const (
	RoleStudent         Role = "student"
	RoleAgent           Role = "agent"
	RoleOwner           Role = "owner"
	RoleServiceProvider Role = "service-provider"
	RoleAdmin           Role = "admin"
)

// Actor identifies who is requesting a transition.
type Actor struct {
	ID   string
	Role Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
