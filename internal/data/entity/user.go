package entity

import "time"

// Role is the role stored on a user record. Anonymous callers have no role.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the stored roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	Base
	Username    string     `db:"username"`
	Email       string     `db:"email"`
	Role        Role       `db:"role"`
	IsSuperuser bool       `db:"is_superuser"`
	Bio         string     `db:"bio"`
	FirstName   string     `db:"first_name"`
	LastName    string     `db:"last_name"`
	LastLoginAt *time.Time `db:"last_login_at"`
}
