package entity

import "strings"

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

// SelfAlias is the path segment standing in for the caller's own user record.
const SelfAlias = "me"

func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// IsReservedUsername reports whether name collides with the self alias.
func IsReservedUsername(name string) bool {
	return strings.EqualFold(name, SelfAlias)
}

type User struct {
	Base
	Username         string   `db:"username"`
	Email            string   `db:"email"`
	FirstName        string   `db:"first_name"`
	LastName         string   `db:"last_name"`
	Bio              *string  `db:"bio"`
	Role             UserRole `db:"role"`
	IsSuperuser      bool     `db:"is_superuser"`
	ConfirmationCode string   `db:"confirmation_code"`
}
