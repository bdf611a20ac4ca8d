// Package access holds the role model and the authorization engine.
//
// Roles are never compared directly at call sites. A Principal is reduced to
// a capability set once, and every check asks for a capability.
package access

import (
	"yamdb/internal/data/entity"

	"github.com/google/uuid"
)

// Principal is the identity attached to a request. The zero value is the
// anonymous caller.
type Principal struct {
	UserID      uuid.UUID
	Username    string
	Role        entity.Role
	IsSuperuser bool
}

// Anonymous returns the principal used for requests without credentials.
func Anonymous() Principal {
	return Principal{}
}

// FromUser builds a principal from the stored user record.
func FromUser(u *entity.User) Principal {
	if u == nil {
		return Anonymous()
	}
	return Principal{
		UserID:      u.ID,
		Username:    u.Username,
		Role:        u.Role,
		IsSuperuser: u.IsSuperuser,
	}
}

func (p Principal) IsAuthenticated() bool {
	return p.UserID != uuid.Nil
}

// Is reports whether p is the user with the given id. Always false for
// anonymous principals.
func (p Principal) Is(userID uuid.UUID) bool {
	return p.IsAuthenticated() && p.UserID == userID
}

// Has reports whether p holds capability c.
func (p Principal) Has(c Capability) bool {
	return Capabilities(p).Has(c)
}
