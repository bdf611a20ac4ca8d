package access

import (
	"yamdb/internal/data/entity"

	"github.com/google/uuid"
)

type Operation string

const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

func (o Operation) IsRead() bool {
	return o == OpRead
}

type ResourceClass string

const (
	ClassCategory ResourceClass = "category"
	ClassGenre    ResourceClass = "genre"
	ClassTitle    ResourceClass = "title"
	ClassReview   ResourceClass = "review"
	ClassComment  ResourceClass = "comment"
	ClassIdentity ResourceClass = "identity"
)

// Resource is a loaded object an instance-level check runs against.
type Resource interface {
	Class() ResourceClass
	// OwnerID is the author for reviews and comments and the user itself for
	// identities. Catalog objects return uuid.Nil.
	OwnerID() uuid.UUID
}

// CanAccess is the collection-level check. It runs before any object is
// loaded, so for reviews and comments it only asks whether the caller may
// write content at all; ownership is decided by CanAccessInstance.
func CanAccess(p Principal, op Operation, class ResourceClass) bool {
	caps := Capabilities(p)

	switch class {
	case ClassIdentity:
		if caps.Has(CapManageUsers) {
			return true
		}
		// read own / update own; listings are narrowed to the caller
		return (op == OpRead || op == OpUpdate) && caps.Has(CapManageSelf)
	case ClassCategory, ClassGenre, ClassTitle:
		if op.IsRead() {
			return true
		}
		return caps.Has(CapManageCatalog)
	case ClassReview, ClassComment:
		if op.IsRead() {
			return true
		}
		return caps.Has(CapWriteOwn)
	}
	return false
}

// CanAccessInstance is the object-level check.
func CanAccessInstance(p Principal, op Operation, res Resource) bool {
	if res == nil {
		return false
	}
	caps := Capabilities(p)

	switch res.Class() {
	case ClassReview, ClassComment:
		if op.IsRead() {
			return true
		}
		return caps.Has(CapModerateContent) || (caps.Has(CapWriteOwn) && p.Is(res.OwnerID()))
	case ClassIdentity:
		if caps.Has(CapManageUsers) {
			return true
		}
		return caps.Has(CapManageSelf) && p.Is(res.OwnerID())
	case ClassCategory, ClassGenre, ClassTitle:
		if op.IsRead() {
			return true
		}
		return caps.Has(CapManageCatalog)
	}
	return false
}

// CanAssignRole reports whether p may change the role of a user record.
// Self-service updates from anyone else have the role field dropped.
func CanAssignRole(p Principal) bool {
	return Capabilities(p).Has(CapManageUsers)
}

// FilterSelfUpdate returns the role a patch may apply. Callers without
// manage_users get nil, so a self-service update keeps the stored role.
func FilterSelfUpdate(p Principal, role *entity.Role) *entity.Role {
	if role == nil || !CanAssignRole(p) {
		return nil
	}
	return role
}
