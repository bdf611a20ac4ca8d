package access

import "yamdb/internal/data/entity"

type Capability uint8

const (
	CapRead Capability = 1 << iota
	CapWriteOwn
	CapManageSelf
	CapModerateContent
	CapManageCatalog
	CapManageUsers
)

var capabilityNames = map[Capability]string{
	CapRead:            "read",
	CapWriteOwn:        "write_own",
	CapManageSelf:      "manage_self",
	CapModerateContent: "moderate_content",
	CapManageCatalog:   "manage_catalog",
	CapManageUsers:     "manage_users",
}

func (c Capability) String() string {
	if name, ok := capabilityNames[c]; ok {
		return name
	}
	return "unknown"
}

// CapabilitySet is a bit set of capabilities.
type CapabilitySet uint8

func NewCapabilitySet(caps ...Capability) CapabilitySet {
	var s CapabilitySet
	for _, c := range caps {
		s |= CapabilitySet(c)
	}
	return s
}

func (s CapabilitySet) Has(c Capability) bool {
	return s&CapabilitySet(c) != 0
}

// Names lists the capabilities in s in declaration order.
func (s CapabilitySet) Names() []string {
	var names []string
	for c := CapRead; c <= CapManageUsers; c <<= 1 {
		if s.Has(c) {
			names = append(names, c.String())
		}
	}
	return names
}

var (
	anonymousCaps = NewCapabilitySet(CapRead)
	userCaps      = NewCapabilitySet(CapRead, CapWriteOwn, CapManageSelf)
	moderatorCaps = userCaps | NewCapabilitySet(CapModerateContent)
	adminCaps     = userCaps | NewCapabilitySet(CapModerateContent, CapManageCatalog, CapManageUsers)
	allCaps       = NewCapabilitySet(CapRead, CapWriteOwn, CapManageSelf, CapModerateContent, CapManageCatalog, CapManageUsers)
)

// Capabilities is total over every principal, anonymous included. A stored
// role that is not recognised gets the plain user set.
func Capabilities(p Principal) CapabilitySet {
	if !p.IsAuthenticated() {
		return anonymousCaps
	}
	if p.IsSuperuser {
		return allCaps
	}
	switch p.Role {
	case entity.RoleAdmin:
		return adminCaps
	case entity.RoleModerator:
		return moderatorCaps
	default:
		return userCaps
	}
}
