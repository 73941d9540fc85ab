package identity

import (
	"encoding/json"
	"strings"

	"github.com/sickfits/backend/internal/domain/shared"
)

// Permission is a single named capability
type Permission uint8

// The permission vocabulary. Each value occupies one bit of a PermissionSet.
const (
	PermissionAdmin Permission = 1 << iota
	PermissionUser
	PermissionItemCreate
	PermissionItemUpdate
	PermissionItemDelete
	PermissionPermissionUpdate
)

var permissionVocabulary = []struct {
	perm Permission
	name string
}{
	{PermissionAdmin, "ADMIN"},
	{PermissionUser, "USER"},
	{PermissionItemCreate, "ITEMCREATE"},
	{PermissionItemUpdate, "ITEMUPDATE"},
	{PermissionItemDelete, "ITEMDELETE"},
	{PermissionPermissionUpdate, "PERMISSIONUPDATE"},
}

// AllPermissionNames returns every capability name in vocabulary order
func AllPermissionNames() []string {
	names := make([]string, 0, len(permissionVocabulary))
	for _, p := range permissionVocabulary {
		names = append(names, p.name)
	}
	return names
}

// ParsePermission resolves a capability name (case-insensitive)
func ParsePermission(name string) (Permission, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for _, p := range permissionVocabulary {
		if p.name == upper {
			return p.perm, nil
		}
	}
	return 0, shared.NewDomainError(shared.CodeValidation, "Unknown permission: "+name)
}

// String returns the capability name
func (p Permission) String() string {
	for _, v := range permissionVocabulary {
		if v.perm == p {
			return v.name
		}
	}
	return "UNKNOWN"
}

// PermissionSet is a bounded set of capabilities stored as a bitset
type PermissionSet uint8

// NewPermissionSet builds a set from individual permissions
func NewPermissionSet(perms ...Permission) PermissionSet {
	var s PermissionSet
	for _, p := range perms {
		s |= PermissionSet(p)
	}
	return s
}

// DefaultPermissions is the set granted at signup
func DefaultPermissions() PermissionSet {
	return NewPermissionSet(PermissionUser)
}

// ParsePermissionSet builds a set from capability names. Duplicates collapse.
func ParsePermissionSet(names []string) (PermissionSet, error) {
	var s PermissionSet
	for _, name := range names {
		p, err := ParsePermission(name)
		if err != nil {
			return 0, err
		}
		s |= PermissionSet(p)
	}
	return s, nil
}

// Has reports whether p is in the set
func (s PermissionSet) Has(p Permission) bool {
	return s&PermissionSet(p) != 0
}

// Intersects reports whether the two sets share at least one capability
func (s PermissionSet) Intersects(other PermissionSet) bool {
	return s&other != 0
}

// IsEmpty reports whether the set holds no capability
func (s PermissionSet) IsEmpty() bool {
	return s == 0
}

// Names returns the capability names in vocabulary order
func (s PermissionSet) Names() []string {
	names := make([]string, 0, len(permissionVocabulary))
	for _, p := range permissionVocabulary {
		if s.Has(p.perm) {
			names = append(names, p.name)
		}
	}
	return names
}

// String joins the capability names with commas
func (s PermissionSet) String() string {
	return strings.Join(s.Names(), ",")
}

// ParsePermissionString is the inverse of String
func ParsePermissionString(value string) (PermissionSet, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	return ParsePermissionSet(strings.Split(value, ","))
}

// MarshalJSON encodes the set as a list of names
func (s PermissionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// UnmarshalJSON decodes a list of names
func (s *PermissionSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	parsed, err := ParsePermissionSet(names)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
