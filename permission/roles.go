package permission

import (
	"errors"
	"strings"
)

// Requirement is an immutable required-role list bound to a predicate.
//
// Requirement values are built once (usually when routes are registered) and
// are safe for concurrent use.
type Requirement struct {
	roles     []string
	predicate Predicate
}

// NewRequirement validates the predicate and role names and returns a Requirement.
//
// Duplicate role names are collapsed. Empty role names are rejected.
func NewRequirement(predicate Predicate, roles ...string) (Requirement, error) {
	if !predicate.Valid() {
		return Requirement{}, ErrUnknownPredicate
	}

	seen := make(map[string]struct{}, len(roles))
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		role = strings.TrimSpace(role)
		if role == "" {
			return Requirement{}, errors.New("role name empty")
		}
		if _, dup := seen[role]; dup {
			continue
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}

	return Requirement{roles: out, predicate: predicate}, nil
}

// Roles returns a copy of the required roles.
func (r Requirement) Roles() []string {
	out := make([]string, len(r.roles))
	copy(out, r.roles)
	return out
}

// Predicate returns the predicate the requirement was built with.
func (r Requirement) Predicate() Predicate {
	return r.predicate
}

// Satisfied reports whether have meets the requirement.
func (r Requirement) Satisfied(have []string) bool {
	return Match(have, r.roles, r.predicate)
}

// Match compares held roles with required roles. An empty required list is
// always satisfied. Role names are compared exactly. An invalid predicate
// never matches a non-empty requirement.
func Match(have, required []string, predicate Predicate) bool {
	if len(required) == 0 {
		return true
	}
	if len(have) == 0 {
		return false
	}

	held := make(map[string]struct{}, len(have))
	for _, role := range have {
		held[role] = struct{}{}
	}

	switch predicate {
	case All:
		for _, role := range required {
			if _, ok := held[role]; !ok {
				return false
			}
		}
		return true
	case Any:
		for _, role := range required {
			if _, ok := held[role]; ok {
				return true
			}
		}
		return false
	default:
		return false
	}
}
