package permission

import (
	"errors"
	"strings"
)

// Predicate selects how a caller's roles are compared with a required-role list.
type Predicate string

const (
	// All requires the caller to hold every required role.
	All Predicate = "all"
	// Any requires the caller to hold at least one required role.
	Any Predicate = "any"
)

// ErrUnknownPredicate is returned by ParsePredicate for values other than "all" and "any".
var ErrUnknownPredicate = errors.New("unknown bind predicate")

// ParsePredicate parses "all" or "any", case-insensitively. The empty string
// yields All.
func ParsePredicate(s string) (Predicate, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(All):
		return All, nil
	case string(Any):
		return Any, nil
	default:
		return "", ErrUnknownPredicate
	}
}

// Valid reports whether p is All or Any.
func (p Predicate) Valid() bool {
	return p == All || p == Any
}

func (p Predicate) String() string {
	return string(p)
}
