package jokauth

import (
	"fmt"
	"strings"

	"github.com/jokio/jokauth/permission"
)

// Config holds everything a Verifier needs at construction time.
//
// Config instances are cloned by [Builder.Build] and treated as immutable afterwards.
type Config struct {
	Key           KeyConfig
	Claims        ClaimsConfig
	Authorization AuthorizationConfig
	Audit         AuditConfig
	Metrics       MetricsConfig
}

/*
====================================
KEY CONFIG
====================================
*/

// KeyConfig names the key material the verification key is derived from.
//
// Seed is an nkeys seed ("SA..."); PublicKey is an encoded nkeys public key
// ("A...", "U..."). At least one is required. When both are set they must
// describe the same key.
type KeyConfig struct {
	Seed      string
	PublicKey string
}

/*
====================================
CLAIMS CONFIG
====================================
*/

// MarkerPolicy decides what counts as a present marker field.
type MarkerPolicy int

const (
	// MarkerTruthy accepts any value other than null, false, 0 and "".
	MarkerTruthy MarkerPolicy = iota
	// MarkerNonEmptyObject accepts only a JSON object with at least one key.
	MarkerNonEmptyObject
)

// String returns the policy name used in security reports.
func (p MarkerPolicy) String() string {
	switch p {
	case MarkerTruthy:
		return "truthy"
	case MarkerNonEmptyObject:
		return "non_empty_object"
	default:
		return fmt.Sprintf("unknown(%d)", int(p))
	}
}

// ClaimsConfig describes the claim namespace of this system.
type ClaimsConfig struct {
	// MarkerField is the top-level claims key that must be present.
	MarkerField  string
	MarkerPolicy MarkerPolicy
	// RolesPath is the dotted path of the role list, e.g. "jok.roles".
	RolesPath string
	// SubjectPath is the dotted path of the subject identifier, e.g. "jok.userId".
	SubjectPath string
}

/*
====================================
AUTHORIZATION CONFIG
====================================
*/

// BindPredicate is how a caller's roles are compared with a required-role list.
type BindPredicate = permission.Predicate

const (
	// BindAll requires every listed role.
	BindAll = permission.All
	// BindAny requires at least one listed role.
	BindAny = permission.Any
)

// ParseBindPredicate parses "all" or "any". The empty string means "all".
func ParseBindPredicate(s string) (BindPredicate, error) {
	p, err := permission.ParsePredicate(s)
	if err != nil {
		return "", fmt.Errorf("%w: bind predicate %q: %w", ErrInvalidConfig, s, err)
	}
	return p, nil
}

// AuthorizationConfig is carried by the Verifier for downstream consumers.
// Decode never evaluates it.
type AuthorizationConfig struct {
	// GlobalAuthentication makes a valid token mandatory for every request,
	// including otherwise unprotected operations.
	GlobalAuthentication bool
	BindPredicate        BindPredicate
}

/*
====================================
AUDIT + METRICS CONFIG
====================================
*/

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls in-process counters and the decode latency histogram.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the configuration of the reference deployment:
// marker "jok", roles at "jok.roles", subject at "jok.userId", predicate "all".
// Key material must still be supplied.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Claims: ClaimsConfig{
			MarkerField:  "jok",
			MarkerPolicy: MarkerTruthy,
			RolesPath:    "jok.roles",
			SubjectPath:  "jok.userId",
		},
		Authorization: AuthorizationConfig{
			GlobalAuthentication: false,
			BindPredicate:        BindAll,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Key.Seed = strings.TrimSpace(cfg.Key.Seed)
	out.Key.PublicKey = strings.TrimSpace(cfg.Key.PublicKey)
	out.Claims.MarkerField = strings.TrimSpace(cfg.Claims.MarkerField)
	out.Claims.RolesPath = strings.TrimSpace(cfg.Claims.RolesPath)
	out.Claims.SubjectPath = strings.TrimSpace(cfg.Claims.SubjectPath)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks the configuration for values a Verifier cannot run with.
//
// Validate returns an error wrapping ErrKeyRequired or ErrInvalidConfig.
func (c *Config) Validate() error {
	// Key
	if strings.TrimSpace(c.Key.Seed) == "" && strings.TrimSpace(c.Key.PublicKey) == "" {
		return ErrKeyRequired
	}

	// Claims
	marker := strings.TrimSpace(c.Claims.MarkerField)
	if marker == "" {
		return fmt.Errorf("%w: Claims MarkerField must not be empty", ErrInvalidConfig)
	}
	if strings.Contains(marker, ".") {
		return fmt.Errorf("%w: Claims MarkerField must be a top-level key", ErrInvalidConfig)
	}
	if c.Claims.MarkerPolicy != MarkerTruthy && c.Claims.MarkerPolicy != MarkerNonEmptyObject {
		return fmt.Errorf("%w: unsupported Claims MarkerPolicy", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Claims.RolesPath) == "" {
		return fmt.Errorf("%w: Claims RolesPath must not be empty", ErrInvalidConfig)
	}
	if !validPath(c.Claims.RolesPath) {
		return fmt.Errorf("%w: Claims RolesPath %q has an empty segment", ErrInvalidConfig, c.Claims.RolesPath)
	}
	if c.Claims.SubjectPath != "" && !validPath(c.Claims.SubjectPath) {
		return fmt.Errorf("%w: Claims SubjectPath %q has an empty segment", ErrInvalidConfig, c.Claims.SubjectPath)
	}

	// Authorization
	if !c.Authorization.BindPredicate.Valid() {
		return fmt.Errorf("%w: unsupported Authorization BindPredicate %q", ErrInvalidConfig, c.Authorization.BindPredicate)
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return fmt.Errorf("%w: Audit BufferSize must be > 0 when audit is enabled", ErrInvalidConfig)
	}

	// Metrics
	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return fmt.Errorf("%w: Metrics EnableLatencyHistograms requires Metrics Enabled", ErrInvalidConfig)
	}

	return nil
}

func validPath(path string) bool {
	path = strings.TrimSpace(path)
	if path == "" {
		return false
	}
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return false
		}
	}
	return true
}
