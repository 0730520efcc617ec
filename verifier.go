package jokauth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jokio/jokauth/internal/audit"
	"github.com/jokio/jokauth/jwt"
)

// Verifier checks bearer tokens against one verification key.
//
// A Verifier is built once with [Builder.Build] and is read-only afterwards;
// all methods are safe for concurrent use.
type Verifier struct {
	config  Config
	key     *jwt.VerificationKey
	metrics *Metrics
	audit   *audit.Dispatcher
	logger  *slog.Logger
}

// Close stops the audit dispatcher after delivering queued events.
func (v *Verifier) Close() {
	if v == nil {
		return
	}
	v.audit.Close()
}

// AuditDropped returns how many audit events were dropped because the
// dispatcher queue was full.
func (v *Verifier) AuditDropped() uint64 {
	if v == nil {
		return 0
	}
	return v.audit.Dropped()
}

// MetricsSnapshot returns the current decode counters.
func (v *Verifier) MetricsSnapshot() MetricsSnapshot {
	if v == nil || v.metrics == nil {
		return emptySnapshot()
	}
	return v.metrics.Snapshot()
}

// Metrics returns the live counters, for exporters.
func (v *Verifier) Metrics() *Metrics {
	if v == nil {
		return nil
	}
	return v.metrics
}

/*
====================================
DECODE
====================================
*/

// Verify checks token and returns its claims.
//
// The signature must verify over the encoded payload segment under the
// Verifier's key, the payload must be a UTF-8 JSON object, and the claims must
// carry the configured marker field. Every failure is a *VerifyError whose Kind
// says which check rejected the token. Verify never panics.
//
// ctx is not consulted; verification is CPU-bound.
func (v *Verifier) Verify(ctx context.Context, token string) (Claims, error) {
	claims, _, err := v.verify(token)
	return claims, err
}

func (v *Verifier) verify(token string) (claims Claims, raw []byte, err error) {
	if v == nil || v.key == nil {
		return nil, nil, newVerifyError(FailureInternal, ErrVerifierNotReady)
	}

	defer func() {
		if r := recover(); r != nil {
			claims, raw = nil, nil
			err = newVerifyError(FailureInternal, fmt.Errorf("panic during verification: %v", r))
		}
	}()

	parsed, perr := jwt.Parse(v.key, token)
	if perr != nil {
		return nil, nil, classifyParseError(perr)
	}

	claims = Claims(parsed.Claims)
	if !hasMarker(claims, v.config.Claims.MarkerField, v.config.Claims.MarkerPolicy) {
		return nil, nil, newVerifyError(FailureWrongNamespace, fmt.Errorf("claims field %q missing or empty", v.config.Claims.MarkerField))
	}

	return claims, parsed.RawClaims, nil
}

// Decode is the fail-closed boundary: it returns the claims of a valid token,
// or nil and false for anything else. Failures are logged, counted and audited;
// the caller is never told why a token was rejected.
func (v *Verifier) Decode(ctx context.Context, token string) (Claims, bool) {
	claims, _, ok := v.decode(ctx, token)
	return claims, ok
}

func (v *Verifier) decode(ctx context.Context, token string) (Claims, []byte, bool) {
	if v == nil || v.key == nil {
		return nil, nil, false
	}
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	claims, raw, err := v.verify(token)
	v.metrics.Observe(MetricDecodeLatency, time.Since(start))

	kind := FailureKindOf(err)
	v.metrics.Inc(failureMetric(kind))

	if err != nil {
		v.logger.LogAttrs(ctx, slog.LevelWarn, "jokauth: token rejected",
			slog.String("kind", kind.String()),
			slog.String("error", err.Error()),
		)
		v.emitDecodeAudit(ctx, nil, kind)
		return nil, nil, false
	}

	v.emitDecodeAudit(ctx, claims, FailureNone)
	return claims, raw, true
}

// DecodeAs decodes token like [Verifier.Decode] and unmarshals the verified
// payload into a T. A payload that does not fit T is reported as absent.
func DecodeAs[T any](ctx context.Context, v *Verifier, token string) (*T, bool) {
	_, raw, ok := v.decode(ctx, token)
	if !ok {
		return nil, false
	}

	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		v.rejectShape(ctx, err)
		return nil, false
	}
	return out, true
}

func (v *Verifier) rejectShape(ctx context.Context, err error) {
	v.metrics.Inc(MetricDecodeShapeMismatch)
	v.logger.LogAttrs(ctx, slog.LevelWarn, "jokauth: claims do not match target type",
		slog.String("error", err.Error()),
	)
}

/*
====================================
CLAIM ACCESSORS
====================================
*/

// Roles returns the role list at the configured roles path.
func (v *Verifier) Roles(claims Claims) []string {
	if v == nil {
		return nil
	}
	return claims.Strings(v.config.Claims.RolesPath)
}

// Subject returns the subject identifier at the configured subject path.
func (v *Verifier) Subject(claims Claims) string {
	if v == nil || v.config.Claims.SubjectPath == "" {
		return ""
	}
	s, _ := claims.String(v.config.Claims.SubjectPath)
	return s
}

/*
====================================
CONFIG ACCESSORS
====================================
*/

// RolesPath returns the dotted claims path of the role list.
func (v *Verifier) RolesPath() string {
	if v == nil {
		return ""
	}
	return v.config.Claims.RolesPath
}

// SubjectPath returns the dotted claims path of the subject identifier.
func (v *Verifier) SubjectPath() string {
	if v == nil {
		return ""
	}
	return v.config.Claims.SubjectPath
}

// GlobalAuthentication reports whether every request must carry a valid token.
func (v *Verifier) GlobalAuthentication() bool {
	return v != nil && v.config.Authorization.GlobalAuthentication
}

// BindPredicate returns how required roles are matched.
func (v *Verifier) BindPredicate() BindPredicate {
	if v == nil {
		return BindAll
	}
	return v.config.Authorization.BindPredicate
}

// PublicKey returns the encoded nkeys public key tokens are verified against.
func (v *Verifier) PublicKey() string {
	if v == nil {
		return ""
	}
	return v.key.PublicKey()
}

// Config returns a copy of the Verifier's configuration with the seed removed.
func (v *Verifier) Config() Config {
	if v == nil {
		return Config{}
	}
	cfg := v.config
	cfg.Key.Seed = ""
	return cfg
}
