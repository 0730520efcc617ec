package jokauth

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jokio/jokauth/internal/audit"
	"github.com/jokio/jokauth/jwt"
)

// Builder assembles a Verifier.
//
// Builder instances are configured during initialization and used once.
type Builder struct {
	config    Config
	logger    *slog.Logger
	auditSink AuditSink

	built bool
}

// New returns a Builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSeed sets the nkeys seed the verification key is derived from.
func (b *Builder) WithSeed(seed string) *Builder {
	b.config.Key.Seed = seed
	return b
}

// WithPublicKey sets the encoded nkeys public key tokens are verified against.
func (b *Builder) WithPublicKey(publicKey string) *Builder {
	b.config.Key.PublicKey = publicKey
	return b
}

// WithRolesPath sets the dotted claims path of the role list.
func (b *Builder) WithRolesPath(path string) *Builder {
	b.config.Claims.RolesPath = path
	return b
}

// WithGlobalAuthentication makes a valid token mandatory for every request
// guarded by the middleware package.
func (b *Builder) WithGlobalAuthentication(enabled bool) *Builder {
	b.config.Authorization.GlobalAuthentication = enabled
	return b
}

// WithBindPredicate sets how required roles are matched.
func (b *Builder) WithBindPredicate(p BindPredicate) *Builder {
	b.config.Authorization.BindPredicate = p
	return b
}

// WithLogger sets the logger rejected tokens are reported to. The default is
// slog.Default().
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithAuditSink enables audit events and sends them to sink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = sink != nil
	return b
}

// WithMetricsEnabled toggles the decode counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the decode latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration, derives the verification key and returns
// the Verifier. The seed is not retained.
//
// Build returns errors wrapping ErrKeyRequired, ErrInvalidConfig or
// ErrInvalidSeed. A Builder can be built only once.
func (b *Builder) Build() (*Verifier, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// -------- VERIFICATION KEY --------
	key, err := buildKey(cfg.Key)
	if err != nil {
		return nil, err
	}
	cfg.Key.Seed = ""
	cfg.Key.PublicKey = key.PublicKey()

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	v := &Verifier{
		config:  cfg,
		key:     key,
		metrics: NewMetrics(cfg.Metrics),
		logger:  logger,
	}
	v.audit = audit.NewDispatcher(audit.Config{
		Enabled:    cfg.Audit.Enabled,
		BufferSize: cfg.Audit.BufferSize,
		DropIfFull: cfg.Audit.DropIfFull,
	}, b.auditSink)

	b.built = true
	b.config.Key.Seed = ""

	return v, nil
}

func buildKey(kc KeyConfig) (*jwt.VerificationKey, error) {
	if kc.Seed == "" {
		key, err := jwt.NewVerificationKeyFromPublic(kc.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("%w: public key: %w", ErrInvalidSeed, err)
		}
		return key, nil
	}

	key, err := jwt.NewVerificationKeyFromSeed(kc.Seed)
	if err != nil {
		return nil, fmt.Errorf("%w: seed: %w", ErrInvalidSeed, err)
	}
	if kc.PublicKey != "" && kc.PublicKey != key.PublicKey() {
		return nil, fmt.Errorf("%w: seed does not match configured public key", ErrInvalidSeed)
	}
	return key, nil
}
