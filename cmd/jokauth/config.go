package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jokio/jokauth"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cliConfig is everything the commands read from flags, JOK_* environment
// variables and the optional config.yaml.
type cliConfig struct {
	AccountSeed          string `mapstructure:"account_seed"`
	AccountPublicKey     string `mapstructure:"account_public_key"`
	MarkerField          string `mapstructure:"marker_field"`
	RolesPath            string `mapstructure:"roles_path"`
	SubjectPath          string `mapstructure:"subject_path"`
	GlobalAuthentication bool   `mapstructure:"global_authentication"`
	BindPredicate        string `mapstructure:"bind_predicate"`
	LogLevel             string `mapstructure:"log_level"`
	LogFormat            string `mapstructure:"log_format"`
}

func initViper() *viper.Viper {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/jokauth/")

	// JOK_ACCOUNT_SEED, JOK_ROLES_PATH, ...
	v.SetEnvPrefix("JOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	def := jokauth.DefaultConfig()

	v.SetDefault("account_seed", "")
	v.SetDefault("account_public_key", "")
	v.SetDefault("marker_field", def.Claims.MarkerField)
	v.SetDefault("roles_path", def.Claims.RolesPath)
	v.SetDefault("subject_path", def.Claims.SubjectPath)
	v.SetDefault("global_authentication", def.Authorization.GlobalAuthentication)
	v.SetDefault("bind_predicate", def.Authorization.BindPredicate.String())
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")
}

func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.String("public-key", "", "Account public key to verify against (instead of JOK_ACCOUNT_SEED)")
	flags.String("roles-path", "", "Dotted claims path of the role list")
	flags.String("bind-predicate", "", "Role matching predicate (all, any)")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-format", "", "Log format (text, json)")

	_ = v.BindPFlag("account_public_key", flags.Lookup("public-key"))
	_ = v.BindPFlag("roles_path", flags.Lookup("roles-path"))
	_ = v.BindPFlag("bind_predicate", flags.Lookup("bind-predicate"))
	_ = v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = v.BindPFlag("log_format", flags.Lookup("log-format"))
}

func loadConfig(v *viper.Viper) (cliConfig, error) {
	var cfg cliConfig

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func (c cliConfig) verifierConfig() (jokauth.Config, error) {
	predicate, err := jokauth.ParseBindPredicate(c.BindPredicate)
	if err != nil {
		return jokauth.Config{}, err
	}

	cfg := jokauth.DefaultConfig()
	cfg.Key.Seed = c.AccountSeed
	cfg.Key.PublicKey = c.AccountPublicKey
	cfg.Claims.MarkerField = c.MarkerField
	cfg.Claims.RolesPath = c.RolesPath
	cfg.Claims.SubjectPath = c.SubjectPath
	cfg.Authorization.GlobalAuthentication = c.GlobalAuthentication
	cfg.Authorization.BindPredicate = predicate
	return cfg, nil
}

func (c cliConfig) logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(c.LogFormat) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", c.LogFormat)
	}
}

func (c cliConfig) buildVerifier(w io.Writer, configure ...func(*jokauth.Builder)) (*jokauth.Verifier, error) {
	cfg, err := c.verifierConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.logger(w)
	if err != nil {
		return nil, err
	}

	b := jokauth.New().WithConfig(cfg).WithLogger(logger)
	for _, fn := range configure {
		fn(b)
	}
	return b.Build()
}
