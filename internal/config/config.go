package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

var ErrInvalidConfig = errors.New("invalid config")

// ServerConfig is the resolved configuration of the HTTP tool server.
type ServerConfig struct {
	Name            string   `validate:"required"`
	Addr            string   `validate:"required,hostname_port"`
	CorsOrigins     []string `validate:"dive,required"`
	Tools           []string `validate:"dive,required"`
	MaxInputBytes   int      `validate:"gte=1024,lte=67108864"`
	RateLimit       RateLimitConfig
	ShutdownTimeout time.Duration `validate:"gte=0"`
}

// RateLimitConfig drives the global token bucket. A zero rate disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `validate:"gte=0"`
	Burst             int     `validate:"gte=0,required_with=RequestsPerSecond"`
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Name:          "devkit",
		Addr:          "127.0.0.1:8080",
		CorsOrigins:   []string{"http://localhost:3000"},
		Tools:         []string{},
		MaxInputBytes: 1 << 20,
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 20,
			Burst:             40,
		},
		ShutdownTimeout: 10 * time.Second,
	}
}

type fileConfig struct {
	Name            string   `toml:"name"`
	Addr            string   `toml:"addr"`
	CorsOrigins     []string `toml:"cors_origins"`
	Tools           []string `toml:"tools"`
	MaxInputBytes   int      `toml:"max_input_bytes"`
	ShutdownTimeout string   `toml:"shutdown_timeout"`
	RateLimit       struct {
		RequestsPerSecond float64 `toml:"requests_per_second"`
		Burst             int     `toml:"burst"`
	} `toml:"rate_limit"`
}

// LoadServerConfig overlays the keys present in the TOML file at path onto
// DefaultServerConfig and validates the result.
func LoadServerConfig(path string) (ServerConfig, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	return resolve(raw, meta)
}

// DecodeServerConfig is LoadServerConfig for in-memory TOML.
func DecodeServerConfig(data string) (ServerConfig, error) {
	var raw fileConfig
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("config parse failed: %w", err)
	}
	return resolve(raw, meta)
}

func resolve(raw fileConfig, meta toml.MetaData) (ServerConfig, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return ServerConfig{}, fmt.Errorf("%w: unknown keys %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}

	cfg := DefaultServerConfig()
	if meta.IsDefined("name") {
		cfg.Name = strings.TrimSpace(raw.Name)
	}
	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = normalizeList(raw.CorsOrigins)
	}
	if meta.IsDefined("tools") {
		cfg.Tools = normalizeList(raw.Tools)
	}
	if meta.IsDefined("max_input_bytes") {
		cfg.MaxInputBytes = raw.MaxInputBytes
	}
	if meta.IsDefined("shutdown_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ShutdownTimeout))
		if err != nil {
			return ServerConfig{}, fmt.Errorf("%w: parse shutdown_timeout: %v", ErrInvalidConfig, err)
		}
		cfg.ShutdownTimeout = d
	}
	if meta.IsDefined("rate_limit", "requests_per_second") {
		cfg.RateLimit.RequestsPerSecond = raw.RateLimit.RequestsPerSecond
	}
	if meta.IsDefined("rate_limit", "burst") {
		cfg.RateLimit.Burst = raw.RateLimit.Burst
	}

	if err := ValidateServerConfig(cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateServerConfig checks struct constraints and reports every failing
// field in one error.
func ValidateServerConfig(cfg ServerConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		msgs = append(msgs, fmt.Sprintf("%s fails %s (got %v)", fe.Namespace(), rule, fe.Value()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
