package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if SEGNO_CONFIG is set
//  3. env (prefix SEGNO_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("SEGNO_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: SEGNO_OUT_PORT, SEGNO_TICKS_PER_SECOND, ...
	// Map env keys like SEGNO_OUT_PORT -> out_port (flat keys),
	// preserving underscores to match koanf tags on the struct.
	envProvider := env.Provider("SEGNO_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "segno_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if cfg.TicksPerSecond <= 0 {
		return nil, fmt.Errorf("%w: ticks_per_second must be positive", ErrInvalidConfig)
	}
	if cfg.Lookahead <= 0 {
		return nil, fmt.Errorf("%w: lookahead must be positive", ErrInvalidConfig)
	}
	if cfg.QuantizeGrid < 0 {
		return nil, fmt.Errorf("%w: quantize_grid must not be negative", ErrInvalidConfig)
	}
	if cfg.HumanizeTiming < 0 || cfg.HumanizeVelocity < 0 {
		return nil, fmt.Errorf("%w: humanize bounds must not be negative", ErrInvalidConfig)
	}
	if cfg.VelocityScale <= 0 {
		return nil, fmt.Errorf("%w: velocity_scale must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
