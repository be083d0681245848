// Package config loads vimy-squads settings from defaults, an optional YAML
// file, VIMY_SQUADS_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/nstehr/vimy/vimy-squads/combat"
	"github.com/spf13/viper"
)

const (
	EnvPrefix     = "VIMY_SQUADS"
	DefaultSocket = "/tmp/vimy-squads.sock"
	fileName      = "vimy-squads"
)

// ErrInvalid wraps every validation failure returned by Load.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Socket  string        `mapstructure:"socket"`
	Log     LogConfig     `mapstructure:"log"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Combat  combat.Config `mapstructure:"combat"`
}

type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
	// Format is text or json.
	Format string `mapstructure:"format"`
}

type CatalogConfig struct {
	// Path to a YAML type catalog. Empty uses the built-in one.
	Path string `mapstructure:"path"`
}

func Default() *Config {
	return &Config{
		Socket: DefaultSocket,
		Log:    LogConfig{Level: "info", Format: "text"},
		Combat: combat.DefaultConfig(),
	}
}

// SetDefaults registers every key so environment variables can override
// keys that appear in no file.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("socket", d.Socket)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("catalog.path", d.Catalog.Path)

	c := d.Combat
	v.SetDefault("combat.scout_defense_radius", c.ScoutDefenseRadius)
	v.SetDefault("combat.workers_defend_rush", c.WorkersDefendRush)
	v.SetDefault("combat.recon_max_weight", c.ReconMaxWeight)
	v.SetDefault("combat.recon_target_timeout", c.ReconTargetTimeout)
	v.SetDefault("combat.recon_radius", c.ReconRadius)
	v.SetDefault("combat.attack_radius", c.AttackRadius)
	v.SetDefault("combat.defensive_position_radius", c.DefensivePositionRadius)
	v.SetDefault("combat.region_defense_radius", c.RegionDefenseRadius)
	v.SetDefault("combat.drop_radius", c.DropRadius)
	v.SetDefault("combat.policy_period", c.PolicyPeriod)
	v.SetDefault("combat.policy_offset", c.PolicyOffset)
	v.SetDefault("combat.scan_offset", c.ScanOffset)
	v.SetDefault("combat.drop_filter", c.DropFilter)
	v.SetDefault("combat.seed", c.Seed)
}

// Load reads the configuration into a Config and validates it. file may be
// empty, in which case ./vimy-squads.yaml is used if present.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)

	// VIMY_SQUADS_COMBAT_ATTACK_RADIUS for combat.attack_radius
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func ValidLogLevels() []string  { return []string{"debug", "info", "warn", "error"} }
func ValidLogFormats() []string { return []string{"text", "json"} }

func (c *Config) Validate() error {
	var errs []error
	if c.Socket == "" {
		errs = append(errs, errors.New("socket must be set"))
	}
	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("log.level %q not one of %v", c.Log.Level, ValidLogLevels()))
	}
	if !slices.Contains(ValidLogFormats(), strings.ToLower(c.Log.Format)) {
		errs = append(errs, fmt.Errorf("log.format %q not one of %v", c.Log.Format, ValidLogFormats()))
	}
	if err := c.Combat.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("combat: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

func (l LogConfig) level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// NewLogger builds the process logger described by l.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.level()}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
