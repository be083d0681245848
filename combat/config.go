package combat

import (
	"errors"
	"fmt"
)

// Config holds the commander's tuning. Field tags match the viper keys
// under `combat:` in the config file.
type Config struct {
	// ScoutDefenseRadius of 0 disables the scout-defense squad.
	ScoutDefenseRadius float64 `mapstructure:"scout_defense_radius"`
	// WorkersDefendRush lets base defense pull workers against an early
	// light-melee rush or a building rush even while aggressive.
	WorkersDefendRush bool `mapstructure:"workers_defend_rush"`

	ReconMaxWeight     int     `mapstructure:"recon_max_weight"`
	ReconTargetTimeout int     `mapstructure:"recon_target_timeout"`
	ReconRadius        float64 `mapstructure:"recon_radius"`

	AttackRadius            float64 `mapstructure:"attack_radius"`
	DefensivePositionRadius float64 `mapstructure:"defensive_position_radius"`
	RegionDefenseRadius     float64 `mapstructure:"region_defense_radius"`
	DropRadius              float64 `mapstructure:"drop_radius"`

	PolicyPeriod int `mapstructure:"policy_period"`
	PolicyOffset int `mapstructure:"policy_offset"`
	ScanOffset   int `mapstructure:"scan_offset"`

	// DropFilter is an expr predicate over AgentEnv selecting units worth
	// putting in a transport.
	DropFilter string `mapstructure:"drop_filter"`

	Seed uint64 `mapstructure:"seed"`
}

func DefaultConfig() Config {
	return Config{
		ScoutDefenseRadius:      600,
		ReconMaxWeight:          12,
		ReconTargetTimeout:      40 * 24,
		ReconRadius:             400,
		AttackRadius:            800,
		DefensivePositionRadius: 400,
		RegionDefenseRadius:     32 * 25,
		DropRadius:              300,
		PolicyPeriod:            8,
		PolicyOffset:            1,
		ScanOffset:              2,
		DropFilter:              `Category in ["cloaked_melee", "raider"]`,
	}
}

// Validate reports every out-of-range setting at once.
func (c Config) Validate() error {
	var errs []error
	for _, f := range []struct {
		key string
		v   float64
	}{
		{"scout_defense_radius", c.ScoutDefenseRadius},
		{"recon_radius", c.ReconRadius},
		{"attack_radius", c.AttackRadius},
		{"defensive_position_radius", c.DefensivePositionRadius},
		{"region_defense_radius", c.RegionDefenseRadius},
		{"drop_radius", c.DropRadius},
		{"recon_max_weight", float64(c.ReconMaxWeight)},
		{"recon_target_timeout", float64(c.ReconTargetTimeout)},
	} {
		if f.v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", f.key))
		}
	}
	if c.PolicyPeriod <= 0 {
		errs = append(errs, fmt.Errorf("policy_period must be positive, got %d", c.PolicyPeriod))
	} else {
		if c.PolicyOffset < 0 || c.PolicyOffset >= c.PolicyPeriod {
			errs = append(errs, fmt.Errorf("policy_offset %d outside [0,%d)", c.PolicyOffset, c.PolicyPeriod))
		}
		if c.ScanOffset < 0 || c.ScanOffset >= 4 {
			errs = append(errs, fmt.Errorf("scan_offset %d outside [0,4)", c.ScanOffset))
		}
	}
	if _, err := NewAgentFilter(c.DropFilter); err != nil {
		errs = append(errs, fmt.Errorf("drop_filter: %w", err))
	}
	return errors.Join(errs...)
}
