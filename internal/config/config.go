// Package config provides Viper-based configuration loading for streetfight.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cory-johannsen/streetfight/internal/game/dice"
)

// EnvPrefix prefixes every environment override, e.g. STREETFIGHT_FIGHT_TURNS.
const EnvPrefix = "STREETFIGHT"

// FightConfig holds the fight itself.
type FightConfig struct {
	// Turns is the maximum number of turns played.
	Turns int `mapstructure:"turns"`
	// Names are the fighters, in order. Empty falls back to the roster or the defaults.
	Names []string `mapstructure:"names"`
	// Shuffle randomizes the spawn order.
	Shuffle bool `mapstructure:"shuffle"`
	// Seed selects a reproducible source; 0 means crypto randomness.
	Seed uint64 `mapstructure:"seed"`
	// Damage is the dice expression rolled for each fighter every turn.
	Damage string `mapstructure:"damage"`
	// Roster is an optional YAML roster file.
	Roster string `mapstructure:"roster"`
}

// DamageExpr parses Damage.
func (f FightConfig) DamageExpr() (dice.Expression, error) {
	return dice.Parse(f.Damage)
}

// WorldConfig selects the store implementation.
type WorldConfig struct {
	// Backend is "native" or "donburi".
	Backend string `mapstructure:"backend"`
}

// ScriptingConfig holds Lua hook settings.
type ScriptingConfig struct {
	// Dir is the directory of *.lua hook files; empty disables scripting.
	Dir string `mapstructure:"dir"`
	// InstructionLimit caps opcodes per hook call; 0 uses the scripting default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Fight     FightConfig     `mapstructure:"fight"`
	World     WorldConfig     `mapstructure:"world"`
	Scripting ScriptingConfig `mapstructure:"scripting"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateFight(c.Fight); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateWorld(c.World); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Scripting.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", c.Scripting.InstructionLimit))
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateFight(f FightConfig) error {
	var errs []string
	if f.Turns < 1 {
		errs = append(errs, fmt.Sprintf("fight.turns must be >= 1, got %d", f.Turns))
	}
	for i, n := range f.Names {
		if strings.TrimSpace(n) == "" {
			errs = append(errs, fmt.Sprintf("fight.names[%d] must not be empty", i))
		}
	}
	expr, err := f.DamageExpr()
	switch {
	case err != nil:
		errs = append(errs, fmt.Sprintf("fight.damage: %v", err))
	case expr.Min() < 1:
		errs = append(errs, fmt.Sprintf("fight.damage %q must always deal at least 1 damage", f.Damage))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateWorld(w WorldConfig) error {
	validBackends := map[string]bool{"native": true, "donburi": true}
	if !validBackends[w.Backend] {
		return fmt.Errorf("world.backend must be one of [native, donburi], got %q", w.Backend)
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"turns":      "fight.turns",
	"dog-names":  "fight.names",
	"shuffle":    "fight.shuffle",
	"seed":       "fight.seed",
	"damage":     "fight.damage",
	"roster":     "fight.roster",
	"backend":    "world.backend",
	"scripts":    "scripting.dir",
	"log-level":  "logging.level",
	"log-format": "logging.format",
}

// RegisterFlags defines the command-line flags Load understands on fs.
//
// Postcondition: fs carries a "config" flag plus one flag per entry in flagKeys.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "path to an optional YAML configuration file")
	fs.IntP("turns", "t", 5, "maximum number of turns")
	fs.StringArrayP("dog-names", "d", nil, "fighter name; repeat for each dog")
	fs.Bool("shuffle", true, "shuffle the fighters before they spawn")
	fs.Uint64("seed", 0, "seed for reproducible fights; 0 uses crypto randomness")
	fs.String("damage", "1d8", "dice expression rolled for damage each turn")
	fs.String("roster", "", "path to an optional YAML roster file")
	fs.String("backend", "native", "world store backend: native or donburi")
	fs.String("scripts", "", "directory of Lua hook scripts; empty disables scripting")
	fs.String("log-level", "warn", "log level: debug, info, warn, error")
	fs.String("log-format", "console", "log format: json or console")
}

// Load builds a Config from defaults, the optional YAML file at path,
// STREETFIGHT_* environment variables and any flags set on flags, in
// increasing order of precedence, then validates it.
//
// Precondition: path may be empty; flags may be nil or come from RegisterFlags.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("binding flag %q: %w", name, err)
			}
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("fight.turns", 5)
	v.SetDefault("fight.names", []string{})
	v.SetDefault("fight.shuffle", true)
	v.SetDefault("fight.seed", 0)
	v.SetDefault("fight.damage", "1d8")
	v.SetDefault("fight.roster", "")

	v.SetDefault("world.backend", "native")

	v.SetDefault("scripting.dir", "")
	v.SetDefault("scripting.instruction_limit", 100_000)

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
}
