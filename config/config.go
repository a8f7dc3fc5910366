// Package config loads the demo simulation settings.
package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Planner PlannerConfig `mapstructure:"planner"`
	Sim     SimConfig     `mapstructure:"sim"`
	Script  ScriptConfig  `mapstructure:"script"`
}

type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}

type PlannerConfig struct {
	// MaxIterations bounds each planning call; 0 = unbounded.
	MaxIterations int `mapstructure:"max_iterations"`
	// ReplansPerSec throttles replanning per agent; 0 disables the throttle.
	ReplansPerSec float64 `mapstructure:"replans_per_sec"`
}

type SimConfig struct {
	TickMS   int           `mapstructure:"tick_ms"`
	Agents   int           `mapstructure:"agents"`
	Food     int           `mapstructure:"food"`
	Gold     int           `mapstructure:"gold"`
	Stone    int           `mapstructure:"stone"`
	Deadline time.Duration `mapstructure:"deadline"`
	// Gate is an optional JS predicate evaluated before every action;
	// empty means no gate.
	Gate string `mapstructure:"gate"`
}

type ScriptConfig struct {
	VMPoolSize int           `mapstructure:"vm_pool_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// Load reads a YAML config file. A missing file is not an error; defaults
// apply and any file contents override them.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Defaults
	v.SetDefault("log.debug", false)
	v.SetDefault("planner.max_iterations", 10000)
	v.SetDefault("planner.replans_per_sec", 2.0)
	v.SetDefault("sim.tick_ms", 50)
	v.SetDefault("sim.agents", 3)
	v.SetDefault("sim.food", 3)
	v.SetDefault("sim.gold", 2)
	v.SetDefault("sim.stone", 1)
	v.SetDefault("sim.deadline", "30s")
	v.SetDefault("script.vm_pool_size", 4)
	v.SetDefault("script.timeout", "500ms")

	if err := v.ReadInConfig(); err != nil {
		// SetConfigFile bypasses search paths, so a missing file surfaces
		// as a *fs.PathError rather than viper's ConfigFileNotFoundError.
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
