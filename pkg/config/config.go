// Package config layers an optional YAML file under each cmd's flag set,
// following niceyeti-tabular/tabular/reinforcement/learning.go's FromYaml
// pattern (viper loads the file into a raw map, then gopkg.in/yaml.v3
// unmarshals it into the caller's typed struct). Flags take precedence: each
// cmd applies a YAML value only where no explicit flag covers the setting.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// LoadYAML reads the YAML file at path and unmarshals it into out, which
// must be a pointer. The cmds call it after flag.Parse and keep any value
// that was set explicitly on the command line.
func LoadYAML(path string, out interface{}) error {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))

	if err := vp.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %q: %w", path, err)
	}

	raw := vp.AllSettings()
	spec, err := yaml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("re-marshal config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(spec, out); err != nil {
		return fmt.Errorf("unmarshal config %q: %w", path, err)
	}
	return nil
}

// PendulumParams is the YAML-addressable subset of pendulum.Params, shared
// by every cmd that accepts a "-config file.yaml" override.
type PendulumParams struct {
	M     float64 `yaml:"mass"`
	MCart float64 `yaml:"cart_mass"`
	I     float64 `yaml:"inertia"`
	L     float64 `yaml:"length"`
}

// PIDGains is the YAML-addressable subset of a control.PID's gains.
type PIDGains struct {
	Kp float64 `yaml:"kp"`
	Ki float64 `yaml:"ki"`
	Kd float64 `yaml:"kd"`
}

// LQRGains is the YAML-addressable subset of a control.LQR's gain vector.
type LQRGains struct {
	K [4]float64 `yaml:"k"`
}
