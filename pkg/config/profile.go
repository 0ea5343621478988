package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DeploymentProfile is a named tuning profile for one install. Profiles
// adjust operational knobs only; decision thresholds stay in code.
type DeploymentProfile struct {
	Name     string         `yaml:"name" json:"name"`
	Autonomy AutonomyConfig `yaml:"autonomy" json:"autonomy"`
	Bridge   BridgeConfig   `yaml:"bridge" json:"bridge"`
	Guards   []GuardConfig  `yaml:"guards,omitempty" json:"guards,omitempty"`
}

// AutonomyConfig tunes the execution budget.
type AutonomyConfig struct {
	Mode           string `yaml:"mode" json:"mode"` // "disabled" | "manual" | "bounded"
	ExecutionLimit int    `yaml:"execution_limit" json:"execution_limit"`
}

// BridgeConfig tunes bridge admission.
type BridgeConfig struct {
	RatePerSecond    float64 `yaml:"rate_per_second" json:"rate_per_second"`
	Burst            int     `yaml:"burst" json:"burst"`
	MinClientVersion string  `yaml:"min_client_version,omitempty" json:"min_client_version,omitempty"`
	UseRedisLimiter  bool    `yaml:"use_redis_limiter,omitempty" json:"use_redis_limiter,omitempty"`
}

// GuardConfig is one operator-defined guard expression.
type GuardConfig struct {
	Name string `yaml:"name" json:"name"`
	Expr string `yaml:"expr" json:"expr"`
}

// DefaultProfile is used when no profile file is configured.
func DefaultProfile() *DeploymentProfile {
	return &DeploymentProfile{
		Name: "default",
		Autonomy: AutonomyConfig{
			Mode:           "bounded",
			ExecutionLimit: 5,
		},
		Bridge: BridgeConfig{
			RatePerSecond: 10,
			Burst:         20,
		},
	}
}

// LoadProfile reads a profile YAML file and validates it.
func LoadProfile(path string) (*DeploymentProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load profile %q: %w", path, err)
	}

	var profile DeploymentProfile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parse profile %q: %w", path, err)
	}

	if profile.Name == "" {
		base := filepath.Base(path)
		profile.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("profile %q: %w", profile.Name, err)
	}
	return &profile, nil
}

// Validate rejects profiles that would weaken the safety posture.
func (p *DeploymentProfile) Validate() error {
	switch p.Autonomy.Mode {
	case "disabled", "manual", "bounded":
	case "":
		p.Autonomy.Mode = "bounded"
	default:
		return fmt.Errorf("unknown autonomy mode %q", p.Autonomy.Mode)
	}
	if p.Autonomy.ExecutionLimit < 0 {
		return fmt.Errorf("execution_limit must be >= 0, got %d", p.Autonomy.ExecutionLimit)
	}
	if p.Bridge.RatePerSecond < 0 || p.Bridge.Burst < 0 {
		return fmt.Errorf("bridge rate and burst must be >= 0")
	}
	for _, g := range p.Guards {
		if g.Name == "" || g.Expr == "" {
			return fmt.Errorf("guards need both name and expr")
		}
	}
	return nil
}
