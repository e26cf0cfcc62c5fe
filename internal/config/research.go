package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/scoutd/scout/internal/identity"
)

const (
	EnvResearchAutoMergeThreshold = "SCOUT_RESEARCH_AUTO_MERGE_THRESHOLD"
	EnvResearchReviewFloor        = "SCOUT_RESEARCH_REVIEW_FLOOR"
	EnvResearchHealthLimit        = "SCOUT_RESEARCH_HEALTH_LIMIT"
	EnvResearchHealthConcurrency  = "SCOUT_RESEARCH_HEALTH_CONCURRENCY"
)

// ResearchConfig holds identity matching thresholds and health-check
// batch settings.
type ResearchConfig struct {
	AutoMergeThreshold float64 `toml:"auto_merge_threshold"`
	ReviewFloor        float64 `toml:"review_floor"`
	HealthLimit        int     `toml:"health_limit"`
	HealthConcurrency  int     `toml:"health_concurrency"`
}

// MatchPolicy converts the thresholds into an identity matching policy.
func (c *ResearchConfig) MatchPolicy() identity.Policy {
	return identity.Policy{
		AutoMerge:   c.AutoMergeThreshold,
		ReviewFloor: c.ReviewFloor,
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ResearchConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ResearchConfig) Merge(overlay *ResearchConfig) {
	if overlay.AutoMergeThreshold != 0 {
		c.AutoMergeThreshold = overlay.AutoMergeThreshold
	}
	if overlay.ReviewFloor != 0 {
		c.ReviewFloor = overlay.ReviewFloor
	}
	if overlay.HealthLimit != 0 {
		c.HealthLimit = overlay.HealthLimit
	}
	if overlay.HealthConcurrency != 0 {
		c.HealthConcurrency = overlay.HealthConcurrency
	}
}

func (c *ResearchConfig) loadDefaults() {
	defaults := identity.DefaultPolicy()
	if c.AutoMergeThreshold == 0 {
		c.AutoMergeThreshold = defaults.AutoMerge
	}
	if c.ReviewFloor == 0 {
		c.ReviewFloor = defaults.ReviewFloor
	}
	if c.HealthLimit == 0 {
		c.HealthLimit = 20
	}
	if c.HealthConcurrency == 0 {
		c.HealthConcurrency = 4
	}
}

func (c *ResearchConfig) loadEnv() {
	if v := os.Getenv(EnvResearchAutoMergeThreshold); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.AutoMergeThreshold = f
		}
	}
	if v := os.Getenv(EnvResearchReviewFloor); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.ReviewFloor = f
		}
	}
	if v := os.Getenv(EnvResearchHealthLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.HealthLimit = n
		}
	}
	if v := os.Getenv(EnvResearchHealthConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.HealthConcurrency = n
		}
	}
}

func (c *ResearchConfig) validate() error {
	if c.AutoMergeThreshold <= 0 || c.AutoMergeThreshold > 1 {
		return fmt.Errorf("invalid auto_merge_threshold: %g", c.AutoMergeThreshold)
	}
	if c.ReviewFloor <= 0 || c.ReviewFloor > 1 {
		return fmt.Errorf("invalid review_floor: %g", c.ReviewFloor)
	}
	if c.ReviewFloor > c.AutoMergeThreshold {
		return fmt.Errorf(
			"review_floor %g exceeds auto_merge_threshold %g",
			c.ReviewFloor, c.AutoMergeThreshold,
		)
	}
	if c.HealthLimit < 1 {
		return fmt.Errorf("invalid health_limit: %d", c.HealthLimit)
	}
	if c.HealthConcurrency < 1 {
		return fmt.Errorf("invalid health_concurrency: %d", c.HealthConcurrency)
	}
	return nil
}
