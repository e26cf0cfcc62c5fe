package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/scoutd/scout/internal/agentloop"
)

const (
	EnvAgentAPIKey          = "SCOUT_AGENT_API_KEY"
	EnvAgentModel           = "SCOUT_AGENT_MODEL"
	EnvAgentTemperature     = "SCOUT_AGENT_TEMPERATURE"
	EnvAgentMaxOutputTokens = "SCOUT_AGENT_MAX_OUTPUT_TOKENS"
	EnvAgentMaxSteps        = "SCOUT_AGENT_MAX_STEPS"
	EnvAgentStepTimeout     = "SCOUT_AGENT_STEP_TIMEOUT"
	EnvAgentBudget          = "SCOUT_AGENT_BUDGET"

	// GEMINI_API_KEY is honored as a fallback for local development.
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// AgentConfig holds the model and loop budget settings for the agent
// runner. The API key is environment-only and never read from TOML.
type AgentConfig struct {
	Model           string  `toml:"model"`
	Temperature     float64 `toml:"temperature"`
	MaxOutputTokens int     `toml:"max_output_tokens"`
	MaxSteps        int     `toml:"max_steps"`
	StepTimeout     string  `toml:"step_timeout"`
	Budget          string  `toml:"budget"`

	apiKey string
}

// Runner converts the finalized config into the agentloop runner config.
func (c *AgentConfig) Runner() agentloop.Config {
	stepTimeout, _ := time.ParseDuration(c.StepTimeout)
	budget, _ := time.ParseDuration(c.Budget)

	return agentloop.Config{
		APIKey:          c.apiKey,
		Model:           c.Model,
		Temperature:     c.Temperature,
		MaxOutputTokens: c.MaxOutputTokens,
		MaxSteps:        c.MaxSteps,
		StepTimeout:     stepTimeout,
		Budget:          budget,
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AgentConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AgentConfig) Merge(overlay *AgentConfig) {
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.MaxOutputTokens != 0 {
		c.MaxOutputTokens = overlay.MaxOutputTokens
	}
	if overlay.MaxSteps != 0 {
		c.MaxSteps = overlay.MaxSteps
	}
	if overlay.StepTimeout != "" {
		c.StepTimeout = overlay.StepTimeout
	}
	if overlay.Budget != "" {
		c.Budget = overlay.Budget
	}
}

func (c *AgentConfig) loadDefaults() {
	if c.Model == "" {
		c.Model = "gemini-2.0-flash"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.2
	}
	if c.MaxOutputTokens == 0 {
		c.MaxOutputTokens = 8000
	}
	if c.MaxSteps == 0 {
		c.MaxSteps = 15
	}
	if c.StepTimeout == "" {
		c.StepTimeout = "2m"
	}
	if c.Budget == "" {
		c.Budget = "10m"
	}
}

func (c *AgentConfig) loadEnv() {
	if v := os.Getenv(EnvAgentAPIKey); v != "" {
		c.apiKey = v
	} else if v := os.Getenv(EnvGeminiAPIKey); v != "" {
		c.apiKey = v
	}
	if v := os.Getenv(EnvAgentModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvAgentTemperature); v != "" {
		if t, err := strconv.ParseFloat(v, 64); err == nil {
			c.Temperature = t
		}
	}
	if v := os.Getenv(EnvAgentMaxOutputTokens); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxOutputTokens = n
		}
	}
	if v := os.Getenv(EnvAgentMaxSteps); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxSteps = n
		}
	}
	if v := os.Getenv(EnvAgentStepTimeout); v != "" {
		c.StepTimeout = v
	}
	if v := os.Getenv(EnvAgentBudget); v != "" {
		c.Budget = v
	}
}

func (c *AgentConfig) validate() error {
	if c.MaxSteps < 1 {
		return fmt.Errorf("invalid max_steps: %d", c.MaxSteps)
	}
	if _, err := time.ParseDuration(c.StepTimeout); err != nil {
		return fmt.Errorf("invalid step_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Budget); err != nil {
		return fmt.Errorf("invalid budget: %w", err)
	}
	return nil
}
