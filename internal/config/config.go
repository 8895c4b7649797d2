package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the top-level wealthwise.yaml configuration.
type Config struct {
	User      UserConfig      `yaml:"user" mapstructure:"user"`
	Statement StatementConfig `yaml:"statement" mapstructure:"statement"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Agent     AgentConfig     `yaml:"agent" mapstructure:"agent"`
	Rules     RulesConfig     `yaml:"rules" mapstructure:"rules"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// UserConfig names the statement owner for the lens.
type UserConfig struct {
	Name string `yaml:"name" mapstructure:"name"`
}

// StatementConfig locates the statement file.
type StatementConfig struct {
	Path  string `yaml:"path" mapstructure:"path"`
	Sheet string `yaml:"sheet,omitempty" mapstructure:"sheet"` // xlsx only
}

// LLMConfig configures the OpenAI-compatible chat endpoint.
type LLMConfig struct {
	Model            string `yaml:"model" mapstructure:"model"`
	BaseURL          string `yaml:"base_url" mapstructure:"base_url"`
	APIKeyEnv        string `yaml:"api_key_env" mapstructure:"api_key_env"`
	MaxResponseBytes int64  `yaml:"max_response_bytes" mapstructure:"max_response_bytes"`
}

// AgentConfig controls the dataframe agent.
type AgentConfig struct {
	Verbose    bool `yaml:"verbose" mapstructure:"verbose"`
	Memory     int  `yaml:"memory" mapstructure:"memory"`           // past exchanges kept
	SampleRows int  `yaml:"sample_rows" mapstructure:"sample_rows"` // rows shown to the model
}

// RulesConfig locates the categorization rules.
type RulesConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig controls diagnostics and the query log.
type LogConfig struct {
	Level    string `yaml:"level" mapstructure:"level"`
	QueryLog string `yaml:"query_log" mapstructure:"query_log"` // empty disables
}

// EnvPrefix prefixes environment overrides, e.g. WEALTHWISE_LLM_MODEL.
const EnvPrefix = "WEALTHWISE"

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		User:      UserConfig{Name: "Rohan"},
		Statement: StatementConfig{Path: "Rohan_Bank_Statement.csv"},
		LLM: LLMConfig{
			Model:            "gpt-4o",
			BaseURL:          "https://api.openai.com/v1",
			APIKeyEnv:        "OPENAI_API_KEY",
			MaxResponseBytes: 4 << 20,
		},
		Agent: AgentConfig{
			Verbose:    true,
			Memory:     4,
			SampleRows: 5,
		},
		Rules: RulesConfig{Path: "rules/categorization-rules.yaml"},
		Log: LogConfig{
			Level:    "info",
			QueryLog: "logs/query-log.csv",
		},
	}
}

// Load reads a wealthwise.yaml file and applies WEALTHWISE_* environment
// overrides. A missing file is not an error; defaults are used.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("user.name", d.User.Name)
	v.SetDefault("statement.path", d.Statement.Path)
	v.SetDefault("statement.sheet", d.Statement.Sheet)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.api_key_env", d.LLM.APIKeyEnv)
	v.SetDefault("llm.max_response_bytes", d.LLM.MaxResponseBytes)
	v.SetDefault("agent.verbose", d.Agent.Verbose)
	v.SetDefault("agent.memory", d.Agent.Memory)
	v.SetDefault("agent.sample_rows", d.Agent.SampleRows)
	v.SetDefault("rules.path", d.Rules.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.query_log", d.Log.QueryLog)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Statement.Path == "" {
		return errors.New("config: statement.path is required")
	}
	if c.LLM.Model == "" {
		return errors.New("config: llm.model is required")
	}
	if c.LLM.BaseURL == "" {
		return errors.New("config: llm.base_url is required")
	}
	if c.LLM.APIKeyEnv == "" {
		return errors.New("config: llm.api_key_env is required")
	}
	if c.Agent.Memory < 0 {
		return fmt.Errorf("config: agent.memory must be >= 0, got %d", c.Agent.Memory)
	}
	if c.Agent.SampleRows < 0 {
		return fmt.Errorf("config: agent.sample_rows must be >= 0, got %d", c.Agent.SampleRows)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	return nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
