package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/studio-scheduler/pkg/core/allocator"
)

const (
	configFileBase  = "studio_config"
	defaultCacheTTL = 24 * time.Hour
	defaultDataDir  = "data"
)

// PolicyConfig overrides the scheduling rules. Unset fields keep their defaults.
type PolicyConfig struct {
	HardCapHours         *float64 `yaml:"hardCapHours,omitempty" validate:"omitempty,gt=0"`
	SoftWarnHours        *float64 `yaml:"softWarnHours,omitempty" validate:"omitempty,gt=0"`
	WeekendExclusionHour *int     `yaml:"weekendExclusionHour,omitempty" validate:"omitempty,min=0,max=23"`
	TopPerformerFloor    *float64 `yaml:"topPerformerFloor,omitempty" validate:"omitempty,min=0"`
	BlackoutRules        []string `yaml:"blackoutRules,omitempty" validate:"dive,required"`
	EmitUnassigned       *bool    `yaml:"emitUnassigned,omitempty"`
}

// StorageConfig selects where history and session state live
type StorageConfig struct {
	Driver      string `yaml:"driver" validate:"required,oneof=file postgres"`
	Path        string `yaml:"path,omitempty"`
	PostgresURL string `yaml:"postgresURL,omitempty" validate:"required_if=Driver postgres"`
}

// CacheConfig enables the redis ranking cache when RedisAddr is set
type CacheConfig struct {
	RedisAddr     string        `yaml:"redisAddr,omitempty" validate:"omitempty,hostname_port"`
	RedisPassword string        `yaml:"redisPassword,omitempty"`
	RedisDB       int           `yaml:"redisDB,omitempty" validate:"min=0"`
	TTL           time.Duration `yaml:"ttl,omitempty"`
}

// MetricsConfig enables writing a prometheus textfile after each command
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// SheetsConfig holds the Google Sheets import and publish settings
type SheetsConfig struct {
	CredentialsFile string `yaml:"credentialsFile,omitempty"`
	HistorySheetID  string `yaml:"historySheetID,omitempty"`
	HistoryRange    string `yaml:"historyRange,omitempty" validate:"required_with=HistorySheetID"`
	PublishSheetID  string `yaml:"publishSheetID,omitempty"`
	PublishTab      string `yaml:"publishTab,omitempty"`
}

// LoggingConfig controls the log file location and console verbosity
type LoggingConfig struct {
	Dir     string `yaml:"dir,omitempty"`
	Verbose bool   `yaml:"verbose,omitempty"`
}

// Config represents the application configuration.
// Locations, when set, limits the history used for scheduling and analytics to those studios.
type Config struct {
	Locations []string      `yaml:"locations,omitempty" validate:"dive,required"`
	Policy    PolicyConfig  `yaml:"policy,omitempty"`
	Storage   StorageConfig `yaml:"storage"`
	Cache     CacheConfig   `yaml:"cache,omitempty"`
	Metrics   MetricsConfig `yaml:"metrics,omitempty"`
	Sheets    SheetsConfig  `yaml:"sheets,omitempty"`
	Logging   LoggingConfig `yaml:"logging,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads studio_config.<env>.yaml, falling back to studio_config.yaml.
// Each name is looked for in the current directory first, then the home directory.
func LoadWithEnv(env string) (*Config, error) {
	names := []string{configFileBase + ".yaml"}
	if env != "" {
		names = append([]string{fmt.Sprintf("%s.%s.yaml", configFileBase, env)}, names...)
	}

	configPath, err := findConfigFile(names)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, rrule syntax and the hour thresholds
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, rule := range cfg.Policy.BlackoutRules {
		if _, err := rrule.StrToRRule(rule); err != nil {
			return fmt.Errorf("invalid rrule in policy.blackoutRules[%d]: %w", i, err)
		}
	}

	policy := cfg.ToPolicy()
	if policy.SoftWarnHours > policy.HardCapHours {
		return fmt.Errorf("config validation failed: softWarnHours %.2f exceeds hardCapHours %.2f", policy.SoftWarnHours, policy.HardCapHours)
	}
	if err := policy.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// ToPolicy merges the configured overrides onto the default policy
func (c *Config) ToPolicy() allocator.Policy {
	policy := allocator.DefaultPolicy()
	p := c.Policy
	if p.HardCapHours != nil {
		policy.HardCapHours = *p.HardCapHours
	}
	if p.SoftWarnHours != nil {
		policy.SoftWarnHours = *p.SoftWarnHours
	}
	if p.WeekendExclusionHour != nil {
		policy.WeekendExclusionHour = *p.WeekendExclusionHour
	}
	if p.TopPerformerFloor != nil {
		policy.TopPerformerFloor = *p.TopPerformerFloor
	}
	if p.EmitUnassigned != nil {
		policy.EmitUnassigned = *p.EmitUnassigned
	}
	policy.BlackoutRules = append([]string(nil), p.BlackoutRules...)
	return policy
}

// HasSheets reports whether Google Sheets credentials are configured
func (c *Config) HasSheets() bool {
	return c.Sheets.CredentialsFile != ""
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "file"
	}
	if cfg.Storage.Driver == "file" && cfg.Storage.Path == "" {
		cfg.Storage.Path = defaultDataDir
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = defaultCacheTTL
	}
	if cfg.Sheets.PublishTab == "" {
		cfg.Sheets.PublishTab = "Schedule"
	}
}

// findConfigFile returns the first name found in the current directory, then
// in the home directory
func findConfigFile(names []string) (string, error) {
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	for _, name := range names {
		homeConfigPath := filepath.Join(homeDir, name)
		if _, err := os.Stat(homeConfigPath); err == nil {
			return homeConfigPath, nil
		}
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
