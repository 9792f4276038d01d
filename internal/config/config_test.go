package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/studio-scheduler/pkg/core/allocator"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "studio_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		Locations: []string{"Kenkere House", "Whitefield"},
		Policy: PolicyConfig{
			HardCapHours:  floatPtr(16),
			SoftWarnHours: floatPtr(12),
			BlackoutRules: []string{"FREQ=WEEKLY;BYDAY=TH;BYHOUR=6,7,8,9,10,11"},
		},
		Storage: StorageConfig{Driver: "file", Path: "data"},
	}

	assert.NoError(t, Validate(cfg))
}

func TestValidate_PostgresRequiresURL(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{Driver: "postgres"}}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")

	cfg.Storage.PostgresURL = "postgres://localhost/studio"
	assert.NoError(t, Validate(cfg))
}

func TestValidate_UnknownDriver(t *testing.T) {
	err := Validate(&Config{Storage: StorageConfig{Driver: "sqlite"}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_InvalidRRule(t *testing.T) {
	cfg := &Config{
		Storage: StorageConfig{Driver: "file"},
		Policy: PolicyConfig{
			BlackoutRules: []string{"FREQ=WEEKLY;BYDAY=TH", "INVALID_RRULE"},
		},
	}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule in policy.blackoutRules[1]")
}

func TestValidate_SoftWarnAboveHardCap(t *testing.T) {
	cfg := &Config{
		Storage: StorageConfig{Driver: "file"},
		Policy:  PolicyConfig{HardCapHours: floatPtr(10)},
	}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "softWarnHours 12.00 exceeds hardCapHours 10.00")
}

func TestValidate_WeekendHourOutOfRange(t *testing.T) {
	cfg := &Config{
		Storage: StorageConfig{Driver: "file"},
		Policy:  PolicyConfig{WeekendExclusionHour: intPtr(24)},
	}

	assert.Error(t, Validate(cfg))
}

func TestToPolicy_DefaultsAndOverrides(t *testing.T) {
	assert.Equal(t, allocator.DefaultPolicy().HardCapHours, (&Config{}).ToPolicy().HardCapHours)

	disabled := false
	cfg := &Config{Policy: PolicyConfig{
		WeekendExclusionHour: intPtr(0),
		TopPerformerFloor:    floatPtr(7.5),
		EmitUnassigned:       &disabled,
	}}
	policy := cfg.ToPolicy()

	assert.Equal(t, 0, policy.WeekendExclusionHour)
	assert.Equal(t, 7.5, policy.TopPerformerFloor)
	assert.False(t, policy.EmitUnassigned)
	assert.Equal(t, allocator.DefaultSoftWarnHours, policy.SoftWarnHours)
}

func TestLoadFromPath_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
locations:
  - Kenkere House
  - Whitefield
policy:
  hardCapHours: 15
  softWarnHours: 11
  weekendExclusionHour: 17
  blackoutRules:
    - "FREQ=WEEKLY;BYDAY=TH;BYHOUR=6,7,8,9,10,11"
storage:
  driver: postgres
  postgresURL: "postgres://localhost/studio"
cache:
  redisAddr: "localhost:6379"
  ttl: 30m
metrics:
  textfile: /var/lib/node_exporter/studio.prom
sheets:
  credentialsFile: creds.json
  historySheetID: abc123
  historyRange: "History!A:H"
  publishSheetID: def456
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Kenkere House", "Whitefield"}, cfg.Locations)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "Schedule", cfg.Sheets.PublishTab)
	assert.True(t, cfg.HasSheets())

	policy := cfg.ToPolicy()
	assert.Equal(t, 11.0, policy.SoftWarnHours)
	assert.Equal(t, 17, policy.WeekendExclusionHour)
	require.Len(t, policy.BlackoutRules, 1)
}

func TestLoadFromPath_MinimalConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "locations: [Kenkere House]\n")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "data", cfg.Storage.Path)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Empty(t, cfg.Cache.RedisAddr)
	assert.False(t, cfg.HasSheets())
	assert.Equal(t, allocator.DefaultPolicy(), cfg.ToPolicy())
}

func TestLoadFromPath_HistoryRangeRequiredWithSheet(t *testing.T) {
	path := writeConfig(t, `
sheets:
  historySheetID: abc123
`)

	_, err := LoadFromPath(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "storage: [unclosed\n")

	_, err := LoadFromPath(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/path/studio_config.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestFindConfigFile_PrefersFirstName(t *testing.T) {
	dir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	require.NoError(t, os.WriteFile("studio_config.yaml", []byte("{}"), 0644))
	require.NoError(t, os.WriteFile("studio_config.test.yaml", []byte("{}"), 0644))

	path, err := findConfigFile([]string{"studio_config.test.yaml", "studio_config.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "studio_config.test.yaml", path)

	path, err = findConfigFile([]string{"studio_config.prod.yaml", "studio_config.yaml"})
	require.NoError(t, err)
	assert.Equal(t, "studio_config.yaml", path)
}
