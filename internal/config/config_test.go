package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/var/lib/atari"},
		Match:  MatchConfig{Partition: "mirror"},
		Server: ServerConfig{RateLimitRPS: 20, RateLimitBurst: 40},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"staging", func(c *Config) { c.App.Environment = "staging" }, ""},
		{"production", func(c *Config) { c.App.Environment = "production" }, ""},
		{"unknown environment", func(c *Config) { c.App.Environment = "test" }, "invalid environment"},
		{"environment is case sensitive", func(c *Config) { c.App.Environment = "DEVELOPMENT" }, "invalid environment"},
		{"missing environment", func(c *Config) { c.App.Environment = "" }, "ENV is required"},
		{"upper case log level", func(c *Config) { c.Logger.Level = "DEBUG" }, ""},
		{"unknown log level", func(c *Config) { c.Logger.Level = "trace" }, "invalid log level"},
		{"empty data path", func(c *Config) { c.Data.BasePath = "" }, "data base path cannot be empty"},
		{"shifted partition", func(c *Config) { c.Match.Partition = "shifted" }, ""},
		{"unknown partition", func(c *Config) { c.Match.Partition = "diagonal" }, "unknown lane partition"},
		{"rate limit disabled", func(c *Config) { c.Server.RateLimitRPS, c.Server.RateLimitBurst = 0, 0 }, ""},
		{"negative rate limit", func(c *Config) { c.Server.RateLimitRPS = -1 }, "invalid rate limit"},
		{"zero burst", func(c *Config) { c.Server.RateLimitBurst = 0 }, "invalid rate limit burst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExpandDataPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty uses default", "", filepath.Join(homeDir, "AtariServer", "data")},
		{"tilde", "~/atari", filepath.Join(homeDir, "atari")},
		{"absolute", "/srv/atari/", "/srv/atari"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Data: DataConfig{BasePath: tt.input}}
			require.NoError(t, cfg.expandDataPath())
			assert.Equal(t, tt.want, cfg.Data.BasePath)
		})
	}
}

func TestExpandRulesPath(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.expandRulesPath())
	assert.Empty(t, cfg.Rules.Path, "no rule file stays empty")

	cfg.Rules.Path = "rules/atari.yaml"
	require.NoError(t, cfg.expandRulesPath())
	assert.True(t, filepath.IsAbs(cfg.Rules.Path))
	assert.Contains(t, cfg.Rules.Path, filepath.Join("rules", "atari.yaml"))
}

func TestExpandSongsPath(t *testing.T) {
	dir := t.TempDir()
	rules := filepath.Join(dir, "atari.json")

	tests := []struct {
		name  string
		songs string
		rules string
		files []string
		want  string
	}{
		{"nothing configured", "", "", nil, ""},
		{"no song file beside rules", "", rules, nil, ""},
		{"yaml beside rules", "", rules, []string{"songs.yaml"}, filepath.Join(dir, "songs.yaml")},
		{"json preferred", "", rules, []string{"songs.yaml", "songs.json"}, filepath.Join(dir, "songs.json")},
		{"explicit path wins", "/srv/catalog.json", rules, []string{"songs.json"}, "/srv/catalog.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, name := range songFileNames {
				_ = os.Remove(filepath.Join(dir, name))
			}
			for _, name := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0o644))
			}

			cfg := &Config{Rules: RulesConfig{Path: tt.rules}, Songs: SongsConfig{Path: tt.songs}}
			require.NoError(t, cfg.expandSongsPath())
			assert.Equal(t, tt.want, cfg.Songs.Path)
		})
	}
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("TEST_ENV_KEY", "env-value")

	assert.Equal(t, "flag-value", getConfigValue("flag-value", "TEST_ENV_KEY", "default-value"))
	assert.Equal(t, "env-value", getConfigValue("", "TEST_ENV_KEY", "default-value"))
	assert.Equal(t, "default-value", getConfigValue("", "NONEXISTENT_KEY", "default-value"))
}

func TestTypedConfigValues(t *testing.T) {
	t.Setenv("TEST_BOOL", "yes")
	t.Setenv("TEST_INT", "not-a-number")
	t.Setenv("TEST_FLOAT", "2.5")

	assert.True(t, getBoolConfigValue("", "TEST_BOOL", false))
	assert.False(t, getBoolConfigValue("off", "TEST_BOOL", true))
	assert.Equal(t, 7, getIntConfigValue("", "TEST_INT", 7), "unparsable ints fall back to the default")
	assert.Equal(t, 3, getIntConfigValue("3", "TEST_INT", 7))

	v, err := getFloatConfigValue("", "TEST_FLOAT", 1)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, v, 1e-9)

	_, err = getFloatConfigValue("fast", "TEST_FLOAT", 1)
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitList("*"))
	assert.Equal(t, []string{"http://a", "http://b"}, splitList(" http://a, ,http://b "))
	assert.Nil(t, splitList(""))
}

func TestLoadEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := `# Test env file
ENV=staging

RULES_PATH=/etc/atari/rules.yaml
  MATCH_PARTITION  =  shifted
QUOTED_VALUE="some value"
SINGLE_QUOTED='another value'
LOG_LEVEL=debug
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	for _, key := range []string{"ENV", "RULES_PATH", "MATCH_PARTITION", "QUOTED_VALUE", "SINGLE_QUOTED"} {
		t.Setenv(key, "")
		os.Unsetenv(key) //nolint:errcheck // t.Setenv restores it
	}
	t.Setenv("LOG_LEVEL", "warn")

	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "staging", os.Getenv("ENV"))
	assert.Equal(t, "/etc/atari/rules.yaml", os.Getenv("RULES_PATH"))
	assert.Equal(t, "shifted", os.Getenv("MATCH_PARTITION"))
	assert.Equal(t, "some value", os.Getenv("QUOTED_VALUE"))
	assert.Equal(t, "another value", os.Getenv("SINGLE_QUOTED"))
	assert.Equal(t, "warn", os.Getenv("LOG_LEVEL"), "existing env vars are not overwritten")
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("VALID_KEY=valid\nINVALID LINE WITHOUT EQUALS\n"), 0o644))

	err := loadEnvFile(envFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format at line 2")
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	assert.Error(t, loadEnvFile("/nonexistent/file/.env"))
}
