package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{EnvConfigFile, EnvHostsFile, EnvFocusDir, EnvLogFile, EnvLogLevel, EnvAtQueue, EnvProtect}

// clearEnv unsets every config key for the duration of the test and
// points the home directory at a fresh temp dir.
func clearEnv(t *testing.T) string {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("SUDO_USER", "")
	return home
}

func TestLoad_Defaults(t *testing.T) {
	home := clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	if runtime.GOOS == "windows" {
		assert.Equal(t, DefaultWindowsHostsFile, cfg.HostsFile)
	} else {
		assert.Equal(t, DefaultHostsFile, cfg.HostsFile)
	}
	assert.Equal(t, filepath.Join(home, ".focus"), cfg.FocusDir)
	assert.Equal(t, filepath.Join(home, "unblk.log"), cfg.AuditLogFile)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "b", cfg.AtQueue)
	assert.True(t, cfg.Protect)
	assert.Empty(t, cfg.ConfigFile)
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, filepath.Join(home, ".focus", "lockdown"), cfg.LockdownPath())
	assert.Equal(t, filepath.Join(home, ".focus", "recents"), cfg.RecentsPath())
	assert.Equal(t, filepath.Join(home, ".focus", "blkunblk.log"), cfg.DiagnosticLogPath())
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvHostsFile, "/tmp/hosts")
	t.Setenv(EnvFocusDir, "/tmp/focus")
	t.Setenv(EnvLogFile, "/tmp/unblk.log")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvAtQueue, "z")
	t.Setenv(EnvProtect, "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/hosts", cfg.HostsFile)
	assert.Equal(t, "/tmp/focus", cfg.FocusDir)
	assert.Equal(t, "/tmp/unblk.log", cfg.AuditLogFile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "z", cfg.AtQueue)
	assert.False(t, cfg.Protect)
}

func TestLoad_DefaultConfigFile(t *testing.T) {
	home := clearEnv(t)
	path := filepath.Join(home, ".focus", "config.env")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("BLKUNBLK_HOSTS_FILE=/srv/hosts\nBLKUNBLK_LOG_LEVEL=warn\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, "/srv/hosts", cfg.HostsFile)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_EnvBeatsConfigFile(t *testing.T) {
	home := clearEnv(t)
	path := filepath.Join(home, "custom.env")
	require.NoError(t, os.WriteFile(path, []byte("BLKUNBLK_HOSTS_FILE=/from/file\nBLKUNBLK_AT_QUEUE=q\n"), 0644))
	t.Setenv(EnvConfigFile, path)
	t.Setenv(EnvHostsFile, "/from/env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.HostsFile)
	assert.Equal(t, "q", cfg.AtQueue)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("explicit config file missing", func(t *testing.T) {
		home := clearEnv(t)
		t.Setenv(EnvConfigFile, filepath.Join(home, "nope.env"))

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad protect flag", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvProtect, "sometimes")

		_, err := Load()
		assert.ErrorContains(t, err, EnvProtect)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{HostsFile: "/etc/hosts", FocusDir: "/f", LogLevel: "info", AtQueue: "b"}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"empty hosts", func(c *Config) { c.HostsFile = "" }, false},
		{"empty focus dir", func(c *Config) { c.FocusDir = "" }, false},
		{"bad level", func(c *Config) { c.LogLevel = "trace" }, false},
		{"bad queue", func(c *Config) { c.AtQueue = "bb" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestJobEnv_OnlyExplicitKeys(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvHostsFile, "/tmp/hosts")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, map[string]string{EnvHostsFile: "/tmp/hosts"}, cfg.JobEnv())
}
