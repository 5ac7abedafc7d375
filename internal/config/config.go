// Package config provides configuration loading and validation from
// environment variables and an optional dotenv file.
package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/eliteGoblin/focusd/web_mon/internal/infra"
	"github.com/eliteGoblin/focusd/web_mon/internal/state"
)

// Environment keys.
const (
	EnvConfigFile = "BLKUNBLK_CONFIG"
	EnvHostsFile  = "BLKUNBLK_HOSTS_FILE"
	EnvFocusDir   = "BLKUNBLK_FOCUS_DIR"
	EnvLogFile    = "BLKUNBLK_LOG_FILE"
	EnvLogLevel   = "BLKUNBLK_LOG_LEVEL"
	EnvAtQueue    = "BLKUNBLK_AT_QUEUE"
	EnvProtect    = "BLKUNBLK_PROTECT"
)

// Defaults.
const (
	DefaultHostsFile        = "/etc/hosts"
	DefaultWindowsHostsFile = `C:\Windows\System32\drivers\etc\hosts`
	DefaultFocusDirName     = ".focus"
	DefaultAuditLogName     = "unblk.log"
	DefaultConfigFileName   = "config.env"
	DiagnosticLogName       = "blkunblk.log"
)

// Config holds all configuration for blk and unblk.
type Config struct {
	HostsFile    string // access-list file
	FocusDir     string // lockdown, recents, diagnostic log
	AuditLogFile string // append-only event trail
	LogLevel     string // debug, info, warn, error
	AtQueue      string // at(1) queue letter for reblock jobs
	Protect      bool   // toggle the immutability flag around edits
	ConfigFile   string // dotenv file that was loaded, empty if none
}

// Load parses configuration from the environment. An optional dotenv file
// (BLKUNBLK_CONFIG, default <home>/.focus/config.env) is read first; variables
// already set in the environment win.
func Load() (*Config, error) {
	home := GetRealUserHome()

	configFile, err := loadConfigFile(home)
	if err != nil {
		return nil, err
	}

	hostsFile := os.Getenv(EnvHostsFile)
	focusDir := os.Getenv(EnvFocusDir)
	auditLog := os.Getenv(EnvLogFile)
	logLevel := os.Getenv(EnvLogLevel)
	atQueue := os.Getenv(EnvAtQueue)
	protectRaw := os.Getenv(EnvProtect)

	if hostsFile == "" {
		hostsFile = defaultHostsFile(runtime.GOOS)
	}

	if focusDir == "" {
		focusDir = filepath.Join(home, DefaultFocusDirName)
	}

	if auditLog == "" {
		auditLog = filepath.Join(home, DefaultAuditLogName)
	}

	if logLevel == "" {
		logLevel = "info"
	}

	if atQueue == "" {
		atQueue = infra.DefaultAtQueue
	}

	protect := true
	if protectRaw != "" {
		protect, err = strconv.ParseBool(protectRaw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvProtect, err)
		}
	}

	cfg := &Config{
		HostsFile:    hostsFile,
		FocusDir:     focusDir,
		AuditLogFile: auditLog,
		LogLevel:     logLevel,
		AtQueue:      atQueue,
		Protect:      protect,
		ConfigFile:   configFile,
	}

	return cfg, nil
}

// Validate checks all configuration constraints.
func (c *Config) Validate() error {
	if c.HostsFile == "" {
		return fmt.Errorf("%s must not be empty", EnvHostsFile)
	}
	if c.FocusDir == "" {
		return fmt.Errorf("%s must not be empty", EnvFocusDir)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%s: unknown level %q", EnvLogLevel, c.LogLevel)
	}
	if err := infra.CheckQueue(c.AtQueue); err != nil {
		return fmt.Errorf("%s: %w", EnvAtQueue, err)
	}
	return nil
}

// LockdownPath is the lockdown record inside FocusDir.
func (c *Config) LockdownPath() string {
	return filepath.Join(c.FocusDir, state.LockdownFileName)
}

// RecentsPath is the recents record inside FocusDir.
func (c *Config) RecentsPath() string {
	return filepath.Join(c.FocusDir, state.RecentsFileName)
}

// DiagnosticLogPath is the rotated zap log inside FocusDir.
func (c *Config) DiagnosticLogPath() string {
	return filepath.Join(c.FocusDir, DiagnosticLogName)
}

// JobEnv returns the variables the deferred blk needs to act on the same
// files. Only keys set explicitly (env or config file) are passed on.
func (c *Config) JobEnv() map[string]string {
	env := make(map[string]string)
	for _, key := range []string{EnvConfigFile, EnvHostsFile, EnvFocusDir, EnvLogFile, EnvAtQueue, EnvProtect} {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			env[key] = v
		}
	}
	return env
}

// GetRealUserHome returns the home of the user behind sudo, if any.
func GetRealUserHome() string {
	// Check if running under sudo
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" {
		if u, err := user.Lookup(sudoUser); err == nil {
			return u.HomeDir
		}
	}
	// Fall back to default
	home, _ := os.UserHomeDir()
	return home
}

func defaultHostsFile(goos string) string {
	if goos == "windows" {
		return DefaultWindowsHostsFile
	}
	return DefaultHostsFile
}

// loadConfigFile loads the dotenv file without overriding the environment.
// A missing default file is fine; a missing explicit file is an error.
func loadConfigFile(home string) (string, error) {
	path, explicit := os.LookupEnv(EnvConfigFile)
	if !explicit || path == "" {
		path = filepath.Join(home, DefaultFocusDirName, DefaultConfigFileName)
		explicit = false
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return "", nil
		}
		return "", fmt.Errorf("config file %s: %w", path, err)
	}

	if err := godotenv.Load(path); err != nil {
		return "", fmt.Errorf("config file %s: %w", path, err)
	}
	return path, nil
}
