package infra

import (
	"errors"
	"fmt"
	"syscall"

	"go.uber.org/zap"
)

// FlushStrategy is one way of dropping cached name resolution.
type FlushStrategy interface {
	// Name identifies the strategy in logs.
	Name() string

	// IsAvailable reports whether the strategy applies on this host right now.
	IsAvailable() bool

	// Flush drops the cache.
	Flush() error
}

// CommandFlush runs a fixed command, optionally only when a daemon is running.
type CommandFlush struct {
	label  string
	daemon string
	cmd    string
	args   []string
	runner CommandRunner
	pm     ProcessManager
}

func (c *CommandFlush) Name() string {
	return c.label
}

func (c *CommandFlush) IsAvailable() bool {
	if c.daemon == "" {
		return true
	}
	pids, err := c.pm.FindByName(c.daemon)
	return err == nil && len(pids) > 0
}

func (c *CommandFlush) Flush() error {
	return c.runner.Run(c.cmd, c.args...)
}

// SignalFlush sends SIGHUP to every process of a resolver daemon.
type SignalFlush struct {
	daemon string
	pm     ProcessManager
}

func (s *SignalFlush) Name() string {
	return "hup:" + s.daemon
}

func (s *SignalFlush) IsAvailable() bool {
	pids, err := s.pm.FindByName(s.daemon)
	return err == nil && len(pids) > 0
}

func (s *SignalFlush) Flush() error {
	pids, err := s.pm.FindByName(s.daemon)
	if err != nil {
		return err
	}
	var errs []error
	for _, pid := range pids {
		if err := s.pm.Signal(pid, syscall.SIGHUP); err != nil {
			errs = append(errs, fmt.Errorf("signal %s (pid %d): %w", s.daemon, pid, err))
		}
	}
	return errors.Join(errs...)
}

// FlushManager runs every available strategy for the platform.
type FlushManager struct {
	strategies []FlushStrategy
	logger     *zap.Logger
}

// NewFlushManager creates a manager with the strategies known for goos.
func NewFlushManager(goos string, runner CommandRunner, pm ProcessManager, logger *zap.Logger) *FlushManager {
	return NewFlushManagerWithStrategies(PlatformFlushStrategies(goos, runner, pm), logger)
}

// NewFlushManagerWithStrategies creates a manager with explicit strategies (for testing).
func NewFlushManagerWithStrategies(strategies []FlushStrategy, logger *zap.Logger) *FlushManager {
	return &FlushManager{strategies: strategies, logger: logger}
}

// PlatformFlushStrategies lists the flush strategies for goos.
func PlatformFlushStrategies(goos string, runner CommandRunner, pm ProcessManager) []FlushStrategy {
	switch goos {
	case "darwin":
		return []FlushStrategy{
			&CommandFlush{label: "dscacheutil", cmd: "dscacheutil", args: []string{"-flushcache"}, runner: runner, pm: pm},
			&SignalFlush{daemon: "mDNSResponder", pm: pm},
		}
	case "linux":
		return []FlushStrategy{
			&CommandFlush{label: "resolvectl", daemon: "systemd-resolved", cmd: "resolvectl", args: []string{"flush-caches"}, runner: runner, pm: pm},
			&CommandFlush{label: "nscd", daemon: "nscd", cmd: "nscd", args: []string{"-i", "hosts"}, runner: runner, pm: pm},
			&SignalFlush{daemon: "dnsmasq", pm: pm},
		}
	case "windows":
		return []FlushStrategy{
			&CommandFlush{label: "ipconfig", cmd: "ipconfig", args: []string{"/flushdns"}, runner: runner, pm: pm},
		}
	default:
		return nil
	}
}

// Strategies returns the configured strategies.
func (m *FlushManager) Strategies() []FlushStrategy {
	return m.strategies
}

// FlushNameCache runs every available strategy. Failures are joined.
func (m *FlushManager) FlushNameCache() error {
	var errs []error
	for _, s := range m.strategies {
		if !s.IsAvailable() {
			m.logger.Debug("Flush strategy unavailable", zap.String("strategy", s.Name()))
			continue
		}
		if err := s.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		m.logger.Debug("Name cache flushed", zap.String("strategy", s.Name()))
	}
	return errors.Join(errs...)
}
