package infra

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// FileProtector toggles the immutability flag on the access-list file:
// chattr on Linux, chflags on macOS, nothing elsewhere.
type FileProtector struct {
	path    string
	goos    string
	enabled bool
	runner  CommandRunner
	logger  *zap.Logger
}

// NewFileProtector creates a protector for path on goos.
// A disabled protector never runs anything.
func NewFileProtector(path, goos string, enabled bool, runner CommandRunner, logger *zap.Logger) *FileProtector {
	return &FileProtector{
		path:    path,
		goos:    goos,
		enabled: enabled,
		runner:  runner,
		logger:  logger,
	}
}

// RemoveWriteProtection clears the immutability flag.
func (p *FileProtector) RemoveWriteProtection() error {
	return p.toggle(false)
}

// RestoreWriteProtection sets the immutability flag.
func (p *FileProtector) RestoreWriteProtection() error {
	return p.toggle(true)
}

func (p *FileProtector) toggle(immutable bool) error {
	if !p.enabled {
		return nil
	}

	name, args := p.command(immutable)
	if name == "" {
		return nil
	}

	err := p.runner.Run(name, args...)
	if err == nil {
		p.logger.Debug("Write protection toggled",
			zap.String("path", p.path),
			zap.Bool("immutable", immutable))
		return nil
	}
	if isUnsupported(err) {
		p.logger.Debug("Write protection unavailable",
			zap.String("path", p.path),
			zap.Error(err))
		return nil
	}
	if immutable {
		return fmt.Errorf("restore write protection on %s: %w", p.path, err)
	}
	return fmt.Errorf("remove write protection on %s: %w", p.path, err)
}

func (p *FileProtector) command(immutable bool) (string, []string) {
	switch p.goos {
	case "linux":
		if immutable {
			return "chattr", []string{"+i", p.path}
		}
		return "chattr", []string{"-i", p.path}
	case "darwin":
		if immutable {
			return "chflags", []string{"uchg", p.path}
		}
		return "chflags", []string{"nouchg", p.path}
	default:
		return "", nil
	}
}

// isUnsupported reports a missing tool or a filesystem without the flag.
func isUnsupported(err error) bool {
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not supported") ||
		strings.Contains(msg, "inappropriate ioctl")
}
