package infra

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/web_mon/internal/domain"
)

// SystemOptions configures the OS adapters.
type SystemOptions struct {
	HostsPath string
	Protect   bool
	AtQueue   string
}

// System implements domain.System by composing the individual adapters.
type System struct {
	*FileProtector
	*FlushManager
	*AtScheduler
}

// NewSystem wires the adapters for the running platform.
func NewSystem(opts SystemOptions, logger *zap.Logger) *System {
	return NewSystemWithDeps(opts, runtime.GOOS, &RealCommandRunner{}, NewProcessManager(), logger)
}

// NewSystemWithDeps wires the adapters with injectable dependencies (for testing).
func NewSystemWithDeps(opts SystemOptions, goos string, runner CommandRunner, pm ProcessManager, logger *zap.Logger) *System {
	return &System{
		FileProtector: NewFileProtector(opts.HostsPath, goos, opts.Protect, runner, logger),
		FlushManager:  NewFlushManager(goos, runner, pm, logger),
		AtScheduler:   NewAtScheduler(opts.AtQueue, runner, logger),
	}
}

// Ensure System implements domain.System.
var _ domain.System = (*System)(nil)
