// Package cli wires configuration, logging and the controller into the
// blk and unblk commands.
package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/web_mon/internal/audit"
	"github.com/eliteGoblin/focusd/web_mon/internal/config"
	"github.com/eliteGoblin/focusd/web_mon/internal/friction"
	"github.com/eliteGoblin/focusd/web_mon/internal/hosts"
	"github.com/eliteGoblin/focusd/web_mon/internal/infra"
	"github.com/eliteGoblin/focusd/web_mon/internal/reblock"
	"github.com/eliteGoblin/focusd/web_mon/internal/state"
	"github.com/eliteGoblin/focusd/web_mon/internal/usecase"
)

// errNotRoot is returned by commands that edit system files without root.
var errNotRoot = errors.New("please run as root (sudo)")

// isRoot is replaced in tests.
var isRoot = func() bool {
	return runtime.GOOS == "windows" || os.Geteuid() == 0
}

// app holds everything one command run needs.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	ctrl    *usecase.ControllerImpl
	recents *state.FileRecentsStore
	closeFn func() error
}

// newApp loads configuration and wires the controller for cmd.
func newApp(cmd *cobra.Command) (*app, error) {
	if err := checkPlatform(); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logger, closeFn := createLogger(cfg.DiagnosticLogPath(), cfg.LogLevel, verbose)
	logger = logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("command", cmd.CommandPath()))
	logger.Debug("Configuration loaded",
		zap.String("hosts", cfg.HostsFile),
		zap.String("focus_dir", cfg.FocusDir),
		zap.String("audit_log", cfg.AuditLogFile),
		zap.String("config_file", cfg.ConfigFile),
		zap.Bool("protect", cfg.Protect))

	system := infra.NewSystem(infra.SystemOptions{
		HostsPath: cfg.HostsFile,
		Protect:   cfg.Protect,
		AtQueue:   cfg.AtQueue,
	}, logger)
	recents := state.NewRecentsStore(cfg.RecentsPath())

	ctrl := usecase.NewController(usecase.Deps{
		Hosts:     hosts.NewEditor(cfg.HostsFile, logger),
		Lockdown:  state.NewLockdownStore(cfg.LockdownPath(), logger),
		Recents:   recents,
		Audit:     audit.NewFileLog(cfg.AuditLogFile),
		System:    system,
		Friction:  friction.NewWaiter(logger, friction.WithIO(cmd.OutOrStdout(), cmd.InOrStdin())),
		Reblocker: reblock.NewScheduler(system, nil, cfg.JobEnv(), logger),
	}, logger)

	return &app{
		cfg:     cfg,
		logger:  logger,
		ctrl:    ctrl,
		recents: recents,
		closeFn: closeFn,
	}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
	_ = a.closeFn()
}

func checkRoot() error {
	if !isRoot() {
		return errNotRoot
	}
	return nil
}

func checkPlatform() error {
	switch runtime.GOOS {
	case "darwin", "linux", "windows":
		return nil
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}
