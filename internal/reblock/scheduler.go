// Package reblock arms the automatic reversal of an exception.
package reblock

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/alessio/shellescape"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/web_mon/internal/domain"
)

// BlockCommandName is the executable the deferred job runs.
const BlockCommandName = "blk"

// Locator finds the blk executable.
type Locator func() (string, error)

// Scheduler implements domain.Reblocker on top of a domain.JobScheduler.
type Scheduler struct {
	jobs   domain.JobScheduler
	locate Locator
	env    map[string]string
	logger *zap.Logger
}

// NewScheduler creates a Scheduler. env holds variables passed to the job so
// the deferred blk sees the same file locations as this run.
func NewScheduler(jobs domain.JobScheduler, locate Locator, env map[string]string, logger *zap.Logger) *Scheduler {
	if locate == nil {
		locate = LocateBlk
	}
	return &Scheduler{jobs: jobs, locate: locate, env: env, logger: logger}
}

// ScheduleReblock submits a one-shot blk job delayed by minutes.
// The granted exception is never rolled back on failure.
func (s *Scheduler) ScheduleReblock(minutes int) error {
	blk, err := s.locate()
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSchedulingFailed, err)
	}

	command := BuildCommand(blk, s.env)
	if err := s.jobs.SubmitJob(command, time.Duration(minutes)*time.Minute); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSchedulingFailed, err)
	}

	s.logger.Info("Reblock scheduled",
		zap.Int("minutes", minutes),
		zap.String("command", command))
	return nil
}

// ClearPendingJobs cancels every pending job of this tool.
// Individual failures are returned for the caller to log.
func (s *Scheduler) ClearPendingJobs() []error {
	ids, err := s.jobs.ListPendingJobs()
	if err != nil {
		return []error{fmt.Errorf("list pending jobs: %w", err)}
	}

	var errs []error
	for _, id := range ids {
		if err := s.jobs.CancelJob(id); err != nil {
			errs = append(errs, fmt.Errorf("cancel job %s: %w", id, err))
			continue
		}
		s.logger.Debug("Cancelled pending reblock", zap.String("job", id))
	}
	return errs
}

// BuildCommand renders "sudo [KEY=value ...] /path/to/blk" with every
// word shell-quoted. Keys are sorted so the command is stable.
func BuildCommand(blk string, env map[string]string) string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	words := []string{"sudo"}
	for _, k := range keys {
		words = append(words, shellescape.Quote(k+"="+env[k]))
	}
	words = append(words, shellescape.Quote(blk))
	return strings.Join(words, " ")
}

// LocateBlk searches PATH first, then the directory of the running binary.
func LocateBlk() (string, error) {
	name := BlockCommandName
	if runtime.GOOS == "windows" {
		name += ".exe"
	}

	if path, err := exec.LookPath(name); err == nil {
		if abs, err := filepath.Abs(path); err == nil {
			return abs, nil
		}
		return path, nil
	}

	self, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("cannot locate %s: %w", name, err)
	}
	candidate := filepath.Join(filepath.Dir(self), name)
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate, nil
	}
	return "", errors.New("cannot locate " + name + " in PATH or next to " + self)
}

// Ensure Scheduler implements domain.Reblocker.
var _ domain.Reblocker = (*Scheduler)(nil)
