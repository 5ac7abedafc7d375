// Package usecase contains application business logic.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/web_mon/internal/domain"
	"github.com/eliteGoblin/focusd/web_mon/internal/hosts"
)

// Deps are the collaborators of the controller.
type Deps struct {
	Hosts     domain.AccessList
	Lockdown  domain.LockdownStore
	Recents   domain.RecentsStore
	Audit     domain.AuditLog
	System    domain.System
	Friction  domain.Friction
	Reblocker domain.Reblocker
}

// ControllerImpl implements domain.Controller.
type ControllerImpl struct {
	hosts     domain.AccessList
	lockdown  domain.LockdownStore
	recents   domain.RecentsStore
	audit     domain.AuditLog
	system    domain.System
	friction  domain.Friction
	reblocker domain.Reblocker
	now       func() time.Time
	logger    *zap.Logger
}

// NewController creates a new controller.
func NewController(deps Deps, logger *zap.Logger) *ControllerImpl {
	return &ControllerImpl{
		hosts:     deps.Hosts,
		lockdown:  deps.Lockdown,
		recents:   deps.Recents,
		audit:     deps.Audit,
		system:    deps.System,
		friction:  deps.Friction,
		reblocker: deps.Reblocker,
		now:       time.Now,
		logger:    logger,
	}
}

// BlockNow restores full blocking and cancels any pending reversal.
func (c *ControllerImpl) BlockNow(ctx context.Context) error {
	return c.unprotected(func() error {
		for _, err := range c.reblocker.ClearPendingJobs() {
			c.logger.Warn("Failed to clear pending job", zap.Error(err))
		}

		if err := c.hosts.BlockAll(); err != nil {
			return err
		}
		c.flush()

		if err := c.audit.Append(domain.AuditEntry{Time: c.now(), Kind: domain.EventBlock}); err != nil {
			return err
		}
		c.logger.Info("All sites blocked", zap.String("hosts", c.hosts.Path()))
		return nil
	})
}

// GrantException applies a timed exception for req.
func (c *ControllerImpl) GrantException(ctx context.Context, req domain.ExceptionRequest) (*domain.GrantResult, error) {
	if err := c.checkLock(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var result *domain.GrantResult
	err := c.unprotected(func() error {
		if err := c.hosts.BlockAll(); err != nil {
			return err
		}
		var err error
		result, err = c.grant(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GrantInteractive blocks first, then collects the request from p and grants it.
func (c *ControllerImpl) GrantInteractive(ctx context.Context, p domain.Prompter) (*domain.GrantResult, error) {
	if err := c.checkLock(); err != nil {
		return nil, err
	}

	var result *domain.GrantResult
	err := c.unprotected(func() error {
		if err := c.hosts.BlockAll(); err != nil {
			return err
		}

		req, err := p.Collect(ctx)
		if err != nil {
			return err
		}
		if err := req.Validate(); err != nil {
			return err
		}

		result, err = c.grant(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// grant runs friction, mutation, audit and the reversal for a validated
// request. The file must already be fully blocked.
func (c *ControllerImpl) grant(ctx context.Context, req domain.ExceptionRequest) (*domain.GrantResult, error) {
	var waited int
	var err error
	if req.All {
		waited, err = c.friction.WaitForAll(ctx)
	} else {
		waited, err = c.friction.WaitForSpecific(ctx, req.DurationMinutes)
	}
	if err != nil {
		c.logger.Info("Exception abandoned", zap.Error(err))
		return nil, errors.Join(err, c.reblock())
	}

	if req.All {
		err = c.hosts.UnblockAll()
	} else {
		err = c.hosts.UnblockDomains(req.Domains)
	}
	if err != nil {
		return nil, err
	}
	c.flush()

	entry := domain.AuditEntry{
		Time:            c.now(),
		Kind:            domain.EventUnblock,
		DurationMinutes: req.DurationMinutes,
		Reason:          req.Reason,
	}
	if !req.All {
		entry.Domains = req.Domains
	}
	if err := c.audit.Append(entry); err != nil {
		c.logger.Error("Audit failed, rolling back exception", zap.Error(err))
		return nil, errors.Join(err, c.reblock())
	}

	result := &domain.GrantResult{Request: req, WaitedSeconds: waited}

	if !req.All {
		if err := c.recents.Update(req.Domains); err != nil {
			c.logger.Warn("Recents not updated", zap.Error(err))
			result.Warnings = append(result.Warnings, err)
		}
	}

	if err := c.reblocker.ScheduleReblock(req.DurationMinutes); err != nil {
		c.logger.Warn("Reblock not scheduled", zap.Error(err))
		result.Warnings = append(result.Warnings, err)
	}

	c.logger.Info("Exception granted",
		zap.Bool("all", req.All),
		zap.Strings("domains", req.Domains),
		zap.Int("minutes", req.DurationMinutes),
		zap.Int("waited_seconds", waited))
	return result, nil
}

// Lock forbids exceptions for hours, capped to the end of the day.
func (c *ControllerImpl) Lock(hours float64) (time.Time, error) {
	deadline, err := c.lockdown.Set(hours)
	if err != nil {
		return time.Time{}, err
	}
	c.logger.Info("Lockdown set",
		zap.Float64("hours", hours),
		zap.Time("until", deadline))
	return deadline, nil
}

// ClearExpiredLock removes a stale or corrupt record. An active lock is kept.
func (c *ControllerImpl) ClearExpiredLock() error {
	if err := c.checkLock(); err != nil {
		return err
	}
	if err := c.lockdown.Clear(); err != nil {
		return fmt.Errorf("%w: clear lockdown: %w", domain.ErrFileOperation, err)
	}
	return nil
}

// Status reports the lockdown and per-domain state.
func (c *ControllerImpl) Status() (*domain.Status, error) {
	lines, err := c.hosts.Lines()
	if err != nil {
		return nil, err
	}
	status := &domain.Status{
		BlockedDomains:   hosts.BlockedDomains(lines),
		UnblockedDomains: hosts.UnblockedDomains(lines),
	}
	if remaining, ok := c.lockdown.Remaining(); ok {
		status.Locked = true
		status.LockRemaining = remaining
	}
	return status, nil
}

func (c *ControllerImpl) checkLock() error {
	if remaining, ok := c.lockdown.Remaining(); ok {
		return &domain.LockedError{Remaining: remaining}
	}
	return nil
}

// reblock re-activates every rejection line after an abandoned or failed grant.
func (c *ControllerImpl) reblock() error {
	if err := c.hosts.BlockAll(); err != nil {
		c.logger.Error("Rollback failed", zap.Error(err))
		return err
	}
	c.flush()
	return nil
}

// flush failures are logged only.
func (c *ControllerImpl) flush() {
	if err := c.system.FlushNameCache(); err != nil {
		c.logger.Warn("Name cache flush failed", zap.Error(err))
	}
}

// unprotected runs fn with write protection lifted. Removal failure is
// logged; restore failure is joined into the result.
func (c *ControllerImpl) unprotected(fn func() error) (err error) {
	if rerr := c.system.RemoveWriteProtection(); rerr != nil {
		c.logger.Warn("Write protection not removed", zap.Error(rerr))
	}
	defer func() {
		if rerr := c.system.RestoreWriteProtection(); rerr != nil {
			c.logger.Error("Write protection not restored", zap.Error(rerr))
			err = errors.Join(err, rerr)
		}
	}()
	return fn()
}

// Ensure ControllerImpl implements domain.Controller.
var _ domain.Controller = (*ControllerImpl)(nil)
