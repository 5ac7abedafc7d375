package domain

import (
	"context"
	"time"
)

// AccessList edits the hosts-style access-list file.
// Implementation: whole-file read, in-memory rewrite, whole-file write.
type AccessList interface {
	// BlockAll activates every rejection line and canonicalizes comments.
	BlockAll() error

	// UnblockAll comments out every active rejection line.
	UnblockAll() error

	// UnblockDomains comments out uncommented lines containing any target.
	UnblockDomains(targets []string) error

	// Lines returns the classified lines of the current file.
	Lines() ([]AccessLine, error)

	// Path returns the file location (for messages).
	Path() string
}

// LockdownStore persists a single future deadline.
type LockdownStore interface {
	// Set locks for hours, clamped to the end of the current day.
	Set(hours float64) (time.Time, error)

	// Remaining returns how long the lock still holds, false when not locked.
	Remaining() (time.Duration, bool)

	// Clear removes the record if present.
	Clear() error
}

// RecentsStore keeps the most recently unblocked domains.
type RecentsStore interface {
	// List returns up to RecentsMax domains, most recent first.
	List() ([]string, error)

	// Update moves domains to the front, first element most recent.
	Update(domains []string) error
}

// AuditLog is the append-only event trail.
type AuditLog interface {
	Append(entry AuditEntry) error
}

// WriteProtector toggles the OS immutability flag on the access-list file.
type WriteProtector interface {
	RemoveWriteProtection() error
	RestoreWriteProtection() error
}

// NameCacheFlusher drops cached name resolution.
type NameCacheFlusher interface {
	FlushNameCache() error
}

// JobScheduler is the external one-shot job facility (at(1) on Unix).
type JobScheduler interface {
	// ListPendingJobs returns IDs of jobs submitted by this tool.
	ListPendingJobs() ([]string, error)

	// CancelJob removes a pending job.
	CancelJob(id string) error

	// SubmitJob runs command once after delay.
	SubmitJob(command string, delay time.Duration) error
}

// System bundles every OS side effect the controller needs.
// Implemented per platform in infra.
type System interface {
	WriteProtector
	NameCacheFlusher
	JobScheduler
}

// Friction enforces the deliberate delay before an exception applies.
type Friction interface {
	// WaitForSpecific waits according to the requested exception length.
	WaitForSpecific(ctx context.Context, durationMinutes int) (int, error)

	// WaitForAll waits and then requires explicit confirmation.
	WaitForAll(ctx context.Context) (int, error)
}

// Reblocker arms and clears the automatic reversal.
type Reblocker interface {
	ScheduleReblock(minutes int) error
	ClearPendingJobs() []error
}

// Prompter is the interactive front end collecting an exception request.
// It returns ErrUserCancelled when the user opts out.
type Prompter interface {
	Collect(ctx context.Context) (ExceptionRequest, error)
}

// Controller is the control loop exposed to the CLI.
type Controller interface {
	// BlockNow restores full blocking.
	BlockNow(ctx context.Context) error

	// GrantException applies a timed exception for a collected request.
	GrantException(ctx context.Context, req ExceptionRequest) (*GrantResult, error)

	// GrantInteractive blocks, collects a request via p, then grants it.
	GrantInteractive(ctx context.Context, p Prompter) (*GrantResult, error)

	// Lock forbids exceptions for hours (capped to end of day).
	Lock(hours float64) (time.Time, error)

	// ClearExpiredLock removes a stale or corrupt lockdown record.
	ClearExpiredLock() error

	// Status reports lockdown and per-domain state.
	Status() (*Status, error)
}
