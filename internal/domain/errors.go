package domain

import (
	"errors"
	"fmt"
	"time"
)

// Error kinds. Concrete errors wrap one of these so callers can use errors.Is.
var (
	// ErrFileOperation covers read/write failures on the hosts, lockdown,
	// recents and audit files.
	ErrFileOperation = errors.New("file operation failed")

	// ErrInvalidDuration is returned for lockdown or exception durations out of bounds.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidReason is returned when the reason is too short.
	ErrInvalidReason = errors.New("invalid reason")

	// ErrInvalidPattern is returned when a domain pattern is too short.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrSchedulingFailed means the automatic re-block could not be armed.
	// The exception stays granted.
	ErrSchedulingFailed = errors.New("scheduling failed")

	// ErrRecentsUpdate is non-fatal; callers warn and continue.
	ErrRecentsUpdate = errors.New("recents update failed")

	// ErrUserCancelled is normal termination, not a failure.
	ErrUserCancelled = errors.New("cancelled")

	// ErrConfirmTimeout is a cancellation: the ALL confirmation window elapsed.
	ErrConfirmTimeout = fmt.Errorf("%w: confirmation window elapsed", ErrUserCancelled)

	// ErrLocked means a lockdown forbids exceptions right now.
	ErrLocked = errors.New("locked")
)

// LockedError carries the remaining lockdown time.
type LockedError struct {
	Remaining time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("locked for %s", FormatRemaining(e.Remaining))
}

// Is reports ErrLocked as the kind of a LockedError.
func (e *LockedError) Is(target error) bool {
	return target == ErrLocked
}

// FormatRemaining renders a duration as "2h 30m", "45m 30s" or "30s".
// Components are floored.
func FormatRemaining(d time.Duration) string {
	total := int64(d / time.Second)
	if total < 0 {
		total = 0
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
