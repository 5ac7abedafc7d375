package state

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/web_mon/internal/domain"
)

// LockdownFileName is the record name inside the focus directory.
const LockdownFileName = "lockdown"

// legacyTimeLayout is the zone-less ISO form written by older versions.
const legacyTimeLayout = "2006-01-02T15:04:05.999999999"

// FileLockdownStore implements domain.LockdownStore with a one-line file.
// Lockdown is an advisory gate: unreadable or corrupt content means "not locked".
type FileLockdownStore struct {
	path   string
	now    func() time.Time
	logger *zap.Logger
}

// NewLockdownStore creates a store at path.
func NewLockdownStore(path string, logger *zap.Logger) *FileLockdownStore {
	return &FileLockdownStore{path: path, now: time.Now, logger: logger}
}

// NewLockdownStoreWithClock creates a store with a custom clock (for testing).
func NewLockdownStoreWithClock(path string, now func() time.Time, logger *zap.Logger) *FileLockdownStore {
	return &FileLockdownStore{path: path, now: now, logger: logger}
}

// Set locks for hours, clamped to the end of the current local day.
func (s *FileLockdownStore) Set(hours float64) (time.Time, error) {
	if hours <= 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return time.Time{}, fmt.Errorf("%w: hours must be positive, got %v", domain.ErrInvalidDuration, hours)
	}

	now := s.now()
	deadline := EndOfDay(now)
	// Compare in float hours first so huge inputs cannot overflow time.Duration.
	if hours < deadline.Sub(now).Hours() {
		deadline = now.Add(time.Duration(hours * float64(time.Hour)))
	}

	if err := atomicWrite(s.path, []byte(deadline.Format(time.RFC3339Nano))); err != nil {
		return time.Time{}, fmt.Errorf("%w: set lockdown: %w", domain.ErrFileOperation, err)
	}

	s.logger.Info("lockdown set",
		zap.Float64("hours", hours),
		zap.Time("until", deadline))
	return deadline, nil
}

// Remaining returns the time left until the deadline.
func (s *FileLockdownStore) Remaining() (time.Duration, bool) {
	deadline, ok := s.deadline()
	if !ok {
		return 0, false
	}
	remaining := deadline.Sub(s.now())
	if remaining <= 0 {
		return 0, false
	}
	return remaining, true
}

// Clear removes the record if present.
func (s *FileLockdownStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: clear lockdown: %w", domain.ErrFileOperation, err)
	}
	return nil
}

func (s *FileLockdownStore) deadline() (time.Time, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("cannot read lockdown record, treating as unlocked", zap.Error(err))
		}
		return time.Time{}, false
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339Nano, content); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(legacyTimeLayout, content, s.now().Location()); err == nil {
		return t, true
	}

	s.logger.Warn("corrupt lockdown record, treating as unlocked", zap.String("content", content))
	return time.Time{}, false
}

// EndOfDay returns 23:59:59.999999 of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999999000, t.Location())
}

// Ensure FileLockdownStore implements domain.LockdownStore.
var _ domain.LockdownStore = (*FileLockdownStore)(nil)
