// Package audit appends block/unblock events to a plain-text log.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eliteGoblin/focusd/web_mon/internal/domain"
)

// TimeLayout is the timestamp format of every audit line.
const TimeLayout = "2006-01-02 15:04:05"

// FileLog implements domain.AuditLog. Lines are only ever appended.
type FileLog struct {
	path string
	now  func() time.Time
}

// NewFileLog creates an audit log at path.
func NewFileLog(path string) *FileLog {
	return &FileLog{path: path, now: time.Now}
}

// NewFileLogWithClock creates an audit log with a custom clock (for testing).
func NewFileLogWithClock(path string, now func() time.Time) *FileLog {
	return &FileLog{path: path, now: now}
}

// Path returns the log location.
func (l *FileLog) Path() string {
	return l.path
}

// Append writes one line for entry. A zero entry time is stamped with now.
func (l *FileLog) Append(entry domain.AuditEntry) error {
	if entry.Time.IsZero() {
		entry.Time = l.now()
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("%w: audit log: %w", domain.ErrFileOperation, err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("%w: audit log: %w", domain.ErrFileOperation, err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatEntry(entry) + "\n"); err != nil {
		return fmt.Errorf("%w: audit log: %w", domain.ErrFileOperation, err)
	}
	return nil
}

// FormatEntry renders an entry without the trailing newline:
//
//	2024-01-02 15:04:05; BLOCK
//	2024-01-02 15:04:05; UNBLOCK; Duration: 25 minutes; Reason: docs; Specific: a.com, b.com
func FormatEntry(entry domain.AuditEntry) string {
	parts := []string{entry.Time.Format(TimeLayout), string(entry.Kind)}
	if entry.Kind == domain.EventUnblock {
		parts = append(parts,
			fmt.Sprintf("Duration: %d minutes", entry.DurationMinutes),
			"Reason: "+entry.Reason)
		if len(entry.Domains) > 0 {
			parts = append(parts, "Specific: "+strings.Join(entry.Domains, ", "))
		}
	}
	return strings.Join(parts, "; ")
}

// Ensure FileLog implements domain.AuditLog.
var _ domain.AuditLog = (*FileLog)(nil)
