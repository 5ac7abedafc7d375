package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/eliteGoblin/focusd/web_mon/internal/domain"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	faint  = color.New(color.Faint)
)

// statusLines renders `blk status`.
func statusLines(s *domain.Status) []string {
	var lines []string
	if s.Locked {
		lines = append(lines, red.Sprint("LOCKED")+" for "+domain.FormatRemaining(s.LockRemaining))
	}
	switch n := len(s.UnblockedDomains); {
	case n == 0:
		lines = append(lines, "All blocked")
	case n <= domain.RecentsMax:
		lines = append(lines, "Unblocked: "+strings.Join(s.UnblockedDomains, ", "))
	default:
		lines = append(lines, "Unblocked: many")
	}
	return lines
}

// doneMessage summarizes a granted exception.
func doneMessage(r *domain.GrantResult) string {
	target := "ALL"
	if !r.Request.All {
		target = strings.Join(r.Request.Domains, ", ")
	}
	return fmt.Sprintf("Done: %s for %dm", target, r.Request.DurationMinutes)
}

func printWarnings(w io.Writer, warnings []error) {
	for _, warn := range warnings {
		yellow.Fprintf(w, "Warning: %v\n", warn)
	}
}

// report prints err and returns the exit code. Cancellation is a normal exit.
func report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}

	var locked *domain.LockedError
	switch {
	case errors.Is(err, domain.ErrConfirmTimeout):
		yellow.Fprintln(w, "Timed out. Aborting.")
		return 0
	case errors.Is(err, domain.ErrUserCancelled):
		yellow.Fprintln(w, "Cancelled")
		return 0
	case errors.As(err, &locked):
		red.Fprintf(w, "Locked for %s\n", domain.FormatRemaining(locked.Remaining))
		faint.Fprintln(w, "Use 'blk status' to check lockdown")
		return 1
	default:
		red.Fprintf(w, "Error: %v\n", err)
		return 1
	}
}
