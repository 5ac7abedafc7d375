package hosts

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/web_mon/internal/domain"
)

// Editor implements domain.AccessList on a hosts file.
type Editor struct {
	path   string
	logger *zap.Logger
}

// NewEditor creates an editor for the hosts file at path.
func NewEditor(path string, logger *zap.Logger) *Editor {
	return &Editor{path: path, logger: logger}
}

// Path returns the hosts file location.
func (e *Editor) Path() string {
	return e.path
}

// BlockAll uncomments every line except permanent-allow lines.
//
// NOTE: this also touches lines without a rejection marker. A plain
// "# note" comes out as "note" and an indented "  # note" as "#note".
// Existing hosts files depend on this output, so it stays until someone
// decides otherwise.
func (e *Editor) BlockAll() error {
	return e.rewrite("block all", func(line domain.AccessLine) string {
		if line.Tag == domain.TagPermanentAllow {
			return line.Raw
		}
		return normalizeComment(strings.TrimLeft(line.Raw, domain.CommentMarker))
	})
}

// UnblockAll comments out every active rejection line.
func (e *Editor) UnblockAll() error {
	return e.rewrite("unblock all", func(line domain.AccessLine) string {
		if line.Tag == domain.TagRejectionActive {
			return commentOut(line.Raw)
		}
		return line.Raw
	})
}

// UnblockDomains comments out uncommented lines containing any of targets.
func (e *Editor) UnblockDomains(targets []string) error {
	matcher := NewMatcher(targets)
	return e.rewrite("unblock domains", func(line domain.AccessLine) string {
		if line.Tag == domain.TagPermanentAllow || isCommented(line.Raw) {
			return line.Raw
		}
		if matcher.Match(line.Raw) {
			return commentOut(line.Raw)
		}
		return line.Raw
	})
}

// Lines returns the classified lines of the file.
func (e *Editor) Lines() ([]domain.AccessLine, error) {
	raw, _, err := e.read()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrFileOperation, e.path, err)
	}
	lines := splitLines(raw)
	result := make([]domain.AccessLine, len(lines))
	for i, l := range lines {
		result[i] = Classify(l)
	}
	return result, nil
}

// BlockedDomains lists domains of active rejection lines.
func BlockedDomains(lines []domain.AccessLine) []string {
	return domainsWithTag(lines, domain.TagRejectionActive)
}

// UnblockedDomains lists domains of disabled rejection lines.
func UnblockedDomains(lines []domain.AccessLine) []string {
	return domainsWithTag(lines, domain.TagRejectionDisabled)
}

func domainsWithTag(lines []domain.AccessLine, tag domain.LineTag) []string {
	var result []string
	for _, l := range lines {
		if l.Tag == tag && l.Domain != "" {
			result = append(result, l.Domain)
		}
	}
	return result
}

// rewrite reads the whole file, maps every line and writes the whole file back.
// Nothing is written if the read fails.
func (e *Editor) rewrite(op string, fn func(domain.AccessLine) string) error {
	raw, mode, err := e.read()
	if err != nil {
		return fmt.Errorf("%w: %s: read %s: %w", domain.ErrFileOperation, op, e.path, err)
	}

	lines := splitLines(raw)
	out := make([]string, len(lines))
	changed := 0
	for i, l := range lines {
		out[i] = fn(Classify(l))
		if out[i] != l {
			changed++
		}
	}

	content := strings.Join(out, "\n") + "\n"
	// Write in place (same inode) so immutability flags and bind mounts keep working.
	if err := os.WriteFile(e.path, []byte(content), mode); err != nil {
		return fmt.Errorf("%w: %s: write %s: %w", domain.ErrFileOperation, op, e.path, err)
	}

	e.logger.Debug("hosts file rewritten",
		zap.String("op", op),
		zap.String("path", e.path),
		zap.Int("lines", len(out)),
		zap.Int("changed", changed))
	return nil
}

func (e *Editor) read() (string, os.FileMode, error) {
	info, err := os.Stat(e.path)
	if err != nil {
		return "", 0, err
	}
	data, err := os.ReadFile(e.path)
	if err != nil {
		return "", 0, err
	}
	return string(data), info.Mode().Perm(), nil
}

// splitLines splits on "\n", drops a trailing "\r" per line and ignores the
// final newline. An empty file has no lines.
func splitLines(raw string) []string {
	if raw == "" {
		return nil
	}
	raw = strings.TrimSuffix(raw, "\n")
	lines := strings.Split(raw, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// normalizeComment trims leading whitespace, collapses a leading "#" run to a
// single "#" and removes spaces right after it.
func normalizeComment(line string) string {
	line = strings.TrimLeftFunc(line, isSpace)
	if !strings.HasPrefix(line, domain.CommentMarker) {
		return line
	}
	rest := strings.TrimLeft(line, domain.CommentMarker)
	return domain.CommentMarker + strings.TrimLeft(rest, " ")
}

func commentOut(line string) string {
	return domain.CommentMarker + " " + line
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r)
}

// Ensure Editor implements domain.AccessList.
var _ domain.AccessList = (*Editor)(nil)
