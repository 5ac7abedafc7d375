// Package friction implements the deliberate delay that precedes every
// exception, plus the explicit confirmation required to unblock everything.
package friction

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/web_mon/internal/domain"
)

// DefaultConfirmWindow is how long the user has to confirm an ALL exception.
const DefaultConfirmWindow = 10 * time.Second

// waitRange is an inclusive range of seconds.
type waitRange struct {
	min, max int
}

// SpecificRange returns the wait range for an exception of the given length.
func SpecificRange(durationMinutes int) (int, int) {
	r := specificRange(durationMinutes)
	return r.min, r.max
}

func specificRange(durationMinutes int) waitRange {
	switch {
	case durationMinutes <= 20:
		return waitRange{0, 2}
	case durationMinutes <= 60:
		return waitRange{5, 12}
	case durationMinutes <= 180:
		return waitRange{15, 45}
	default:
		return waitRange{30, 90}
	}
}

var allRange = waitRange{30, 90}

// AllRange returns the wait range before unblocking everything.
func AllRange() (int, int) {
	return allRange.min, allRange.max
}

// Waiter implements domain.Friction.
type Waiter struct {
	out           io.Writer
	in            io.Reader
	logger        *zap.Logger
	intN          func(n int) int
	after         func(d time.Duration) <-chan time.Time
	confirmWindow time.Duration
}

// Option customizes a Waiter.
type Option func(*Waiter)

// WithIO sets where progress is written and confirmation is read from.
func WithIO(out io.Writer, in io.Reader) Option {
	return func(w *Waiter) {
		w.out = out
		w.in = in
	}
}

// WithRandom replaces the uniform source; intN must return a value in [0, n).
func WithRandom(intN func(n int) int) Option {
	return func(w *Waiter) { w.intN = intN }
}

// WithTimer replaces time.After (for testing).
func WithTimer(after func(d time.Duration) <-chan time.Time) Option {
	return func(w *Waiter) { w.after = after }
}

// WithConfirmWindow overrides DefaultConfirmWindow.
func WithConfirmWindow(d time.Duration) Option {
	return func(w *Waiter) { w.confirmWindow = d }
}

// NewWaiter creates a Waiter on stdout/stdin.
func NewWaiter(logger *zap.Logger, opts ...Option) *Waiter {
	w := &Waiter{
		out:           os.Stdout,
		in:            os.Stdin,
		logger:        logger,
		intN:          rand.Intn,
		after:         time.After,
		confirmWindow: DefaultConfirmWindow,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SpecificWaitSeconds draws the wait for an exception of durationMinutes.
func (w *Waiter) SpecificWaitSeconds(durationMinutes int) int {
	return w.draw(specificRange(durationMinutes))
}

// AllWaitSeconds draws the wait before unblocking everything.
func (w *Waiter) AllWaitSeconds() int {
	return w.draw(allRange)
}

func (w *Waiter) draw(r waitRange) int {
	return r.min + w.intN(r.max-r.min+1)
}

// WaitForSpecific waits before a domain-specific exception.
// Returns the seconds waited.
func (w *Waiter) WaitForSpecific(ctx context.Context, durationMinutes int) (int, error) {
	seconds := w.SpecificWaitSeconds(durationMinutes)
	w.logger.Debug("Friction wait",
		zap.Int("duration_minutes", durationMinutes),
		zap.Int("seconds", seconds))
	if err := w.wait(ctx, seconds); err != nil {
		return 0, err
	}
	return seconds, nil
}

// WaitForAll waits and then asks for Enter within the confirmation window.
// A missed window returns domain.ErrConfirmTimeout.
func (w *Waiter) WaitForAll(ctx context.Context) (int, error) {
	seconds := w.AllWaitSeconds()
	w.logger.Debug("Friction wait (all)", zap.Int("seconds", seconds))
	if err := w.wait(ctx, seconds); err != nil {
		return 0, err
	}
	if err := w.confirm(ctx); err != nil {
		return 0, err
	}
	return seconds, nil
}

func (w *Waiter) wait(ctx context.Context, seconds int) error {
	if seconds <= 0 {
		return nil
	}

	fmt.Fprintf(w.out, "Waiting %d seconds...\n", seconds)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w.out))
	s.Suffix = " thinking it over"
	s.Start()
	defer s.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: wait interrupted: %w", domain.ErrUserCancelled, ctx.Err())
	case <-w.after(time.Duration(seconds) * time.Second):
		return nil
	}
}

func (w *Waiter) confirm(ctx context.Context) error {
	fmt.Fprintf(w.out, "Press Enter within %d seconds to unblock ALL sites.\n",
		int(w.confirmWindow/time.Second))

	// The reader goroutine is abandoned on timeout; the process exits soon after.
	line := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(w.in).ReadString('\n')
		line <- err
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: confirmation interrupted: %w", domain.ErrUserCancelled, ctx.Err())
	case <-w.after(w.confirmWindow):
		return domain.ErrConfirmTimeout
	case err := <-line:
		if err != nil {
			return fmt.Errorf("%w: no confirmation: %w", domain.ErrUserCancelled, err)
		}
		return nil
	}
}

// Ensure Waiter implements domain.Friction.
var _ domain.Friction = (*Waiter)(nil)
