package infra

import (
	"bufio"
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultAtQueue keeps this tool's jobs apart from the user's own at jobs.
const DefaultAtQueue = "b"

// AtScheduler implements domain.JobScheduler with at(1), atq(1) and atrm(1).
type AtScheduler struct {
	queue  string
	runner CommandRunner
	logger *zap.Logger
}

// NewAtScheduler creates a scheduler on queue (a single letter).
func NewAtScheduler(queue string, runner CommandRunner, logger *zap.Logger) *AtScheduler {
	if queue == "" {
		queue = DefaultAtQueue
	}
	return &AtScheduler{queue: queue, runner: runner, logger: logger}
}

// ListPendingJobs returns the IDs of jobs in this tool's queue.
func (a *AtScheduler) ListPendingJobs() ([]string, error) {
	out, err := a.runner.Output("atq", "-q", a.queue)
	if err != nil {
		return nil, err
	}
	return ParseAtq(out), nil
}

// CancelJob removes a pending job.
func (a *AtScheduler) CancelJob(id string) error {
	return a.runner.Run("atrm", id)
}

// SubmitJob queues command to run once after delay, rounded up to whole minutes.
func (a *AtScheduler) SubmitJob(command string, delay time.Duration) error {
	minutes := int(math.Ceil(delay.Minutes()))
	if minutes < 1 {
		minutes = 1
	}
	args := []string{"-q", a.queue, "now", "+", strconv.Itoa(minutes), "minutes"}
	if err := a.runner.RunWithInput(command+"\n", "at", args...); err != nil {
		return err
	}
	a.logger.Debug("Job submitted",
		zap.String("queue", a.queue),
		zap.Int("minutes", minutes))
	return nil
}

// ParseAtq extracts job IDs from atq output. Both the Linux form
// ("3\tTue Mar 12 10:00:00 2024 b root") and the BSD form are accepted.
func ParseAtq(out []byte) []string {
	var ids []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if _, err := strconv.Atoi(fields[0]); err != nil {
			continue // header or noise
		}
		ids = append(ids, fields[0])
	}
	return ids
}

// CheckQueue validates an at queue name: a single letter.
func CheckQueue(q string) error {
	if len(q) != 1 || !((q[0] >= 'a' && q[0] <= 'z') || (q[0] >= 'A' && q[0] <= 'Z')) {
		return fmt.Errorf("invalid at queue %q: want a single letter", q)
	}
	return nil
}
