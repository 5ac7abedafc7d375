// Package infra implements the OS side effects: write protection,
// name-cache flushing, deferred jobs and process lookup.
package infra

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner abstracts command execution for testing.
type CommandRunner interface {
	// Run executes a command and waits for it to complete.
	Run(name string, args ...string) error

	// Output executes a command and returns its stdout.
	Output(name string, args ...string) ([]byte, error)

	// RunWithInput executes a command feeding input on stdin.
	RunWithInput(input string, name string, args ...string) error
}

// RealCommandRunner executes real system commands.
// Failures carry the command line and its trimmed stderr.
type RealCommandRunner struct{}

// Run executes a command and waits for it to complete.
func (r *RealCommandRunner) Run(name string, args ...string) error {
	_, err := r.run("", name, args...)
	return err
}

// Output executes a command and returns its stdout.
func (r *RealCommandRunner) Output(name string, args ...string) ([]byte, error) {
	return r.run("", name, args...)
}

// RunWithInput executes a command feeding input on stdin.
func (r *RealCommandRunner) RunWithInput(input string, name string, args ...string) error {
	_, err := r.run(input, name, args...)
	return err
}

func (r *RealCommandRunner) run(input string, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return stdout.Bytes(), fmt.Errorf("%s: %w", commandLine(name, args), err)
		}
		return stdout.Bytes(), fmt.Errorf("%s: %w: %s", commandLine(name, args), err, msg)
	}
	return stdout.Bytes(), nil
}

func commandLine(name string, args []string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}

// Ensure RealCommandRunner implements CommandRunner.
var _ CommandRunner = (*RealCommandRunner)(nil)
