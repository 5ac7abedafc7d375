package infra

import (
	"strings"
	"syscall"
)

// call records one command invocation.
type call struct {
	name  string
	args  []string
	input string
}

func (c call) String() string {
	return strings.TrimSpace(c.name + " " + strings.Join(c.args, " "))
}

// mockRunner is a test double for CommandRunner.
// Errors and outputs are keyed by the command name.
type mockRunner struct {
	calls   []call
	errs    map[string]error
	outputs map[string]string
}

func newMockRunner() *mockRunner {
	return &mockRunner{
		errs:    make(map[string]error),
		outputs: make(map[string]string),
	}
}

func (m *mockRunner) Run(name string, args ...string) error {
	m.calls = append(m.calls, call{name: name, args: args})
	return m.errs[name]
}

func (m *mockRunner) Output(name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, call{name: name, args: args})
	return []byte(m.outputs[name]), m.errs[name]
}

func (m *mockRunner) RunWithInput(input string, name string, args ...string) error {
	m.calls = append(m.calls, call{name: name, args: args, input: input})
	return m.errs[name]
}

func (m *mockRunner) commandLines() []string {
	lines := make([]string, 0, len(m.calls))
	for _, c := range m.calls {
		lines = append(lines, c.String())
	}
	return lines
}

// mockProcessManager is a test double for ProcessManager.
type mockProcessManager struct {
	running   map[string][]int
	signalErr map[int]error
	signalled []int
}

func newMockProcessManager() *mockProcessManager {
	return &mockProcessManager{
		running:   make(map[string][]int),
		signalErr: make(map[int]error),
	}
}

func (m *mockProcessManager) FindByName(name string) ([]int, error) {
	return m.running[name], nil
}

func (m *mockProcessManager) Signal(pid int, sig syscall.Signal) error {
	if err := m.signalErr[pid]; err != nil {
		return err
	}
	m.signalled = append(m.signalled, pid)
	return nil
}
