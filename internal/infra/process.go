package infra

import (
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessManager finds and signals local daemons.
type ProcessManager interface {
	// FindByName returns PIDs of processes whose name equals name (case-insensitive).
	FindByName(name string) ([]int, error)

	// Signal delivers sig to pid.
	Signal(pid int, sig syscall.Signal) error
}

// ProcessManagerImpl implements ProcessManager using gopsutil.
type ProcessManagerImpl struct{}

// NewProcessManager creates a new process manager.
func NewProcessManager() *ProcessManagerImpl {
	return &ProcessManagerImpl{}
}

// FindByName returns PIDs of processes named name (case-insensitive, whole name).
func (pm *ProcessManagerImpl) FindByName(name string) ([]int, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}

	var found []int
	for _, p := range procs {
		pname, err := p.Name()
		if err != nil {
			continue // Process may have exited
		}
		if strings.EqualFold(pname, name) {
			found = append(found, int(p.Pid))
		}
	}
	return found, nil
}

// Signal delivers sig to pid.
func (pm *ProcessManagerImpl) Signal(pid int, sig syscall.Signal) error {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return err
	}
	return p.SendSignal(sig)
}

// Ensure ProcessManagerImpl implements ProcessManager.
var _ ProcessManager = (*ProcessManagerImpl)(nil)
