// Package fixtures provides test helpers for integration tests.
package fixtures

import (
	"os"
	"path/filepath"
	"time"

	"github.com/eliteGoblin/focusd/web_mon/internal/friction"
)

// SampleHosts mixes every kind of line the editor distinguishes.
const SampleHosts = `127.0.0.1 localhost
::1 localhost
# regular comment
0.0.0.0 reddit.com # BLOCKME
0.0.0.0 www.reddit.com # BLOCKME
# 0.0.0.0 news.ycombinator.com # BLOCKME
0.0.0.0 github.com # NEVERBLOCK
# 0.0.0.0 docs.python.org # NEVERBLOCK BLOCKME
`

// FakeFocusHome lays out a hosts file, a focus directory and an audit log
// under one temp directory.
type FakeFocusHome struct {
	Dir string
}

// NewFakeFocusHome creates a new layout generator rooted at dir.
func NewFakeFocusHome(dir string) *FakeFocusHome {
	return &FakeFocusHome{Dir: dir}
}

// Create writes the sample hosts file.
func (f *FakeFocusHome) Create() error {
	return os.WriteFile(f.HostsPath(), []byte(SampleHosts), 0644)
}

// HostsPath is the fake access-list file.
func (f *FakeFocusHome) HostsPath() string {
	return filepath.Join(f.Dir, "hosts")
}

// FocusDir holds lockdown and recents.
func (f *FakeFocusHome) FocusDir() string {
	return filepath.Join(f.Dir, ".focus")
}

// AuditLogPath is the fake audit trail.
func (f *FakeFocusHome) AuditLogPath() string {
	return filepath.Join(f.Dir, "unblk.log")
}

// Hosts returns the current hosts content.
func (f *FakeFocusHome) Hosts() string {
	data, _ := os.ReadFile(f.HostsPath())
	return string(data)
}

// AuditLog returns the current audit trail.
func (f *FakeFocusHome) AuditLog() string {
	data, _ := os.ReadFile(f.AuditLogPath())
	return string(data)
}

// InstantTimer fires friction waits immediately. The ALL confirmation
// window never elapses, so the outcome depends only on the input.
func InstantTimer(d time.Duration) <-chan time.Time {
	if d == friction.DefaultConfirmWindow {
		return make(chan time.Time)
	}
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}
