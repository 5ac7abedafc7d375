package infra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSystem_WiresAdapters(t *testing.T) {
	runner, pm := newMockRunner(), newMockProcessManager()
	sys := NewSystemWithDeps(SystemOptions{
		HostsPath: "/etc/hosts",
		Protect:   true,
		AtQueue:   "c",
	}, "linux", runner, pm, zap.NewNop())

	require.NoError(t, sys.RemoveWriteProtection())
	require.NoError(t, sys.FlushNameCache())
	require.NoError(t, sys.SubmitJob("sudo blk", time.Minute))
	require.NoError(t, sys.RestoreWriteProtection())

	assert.Equal(t, []string{
		"chattr -i /etc/hosts",
		"at -q c now + 1 minutes",
		"chattr +i /etc/hosts",
	}, runner.commandLines())
}
