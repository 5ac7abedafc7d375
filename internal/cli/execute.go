package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Execute runs cmd with SIGINT/SIGTERM wired to its context and returns
// the process exit code.
func Execute(cmd *cobra.Command) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return report(cmd.ErrOrStderr(), cmd.ExecuteContext(ctx))
}
