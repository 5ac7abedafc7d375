package cli

import (
	"github.com/spf13/cobra"

	"github.com/eliteGoblin/focusd/web_mon/internal/domain"
	"github.com/eliteGoblin/focusd/web_mon/internal/prompt"
)

type unblkOptions struct {
	reason  string
	minutes int
	all     bool
}

// NewUnblkCommand builds the unblk command.
func NewUnblkCommand() *cobra.Command {
	opts := &unblkOptions{}

	cmd := &cobra.Command{
		Use:   "unblk [domain...]",
		Short: "Temporarily unblock websites",
		Long: `unblk grants a timed exception. It blocks everything first, asks for a
reason, a duration and the sites, makes you wait, then unblocks and
schedules an automatic re-block.

With --reason the questions are skipped: pass --all or domain patterns.`,
		Args:    cobra.ArbitraryArgs,
		Version: Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnblk(cmd, args, opts)
		},
	}
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")
	cmd.Flags().StringVar(&opts.reason, "reason", "", "Reason for the exception (skips the questions)")
	cmd.Flags().IntVar(&opts.minutes, "minutes", 25, "Exception length in minutes")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Unblock every site")

	cmd.AddCommand(newVersionCmd("unblk"))
	return cmd
}

func runUnblk(cmd *cobra.Command, args []string, opts *unblkOptions) error {
	if err := checkRoot(); err != nil {
		return err
	}
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	var result *domain.GrantResult
	if opts.reason != "" {
		result, err = a.ctrl.GrantException(cmd.Context(), domain.ExceptionRequest{
			Reason:          opts.reason,
			DurationMinutes: opts.minutes,
			All:             opts.all,
			Domains:         args,
		})
	} else {
		result, err = a.ctrl.GrantInteractive(cmd.Context(), prompt.NewPrompter(a.recents, a.logger))
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printWarnings(out, result.Warnings)
	green.Fprintln(out, doneMessage(result))
	return nil
}
