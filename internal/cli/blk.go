package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eliteGoblin/focusd/web_mon/internal/domain"
)

// NewBlkCommand builds the blk command tree.
func NewBlkCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "blk",
		Short: "Block distracting websites",
		Long: `blk re-enables every BLOCKME line in the hosts file, flushes the
name cache and cancels any pending automatic re-block.

Lines marked NEVERBLOCK are never touched.`,
		Args:    cobra.NoArgs,
		Version: Version,
		RunE:    runBlock,
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show lockdown and unblocked sites",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}

	lockCmd := &cobra.Command{
		Use:   "lock <hours>",
		Short: "Disable unblk for a number of hours",
		Long: `Disables unblk for the given number of hours (fractions allowed).
The lock never extends past the end of the current day.

  blk lock 2     lock for 2 hours
  blk lock 0.5   lock for 30 minutes`,
		Args: cobra.ExactArgs(1),
		RunE: runLock,
	}

	// Hidden: removes a stale or corrupt lockdown record
	unlockCmd := &cobra.Command{
		Use:    "unlock",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE:   runUnlock,
	}

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(newVersionCmd("blk"))
	return rootCmd
}

func runBlock(cmd *cobra.Command, args []string) error {
	if err := checkRoot(); err != nil {
		return err
	}
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.ctrl.BlockNow(cmd.Context()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	green.Fprintln(out, "Websites blocked successfully.")
	fmt.Fprintln(out, "DNS cache flushed.")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	status, err := a.ctrl.Status()
	if err != nil {
		return err
	}
	for _, line := range statusLines(status) {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}

func runLock(cmd *cobra.Command, args []string) error {
	hours, err := parseHours(args[0])
	if err != nil {
		return err
	}
	if err := checkRoot(); err != nil {
		return err
	}
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	deadline, err := a.ctrl.Lock(hours)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	green.Fprintf(out, "Locked until %s\n", deadline.Format("15:04"))
	faint.Fprintln(out, "unblk will be disabled until then")
	return nil
}

func runUnlock(cmd *cobra.Command, args []string) error {
	if err := checkRoot(); err != nil {
		return err
	}
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.ctrl.ClearExpiredLock(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Stale lockdown record cleared.")
	return nil
}

// parseHours accepts positive decimal hours such as 2 or 1.5.
func parseHours(s string) (float64, error) {
	hours, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid hours %q, use a number like 2 or 1.5", domain.ErrInvalidDuration, s)
	}
	if hours <= 0 {
		return 0, fmt.Errorf("%w: hours must be positive", domain.ErrInvalidDuration)
	}
	return hours, nil
}
