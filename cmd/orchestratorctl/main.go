// Command orchestratorctl is the operator-facing entrypoint for the
// on-call shift orchestrator: manual runs, the nightly rolling
// extension, and read-only coverage/availability reports.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow, color.Bold)
	headerColor  = color.New(color.FgCyan, color.Bold)
)

func main() {
	root := &cobra.Command{
		Use:   "orchestratorctl",
		Short: "Operate the on-call shift orchestrator",
	}

	root.AddCommand(
		newRunCmd(),
		newExtendCmd(),
		newCoverageCmd(),
		newAvailabilityCmd(),
		newEnableAutoCmd(),
		newDisableAutoCmd(),
		newToggleProductCmd(),
	)

	if err := root.Execute(); err != nil {
		errorColor.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withApp wires an app, runs fn, and always closes it, converting fn's
// error into the process's exit code via cobra's own error path. Per
// spec, infrastructural failures (a fn error) exit non-zero; a fn that
// returns nil after printing violation data still exits 0 — scheduling
// constraint violations are data, not process failure.
func withApp(fn func(context.Context, *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := newApp(ctx)
		if err != nil {
			return fmt.Errorf("start orchestratorctl: %w", err)
		}
		defer a.close()
		return fn(ctx, a)
	}
}
