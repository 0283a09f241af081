package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = ""
)

func versionString() string {
	if commit != "" {
		return fmt.Sprintf("fieldhub %s (commit: %s)", version, commit)
	}
	return "fieldhub " + version
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "fieldhub",
		Short:        "Tenant resolution and CSRF token service",
		Version:      versionString(),
		SilenceUsage: true,
	}
	root.SetVersionTemplate("{{.Version}}\n")

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newCSRFTokenCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
