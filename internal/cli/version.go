package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// set at build time via -ldflags "-X .../internal/cli.version=..."
var version = "dev"

func NewCmdVersion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print vdoc version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd.Context())
		},
	}
	return cmd
}

func runVersion(ctx context.Context) error {
	fmt.Printf("vdoc version: %s\n", version)
	return nil
}
