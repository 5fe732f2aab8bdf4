package cli

import (
	"github.com/spf13/cobra"
)

func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "vdoc",
		Short:        "Document vSphere host inventory, networking, storage and compliance.",
		SilenceUsage: true,
	}
	cmd.AddCommand(NewCmdInventory())
	cmd.AddCommand(NewCmdNetworking())
	cmd.AddCommand(NewCmdStorage())
	cmd.AddCommand(NewCmdIODevices())
	cmd.AddCommand(NewCmdPatching())
	cmd.AddCommand(NewCmdSecurity())
	cmd.AddCommand(NewCmdVersion())
	return cmd
}
