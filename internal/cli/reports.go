package cli

import (
	"github.com/spf13/cobra"

	"github.com/arielsanchezmora/vdoc/internal/collector"
)

// The single-report commands share one shape; newSingleKindCmd builds them.
func newSingleKindCmd(use, short string, kind collector.ReportKind) *cobra.Command {
	o := DefaultGlobalOptions()
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.RunReport(cmd.Context(), []collector.ReportKind{kind})
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func NewCmdIODevices() *cobra.Command {
	return newSingleKindCmd("iodevices", "Document PCI I/O devices per host.", collector.KindIODevices)
}

func NewCmdPatching() *cobra.Command {
	return newSingleKindCmd("patching", "Scan hosts for patch compliance.", collector.KindPatching)
}

func NewCmdSecurity() *cobra.Command {
	return newSingleKindCmd("security", "Document speculative-execution mitigations per host.", collector.KindSecurity)
}
