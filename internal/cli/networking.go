package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/arielsanchezmora/vdoc/internal/collector"
)

type NetworkingOptions struct {
	GlobalOptions

	VMkernel        bool
	VirtualSwitches bool
	Physical        bool
}

func DefaultNetworkingOptions() *NetworkingOptions {
	return &NetworkingOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdNetworking() *cobra.Command {
	o := DefaultNetworkingOptions()
	cmd := &cobra.Command{
		Use:   "networking",
		Short: "Document VMkernel adapters, virtual switches and physical NICs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *NetworkingOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)
	fs.BoolVar(&o.VMkernel, "vmkernel", o.VMkernel, "Only the VMkernel adapter report.")
	fs.BoolVar(&o.VirtualSwitches, "vswitch", o.VirtualSwitches, "Only the virtual switch report.")
	fs.BoolVar(&o.Physical, "physical", o.Physical, "Only the physical adapter report.")
}

func (o *NetworkingOptions) Run(ctx context.Context, args []string) error {
	var kinds []collector.ReportKind
	if o.VMkernel {
		kinds = append(kinds, collector.KindVMkernel)
	}
	if o.VirtualSwitches {
		kinds = append(kinds, collector.KindVSwitch)
	}
	if o.Physical {
		kinds = append(kinds, collector.KindPhysical)
	}
	if len(kinds) == 0 {
		kinds = []collector.ReportKind{collector.KindVMkernel, collector.KindVSwitch, collector.KindPhysical}
	}
	return o.RunReport(ctx, kinds)
}
