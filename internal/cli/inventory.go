package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/arielsanchezmora/vdoc/internal/collector"
)

type InventoryOptions struct {
	GlobalOptions

	Hardware      bool
	Configuration bool
}

func DefaultInventoryOptions() *InventoryOptions {
	return &InventoryOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdInventory() *cobra.Command {
	o := DefaultInventoryOptions()
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Document host hardware and configuration.",
		Example: "vdoc inventory --cluster prod-cluster --export-excel\n" +
			"vdoc inventory -e esxi01.local -e esxi02.local --hardware",
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

func (o *InventoryOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)
	fs.BoolVar(&o.Hardware, "hardware", o.Hardware, "Only the hardware report.")
	fs.BoolVar(&o.Configuration, "configuration", o.Configuration, "Only the configuration report.")
}

func (o *InventoryOptions) Run(ctx context.Context, args []string) error {
	var kinds []collector.ReportKind
	if o.Hardware {
		kinds = append(kinds, collector.KindHardware)
	}
	if o.Configuration {
		kinds = append(kinds, collector.KindConfiguration)
	}
	if len(kinds) == 0 {
		kinds = []collector.ReportKind{collector.KindHardware, collector.KindConfiguration}
	}
	return o.RunReport(ctx, kinds)
}
