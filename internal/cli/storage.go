package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/arielsanchezmora/vdoc/internal/collector"
)

type StorageOptions struct {
	GlobalOptions

	Adapters   bool
	Datastores bool
}

func DefaultStorageOptions() *StorageOptions {
	return &StorageOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdStorage() *cobra.Command {
	o := DefaultStorageOptions()
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Document storage adapters and datastores.",
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

func (o *StorageOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)
	fs.BoolVar(&o.Adapters, "adapters", o.Adapters, "Only the storage adapter report.")
	fs.BoolVar(&o.Datastores, "datastores", o.Datastores, "Only the datastore report.")
}

func (o *StorageOptions) Run(ctx context.Context, args []string) error {
	var kinds []collector.ReportKind
	if o.Adapters {
		kinds = append(kinds, collector.KindStorage)
	}
	if o.Datastores {
		kinds = append(kinds, collector.KindDatastores)
	}
	if len(kinds) == 0 {
		kinds = []collector.ReportKind{collector.KindStorage, collector.KindDatastores}
	}
	return o.RunReport(ctx, kinds)
}
