package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
	"go.uber.org/zap"
	"sigs.k8s.io/yaml"

	"github.com/arielsanchezmora/vdoc/internal/collector"
	"github.com/arielsanchezmora/vdoc/internal/config"
	"github.com/arielsanchezmora/vdoc/internal/hcl"
	"github.com/arielsanchezmora/vdoc/internal/inventory"
	"github.com/arielsanchezmora/vdoc/internal/report"
	"github.com/arielsanchezmora/vdoc/internal/util"
)

const (
	jsonFormat = "json"
	yamlFormat = "yaml"
)

var legalOutputTypes = []string{jsonFormat, yamlFormat}

// GlobalOptions is the flag surface shared by every report command:
// connection, target selection, export and output controls.
type GlobalOptions struct {
	ConfigFilePath string

	URL      string
	Username string
	Password string
	Insecure bool

	Hosts       []string
	Clusters    []string
	Datacenters []string

	ExportCSV   bool
	ExportExcel bool
	FolderPath  string
	Output      string
	Workers     int

	cfg *config.Config
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		ConfigFilePath: util.GetEnv("VDOC_CONFIG", ""),
		Insecure:       true,
	}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigFilePath, "config", o.ConfigFilePath, "Path to a YAML config file.")
	fs.StringVar(&o.URL, "url", o.URL, "vCenter or ESXi SDK endpoint, e.g. https://vcenter.local/sdk.")
	fs.StringVarP(&o.Username, "username", "u", o.Username, "vSphere username.")
	fs.StringVarP(&o.Password, "password", "p", o.Password, "vSphere password.")
	fs.BoolVar(&o.Insecure, "insecure", o.Insecure, "Skip TLS certificate verification.")
	fs.StringSliceVarP(&o.Hosts, "esxi", "e", o.Hosts, "Explicit ESXi host name(s). Takes precedence over --cluster and --datacenter.")
	fs.StringSliceVarP(&o.Clusters, "cluster", "c", o.Clusters, "Cluster name(s) whose member hosts are documented.")
	fs.StringSliceVarP(&o.Datacenters, "datacenter", "d", o.Datacenters, "Datacenter name(s) whose hosts are documented.")
	fs.BoolVar(&o.ExportCSV, "export-csv", o.ExportCSV, "Write one CSV file per report.")
	fs.BoolVar(&o.ExportExcel, "export-excel", o.ExportExcel, "Write one XLSX workbook with a sheet per report.")
	fs.StringVar(&o.FolderPath, "folder-path", o.FolderPath, "Directory exports are written to.")
	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Return data instead of tables. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
	fs.IntVar(&o.Workers, "workers", o.Workers, "Number of hosts documented concurrently.")
}

// Complete merges environment, config file and flags; flags win.
func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(o.ConfigFilePath)
	if err != nil {
		return err
	}
	if o.URL != "" {
		cfg.URL = o.URL
	}
	if o.Username != "" {
		cfg.Username = o.Username
	}
	if o.Password != "" {
		cfg.Password = o.Password
	}
	if cmd.Flags().Changed("insecure") {
		cfg.Insecure = o.Insecure
	}
	if o.Workers > 0 {
		cfg.Workers = o.Workers
	}
	if o.FolderPath != "" {
		cfg.FolderPath = o.FolderPath
	}
	o.cfg = cfg
	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	if len(o.Output) > 0 && !funk.ContainsString(legalOutputTypes, o.Output) {
		return fmt.Errorf("output format must be one of %s", strings.Join(legalOutputTypes, ", "))
	}
	return o.cfg.Validate()
}

func (o *GlobalOptions) selector() collector.Selector {
	return collector.Selector{
		Hosts:       o.Hosts,
		Clusters:    o.Clusters,
		Datacenters: o.Datacenters,
	}
}

// RunReport connects, runs the engine for the given kinds and renders the
// result. A failed connection aborts before any resolution starts.
func (o *GlobalOptions) RunReport(ctx context.Context, kinds []collector.ReportKind) error {
	client, err := inventory.Connect(ctx, o.cfg)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", o.cfg.URL, err)
	}
	defer client.Logout(ctx)

	var advisories hcl.Provider = hcl.NewStaticProvider()
	if o.cfg.AdvisoryURL != "" {
		advisories = hcl.NewHTTPProvider(o.cfg.AdvisoryURL)
	}

	fetcher := collector.NewFetcher(client, advisories)
	engine := collector.NewEngine(client, fetcher, o.cfg.Workers)

	res, err := engine.Run(ctx, o.selector(), kinds)
	if err != nil {
		return err
	}

	switch o.Output {
	case jsonFormat:
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case yamlFormat:
		data, err := yaml.Marshal(res)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
	default:
		if err := report.Console(os.Stdout, res); err != nil {
			return err
		}
	}

	if o.ExportCSV || o.ExportExcel {
		opts := report.Options{FolderPath: o.cfg.FolderPath, RunID: res.RunID}
		paths, warnings, err := report.Export(res, opts, o.ExportCSV, o.ExportExcel)
		if err != nil {
			return err
		}
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		for _, p := range paths {
			zap.S().Infof("wrote %s", p)
		}
	}
	return nil
}
