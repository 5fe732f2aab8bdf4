package collector

import (
	"context"

	"github.com/vmware/govmomi/vim25/mo"
	"go.uber.org/zap"

	"github.com/arielsanchezmora/vdoc/internal/hcl"
	"github.com/arielsanchezmora/vdoc/internal/inventory"
)

// Querier is the per-host read surface the fetcher needs from the
// management server.
type Querier interface {
	HostState(ctx context.Context, name string) (inventory.HostState, error)
	HostProperties(ctx context.Context, name string, props []string) (*mo.HostSystem, error)
	HostDatastores(ctx context.Context, name string) ([]mo.Datastore, error)
	ScanHostPatches(ctx context.Context, name string) (*inventory.PatchScanResult, error)
}

// Fetcher builds records for a single host. Queries are sequential within a
// host; a failed query fills the affected fields with placeholders and the
// rest of the record is unaffected.
type Fetcher struct {
	querier    Querier
	advisories hcl.Provider
}

func NewFetcher(q Querier, advisories hcl.Provider) *Fetcher {
	return &Fetcher{querier: q, advisories: advisories}
}

// Fetch gates on the host's connection state, then builds exactly one record
// per requested kind. Ineligible hosts yield a SkipEntry and no records.
func (f *Fetcher) Fetch(ctx context.Context, host string, kinds []ReportKind) ([]*Record, *SkipEntry) {
	state, err := f.querier.HostState(ctx, host)
	if err != nil {
		zap.S().Named("fetcher").Warnf("could not determine state of %s: %v", host, err)
		return nil, &SkipEntry{Host: host, State: inventory.StateUnknown}
	}
	if !state.Eligible() {
		zap.S().Named("fetcher").Infof("skipping %s: %s", host, state)
		return nil, &SkipEntry{Host: host, State: state}
	}

	records := make([]*Record, 0, len(kinds))
	for _, kind := range kinds {
		records = append(records, f.record(ctx, host, kind))
	}
	return records, nil
}

func (f *Fetcher) record(ctx context.Context, host string, kind ReportKind) *Record {
	rec := NewRecord(host, kind)

	var hs *mo.HostSystem
	if props := kind.props(); len(props) > 0 {
		var err error
		hs, err = f.querier.HostProperties(ctx, host, props)
		if err != nil {
			zap.S().Named("fetcher").Warnf("%s report for %s degraded: %v", kind, host, err)
			hs = nil
		}
	}

	switch kind {
	case KindHardware:
		buildHardware(rec, hs)
	case KindConfiguration:
		buildConfiguration(rec, hs)
	case KindVMkernel:
		buildVMkernel(rec, hs)
	case KindVSwitch:
		buildVSwitch(rec, hs)
	case KindPhysical:
		buildPhysical(rec, hs)
	case KindStorage:
		buildStorage(rec, hs)
	case KindDatastores:
		f.buildDatastores(ctx, rec, host)
	case KindIODevices:
		buildIODevices(rec, hs)
	case KindPatching:
		f.buildPatching(ctx, rec, host, hs)
	case KindSecurity:
		f.buildSecurity(ctx, rec, hs)
	}
	return rec
}
