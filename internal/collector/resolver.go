package collector

import (
	"context"
	"errors"
	"sort"

	"github.com/thoas/go-funk"
	"go.uber.org/zap"

	"github.com/arielsanchezmora/vdoc/internal/inventory"
)

// Selector is the user-supplied host filter. When more than one of the
// three name lists is populated, only the first in the precedence order
// hosts > clusters > datacenters is honored; the rest are ignored with a
// logged warning. An empty selector means every host in the inventory.
type Selector struct {
	Hosts       []string
	Clusters    []string
	Datacenters []string
}

// Inventory is the lookup surface the resolver needs from the management
// server.
type Inventory interface {
	AllHostNames(ctx context.Context) ([]string, error)
	ClusterHostNames(ctx context.Context, name string) ([]string, error)
	DatacenterHostNames(ctx context.Context, name string) ([]string, error)
	LookupHost(ctx context.Context, name string) (string, error)
}

// Resolve turns a selector into a deduplicated list of target host names.
// Names that match nothing produce one ResolutionWarning each and resolution
// continues. Any other inventory failure is fatal. Cluster, datacenter and
// all-hosts results are sorted by name; an explicit host list keeps the
// caller's order.
func Resolve(ctx context.Context, sel Selector, inv Inventory) ([]string, []ResolutionWarning, error) {
	var warnings []ResolutionWarning

	switch {
	case len(sel.Hosts) > 0:
		if len(sel.Clusters) > 0 || len(sel.Datacenters) > 0 {
			zap.S().Named("resolver").Warnf("explicit host list given, ignoring cluster/datacenter filters")
		}
		var hosts []string
		for _, name := range sel.Hosts {
			resolved, err := inv.LookupHost(ctx, name)
			if err != nil {
				if errors.Is(err, inventory.ErrNotFound) {
					warnings = append(warnings, ResolutionWarning{Scope: "host", Name: name})
					continue
				}
				return nil, nil, err
			}
			hosts = append(hosts, resolved)
		}
		return funk.UniqString(hosts), warnings, nil

	case len(sel.Clusters) > 0:
		if len(sel.Datacenters) > 0 {
			zap.S().Named("resolver").Warnf("cluster filter given, ignoring datacenter filter")
		}
		return resolveGroups(ctx, "cluster", sel.Clusters, inv.ClusterHostNames)

	case len(sel.Datacenters) > 0:
		return resolveGroups(ctx, "datacenter", sel.Datacenters, inv.DatacenterHostNames)
	}

	hosts, err := inv.AllHostNames(ctx)
	if err != nil {
		return nil, nil, err
	}
	hosts = funk.UniqString(hosts)
	sort.Strings(hosts)
	return hosts, nil, nil
}

func resolveGroups(ctx context.Context, scope string, names []string, members func(context.Context, string) ([]string, error)) ([]string, []ResolutionWarning, error) {
	var warnings []ResolutionWarning
	var hosts []string
	for _, name := range names {
		got, err := members(ctx, name)
		if err != nil {
			if errors.Is(err, inventory.ErrNotFound) {
				warnings = append(warnings, ResolutionWarning{Scope: scope, Name: name})
				continue
			}
			return nil, nil, err
		}
		hosts = append(hosts, got...)
	}
	hosts = funk.UniqString(hosts)
	sort.Strings(hosts)
	return hosts, warnings, nil
}
