package inventory

import (
	"context"
	"fmt"

	"github.com/vmware/govmomi/property"
	"github.com/vmware/govmomi/view"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

// HostState is the connection state of a managed host. Only Connected and
// Maintenance hosts are eligible for data collection.
type HostState string

const (
	StateConnected     HostState = "Connected"
	StateMaintenance   HostState = "Maintenance"
	StateDisconnected  HostState = "Disconnected"
	StateNotResponding HostState = "NotResponding"
	StateUnknown       HostState = "Unknown"
)

// Eligible reports whether a host in this state may be queried.
func (s HostState) Eligible() bool {
	return s == StateConnected || s == StateMaintenance
}

func stateFromRuntime(r types.HostRuntimeInfo) HostState {
	switch r.ConnectionState {
	case types.HostSystemConnectionStateConnected:
		if r.InMaintenanceMode {
			return StateMaintenance
		}
		return StateConnected
	case types.HostSystemConnectionStateDisconnected:
		return StateDisconnected
	case types.HostSystemConnectionStateNotResponding:
		return StateNotResponding
	}
	return StateUnknown
}

// containerView runs fn against a flat view of the given managed object type
// rooted at root, destroying the view afterwards.
func (c *Client) containerView(ctx context.Context, root types.ManagedObjectReference, kind string, fn func(*view.ContainerView) error) error {
	m := view.NewManager(c.vim)
	v, err := m.CreateContainerView(ctx, root, []string{kind}, true)
	if err != nil {
		return fmt.Errorf("creating %s view: %w", kind, err)
	}
	defer func() { _ = v.Destroy(ctx) }()
	return fn(v)
}

// AllHostNames returns the names of every host known to the inventory.
func (c *Client) AllHostNames(ctx context.Context) ([]string, error) {
	var names []string
	err := c.containerView(ctx, c.vim.ServiceContent.RootFolder, "HostSystem", func(v *view.ContainerView) error {
		var hosts []mo.HostSystem
		if err := v.Retrieve(ctx, []string{"HostSystem"}, []string{"name"}, &hosts); err != nil {
			return fmt.Errorf("retrieving hosts: %w", err)
		}
		for _, h := range hosts {
			names = append(names, h.Name)
		}
		return nil
	})
	return names, err
}

// ClusterHostNames returns the member host names of the named cluster, or
// ErrNotFound when no such cluster exists.
func (c *Client) ClusterHostNames(ctx context.Context, name string) ([]string, error) {
	var hostRefs []types.ManagedObjectReference
	err := c.containerView(ctx, c.vim.ServiceContent.RootFolder, "ClusterComputeResource", func(v *view.ContainerView) error {
		var clusters []mo.ClusterComputeResource
		if err := v.Retrieve(ctx, []string{"ClusterComputeResource"}, []string{"name", "host"}, &clusters); err != nil {
			return fmt.Errorf("retrieving clusters: %w", err)
		}
		for _, cl := range clusters {
			if cl.Name == name {
				hostRefs = cl.Host
				return nil
			}
		}
		return fmt.Errorf("cluster %q: %w", name, ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return c.hostNamesByRef(ctx, hostRefs)
}

// DatacenterHostNames returns the host names under the named datacenter, or
// ErrNotFound when no such datacenter exists.
func (c *Client) DatacenterHostNames(ctx context.Context, name string) ([]string, error) {
	var hostFolder types.ManagedObjectReference
	err := c.containerView(ctx, c.vim.ServiceContent.RootFolder, "Datacenter", func(v *view.ContainerView) error {
		var dcs []mo.Datacenter
		if err := v.Retrieve(ctx, []string{"Datacenter"}, []string{"name", "hostFolder"}, &dcs); err != nil {
			return fmt.Errorf("retrieving datacenters: %w", err)
		}
		for _, dc := range dcs {
			if dc.Name == name {
				hostFolder = dc.HostFolder
				return nil
			}
		}
		return fmt.Errorf("datacenter %q: %w", name, ErrNotFound)
	})
	if err != nil {
		return nil, err
	}

	var names []string
	err = c.containerView(ctx, hostFolder, "HostSystem", func(v *view.ContainerView) error {
		var hosts []mo.HostSystem
		if err := v.Retrieve(ctx, []string{"HostSystem"}, []string{"name"}, &hosts); err != nil {
			return fmt.Errorf("retrieving hosts: %w", err)
		}
		for _, h := range hosts {
			names = append(names, h.Name)
		}
		return nil
	})
	return names, err
}

// LookupHost confirms a host name exists and returns its canonical name.
func (c *Client) LookupHost(ctx context.Context, name string) (string, error) {
	ref, err := c.hostRef(ctx, name)
	if err != nil {
		return "", err
	}
	var host mo.HostSystem
	pc := property.DefaultCollector(c.vim)
	if err := pc.RetrieveOne(ctx, ref, []string{"name"}, &host); err != nil {
		return "", fmt.Errorf("retrieving host %q: %w", name, err)
	}
	return host.Name, nil
}

// HostState returns the current connection state of the named host.
func (c *Client) HostState(ctx context.Context, name string) (HostState, error) {
	host, err := c.HostProperties(ctx, name, []string{"summary.runtime"})
	if err != nil {
		return StateUnknown, err
	}
	if host.Summary.Runtime == nil {
		return StateUnknown, nil
	}
	return stateFromRuntime(*host.Summary.Runtime), nil
}

// HostProperties retrieves the given property subset for one host. Each
// report kind asks for its own subset so a failure stays scoped to that kind.
func (c *Client) HostProperties(ctx context.Context, name string, props []string) (*mo.HostSystem, error) {
	ref, err := c.hostRef(ctx, name)
	if err != nil {
		return nil, err
	}
	var host mo.HostSystem
	pc := property.DefaultCollector(c.vim)
	if err := pc.RetrieveOne(ctx, ref, props, &host); err != nil {
		return nil, fmt.Errorf("retrieving properties for host %q: %w", name, err)
	}
	return &host, nil
}

// HostDatastores retrieves the summaries of every datastore mounted on the
// named host.
func (c *Client) HostDatastores(ctx context.Context, name string) ([]mo.Datastore, error) {
	host, err := c.HostProperties(ctx, name, []string{"datastore"})
	if err != nil {
		return nil, err
	}
	if len(host.Datastore) == 0 {
		return nil, nil
	}
	var dss []mo.Datastore
	pc := property.DefaultCollector(c.vim)
	if err := pc.Retrieve(ctx, host.Datastore, []string{"summary"}, &dss); err != nil {
		return nil, fmt.Errorf("retrieving datastores for host %q: %w", name, err)
	}
	return dss, nil
}

func (c *Client) hostRef(ctx context.Context, name string) (types.ManagedObjectReference, error) {
	var ref types.ManagedObjectReference
	err := c.containerView(ctx, c.vim.ServiceContent.RootFolder, "HostSystem", func(v *view.ContainerView) error {
		var hosts []mo.HostSystem
		if err := v.Retrieve(ctx, []string{"HostSystem"}, []string{"name"}, &hosts); err != nil {
			return fmt.Errorf("retrieving hosts: %w", err)
		}
		for _, h := range hosts {
			if h.Name == name {
				ref = h.Self
				return nil
			}
		}
		return fmt.Errorf("host %q: %w", name, ErrNotFound)
	})
	return ref, err
}

func (c *Client) hostNamesByRef(ctx context.Context, refs []types.ManagedObjectReference) ([]string, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	var hosts []mo.HostSystem
	pc := property.DefaultCollector(c.vim)
	if err := pc.Retrieve(ctx, refs, []string{"name"}, &hosts); err != nil {
		return nil, fmt.Errorf("retrieving host names: %w", err)
	}
	names := make([]string, 0, len(hosts))
	for _, h := range hosts {
		names = append(names, h.Name)
	}
	return names, nil
}
