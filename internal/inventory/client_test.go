package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmware/govmomi/simulator"
	"github.com/vmware/govmomi/vim25"
)

// The simulator's default inventory has one datacenter (DC0) holding a
// three-host cluster (DC0_C0) and one standalone host (DC0_H0).

func TestAllHostNames(t *testing.T) {
	simulator.Test(func(ctx context.Context, vc *vim25.Client) {
		c := NewFromVim25(vc)

		names, err := c.AllHostNames(ctx)
		require.NoError(t, err)
		assert.Len(t, names, 4)
		assert.Contains(t, names, "DC0_H0")
		assert.Contains(t, names, "DC0_C0_H0")
	})
}

func TestClusterHostNames(t *testing.T) {
	simulator.Test(func(ctx context.Context, vc *vim25.Client) {
		c := NewFromVim25(vc)

		names, err := c.ClusterHostNames(ctx, "DC0_C0")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"DC0_C0_H0", "DC0_C0_H1", "DC0_C0_H2"}, names)

		_, err = c.ClusterHostNames(ctx, "no-such-cluster")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDatacenterHostNames(t *testing.T) {
	simulator.Test(func(ctx context.Context, vc *vim25.Client) {
		c := NewFromVim25(vc)

		names, err := c.DatacenterHostNames(ctx, "DC0")
		require.NoError(t, err)
		assert.Len(t, names, 4)

		_, err = c.DatacenterHostNames(ctx, "no-such-dc")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLookupHost(t *testing.T) {
	simulator.Test(func(ctx context.Context, vc *vim25.Client) {
		c := NewFromVim25(vc)

		name, err := c.LookupHost(ctx, "DC0_H0")
		require.NoError(t, err)
		assert.Equal(t, "DC0_H0", name)

		_, err = c.LookupHost(ctx, "ghost")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestHostState(t *testing.T) {
	simulator.Test(func(ctx context.Context, vc *vim25.Client) {
		c := NewFromVim25(vc)

		state, err := c.HostState(ctx, "DC0_C0_H0")
		require.NoError(t, err)
		assert.Equal(t, StateConnected, state)
		assert.True(t, state.Eligible())
	})
}

func TestHostProperties(t *testing.T) {
	simulator.Test(func(ctx context.Context, vc *vim25.Client) {
		c := NewFromVim25(vc)

		host, err := c.HostProperties(ctx, "DC0_H0", []string{"summary"})
		require.NoError(t, err)
		assert.Equal(t, "DC0_H0", host.Summary.Config.Name)

		_, err = c.HostProperties(ctx, "ghost", []string{"summary"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestHostDatastores(t *testing.T) {
	simulator.Test(func(ctx context.Context, vc *vim25.Client) {
		c := NewFromVim25(vc)

		dss, err := c.HostDatastores(ctx, "DC0_C0_H0")
		require.NoError(t, err)
		require.NotEmpty(t, dss)
		assert.NotEmpty(t, dss[0].Summary.Name)
	})
}

func TestValidateSession(t *testing.T) {
	simulator.Test(func(ctx context.Context, vc *vim25.Client) {
		c := NewFromVim25(vc)
		assert.NoError(t, c.ValidateSession(ctx))
	})
}
