package collector

import (
	"fmt"
	"strings"

	"github.com/vmware/govmomi/vim25/mo"
)

const listSeparator = "; "

func buildVMkernel(rec *Record, hs *mo.HostSystem) {
	if hs == nil || hs.Config == nil || hs.Config.Network == nil {
		return
	}
	vnics := hs.Config.Network.Vnic
	rec.Setf("Adapter Count", "%d", len(vnics))
	parts := make([]string, 0, len(vnics))
	for _, vnic := range vnics {
		parts = append(parts, vnicSummary(vnic))
	}
	rec.Set("VMkernel Adapters", strings.Join(parts, listSeparator))
}

func buildVSwitch(rec *Record, hs *mo.HostSystem) {
	if hs == nil || hs.Config == nil || hs.Config.Network == nil {
		return
	}
	net := hs.Config.Network

	switches := make([]string, 0, len(net.Vswitch))
	for _, vs := range net.Vswitch {
		uplinks := make([]string, 0, len(vs.Pnic))
		for _, key := range vs.Pnic {
			// keys look like key-vim.host.PhysicalNic-vmnic0
			if i := strings.LastIndex(key, "-"); i >= 0 {
				uplinks = append(uplinks, key[i+1:])
			} else {
				uplinks = append(uplinks, key)
			}
		}
		switches = append(switches, fmt.Sprintf("%s ports=%d mtu=%d uplinks=%s",
			vs.Name, vs.NumPorts, vs.Mtu, strings.Join(uplinks, ",")))
	}
	rec.Setf("Switch Count", "%d", len(net.Vswitch))
	rec.Set("Virtual Switches", strings.Join(switches, listSeparator))

	groups := make([]string, 0, len(net.Portgroup))
	for _, pg := range net.Portgroup {
		groups = append(groups, fmt.Sprintf("%s (vlan %d, %s)",
			pg.Spec.Name, pg.Spec.VlanId, pg.Spec.VswitchName))
	}
	rec.Set("Port Groups", strings.Join(groups, listSeparator))
}

func buildPhysical(rec *Record, hs *mo.HostSystem) {
	if hs == nil || hs.Config == nil || hs.Config.Network == nil {
		return
	}
	pnics := hs.Config.Network.Pnic
	rec.Setf("NIC Count", "%d", len(pnics))
	parts := make([]string, 0, len(pnics))
	for _, nic := range pnics {
		speed := Placeholder
		if nic.LinkSpeed != nil {
			duplex := "half"
			if nic.LinkSpeed.Duplex {
				duplex = "full"
			}
			speed = fmt.Sprintf("%dMb/%s", nic.LinkSpeed.SpeedMb, duplex)
		}
		parts = append(parts, fmt.Sprintf("%s %s mac=%s driver=%s", nic.Device, speed, nic.Mac, nic.Driver))
	}
	rec.Set("Physical Adapters", strings.Join(parts, listSeparator))
}
