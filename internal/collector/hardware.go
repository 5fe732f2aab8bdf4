package collector

import (
	"fmt"

	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

func buildHardware(rec *Record, hs *mo.HostSystem) {
	if hs == nil {
		return
	}

	if p := hs.Summary.Config.Product; p != nil {
		rec.Set("Product", p.Name)
		rec.Set("Version", p.Version)
		rec.Set("Build", p.Build)
	}

	if hw := hs.Summary.Hardware; hw != nil {
		rec.Set("Make", hw.Vendor)
		rec.Set("Model", hw.Model)
		rec.Set("CPU Model", hw.CpuModel)
		rec.Setf("CPU Sockets", "%d", hw.NumCpuPkgs)
		rec.Setf("CPU Cores", "%d", hw.NumCpuCores)
		rec.Setf("CPU Threads", "%d", hw.NumCpuThreads)
		rec.Setf("Speed (MHz)", "%d", hw.CpuMhz)
		rec.Setf("Memory (GB)", "%d", hw.MemorySize/(1024*1024*1024))
		rec.Set("Serial Number", serialNumber(hw.OtherIdentifyingInfo))
	}

	if hs.Hardware != nil && hs.Hardware.BiosInfo != nil {
		bios := hs.Hardware.BiosInfo
		rec.Set("BIOS Version", bios.BiosVersion)
		if bios.ReleaseDate != nil {
			rec.Set("BIOS Release Date", bios.ReleaseDate.Format("2006-01-02"))
		}
	}

	rec.Set("Management IP", managementIP(hs))
}

// serialNumber digs the service tag out of the identification info list.
// Vendors disagree on which tag carries it.
func serialNumber(info []types.HostSystemIdentificationInfo) string {
	byKey := map[string]string{}
	for _, id := range info {
		if desc := id.IdentifierType.GetElementDescription(); desc != nil {
			byKey[desc.Key] = id.IdentifierValue
		}
	}
	for _, key := range []string{"ServiceTag", "SerialNumberTag", "EnclosureSerialNumberTag"} {
		if v := byKey[key]; v != "" {
			return v
		}
	}
	return ""
}

// managementIP prefers the vmk adapter on the management portgroup, then
// falls back to the first adapter with an address.
func managementIP(hs *mo.HostSystem) string {
	if hs.Config == nil || hs.Config.Network == nil {
		return ""
	}
	var fallback string
	for _, vnic := range hs.Config.Network.Vnic {
		ip := vnicAddress(vnic)
		if ip == "" {
			continue
		}
		if vnic.Portgroup == "Management Network" {
			return ip
		}
		if fallback == "" {
			fallback = ip
		}
	}
	return fallback
}

func vnicAddress(vnic types.HostVirtualNic) string {
	if vnic.Spec.Ip == nil {
		return ""
	}
	return vnic.Spec.Ip.IpAddress
}

func vnicSummary(vnic types.HostVirtualNic) string {
	ip := vnicAddress(vnic)
	if ip == "" {
		ip = Placeholder
	}
	mask := ""
	if vnic.Spec.Ip != nil {
		mask = vnic.Spec.Ip.SubnetMask
	}
	if mask == "" {
		mask = Placeholder
	}
	pg := vnic.Portgroup
	if pg == "" {
		pg = Placeholder
	}
	return fmt.Sprintf("%s (%s) %s/%s mtu=%d mac=%s", vnic.Device, pg, ip, mask, vnic.Spec.Mtu, vnic.Spec.Mac)
}
