package collector

import (
	"context"
	"fmt"
	"strings"

	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
	"go.uber.org/zap"
)

func buildStorage(rec *Record, hs *mo.HostSystem) {
	if hs == nil || hs.Config == nil || hs.Config.StorageDevice == nil {
		return
	}
	hbas := hs.Config.StorageDevice.HostBusAdapter
	rec.Setf("Adapter Count", "%d", len(hbas))
	parts := make([]string, 0, len(hbas))
	for _, base := range hbas {
		hba := base.GetHostHostBusAdapter()
		if hba == nil {
			continue
		}
		entry := fmt.Sprintf("%s model=%s driver=%s status=%s", hba.Device, strings.TrimSpace(hba.Model), hba.Driver, hba.Status)
		if id := adapterIdentifier(base); id != "" {
			entry += " id=" + id
		}
		parts = append(parts, entry)
	}
	rec.Set("Storage Adapters", strings.Join(parts, listSeparator))
}

// adapterIdentifier extracts the transport identifier for the adapter types
// that carry one.
func adapterIdentifier(base types.BaseHostHostBusAdapter) string {
	switch hba := base.(type) {
	case *types.HostFibreChannelHba:
		return fmt.Sprintf("wwn=%016x", uint64(hba.PortWorldWideName))
	case *types.HostInternetScsiHba:
		return "iqn=" + hba.IScsiName
	}
	return ""
}

func (f *Fetcher) buildDatastores(ctx context.Context, rec *Record, host string) {
	dss, err := f.querier.HostDatastores(ctx, host)
	if err != nil {
		zap.S().Named("fetcher").Warnf("datastore report for %s degraded: %v", host, err)
		return
	}
	rec.Setf("Datastore Count", "%d", len(dss))
	parts := make([]string, 0, len(dss))
	for _, ds := range dss {
		s := ds.Summary
		parts = append(parts, fmt.Sprintf("%s %s cap=%dGB free=%dGB",
			s.Name, s.Type, s.Capacity/(1024*1024*1024), s.FreeSpace/(1024*1024*1024)))
	}
	rec.Set("Datastores", strings.Join(parts, listSeparator))
}

func buildIODevices(rec *Record, hs *mo.HostSystem) {
	if hs == nil || hs.Hardware == nil {
		return
	}
	devices := hs.Hardware.PciDevice
	rec.Setf("Device Count", "%d", len(devices))
	parts := make([]string, 0, len(devices))
	for _, d := range devices {
		name := d.DeviceName
		if name == "" {
			name = Placeholder
		}
		parts = append(parts, fmt.Sprintf("%s [%04x:%04x sub=%04x:%04x]",
			name, uint16(d.VendorId), uint16(d.DeviceId), uint16(d.SubVendorId), uint16(d.SubDeviceId)))
	}
	rec.Set("PCI Devices", strings.Join(parts, listSeparator))
}
