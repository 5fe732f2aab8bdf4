package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"

	"github.com/arielsanchezmora/vdoc/internal/hcl"
	"github.com/arielsanchezmora/vdoc/internal/inventory"
)

type fakeQuerier struct {
	states  map[string]inventory.HostState
	hosts   map[string]*mo.HostSystem
	propErr map[string]error

	datastores map[string][]mo.Datastore
	scans      map[string]*inventory.PatchScanResult
	scanErr    error

	stateErr error
}

func (f *fakeQuerier) HostState(ctx context.Context, name string) (inventory.HostState, error) {
	if f.stateErr != nil {
		return inventory.StateUnknown, f.stateErr
	}
	if s, ok := f.states[name]; ok {
		return s, nil
	}
	return inventory.StateConnected, nil
}

func (f *fakeQuerier) HostProperties(ctx context.Context, name string, props []string) (*mo.HostSystem, error) {
	if err := f.propErr[name]; err != nil {
		return nil, err
	}
	return f.hosts[name], nil
}

func (f *fakeQuerier) HostDatastores(ctx context.Context, name string) ([]mo.Datastore, error) {
	return f.datastores[name], nil
}

func (f *fakeQuerier) ScanHostPatches(ctx context.Context, name string) (*inventory.PatchScanResult, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	if r, ok := f.scans[name]; ok {
		return r, nil
	}
	return &inventory.PatchScanResult{Status: inventory.ScanStatusCompleted}, nil
}

func testHost() *mo.HostSystem {
	released := time.Date(2023, 6, 14, 0, 0, 0, 0, time.UTC)
	enabled := true
	return &mo.HostSystem{
		Summary: types.HostListSummary{
			Config: types.HostConfigSummary{
				Product: &types.AboutInfo{Name: "VMware ESXi", Version: "8.0.2", Build: "22380479"},
			},
			Hardware: &types.HostHardwareSummary{
				Vendor:        "Dell Inc.",
				Model:         "PowerEdge R740",
				CpuModel:      "Intel(R) Xeon(R) Gold 6148 CPU @ 2.40GHz",
				NumCpuPkgs:    2,
				NumCpuCores:   40,
				NumCpuThreads: 80,
				CpuMhz:        2400,
				MemorySize:    512 * 1024 * 1024 * 1024,
				OtherIdentifyingInfo: []types.HostSystemIdentificationInfo{
					{IdentifierValue: "ABC1234", IdentifierType: &types.ElementDescription{Key: "ServiceTag"}},
				},
			},
		},
		Hardware: &types.HostHardwareInfo{
			BiosInfo: &types.HostBIOSInfo{BiosVersion: "2.19.1", ReleaseDate: &released},
			PciDevice: []types.HostPciDevice{
				{DeviceName: "Ethernet Controller X710", VendorId: 0x1028, DeviceId: 0x1572, SubVendorId: 0x1028, SubDeviceId: 0x0000},
			},
		},
		Config: &types.HostConfigInfo{
			Network: &types.HostNetworkInfo{
				Vnic: []types.HostVirtualNic{
					{
						Device:    "vmk0",
						Portgroup: "Management Network",
						Spec: types.HostVirtualNicSpec{
							Ip:  &types.HostIpConfig{IpAddress: "10.10.1.21", SubnetMask: "255.255.255.0"},
							Mtu: 1500,
							Mac: "00:50:56:aa:bb:01",
						},
					},
					{
						Device:    "vmk1",
						Portgroup: "vMotion",
						Spec: types.HostVirtualNicSpec{
							Ip:  &types.HostIpConfig{IpAddress: "10.10.2.21", SubnetMask: "255.255.255.0"},
							Mtu: 9000,
							Mac: "00:50:56:aa:bb:02",
						},
					},
				},
				Vswitch: []types.HostVirtualSwitch{
					{Name: "vSwitch0", NumPorts: 128, Mtu: 1500, Pnic: []string{"key-vim.host.PhysicalNic-vmnic0"}},
				},
				Portgroup: []types.HostPortGroup{
					{Spec: types.HostPortGroupSpec{Name: "VM Network", VlanId: 100, VswitchName: "vSwitch0"}},
				},
				Pnic: []types.PhysicalNic{
					{Device: "vmnic0", Mac: "00:50:56:aa:cc:01", Driver: "i40en", LinkSpeed: &types.PhysicalNicLinkInfo{SpeedMb: 10000, Duplex: true}},
				},
			},
			Service: &types.HostServiceInfo{
				Service: []types.HostService{
					{Key: "TSM-SSH", Policy: "off", Running: true},
					{Key: "TSM", Policy: "off", Running: false},
					{Key: "ntpd", Policy: "on", Running: true},
				},
			},
			DateTimeInfo: &types.HostDateTimeInfo{
				NtpConfig: &types.HostNtpConfig{Server: []string{"0.pool.ntp.org", "1.pool.ntp.org"}},
			},
			Option: []types.BaseOptionValue{
				&types.OptionValue{Key: "Syslog.global.logHost", Value: "tcp://syslog.local:514"},
			},
			AutoStart: &types.HostAutoStartManagerConfig{
				Defaults: &types.AutoStartDefaults{Enabled: &enabled},
			},
			PowerSystemInfo: &types.PowerSystemInfo{
				CurrentPolicy: types.HostPowerPolicy{ShortName: "static"},
			},
			StorageDevice: &types.HostStorageDeviceInfo{
				HostBusAdapter: []types.BaseHostHostBusAdapter{
					&types.HostBlockHba{HostHostBusAdapter: types.HostHostBusAdapter{Device: "vmhba0", Model: "PERC H730", Driver: "lsi_mr3", Status: "online"}},
					&types.HostFibreChannelHba{
						HostHostBusAdapter: types.HostHostBusAdapter{Device: "vmhba1", Model: "QLE2692", Driver: "qlnativefc", Status: "online"},
						PortWorldWideName:  0x2100001B32A4B5C6,
					},
				},
			},
			FeatureCapability: []types.HostFeatureCapability{
				{Key: "cpuid.IBRS", Value: "1"},
				{Key: "cpuid.IBPB", Value: "1"},
				{Key: "cpuid.STIBP", Value: "0"},
			},
		},
	}
}

func TestFetchSkipsIneligibleHost(t *testing.T) {
	for _, state := range []inventory.HostState{
		inventory.StateDisconnected,
		inventory.StateNotResponding,
		inventory.StateUnknown,
	} {
		q := &fakeQuerier{states: map[string]inventory.HostState{"h1": state}}
		f := NewFetcher(q, nil)

		records, skip := f.Fetch(context.Background(), "h1", []ReportKind{KindHardware})
		assert.Empty(t, records, "state %s", state)
		require.NotNil(t, skip, "state %s", state)
		assert.Equal(t, "h1", skip.Host)
		assert.Equal(t, state, skip.State)
	}
}

func TestFetchMaintenanceHostIsEligible(t *testing.T) {
	q := &fakeQuerier{
		states: map[string]inventory.HostState{"h1": inventory.StateMaintenance},
		hosts:  map[string]*mo.HostSystem{"h1": testHost()},
	}
	f := NewFetcher(q, nil)

	records, skip := f.Fetch(context.Background(), "h1", []ReportKind{KindHardware})
	assert.Nil(t, skip)
	require.Len(t, records, 1)
}

func TestFetchStateErrorYieldsUnknownSkip(t *testing.T) {
	q := &fakeQuerier{stateErr: errors.New("host gone")}
	f := NewFetcher(q, nil)

	records, skip := f.Fetch(context.Background(), "h1", []ReportKind{KindHardware})
	assert.Empty(t, records)
	require.NotNil(t, skip)
	assert.Equal(t, inventory.StateUnknown, skip.State)
}

func TestFetchOneRecordPerKindWithFullSchema(t *testing.T) {
	q := &fakeQuerier{hosts: map[string]*mo.HostSystem{"h1": testHost()}}
	f := NewFetcher(q, hcl.NewStaticProvider())

	kinds := AllKinds()
	records, skip := f.Fetch(context.Background(), "h1", kinds)
	assert.Nil(t, skip)
	require.Len(t, records, len(kinds))

	for i, rec := range records {
		assert.Equal(t, kinds[i], rec.Kind())
		assert.Equal(t, "h1", rec.Host())
		row := rec.Row()
		assert.Len(t, row, len(kinds[i].Fields()))
		for _, cell := range row {
			assert.NotEmpty(t, cell)
		}
	}
}

func TestFetchQueryFailureDegradesToPlaceholders(t *testing.T) {
	q := &fakeQuerier{propErr: map[string]error{"h1": errors.New("sensor not present")}}
	f := NewFetcher(q, nil)

	records, skip := f.Fetch(context.Background(), "h1", []ReportKind{KindHardware})
	assert.Nil(t, skip)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "h1", rec.Get(FieldHostname))
	assert.Equal(t, Placeholder, rec.Get("Model"))
	assert.Equal(t, Placeholder, rec.Get("BIOS Version"))
}

func TestHardwareRecord(t *testing.T) {
	q := &fakeQuerier{hosts: map[string]*mo.HostSystem{"h1": testHost()}}
	f := NewFetcher(q, nil)

	records, _ := f.Fetch(context.Background(), "h1", []ReportKind{KindHardware})
	require.Len(t, records, 1)
	rec := records[0]

	assert.Equal(t, "10.10.1.21", rec.Get("Management IP"))
	assert.Equal(t, "VMware ESXi", rec.Get("Product"))
	assert.Equal(t, "8.0.2", rec.Get("Version"))
	assert.Equal(t, "Dell Inc.", rec.Get("Make"))
	assert.Equal(t, "PowerEdge R740", rec.Get("Model"))
	assert.Equal(t, "ABC1234", rec.Get("Serial Number"))
	assert.Equal(t, "2", rec.Get("CPU Sockets"))
	assert.Equal(t, "512", rec.Get("Memory (GB)"))
	assert.Equal(t, "2.19.1", rec.Get("BIOS Version"))
	assert.Equal(t, "2023-06-14", rec.Get("BIOS Release Date"))
}

func TestConfigurationRecord(t *testing.T) {
	q := &fakeQuerier{hosts: map[string]*mo.HostSystem{"h1": testHost()}}
	f := NewFetcher(q, nil)

	records, _ := f.Fetch(context.Background(), "h1", []ReportKind{KindConfiguration})
	rec := records[0]

	assert.Equal(t, "off", rec.Get("SSH Policy"))
	assert.Equal(t, "true", rec.Get("SSH Running"))
	assert.Equal(t, "false", rec.Get("Shell Running"))
	assert.Equal(t, "0.pool.ntp.org, 1.pool.ntp.org", rec.Get("NTP Servers"))
	assert.Equal(t, "tcp://syslog.local:514", rec.Get("Syslog Server"))
	assert.Equal(t, "true", rec.Get("VM Startup Enabled"))
	assert.Equal(t, "static", rec.Get("Power Policy"))
}

func TestNetworkingRecords(t *testing.T) {
	q := &fakeQuerier{hosts: map[string]*mo.HostSystem{"h1": testHost()}}
	f := NewFetcher(q, nil)

	records, _ := f.Fetch(context.Background(), "h1", []ReportKind{KindVMkernel, KindVSwitch, KindPhysical})
	require.Len(t, records, 3)

	vmk := records[0]
	assert.Equal(t, "2", vmk.Get("Adapter Count"))
	assert.Contains(t, vmk.Get("VMkernel Adapters"), "vmk0 (Management Network) 10.10.1.21/255.255.255.0 mtu=1500")
	assert.Contains(t, vmk.Get("VMkernel Adapters"), "vmk1 (vMotion)")

	vsw := records[1]
	assert.Equal(t, "1", vsw.Get("Switch Count"))
	assert.Contains(t, vsw.Get("Virtual Switches"), "vSwitch0 ports=128 mtu=1500 uplinks=vmnic0")
	assert.Contains(t, vsw.Get("Port Groups"), "VM Network (vlan 100, vSwitch0)")

	phys := records[2]
	assert.Equal(t, "1", phys.Get("NIC Count"))
	assert.Contains(t, phys.Get("Physical Adapters"), "vmnic0 10000Mb/full mac=00:50:56:aa:cc:01 driver=i40en")
}

func TestStorageRecord(t *testing.T) {
	q := &fakeQuerier{hosts: map[string]*mo.HostSystem{"h1": testHost()}}
	f := NewFetcher(q, nil)

	records, _ := f.Fetch(context.Background(), "h1", []ReportKind{KindStorage})
	rec := records[0]

	assert.Equal(t, "2", rec.Get("Adapter Count"))
	assert.Contains(t, rec.Get("Storage Adapters"), "vmhba0 model=PERC H730 driver=lsi_mr3 status=online")
	assert.Contains(t, rec.Get("Storage Adapters"), "wwn=2100001b32a4b5c6")
}

func TestDatastoresRecord(t *testing.T) {
	q := &fakeQuerier{
		hosts: map[string]*mo.HostSystem{"h1": testHost()},
		datastores: map[string][]mo.Datastore{
			"h1": {
				{Summary: types.DatastoreSummary{Name: "datastore1", Type: "VMFS", Capacity: 500 * 1024 * 1024 * 1024, FreeSpace: 200 * 1024 * 1024 * 1024}},
			},
		},
	}
	f := NewFetcher(q, nil)

	records, _ := f.Fetch(context.Background(), "h1", []ReportKind{KindDatastores})
	rec := records[0]

	assert.Equal(t, "1", rec.Get("Datastore Count"))
	assert.Equal(t, "datastore1 VMFS cap=500GB free=200GB", rec.Get("Datastores"))
}

func TestPatchingRecord(t *testing.T) {
	q := &fakeQuerier{
		hosts: map[string]*mo.HostSystem{"h1": testHost()},
		scans: map[string]*inventory.PatchScanResult{
			"h1": {Status: inventory.ScanStatusTimedOut, Message: "scan exceeded 10m0s"},
		},
	}
	f := NewFetcher(q, nil)

	records, _ := f.Fetch(context.Background(), "h1", []ReportKind{KindPatching})
	rec := records[0]

	assert.Equal(t, "8.0.2", rec.Get("Version"))
	assert.Equal(t, inventory.ScanStatusTimedOut, rec.Get("Scan Status"))
	assert.Equal(t, "scan exceeded 10m0s", rec.Get("Scan Detail"))
}

func TestPatchingScanFailureKeepsRecord(t *testing.T) {
	q := &fakeQuerier{
		hosts:   map[string]*mo.HostSystem{"h1": testHost()},
		scanErr: errors.New("patch manager unavailable"),
	}
	f := NewFetcher(q, nil)

	records, skip := f.Fetch(context.Background(), "h1", []ReportKind{KindPatching})
	assert.Nil(t, skip)
	rec := records[0]

	// the version data survives even though the scan itself failed
	assert.Equal(t, "8.0.2", rec.Get("Version"))
	assert.Equal(t, Placeholder, rec.Get("Scan Status"))
}

func TestSecurityRecord(t *testing.T) {
	q := &fakeQuerier{hosts: map[string]*mo.HostSystem{"h1": testHost()}}
	f := NewFetcher(q, hcl.NewStaticProvider())

	records, _ := f.Fetch(context.Background(), "h1", []ReportKind{KindSecurity})
	rec := records[0]

	assert.Equal(t, "Intel(R) Xeon(R) Gold 6148 CPU @ 2.40GHz", rec.Get("CPU Model"))
	assert.Equal(t, "present", rec.Get("IBRS"))
	assert.Equal(t, "present", rec.Get("IBPB"))
	assert.Equal(t, "absent", rec.Get("STIBP"))
	assert.Equal(t, Placeholder, rec.Get("SSBD"))
	assert.Equal(t, "0x0200005e", rec.Get("Expected Microcode"))
	assert.Contains(t, rec.Get("Assessment"), "INTEL-SA-00115")
}

func TestSecurityRecordUnknownCPUModel(t *testing.T) {
	host := testHost()
	host.Summary.Hardware.CpuModel = "Quantum CPU 9000 @ 1.21GHz"
	q := &fakeQuerier{hosts: map[string]*mo.HostSystem{"h1": host}}
	f := NewFetcher(q, hcl.NewStaticProvider())

	records, skip := f.Fetch(context.Background(), "h1", []ReportKind{KindSecurity})
	assert.Nil(t, skip)
	rec := records[0]

	// a model absent from the advisory table degrades, never errors
	assert.Equal(t, "Quantum CPU 9000 @ 1.21GHz", rec.Get("CPU Model"))
	assert.Equal(t, "no advisory data for this CPU", rec.Get("Assessment"))
	assert.Equal(t, Placeholder, rec.Get("Expected Microcode"))
	assert.Equal(t, "present", rec.Get("IBRS"))
}
