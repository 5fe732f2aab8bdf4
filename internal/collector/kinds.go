package collector

// ReportKind names one report a host can be documented under. Each kind has
// a fixed, ordered field schema; every record of a kind carries every field.
type ReportKind string

const (
	KindHardware      ReportKind = "hardware"
	KindConfiguration ReportKind = "configuration"
	KindVMkernel      ReportKind = "vmkernel"
	KindVSwitch       ReportKind = "vswitch"
	KindPhysical      ReportKind = "physical"
	KindStorage       ReportKind = "storage"
	KindDatastores    ReportKind = "datastores"
	KindIODevices     ReportKind = "iodevices"
	KindPatching      ReportKind = "patching"
	KindSecurity      ReportKind = "security"
)

// FieldHostname is the first field of every kind.
const FieldHostname = "Hostname"

func AllKinds() []ReportKind {
	return []ReportKind{
		KindHardware,
		KindConfiguration,
		KindVMkernel,
		KindVSwitch,
		KindPhysical,
		KindStorage,
		KindDatastores,
		KindIODevices,
		KindPatching,
		KindSecurity,
	}
}

var kindFields = map[ReportKind][]string{
	KindHardware: {
		FieldHostname, "Management IP", "Product", "Version", "Build",
		"Make", "Model", "Serial Number", "CPU Model", "CPU Sockets",
		"CPU Cores", "CPU Threads", "Speed (MHz)", "Memory (GB)",
		"BIOS Version", "BIOS Release Date",
	},
	KindConfiguration: {
		FieldHostname, "Product", "SSH Policy", "SSH Running",
		"Shell Policy", "Shell Running", "NTP Servers", "NTP Policy",
		"NTP Running", "Syslog Server", "VM Startup Enabled", "Power Policy",
	},
	KindVMkernel: {
		FieldHostname, "Adapter Count", "VMkernel Adapters",
	},
	KindVSwitch: {
		FieldHostname, "Switch Count", "Virtual Switches", "Port Groups",
	},
	KindPhysical: {
		FieldHostname, "NIC Count", "Physical Adapters",
	},
	KindStorage: {
		FieldHostname, "Adapter Count", "Storage Adapters",
	},
	KindDatastores: {
		FieldHostname, "Datastore Count", "Datastores",
	},
	KindIODevices: {
		FieldHostname, "Device Count", "PCI Devices",
	},
	KindPatching: {
		FieldHostname, "Product", "Version", "Build", "Scan Status",
		"Scan Detail",
	},
	KindSecurity: {
		FieldHostname, "CPU Model", "IBRS", "IBPB", "STIBP", "SSBD",
		"Expected Microcode", "Assessment",
	},
}

// property subsets retrieved per kind, so one kind's failure never taints
// another kind's record.
var kindProps = map[ReportKind][]string{
	KindHardware:      {"summary", "hardware.biosInfo", "config.network.vnic"},
	KindConfiguration: {"summary.config.product", "config.service", "config.dateTimeInfo", "config.option", "config.autoStart", "config.powerSystemInfo"},
	KindVMkernel:      {"config.network.vnic"},
	KindVSwitch:       {"config.network.vswitch", "config.network.portgroup"},
	KindPhysical:      {"config.network.pnic"},
	KindStorage:       {"config.storageDevice.hostBusAdapter"},
	KindDatastores:    nil, // datastore summaries come from a dedicated query
	KindIODevices:     {"hardware.pciDevice"},
	KindPatching:      {"summary.config.product"},
	KindSecurity:      {"summary.hardware", "config.featureCapability"},
}

func (k ReportKind) Valid() bool {
	_, ok := kindFields[k]
	return ok
}

// Fields returns the ordered schema of the kind.
func (k ReportKind) Fields() []string {
	fields := kindFields[k]
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

func (k ReportKind) props() []string {
	return kindProps[k]
}
