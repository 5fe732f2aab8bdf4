package collector

import (
	"fmt"
	"strings"

	"github.com/vmware/govmomi/vim25/mo"
)

const (
	serviceKeySSH   = "TSM-SSH"
	serviceKeyShell = "TSM"
	serviceKeyNTP   = "ntpd"

	syslogOptionKey = "Syslog.global.logHost"
)

func buildConfiguration(rec *Record, hs *mo.HostSystem) {
	if hs == nil {
		return
	}

	if p := hs.Summary.Config.Product; p != nil {
		rec.Set("Product", fmt.Sprintf("%s %s build %s", p.Name, p.Version, p.Build))
	}

	if hs.Config == nil {
		return
	}

	if hs.Config.Service != nil {
		for _, svc := range hs.Config.Service.Service {
			switch svc.Key {
			case serviceKeySSH:
				rec.Set("SSH Policy", svc.Policy)
				rec.Setf("SSH Running", "%t", svc.Running)
			case serviceKeyShell:
				rec.Set("Shell Policy", svc.Policy)
				rec.Setf("Shell Running", "%t", svc.Running)
			case serviceKeyNTP:
				rec.Set("NTP Policy", svc.Policy)
				rec.Setf("NTP Running", "%t", svc.Running)
			}
		}
	}

	if dt := hs.Config.DateTimeInfo; dt != nil && dt.NtpConfig != nil {
		if servers := dt.NtpConfig.Server; len(servers) > 0 {
			rec.Set("NTP Servers", strings.Join(servers, ", "))
		}
	}

	for _, opt := range hs.Config.Option {
		if v := opt.GetOptionValue(); v != nil && v.Key == syslogOptionKey {
			rec.Setf("Syslog Server", "%v", v.Value)
		}
	}

	if as := hs.Config.AutoStart; as != nil && as.Defaults != nil && as.Defaults.Enabled != nil {
		rec.Setf("VM Startup Enabled", "%t", *as.Defaults.Enabled)
	}

	if ps := hs.Config.PowerSystemInfo; ps != nil {
		rec.Set("Power Policy", ps.CurrentPolicy.ShortName)
	}
}
