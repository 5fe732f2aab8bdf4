package collector

import (
	"context"

	"github.com/vmware/govmomi/vim25/mo"
	"go.uber.org/zap"

	"github.com/arielsanchezmora/vdoc/internal/hcl"
)

func (f *Fetcher) buildPatching(ctx context.Context, rec *Record, host string, hs *mo.HostSystem) {
	if hs != nil {
		if p := hs.Summary.Config.Product; p != nil {
			rec.Set("Product", p.Name)
			rec.Set("Version", p.Version)
			rec.Set("Build", p.Build)
		}
	}

	result, err := f.querier.ScanHostPatches(ctx, host)
	if err != nil {
		zap.S().Named("fetcher").Warnf("patch scan for %s degraded: %v", host, err)
		return
	}
	rec.Set("Scan Status", result.Status)
	rec.Set("Scan Detail", result.Message)
}

// mitigation capability keys exposed by the host once microcode and ESXi
// patches for the speculative-execution advisories are in place.
var mitigationFeatures = map[string]string{
	"cpuid.IBRS":  "IBRS",
	"cpuid.IBPB":  "IBPB",
	"cpuid.STIBP": "STIBP",
	"cpuid.SSBD":  "SSBD",
}

func (f *Fetcher) buildSecurity(ctx context.Context, rec *Record, hs *mo.HostSystem) {
	if hs == nil {
		return
	}

	var cpuModel string
	if hw := hs.Summary.Hardware; hw != nil {
		cpuModel = hw.CpuModel
		rec.Set("CPU Model", cpuModel)
	}

	if hs.Config != nil {
		for _, feature := range hs.Config.FeatureCapability {
			field, ok := mitigationFeatures[feature.Key]
			if !ok {
				continue
			}
			if feature.Value == "1" {
				rec.Set(field, "present")
			} else {
				rec.Set(field, "absent")
			}
		}
	}

	if f.advisories == nil || cpuModel == "" {
		return
	}
	table, err := f.advisories.Microcode(ctx)
	if err != nil {
		zap.S().Named("fetcher").Warnf("advisory lookup degraded: %v", err)
		return
	}
	adv, ok := table[hcl.NormalizeModel(cpuModel)]
	if !ok {
		rec.Set("Assessment", "no advisory data for this CPU")
		return
	}
	rec.Set("Expected Microcode", adv.ExpectedMicrocode)
	rec.Setf("Assessment", "verify microcode >= %s (%s)", adv.ExpectedMicrocode, adv.Advisory)
}
