// Package hcl provides vendor advisory lookup tables used by the security
// report. Upstream sources change format regularly, so everything behind
// Provider is replaceable without touching the collector.
package hcl

import (
	"context"
	"strings"
)

// MicrocodeAdvisory is one row of the CPU microcode advisory table.
type MicrocodeAdvisory struct {
	CPUModel          string
	Signature         string
	ExpectedMicrocode string
	Advisory          string
}

// Provider serves advisory lookup tables keyed by normalized CPU model.
type Provider interface {
	Microcode(ctx context.Context) (map[string]MicrocodeAdvisory, error)
}

// NormalizeModel collapses whitespace in a CPU model string so lookups match
// regardless of the vendor's padding, e.g.
// "Intel(R) Xeon(R)  CPU   E5-2680 v4" and its single-spaced form are equal.
func NormalizeModel(model string) string {
	return strings.Join(strings.Fields(model), " ")
}
