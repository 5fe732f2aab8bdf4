package hcl

import (
	"context"
	"embed"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

//go:embed advisories.csv
var advisoriesFS embed.FS

// StaticProvider serves the advisory table shipped with the binary.
type StaticProvider struct {
	once  sync.Once
	table map[string]MicrocodeAdvisory
	err   error
}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

func (p *StaticProvider) Microcode(ctx context.Context) (map[string]MicrocodeAdvisory, error) {
	p.once.Do(func() {
		f, err := advisoriesFS.Open("advisories.csv")
		if err != nil {
			p.err = err
			return
		}
		defer f.Close()
		p.table, p.err = parseAdvisories(f)
	})
	return p.table, p.err
}

// HTTPProvider fetches the advisory table from a CSV endpoint, falling back
// to the embedded table when the endpoint is unreachable.
type HTTPProvider struct {
	url    string
	client *http.Client

	fallback *StaticProvider
}

func NewHTTPProvider(url string) *HTTPProvider {
	return &HTTPProvider{
		url:      url,
		client:   &http.Client{Timeout: 30 * time.Second},
		fallback: NewStaticProvider(),
	}
}

func (p *HTTPProvider) Microcode(ctx context.Context) (map[string]MicrocodeAdvisory, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		zap.S().Named("hcl").Warnf("advisory fetch from %s failed, using embedded table: %v", p.url, err)
		return p.fallback.Microcode(ctx)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		zap.S().Named("hcl").Warnf("advisory fetch from %s returned %d, using embedded table", p.url, resp.StatusCode)
		return p.fallback.Microcode(ctx)
	}
	table, err := parseAdvisories(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing advisory table from %s: %w", p.url, err)
	}
	return table, nil
}

// parseAdvisories reads a CSV table with a header row of
// cpu_model,signature,expected_microcode,advisory.
func parseAdvisories(r io.Reader) (map[string]MicrocodeAdvisory, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	table := make(map[string]MicrocodeAdvisory)
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 4 {
			return nil, fmt.Errorf("advisory row %d has %d columns, want 4", i+1, len(row))
		}
		adv := MicrocodeAdvisory{
			CPUModel:          NormalizeModel(row[0]),
			Signature:         row[1],
			ExpectedMicrocode: row[2],
			Advisory:          row[3],
		}
		table[adv.CPUModel] = adv
	}
	return table, nil
}
