package hcl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeModel(t *testing.T) {
	tests := []struct {
		name  string
		model string
		want  string
	}{
		{"already normal", "AMD EPYC 7551 32-Core Processor", "AMD EPYC 7551 32-Core Processor"},
		{"vendor padding", "Intel(R) Xeon(R) CPU           E5-2680 v4 @ 2.40GHz", "Intel(R) Xeon(R) CPU E5-2680 v4 @ 2.40GHz"},
		{"surrounding whitespace", "  Intel(R) Xeon(R) Gold 6148 CPU @ 2.40GHz\t", "Intel(R) Xeon(R) Gold 6148 CPU @ 2.40GHz"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeModel(tt.model))
		})
	}
}

func TestStaticProviderServesEmbeddedTable(t *testing.T) {
	p := NewStaticProvider()

	table, err := p.Microcode(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, table)

	adv, ok := table["Intel(R) Xeon(R) Gold 6148 CPU @ 2.40GHz"]
	require.True(t, ok)
	assert.Equal(t, "0x50654", adv.Signature)
	assert.Equal(t, "0x0200005e", adv.ExpectedMicrocode)
	assert.Equal(t, "INTEL-SA-00115", adv.Advisory)

	// the table is parsed once and reused
	again, err := p.Microcode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(table), len(again))
}

func TestParseAdvisories(t *testing.T) {
	in := `cpu_model,signature,expected_microcode,advisory
Intel(R)   Xeon(R) CPU E5-2690 v3 @ 2.60GHz,0x306f2,0x0000043d,INTEL-SA-00115
`
	table, err := parseAdvisories(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, table, 1)

	adv, ok := table["Intel(R) Xeon(R) CPU E5-2690 v3 @ 2.60GHz"]
	require.True(t, ok, "model keys are normalized")
	assert.Equal(t, "INTEL-SA-00115", adv.Advisory)
}

func TestParseAdvisoriesShortRow(t *testing.T) {
	in := "cpu_model,signature,expected_microcode,advisory\nsome cpu,0x1\n"

	_, err := parseAdvisories(strings.NewReader(in))
	require.Error(t, err)
}

func TestHTTPProviderFetchesTable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("cpu_model,signature,expected_microcode,advisory\nTest CPU,0x1,0x2,TEST-1\n"))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL)
	table, err := p.Microcode(context.Background())
	require.NoError(t, err)
	require.Len(t, table, 1)
	assert.Equal(t, "TEST-1", table["Test CPU"].Advisory)
}

func TestHTTPProviderFallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL)
	table, err := p.Microcode(context.Background())
	require.NoError(t, err)

	// embedded table served instead
	_, ok := table["Intel(R) Xeon(R) Gold 6148 CPU @ 2.40GHz"]
	assert.True(t, ok)
}

func TestHTTPProviderFallsBackWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	p := NewHTTPProvider(srv.URL)
	table, err := p.Microcode(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, table)
}

func TestHTTPProviderBadPayloadIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("cpu_model,signature\nhalf,row\n"))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL)
	_, err := p.Microcode(context.Background())
	require.Error(t, err)
}
