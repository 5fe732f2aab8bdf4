package collector

import (
	"encoding/json"
	"fmt"

	"github.com/arielsanchezmora/vdoc/internal/inventory"
)

// Placeholder marks a data point that could not be retrieved. Records never
// have absent fields; they have placeholders.
const Placeholder = "Unknown"

// Record is one flat set of named fields describing one host for one report
// kind. List-valued data is pre-joined into delimited strings before it is
// stored here.
type Record struct {
	host   string
	kind   ReportKind
	values map[string]string
}

// NewRecord returns a record with every field of the kind's schema set to
// the placeholder and the hostname filled in.
func NewRecord(host string, kind ReportKind) *Record {
	r := &Record{
		host:   host,
		kind:   kind,
		values: make(map[string]string, len(kindFields[kind])),
	}
	for _, f := range kindFields[kind] {
		r.values[f] = Placeholder
	}
	r.values[FieldHostname] = host
	return r
}

func (r *Record) Host() string     { return r.host }
func (r *Record) Kind() ReportKind { return r.kind }

// Set stores a value. Empty values are ignored so the placeholder survives.
// Fields outside the kind's schema are ignored, keeping collections uniform.
func (r *Record) Set(field, value string) {
	if value == "" {
		return
	}
	if _, ok := r.values[field]; !ok {
		return
	}
	r.values[field] = value
}

func (r *Record) Setf(field, format string, args ...interface{}) {
	r.Set(field, fmt.Sprintf(format, args...))
}

func (r *Record) Get(field string) string {
	return r.values[field]
}

// Row returns the values in schema order.
func (r *Record) Row() []string {
	fields := kindFields[r.kind]
	row := make([]string, len(fields))
	for i, f := range fields {
		row[i] = r.values[f]
	}
	return row
}

func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.values)
}

// ReportCollection is the ordered set of records of one kind. Every record
// carries the identical field set.
type ReportCollection struct {
	Kind    ReportKind `json:"kind"`
	Fields  []string   `json:"fields"`
	Records []*Record  `json:"records"`
}

// SkipEntry notes a target that was excluded from collection and why.
type SkipEntry struct {
	Host  string              `json:"host"`
	State inventory.HostState `json:"state"`
}

// ResolutionWarning notes a selector name that matched nothing. Non-fatal.
type ResolutionWarning struct {
	Scope string `json:"scope"` // host, cluster or datacenter
	Name  string `json:"name"`
}

func (w ResolutionWarning) String() string {
	return fmt.Sprintf("%s %q not found", w.Scope, w.Name)
}
