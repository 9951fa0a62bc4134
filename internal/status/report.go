// internal/status/report.go
package status

import "fmt"

// Entry types understood by the Brainlife UI.
const (
	TypeInfo    = "info"
	TypeWarning = "warning"
	TypeSuccess = "success"
	TypeError   = "error"
)

// Entry is one status message.
type Entry struct {
	Type string `json:"type"`
	Msg  string `json:"msg"`
}

// Report accumulates status entries in occurrence order.
// It holds no logic beyond appending; serialization lives in encode.go.
type Report struct {
	entries []Entry
}

func New() *Report {
	return &Report{}
}

func (r *Report) Infof(format string, args ...any) {
	r.append(TypeInfo, format, args...)
}

func (r *Report) Warningf(format string, args ...any) {
	r.append(TypeWarning, format, args...)
}

func (r *Report) Successf(format string, args ...any) {
	r.append(TypeSuccess, format, args...)
}

func (r *Report) Errorf(format string, args ...any) {
	r.append(TypeError, format, args...)
}

func (r *Report) append(kind, format string, args ...any) {
	r.entries = append(r.entries, Entry{Type: kind, Msg: fmt.Sprintf(format, args...)})
}

// Entries returns the accumulated entries in order.
func (r *Report) Entries() []Entry {
	return r.entries
}
