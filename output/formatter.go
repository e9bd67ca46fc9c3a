package output

import (
	"fmt"
	"io"
	"strings"
)

// Field is one named summary value of a report.
type Field struct {
	Name  string
	Value any
}

// Report is the result of one command: an optional table plus summary values.
type Report struct {
	Title   string
	Columns []string
	Rows    [][]any
	Summary []Field
}

// AddRow appends a table row.
func (r *Report) AddRow(values ...any) {
	r.Rows = append(r.Rows, values)
}

// AddSummary appends a summary value.
func (r *Report) AddSummary(name string, value any) {
	r.Summary = append(r.Summary, Field{Name: name, Value: value})
}

// Formatter defines the interface for report formatters.
type Formatter interface {
	// Format writes the report in the formatter's specific format
	Format(r *Report) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// Formats lists the names accepted by New.
var Formats = []string{"text", "json", "csv"}

// New returns the formatter registered under name.
func New(name string, w io.Writer) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", "text":
		return NewTextFormatter(w), nil
	case "json":
		return NewJSONFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	default:
		return nil, fmt.Errorf("unsupported format %q (supported: %s)", name, strings.Join(Formats, ", "))
	}
}
