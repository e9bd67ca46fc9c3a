package output

import (
	"encoding/json"
	"io"
	"time"
)

// JSONFormatter outputs a report as a single JSON object
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

type jsonReport struct {
	Title   string           `json:"title,omitempty"`
	Rows    []map[string]any `json:"rows,omitempty"`
	Summary map[string]any   `json:"summary,omitempty"`
}

// Format writes the report as one JSON object followed by a newline. Table
// rows become objects keyed by column name.
func (j *JSONFormatter) Format(r *Report) error {
	out := jsonReport{Title: r.Title}

	for _, row := range r.Rows {
		obj := make(map[string]any, len(r.Columns))
		for i, col := range r.Columns {
			if i < len(row) {
				obj[col] = jsonValue(row[i])
			}
		}
		out.Rows = append(out.Rows, obj)
	}

	if len(r.Summary) > 0 {
		out.Summary = make(map[string]any, len(r.Summary))
		for _, f := range r.Summary {
			out.Summary[f.Name] = jsonValue(f.Value)
		}
	}

	return json.NewEncoder(j.writer).Encode(out)
}

func jsonValue(v any) any {
	switch val := v.(type) {
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = jsonValue(item)
		}
		return items
	default:
		return val
	}
}
