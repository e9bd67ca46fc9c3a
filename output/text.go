package output

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

// TextFormatter outputs reports for humans.
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// SetOutput sets the output writer
func (t *TextFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format writes the title, the table if any, and the summary lines.
func (t *TextFormatter) Format(r *Report) error {
	if r.Title != "" {
		if _, err := fmt.Fprintln(t.writer, r.Title); err != nil {
			return err
		}
	}

	if len(r.Columns) > 0 {
		table := tablewriter.NewWriter(t.writer)
		table.SetHeader(r.Columns)
		table.SetAutoFormatHeaders(false)
		table.SetBorder(false)
		for _, row := range r.Rows {
			cells := make([]string, len(row))
			for i, v := range row {
				cells[i] = textValue(v)
			}
			table.Append(cells)
		}
		table.Render()
	}

	for _, f := range r.Summary {
		if _, err := fmt.Fprintf(t.writer, "%s: %s\n", f.Name, textValue(f.Value)); err != nil {
			return err
		}
	}
	return nil
}

func textValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case int:
		return humanize.Comma(int64(val))
	case int32:
		return humanize.Comma(int64(val))
	case int64:
		return humanize.Comma(val)
	case uint64:
		return humanize.Comma(int64(val))
	case float32, float64:
		return fmt.Sprintf("%g", val)
	case time.Time:
		return val.Format(time.DateTime)
	case []any:
		s := "["
		for i, item := range val {
			if i > 0 {
				s += " "
			}
			s += fmt.Sprint(plainValue(item))
		}
		return s + "]"
	default:
		return fmt.Sprint(val)
	}
}

// plainValue renders list members without thousands separators so that ids
// read as ids.
func plainValue(v any) any {
	switch val := v.(type) {
	case nil:
		return "null"
	case time.Time:
		return val.Format(time.DateTime)
	default:
		return val
	}
}
