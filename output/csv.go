package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
)

// CSVFormatter outputs reports as CSV
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes the table with a header row, then one name,value row per
// summary field. Every record is padded to the same width so the output
// parses with a strict CSV reader.
func (c *CSVFormatter) Format(r *Report) error {
	csvWriter := csv.NewWriter(c.writer)

	header := r.Columns
	if len(header) == 0 {
		header = []string{"name", "value"}
	}
	width := len(header)
	if width < 2 && len(r.Summary) > 0 {
		width = 2
	}

	if len(r.Rows) > 0 || len(r.Summary) > 0 {
		if err := csvWriter.Write(pad(header, width)); err != nil {
			return err
		}
	}

	for _, row := range r.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = formatValue(v)
		}
		if err := csvWriter.Write(pad(record, width)); err != nil {
			return err
		}
	}

	for _, f := range r.Summary {
		if err := csvWriter.Write(pad([]string{f.Name, formatValue(f.Value)}, width)); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

func pad(record []string, width int) []string {
	for len(record) < width {
		record = append(record, "")
	}
	return record
}

// formatValue converts a value to string for CSV output
func formatValue(v any) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		// Sanitize against CSV injection by prefixing characters that
		// spreadsheet applications treat as formula starts
		if len(val) > 0 {
			switch val[0] {
			case '=', '+', '-', '@', '\t', '\r', '\n', '|':
				return "'" + strings.ReplaceAll(val, "'", "''")
			}
		}
		return val
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float32, float64:
		return fmt.Sprintf("%g", val)
	case bool:
		return fmt.Sprintf("%t", val)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = formatValue(item)
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprintf("%v", val)
	}
}
