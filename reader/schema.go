package reader

import (
	"fmt"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// ColumnInfo describes one leaf column of a Parquet schema.
type ColumnInfo struct {
	Name         string `json:"name"`
	PhysicalType string `json:"physical_type"`
	LogicalType  string `json:"logical_type"`
	Repetition   string `json:"repetition"`
}

// ExtractSchemaInfo lists the leaf columns of the Parquet file at path.
// Nested fields use dot notation (e.g. "address.street").
func ExtractSchemaInfo(path string) ([]ColumnInfo, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	return DescribeSchema(r.Schema()), nil
}

// DescribeSchema lists the leaf columns of schema in column index order.
func DescribeSchema(schema *parquet.Schema) []ColumnInfo {
	var infos []ColumnInfo
	for _, field := range schema.Fields() {
		infos = appendLeaves(infos, field, nil, false)
	}
	return infos
}

func appendLeaves(infos []ColumnInfo, field parquet.Field, path []string, parentRepeated bool) []ColumnInfo {
	path = append(path, field.Name())
	repeated := parentRepeated || field.Repeated()

	if children := field.Fields(); len(children) > 0 {
		for _, child := range children {
			infos = appendLeaves(infos, child, path, repeated)
		}
		return infos
	}

	info := ColumnInfo{
		Name:         strings.Join(path, "."),
		PhysicalType: physicalType(field.Type().Kind()),
		Repetition:   "required",
	}
	if lt := field.Type().LogicalType(); lt != nil {
		info.LogicalType = lt.String()
	}
	switch {
	case repeated:
		info.Repetition = "repeated"
	case field.Optional():
		info.Repetition = "optional"
	}
	return append(infos, info)
}

func physicalType(kind parquet.Kind) string {
	switch kind {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32:
		return "INT32"
	case parquet.Int64:
		return "INT64"
	case parquet.Int96:
		return "INT96"
	case parquet.Float:
		return "FLOAT"
	case parquet.Double:
		return "DOUBLE"
	case parquet.ByteArray:
		return "BYTE_ARRAY"
	case parquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", kind)
	}
}
