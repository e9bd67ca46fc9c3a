package merge

import (
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"
)

// snappySchema returns schema with every leaf column set to Snappy.
//
// Schemas read from a file carry the codec each column chunk was written
// with, and a leaf codec takes precedence over the writer's Compression
// option. Field order is kept, so rows copied from the inputs keep their
// column layout.
func snappySchema(schema *parquet.Schema) *parquet.Schema {
	return parquet.NewSchema(schema.Name(), snappyNode{schema})
}

type snappyNode struct {
	parquet.Node
}

func (n snappyNode) Compression() compress.Codec {
	if n.Leaf() {
		return &parquet.Snappy
	}
	return n.Node.Compression()
}

func (n snappyNode) Fields() []parquet.Field {
	return snappyFields(n.Node.Fields())
}

type snappyField struct {
	parquet.Field
}

func (f snappyField) Compression() compress.Codec {
	if f.Leaf() {
		return &parquet.Snappy
	}
	return f.Field.Compression()
}

func (f snappyField) Fields() []parquet.Field {
	return snappyFields(f.Field.Fields())
}

func snappyFields(fields []parquet.Field) []parquet.Field {
	if len(fields) == 0 {
		return fields
	}
	wrapped := make([]parquet.Field, len(fields))
	for i, f := range fields {
		wrapped[i] = snappyField{f}
	}
	return wrapped
}
