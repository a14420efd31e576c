// Package builder implements BuilderFactory: constructing a CF (Arrow)
// columnar builder tree that mirrors the shape TypeMap would translate a
// given WSL (Avro) schema into, sized up-front for an expected row count.
// It is grounded on the RecordBuilder/Reserve idiom in
// other_examples' johanan-mvr Arrow writer.
package builder

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	avro "github.com/hamba/avro/v2"

	"github.com/omarkamali/avrocol/schema"
)

// byteCapacityHint is the assumed average size, in bytes, of a single
// variable-length (string/binary) value when pre-reserving buffer space.
const byteCapacityHint = 32

// BuildSchema translates s (which must be a Record) and returns a
// RecordBuilder whose buffers are pre-sized for capacity rows, along with
// the arrow.Schema it was built against.
func BuildSchema(s avro.Schema, capacity int, mem memory.Allocator) (*array.RecordBuilder, *arrow.Schema, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	arrowSchema, err := schema.TranslateRoot(s)
	if err != nil {
		return nil, nil, err
	}
	rb := array.NewRecordBuilder(mem, arrowSchema)
	for _, b := range rb.Fields() {
		reserve(b, capacity)
	}
	return rb, arrowSchema, nil
}

// Build constructs a single CF builder for one WSL schema position. tz must
// be the same offset string TranslateRoot captured for the enclosing
// record, so a Local* timestamp field built here agrees with the schema
// RowAppender will walk it against.
func Build(s avro.Schema, tz string, capacity int, mem memory.Allocator) (array.Builder, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	field, err := schema.Translate("value", s, tz)
	if err != nil {
		return nil, err
	}
	b := array.NewBuilder(mem, field.Type)
	reserve(b, capacity)
	return b, nil
}

func reserve(b array.Builder, capacity int) {
	b.Reserve(capacity)
	switch b.(type) {
	case *array.StringBuilder, *array.BinaryBuilder, *array.LargeStringBuilder, *array.LargeBinaryBuilder:
		if rd, ok := b.(interface{ ReserveData(int) }); ok {
			rd.ReserveData(capacity * byteCapacityHint)
		}
	}
}
