// Package schema implements TypeMap: the pure, recursive translation from a
// WSL (Avro) schema tree into a CF (Arrow) schema tree. It is grounded on
// original_source/avroarrow/src/schema.rs (convert_schema/convert_to_datatype/
// is_nullable), reworked into Go idiom against github.com/hamba/avro/v2 and
// github.com/apache/arrow-go/v18.
package schema

import (
	"fmt"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	avro "github.com/hamba/avro/v2"
)

// TranslateRoot maps a top-level WSL record schema into a CF schema. The
// local-timestamp UTC offset is captured once here and threaded to every
// Local* field translated during this call, so a schema is internally
// consistent even if it straddles a DST boundary relative to some other
// call (spec.md §4.1, §9).
func TranslateRoot(s avro.Schema) (*arrow.Schema, error) {
	rec, ok := s.(*avro.RecordSchema)
	if !ok {
		return nil, &RootMustBeRecordError{Got: string(s.Type())}
	}

	tz := localOffset()
	fields, err := translateFields(rec.Fields(), tz)
	if err != nil {
		return nil, err
	}
	return arrow.NewSchema(fields, nil), nil
}

// Translate maps a single WSL schema position into a CF field named name.
// It is the entry point BuilderFactory uses to keep its tree structurally
// congruent to TranslateRoot's output for the same schema and tz snapshot.
func Translate(name string, s avro.Schema, tz string) (arrow.Field, error) {
	dt, nullable, err := translate(s, tz)
	if err != nil {
		return arrow.Field{}, err
	}
	return arrow.Field{Name: name, Type: dt, Nullable: nullable}, nil
}

func translateFields(fields []*avro.Field, tz string) ([]arrow.Field, error) {
	out := make([]arrow.Field, len(fields))
	for i, f := range fields {
		af, err := Translate(f.Name(), f.Type(), tz)
		if err != nil {
			return nil, err
		}
		out[i] = af
	}
	return out, nil
}

// translate returns the CF data type for s along with whether the binding
// site should be marked nullable, per the Union([null, T]) rule in
// spec.md §3.
func translate(s avro.Schema, tz string) (arrow.DataType, bool, error) {
	switch t := s.(type) {
	case *avro.RefSchema:
		return nil, false, &UnresolvedRefError{Name: refName(t)}

	case *avro.UnionSchema:
		types := t.Types()
		if len(types) != 2 || types[0].Type() != avro.Null {
			return nil, false, &UnsupportedSchemaError{Desc: fmt.Sprintf("union of shape %v, only [null, T] is supported", unionShape(types))}
		}
		dt, _, err := translate(types[1], tz)
		if err != nil {
			return nil, false, err
		}
		return dt, true, nil

	case *avro.PrimitiveSchema:
		dt, err := translatePrimitive(t, tz)
		return dt, false, err

	case *avro.FixedSchema:
		if dec, ok := decimalLogical(t); ok {
			return &arrow.Decimal128Type{Precision: int32(dec.Precision()), Scale: int32(dec.Scale())}, false, nil
		}
		return &arrow.FixedSizeBinaryType{ByteWidth: t.Size()}, false, nil

	case *avro.EnumSchema:
		return arrow.BinaryTypes.String, false, nil

	case *avro.ArraySchema:
		itemField, err := Translate("item", t.Items(), tz)
		if err != nil {
			return nil, false, err
		}
		return arrow.ListOfField(itemField), false, nil

	case *avro.MapSchema:
		valueField, err := Translate("value", t.Values(), tz)
		if err != nil {
			return nil, false, err
		}
		mt := arrow.MapOf(arrow.BinaryTypes.String, valueField.Type)
		mt.SetItemNullable(valueField.Nullable)
		return mt, false, nil

	case *avro.RecordSchema:
		fields, err := translateFields(t.Fields(), tz)
		if err != nil {
			return nil, false, err
		}
		return arrow.StructOf(fields...), false, nil

	default:
		return nil, false, &UnsupportedSchemaError{Desc: fmt.Sprintf("schema type %q", s.Type())}
	}
}

func translatePrimitive(p *avro.PrimitiveSchema, tz string) (arrow.DataType, error) {
	if lts, ok := avro.Schema(p).(avro.LogicalTypeSchema); ok {
		if ls := lts.Logical(); ls != nil {
			if dt, handled, err := translateLogical(ls, tz); handled {
				return dt, err
			}
		}
	}
	return translateBase(p.Type())
}

// translateLogical maps a logical type over its primitive base, returning
// handled=false for logical types this translator does not special-case
// (falling back to the primitive base type, e.g. BigDecimal -> Binary, per
// spec.md §4.1).
func translateLogical(ls avro.LogicalSchema, tz string) (dt arrow.DataType, handled bool, err error) {
	switch ls.Type() {
	case avro.Date:
		return arrow.FixedWidthTypes.Date32, true, nil
	case avro.TimeMillis:
		return &arrow.Time32Type{Unit: arrow.Millisecond}, true, nil
	case avro.TimeMicros:
		return &arrow.Time64Type{Unit: arrow.Microsecond}, true, nil
	case avro.TimestampMillis:
		return &arrow.TimestampType{Unit: arrow.Millisecond}, true, nil
	case avro.TimestampMicros:
		return &arrow.TimestampType{Unit: arrow.Microsecond}, true, nil
	case avro.TimestampNanos:
		return &arrow.TimestampType{Unit: arrow.Nanosecond}, true, nil
	case avro.LocalTimestampMillis:
		return &arrow.TimestampType{Unit: arrow.Millisecond, TimeZone: tz}, true, nil
	case avro.LocalTimestampMicros:
		return &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: tz}, true, nil
	case avro.LocalTimestampNanos:
		return &arrow.TimestampType{Unit: arrow.Nanosecond, TimeZone: tz}, true, nil
	case avro.UUID:
		return &arrow.FixedSizeBinaryType{ByteWidth: 16}, true, nil
	case avro.Decimal:
		if dec, ok := ls.(*avro.DecimalLogicalSchema); ok {
			return &arrow.Decimal128Type{Precision: int32(dec.Precision()), Scale: int32(dec.Scale())}, true, nil
		}
	}
	// Unrecognized logical type (including BigDecimal): fall back to the
	// primitive's base mapping.
	return nil, false, nil
}

func translateBase(t avro.Type) (arrow.DataType, error) {
	switch t {
	case avro.Null:
		return arrow.Null, nil
	case avro.Boolean:
		return arrow.FixedWidthTypes.Boolean, nil
	case avro.Int:
		return arrow.PrimitiveTypes.Int32, nil
	case avro.Long:
		return arrow.PrimitiveTypes.Int64, nil
	case avro.Float:
		return arrow.PrimitiveTypes.Float32, nil
	case avro.Double:
		return arrow.PrimitiveTypes.Float64, nil
	case avro.String:
		return arrow.BinaryTypes.String, nil
	case avro.Bytes:
		return arrow.BinaryTypes.Binary, nil
	default:
		return nil, &UnsupportedSchemaError{Desc: fmt.Sprintf("primitive type %q", t)}
	}
}

func decimalLogical(t *avro.FixedSchema) (*avro.DecimalLogicalSchema, bool) {
	lts, ok := avro.Schema(t).(avro.LogicalTypeSchema)
	if !ok {
		return nil, false
	}
	ls := lts.Logical()
	if ls == nil || ls.Type() != avro.Decimal {
		return nil, false
	}
	dec, ok := ls.(*avro.DecimalLogicalSchema)
	return dec, ok
}

// refName reports the name of the schema a Ref points at, for error
// messages. RefSchema keeps the resolved target privately and only
// exposes it through Schema(), so we fall back to its avro.Type when the
// target isn't a named schema.
func refName(t *avro.RefSchema) string {
	target := t.Schema()
	if named, ok := target.(avro.NamedSchema); ok {
		return named.FullName()
	}
	return string(target.Type())
}

func unionShape(types []avro.Schema) []avro.Type {
	shape := make([]avro.Type, len(types))
	for i, t := range types {
		shape[i] = t.Type()
	}
	return shape
}

// localOffset snapshots the host's current local UTC offset, formatted the
// way a TimestampType's tz string is expected to read (e.g. "+02:00").
func localOffset() string {
	_, offsetSec := time.Now().Zone()
	sign := "+"
	if offsetSec < 0 {
		sign = "-"
		offsetSec = -offsetSec
	}
	h := offsetSec / 3600
	m := (offsetSec % 3600) / 60
	return fmt.Sprintf("%s%02d:%02d", sign, h, m)
}
