// Package rowappend implements RowAppender: recursively walking a decoded
// WSL (Avro) value against its schema and appending it into the matching
// CF (Arrow) builder produced by package builder. It is grounded directly
// on original_source/avroarrow/src/record.rs's append_record, with Rust's
// unsafe pointer-punning (cast_unchecked, StructBuilderLayout,
// DecimalLayout) replaced by Go type switches and Arrow's public
// ValueBuilder/KeyBuilder/ItemBuilder/FieldBuilder accessors.
package rowappend

import (
	"fmt"
	"math/big"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/google/uuid"
	avro "github.com/hamba/avro/v2"
	"github.com/spf13/cast"
)

// epoch is the Arrow Date32/Unix epoch, used to convert a decoded date
// time.Time into a day count.
var epoch = time.Unix(0, 0).UTC()

// Append walks s and v together, appending one value onto b. b must have
// been produced by builder.Build (or be a child obtained from it) for the
// same schema position, so its concrete builder type matches what this
// function expects to type-assert.
func Append(b array.Builder, s avro.Schema, v any) error {
	if v == nil {
		b.AppendNull()
		return nil
	}

	switch t := s.(type) {
	case *avro.RefSchema:
		return Append(b, t.Schema(), v)

	case *avro.UnionSchema:
		types := t.Types()
		if len(types) != 2 || types[0].Type() != avro.Null {
			return &UnsupportedSchemaError{Desc: "only [null, T] unions are supported"}
		}
		return Append(b, types[1], v)

	case *avro.PrimitiveSchema:
		return appendPrimitive(b, t, v)

	case *avro.FixedSchema:
		return appendFixed(b, t, v)

	case *avro.EnumSchema:
		return appendEnum(b, v)

	case *avro.ArraySchema:
		return appendArray(b, t, v)

	case *avro.MapSchema:
		return appendMap(b, t, v)

	case *avro.RecordSchema:
		return appendRecord(b, t, v)

	default:
		return &UnsupportedSchemaError{Desc: fmt.Sprintf("schema type %q", s.Type())}
	}
}

func appendPrimitive(b array.Builder, p *avro.PrimitiveSchema, v any) error {
	if lts, ok := avro.Schema(p).(avro.LogicalTypeSchema); ok {
		if ls := lts.Logical(); ls != nil {
			if handled, err := appendLogical(b, ls, v); handled {
				return err
			}
		}
	}
	return appendBase(b, p.Type(), v)
}

func appendBase(b array.Builder, t avro.Type, v any) error {
	switch t {
	case avro.Boolean:
		bb, ok := b.(*array.BooleanBuilder)
		if !ok {
			return mismatch("BooleanBuilder", b)
		}
		val, ok := v.(bool)
		if !ok {
			return mismatch("bool", v)
		}
		bb.Append(val)

	case avro.Int:
		bb, ok := b.(*array.Int32Builder)
		if !ok {
			return mismatch("Int32Builder", b)
		}
		n, err := cast.ToInt32E(v)
		if err != nil {
			return mismatch("int", v)
		}
		bb.Append(n)

	case avro.Long:
		bb, ok := b.(*array.Int64Builder)
		if !ok {
			return mismatch("Int64Builder", b)
		}
		n, err := cast.ToInt64E(v)
		if err != nil {
			return mismatch("long", v)
		}
		bb.Append(n)

	case avro.Float:
		bb, ok := b.(*array.Float32Builder)
		if !ok {
			return mismatch("Float32Builder", b)
		}
		n, err := cast.ToFloat32E(v)
		if err != nil {
			return mismatch("float", v)
		}
		bb.Append(n)

	case avro.Double:
		bb, ok := b.(*array.Float64Builder)
		if !ok {
			return mismatch("Float64Builder", b)
		}
		n, err := cast.ToFloat64E(v)
		if err != nil {
			return mismatch("double", v)
		}
		bb.Append(n)

	case avro.String:
		bb, ok := b.(*array.StringBuilder)
		if !ok {
			return mismatch("StringBuilder", b)
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return mismatch("string", v)
		}
		bb.Append(s)

	case avro.Bytes:
		bb, ok := b.(*array.BinaryBuilder)
		if !ok {
			return mismatch("BinaryBuilder", b)
		}
		val, ok := v.([]byte)
		if !ok {
			return mismatch("[]byte", v)
		}
		bb.Append(val)

	case avro.Null:
		b.AppendNull()

	default:
		return &UnsupportedSchemaError{Desc: fmt.Sprintf("primitive type %q", t)}
	}
	return nil
}

// appendLogical appends v for a recognized logical type. handled is false
// for logical types this function defers to the primitive base mapping for
// (e.g. BigDecimal), matching schema.translateLogical's fallback.
func appendLogical(b array.Builder, ls avro.LogicalSchema, v any) (handled bool, err error) {
	switch ls.Type() {
	case avro.Date:
		bb, ok := b.(*array.Date32Builder)
		if !ok {
			return true, mismatch("Date32Builder", b)
		}
		t, ok := v.(time.Time)
		if !ok {
			return true, mismatch("time.Time", v)
		}
		days := int32(t.UTC().Sub(epoch).Hours() / 24)
		bb.Append(arrow.Date32(days))
		return true, nil

	case avro.TimeMillis:
		bb, ok := b.(*array.Time32Builder)
		if !ok {
			return true, mismatch("Time32Builder", b)
		}
		ms, err := durationMillis(v)
		if err != nil {
			return true, err
		}
		bb.Append(arrow.Time32(ms))
		return true, nil

	case avro.TimeMicros:
		bb, ok := b.(*array.Time64Builder)
		if !ok {
			return true, mismatch("Time64Builder", b)
		}
		us, err := durationMicros(v)
		if err != nil {
			return true, err
		}
		bb.Append(arrow.Time64(us))
		return true, nil

	case avro.TimestampMillis, avro.LocalTimestampMillis:
		return true, appendTimestamp(b, v, func(t time.Time) int64 { return t.UnixMilli() })

	case avro.TimestampMicros, avro.LocalTimestampMicros:
		return true, appendTimestamp(b, v, func(t time.Time) int64 { return t.UnixMicro() })

	case avro.TimestampNanos, avro.LocalTimestampNanos:
		return true, appendTimestamp(b, v, func(t time.Time) int64 { return t.UnixNano() })

	case avro.UUID:
		bb, ok := b.(*array.FixedSizeBinaryBuilder)
		if !ok {
			return true, mismatch("FixedSizeBinaryBuilder", b)
		}
		raw, err := uuidBytes(v)
		if err != nil {
			return true, err
		}
		bb.Append(raw)
		return true, nil

	case avro.Decimal:
		bb, ok := b.(*array.Decimal128Builder)
		if !ok {
			return true, mismatch("Decimal128Builder", b)
		}
		dt, ok := bb.Type().(*arrow.Decimal128Type)
		if !ok {
			return true, mismatch("Decimal128Type", bb.Type())
		}
		num, err := decimalValue(v, dt)
		if err != nil {
			return true, err
		}
		bb.Append(num)
		return true, nil
	}
	return false, nil
}

func appendTimestamp(b array.Builder, v any, unix func(time.Time) int64) error {
	bb, ok := b.(*array.TimestampBuilder)
	if !ok {
		return mismatch("TimestampBuilder", b)
	}
	switch t := v.(type) {
	case time.Time:
		bb.Append(arrow.Timestamp(unix(t)))
	case int64:
		bb.Append(arrow.Timestamp(t))
	default:
		return mismatch("time.Time", v)
	}
	return nil
}

func durationMillis(v any) (int32, error) {
	switch d := v.(type) {
	case time.Duration:
		return int32(d.Milliseconds()), nil
	case int32:
		return d, nil
	case int:
		return int32(d), nil
	default:
		return 0, mismatch("time.Duration", v)
	}
}

func durationMicros(v any) (int64, error) {
	switch d := v.(type) {
	case time.Duration:
		return d.Microseconds(), nil
	case int64:
		return d, nil
	case int:
		return int64(d), nil
	default:
		return 0, mismatch("time.Duration", v)
	}
}

func uuidBytes(v any) ([]byte, error) {
	switch u := v.(type) {
	case string:
		id, err := uuid.Parse(u)
		if err != nil {
			return nil, mismatch("uuid string", v)
		}
		return id[:], nil
	case uuid.UUID:
		return u[:], nil
	case [16]byte:
		return u[:], nil
	case []byte:
		if len(u) != 16 {
			return nil, &FixedLengthMismatchError{Expected: 16, Got: len(u)}
		}
		return u, nil
	default:
		return nil, mismatch("uuid", v)
	}
}

// decimalValue converts a decoded decimal value in any of the
// representations hamba/avro or a caller might hand us into a
// decimal128.Num sized for dt. Values whose unscaled magnitude overflows
// 128 bits fall back to zero rather than erroring, per the documented
// lossy-overflow behavior (record.rs's from_decimal128 TODO).
func decimalValue(v any, dt *arrow.Decimal128Type) (decimal128.Num, error) {
	switch u := v.(type) {
	case *big.Int:
		return fitDecimal(u), nil
	case *big.Rat:
		scaled := new(big.Rat).Mul(u, pow10Rat(dt.Scale))
		i := new(big.Int).Quo(scaled.Num(), scaled.Denom())
		return fitDecimal(i), nil
	case []byte:
		return fitDecimal(bigIntFromTwosComplement(u)), nil
	case string:
		num, err := decimal128.FromString(u, dt.Precision, dt.Scale)
		if err != nil {
			return decimal128.Num{}, mismatch("decimal string", v)
		}
		return num, nil
	default:
		return decimal128.Num{}, mismatch("decimal", v)
	}
}

// bigIntFromTwosComplement decodes b as a big-endian two's-complement
// signed integer, the byte layout Avro's decimal logical type specifies
// (unlike a plain unsigned big.Int.SetBytes, which would read a negative
// decimal's sign bit as magnitude).
func bigIntFromTwosComplement(b []byte) *big.Int {
	if len(b) == 0 {
		return new(big.Int)
	}
	i := new(big.Int).SetBytes(b)
	if b[0]&0x80 != 0 {
		i.Sub(i, new(big.Int).Lsh(big.NewInt(1), uint(8*len(b))))
	}
	return i
}

func fitDecimal(i *big.Int) decimal128.Num {
	if i.BitLen() > 127 {
		return decimal128.FromI64(0)
	}
	return decimal128.FromBigInt(i)
}

func pow10Rat(scale int32) *big.Rat {
	ten := big.NewInt(10)
	exp := new(big.Int).Exp(ten, big.NewInt(int64(scale)), nil)
	return new(big.Rat).SetInt(exp)
}

func appendFixed(b array.Builder, t *avro.FixedSchema, v any) error {
	if lts, ok := avro.Schema(t).(avro.LogicalTypeSchema); ok {
		if ls := lts.Logical(); ls != nil {
			if handled, err := appendLogical(b, ls, v); handled {
				return err
			}
		}
	}
	bb, ok := b.(*array.FixedSizeBinaryBuilder)
	if !ok {
		return mismatch("FixedSizeBinaryBuilder", b)
	}
	var raw []byte
	switch u := v.(type) {
	case []byte:
		raw = u
	case [16]byte:
		raw = u[:]
	default:
		return mismatch("[]byte", v)
	}
	if len(raw) != t.Size() {
		return &FixedLengthMismatchError{Expected: t.Size(), Got: len(raw)}
	}
	bb.Append(raw)
	return nil
}

func appendEnum(b array.Builder, v any) error {
	bb, ok := b.(*array.StringBuilder)
	if !ok {
		return mismatch("StringBuilder", b)
	}
	s, ok := v.(string)
	if !ok {
		return mismatch("string", v)
	}
	bb.Append(s)
	return nil
}

func appendArray(b array.Builder, t *avro.ArraySchema, v any) error {
	bb, ok := b.(*array.ListBuilder)
	if !ok {
		return mismatch("ListBuilder", b)
	}
	items, ok := v.([]any)
	if !ok {
		return mismatch("[]any", v)
	}
	valueBuilder := bb.ValueBuilder()
	for _, item := range items {
		if err := Append(valueBuilder, t.Items(), item); err != nil {
			return err
		}
	}
	bb.Append(true)
	return nil
}

func appendMap(b array.Builder, t *avro.MapSchema, v any) error {
	bb, ok := b.(*array.MapBuilder)
	if !ok {
		return mismatch("MapBuilder", b)
	}
	entries, ok := v.(map[string]any)
	if !ok {
		return mismatch("map[string]any", v)
	}
	keyBuilder := bb.KeyBuilder().(*array.StringBuilder)
	itemBuilder := bb.ItemBuilder()
	for k, val := range entries {
		keyBuilder.Append(k)
		if err := Append(itemBuilder, t.Values(), val); err != nil {
			return err
		}
	}
	bb.Append(true)
	return nil
}

func appendRecord(b array.Builder, t *avro.RecordSchema, v any) error {
	bb, ok := b.(*array.StructBuilder)
	if !ok {
		return mismatch("StructBuilder", b)
	}
	values, ok := v.(map[string]any)
	if !ok {
		return mismatch("map[string]any", v)
	}
	fields := t.Fields()
	for i, f := range fields {
		if err := Append(bb.FieldBuilder(i), f.Type(), values[f.Name()]); err != nil {
			return err
		}
	}
	bb.Append(true)
	return nil
}

func mismatch(expected string, got any) error {
	return &TypeMismatchError{Expected: expected, Got: fmt.Sprintf("%T", got)}
}
