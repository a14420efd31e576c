package schema

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	avro "github.com/hamba/avro/v2"
)

func mustSchema(t *testing.T, raw string) avro.Schema {
	t.Helper()
	s, err := avro.Parse(raw)
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}
	return s
}

func TestTranslateRootPrimitives(t *testing.T) {
	raw := `{
		"type": "record",
		"name": "Primitives",
		"fields": [
			{"name": "a", "type": "boolean"},
			{"name": "b", "type": "int"},
			{"name": "c", "type": "long"},
			{"name": "d", "type": "float"},
			{"name": "e", "type": "double"},
			{"name": "f", "type": "string"},
			{"name": "g", "type": "bytes"}
		]
	}`
	out, err := TranslateRoot(mustSchema(t, raw))
	if err != nil {
		t.Fatalf("TranslateRoot: %v", err)
	}
	want := []arrow.DataType{
		arrow.FixedWidthTypes.Boolean,
		arrow.PrimitiveTypes.Int32,
		arrow.PrimitiveTypes.Int64,
		arrow.PrimitiveTypes.Float32,
		arrow.PrimitiveTypes.Float64,
		arrow.BinaryTypes.String,
		arrow.BinaryTypes.Binary,
	}
	if out.NumFields() != len(want) {
		t.Fatalf("got %d fields, want %d", out.NumFields(), len(want))
	}
	for i, w := range want {
		got := out.Field(i).Type
		if got.ID() != w.ID() {
			t.Errorf("field %d: got %s, want %s", i, got, w)
		}
		if out.Field(i).Nullable {
			t.Errorf("field %d: expected non-nullable", i)
		}
	}
}

func TestTranslateRootRejectsNonRecord(t *testing.T) {
	if _, err := TranslateRoot(mustSchema(t, `"string"`)); err == nil {
		t.Fatal("expected error for non-record root")
	} else if _, ok := err.(*RootMustBeRecordError); !ok {
		t.Fatalf("expected RootMustBeRecordError, got %T", err)
	}
}

func TestTranslateNullableUnion(t *testing.T) {
	raw := `{
		"type": "record",
		"name": "Nullable",
		"fields": [
			{"name": "maybe", "type": ["null", "string"]}
		]
	}`
	out, err := TranslateRoot(mustSchema(t, raw))
	if err != nil {
		t.Fatalf("TranslateRoot: %v", err)
	}
	f := out.Field(0)
	if !f.Nullable {
		t.Fatal("expected nullable field")
	}
	if f.Type.ID() != arrow.STRING {
		t.Fatalf("got %s, want string", f.Type)
	}
}

func TestTranslateRejectsNonNullUnion(t *testing.T) {
	raw := `{
		"type": "record",
		"name": "Bad",
		"fields": [
			{"name": "f", "type": ["string", "int"]}
		]
	}`
	_, err := TranslateRoot(mustSchema(t, raw))
	if err == nil {
		t.Fatal("expected error for non-[null,T] union")
	}
	if _, ok := err.(*UnsupportedSchemaError); !ok {
		t.Fatalf("expected UnsupportedSchemaError, got %T", err)
	}
}

func TestTranslateLogicalTypes(t *testing.T) {
	raw := `{
		"type": "record",
		"name": "Logical",
		"fields": [
			{"name": "d", "type": {"type": "int", "logicalType": "date"}},
			{"name": "t_ms", "type": {"type": "int", "logicalType": "time-millis"}},
			{"name": "t_us", "type": {"type": "long", "logicalType": "time-micros"}},
			{"name": "ts_ms", "type": {"type": "long", "logicalType": "timestamp-millis"}},
			{"name": "ts_us", "type": {"type": "long", "logicalType": "timestamp-micros"}},
			{"name": "lts_ms", "type": {"type": "long", "logicalType": "local-timestamp-millis"}},
			{"name": "dec", "type": {"type": "bytes", "logicalType": "decimal", "precision": 9, "scale": 2}},
			{"name": "fixed_dec", "type": {"type": "fixed", "name": "FixedDec", "size": 8, "logicalType": "decimal", "precision": 12, "scale": 3}},
			{"name": "uid", "type": {"type": "string", "logicalType": "uuid"}}
		]
	}`
	out, err := TranslateRoot(mustSchema(t, raw))
	if err != nil {
		t.Fatalf("TranslateRoot: %v", err)
	}

	if out.Field(0).Type.ID() != arrow.DATE32 {
		t.Errorf("date: got %s", out.Field(0).Type)
	}
	if out.Field(1).Type.ID() != arrow.TIME32 {
		t.Errorf("time-millis: got %s", out.Field(1).Type)
	}
	if out.Field(2).Type.ID() != arrow.TIME64 {
		t.Errorf("time-micros: got %s", out.Field(2).Type)
	}
	if out.Field(3).Type.ID() != arrow.TIMESTAMP {
		t.Errorf("timestamp-millis: got %s", out.Field(3).Type)
	}
	lts := out.Field(5).Type.(*arrow.TimestampType)
	if lts.TimeZone == "" {
		t.Error("expected local-timestamp to carry a tz offset")
	}
	dec := out.Field(6).Type.(*arrow.Decimal128Type)
	if dec.Precision != 9 || dec.Scale != 2 {
		t.Errorf("decimal(bytes): got precision=%d scale=%d", dec.Precision, dec.Scale)
	}
	fixedDec := out.Field(7).Type.(*arrow.Decimal128Type)
	if fixedDec.Precision != 12 || fixedDec.Scale != 3 {
		t.Errorf("decimal(fixed): got precision=%d scale=%d", fixedDec.Precision, fixedDec.Scale)
	}
	uid := out.Field(8).Type.(*arrow.FixedSizeBinaryType)
	if uid.ByteWidth != 16 {
		t.Errorf("uuid: got byte width %d", uid.ByteWidth)
	}
}

func TestTranslateBigDecimalFallsBackToBinary(t *testing.T) {
	raw := `{
		"type": "record",
		"name": "Big",
		"fields": [
			{"name": "v", "type": {"type": "bytes", "logicalType": "big-decimal"}}
		]
	}`
	out, err := TranslateRoot(mustSchema(t, raw))
	if err != nil {
		t.Fatalf("TranslateRoot: %v", err)
	}
	if out.Field(0).Type.ID() != arrow.BINARY {
		t.Errorf("got %s, want binary", out.Field(0).Type)
	}
}

func TestTranslateEnumFixedArrayMapRecord(t *testing.T) {
	raw := `{
		"type": "record",
		"name": "Nested",
		"fields": [
			{"name": "color", "type": {"type": "enum", "name": "Color", "symbols": ["RED", "GREEN"]}},
			{"name": "hash", "type": {"type": "fixed", "name": "Hash", "size": 4}},
			{"name": "tags", "type": {"type": "array", "items": "string"}},
			{"name": "attrs", "type": {"type": "map", "values": "long"}},
			{"name": "inner", "type": {"type": "record", "name": "Inner", "fields": [
				{"name": "x", "type": "int"}
			]}}
		]
	}`
	out, err := TranslateRoot(mustSchema(t, raw))
	if err != nil {
		t.Fatalf("TranslateRoot: %v", err)
	}
	if out.Field(0).Type.ID() != arrow.STRING {
		t.Errorf("enum: got %s", out.Field(0).Type)
	}
	fsb := out.Field(1).Type.(*arrow.FixedSizeBinaryType)
	if fsb.ByteWidth != 4 {
		t.Errorf("fixed: got byte width %d", fsb.ByteWidth)
	}
	if out.Field(2).Type.ID() != arrow.LIST {
		t.Errorf("array: got %s", out.Field(2).Type)
	}
	if out.Field(3).Type.ID() != arrow.MAP {
		t.Errorf("map: got %s", out.Field(3).Type)
	}
	if out.Field(4).Type.ID() != arrow.STRUCT {
		t.Errorf("record: got %s", out.Field(4).Type)
	}
}

// Ref resolution itself is exercised in the registry package, where
// SchemaExpander guarantees every Ref reaching TypeMap has already been
// replaced by its target. Here we only confirm a bare Ref surfaces as an
// UnresolvedRefError instead of silently degrading.
func TestTranslateUnresolvedRef(t *testing.T) {
	inner, err := avro.NewRecordSchema("B", "", []*avro.Field{
		mustField(t, "x", avro.NewPrimitiveSchema(avro.Int, nil)),
	})
	if err != nil {
		t.Fatalf("build inner record: %v", err)
	}
	ref := avro.NewRefSchema(inner)

	outer, err := avro.NewRecordSchema("A", "", []*avro.Field{
		mustField(t, "b", ref),
	})
	if err != nil {
		t.Fatalf("build outer record: %v", err)
	}

	_, err = TranslateRoot(outer)
	if err == nil {
		t.Fatal("expected error for unresolved ref")
	}
	if _, ok := err.(*UnresolvedRefError); !ok {
		t.Fatalf("expected UnresolvedRefError, got %T: %v", err, err)
	}
}

func mustField(t *testing.T, name string, s avro.Schema) *avro.Field {
	t.Helper()
	f, err := avro.NewField(name, s)
	if err != nil {
		t.Fatalf("NewField(%s): %v", name, err)
	}
	return f
}
