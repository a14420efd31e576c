// Part of package registry: SchemaExpander, the component that replaces
// every *avro.RefSchema node in a schema tree with a deep, recursively
// expanded copy of the schema it names. Grounded directly on
// original_source/sregistry/src/avro.rs's register_schema/expand_schema.
//
// hamba/avro resolves a *avro.RefSchema's target eagerly at Parse time
// (within one document), but it leaves the RefSchema wrapper node in the
// tree rather than inlining the target. schema.Translate refuses to walk a
// bare *avro.RefSchema (spec.md's "Ref -> error UnresolvedRef" rule), so
// every tree reaching it must have had Expand run over it first - including
// ones whose Refs hamba already resolved internally, such as the subjects
// AvroRegistry parses together against one shared schema cache.
// rowappend.Append, by contrast, follows a RefSchema to its target.
package registry

import (
	avro "github.com/hamba/avro/v2"
)

// Register inserts s into names keyed by its fully-qualified name. Only
// Record-typed top-level schemas are accepted, matching spec.md §4.4.
func Register(s avro.Schema, names map[string]avro.Schema) error {
	rec, ok := s.(*avro.RecordSchema)
	if !ok {
		return &ExpectedRecordError{}
	}
	names[rec.FullName()] = rec
	return nil
}

// Expand walks s, rebuilding every composite node through hamba/avro's
// public constructors and substituting any *avro.RefSchema encountered
// with the looked-up, recursively expanded target. Field metadata (doc,
// aliases, default) is preserved across the rebuild.
func Expand(s avro.Schema, names map[string]avro.Schema) (avro.Schema, error) {
	switch t := s.(type) {
	case *avro.RefSchema:
		name := refFullName(t)
		target, ok := names[name]
		if !ok {
			return nil, &UnresolvedRefError{Name: name}
		}
		return Expand(target, names)

	case *avro.UnionSchema:
		types := t.Types()
		expanded := make([]avro.Schema, len(types))
		for i, inner := range types {
			e, err := Expand(inner, names)
			if err != nil {
				return nil, err
			}
			expanded[i] = e
		}
		u, err := avro.NewUnionSchema(expanded)
		if err != nil {
			return nil, &ResolutionFailedError{Msg: err.Error()}
		}
		return u, nil

	case *avro.ArraySchema:
		items, err := Expand(t.Items(), names)
		if err != nil {
			return nil, err
		}
		return avro.NewArraySchema(items), nil

	case *avro.MapSchema:
		values, err := Expand(t.Values(), names)
		if err != nil {
			return nil, err
		}
		return avro.NewMapSchema(values), nil

	case *avro.RecordSchema:
		fields := t.Fields()
		newFields := make([]*avro.Field, len(fields))
		for i, f := range fields {
			ft, err := Expand(f.Type(), names)
			if err != nil {
				return nil, err
			}
			nf, err := rebuildField(f, ft)
			if err != nil {
				return nil, &ResolutionFailedError{Msg: err.Error()}
			}
			newFields[i] = nf
		}
		rebuilt, err := avro.NewRecordSchema(t.Name(), t.Namespace(), newFields)
		if err != nil {
			return nil, &ResolutionFailedError{Msg: err.Error()}
		}
		return rebuilt, nil

	default:
		// Primitives, Fixed and Enum are leaves: they cannot contain a
		// Ref, so they pass through unchanged.
		return s, nil
	}
}

// rebuildField reconstructs a *avro.Field carrying typ in place of f's
// original type, preserving the rest of f's metadata.
func rebuildField(f *avro.Field, typ avro.Schema) (*avro.Field, error) {
	opts := []avro.SchemaOption{}
	if doc := f.Doc(); doc != "" {
		opts = append(opts, avro.WithDoc(doc))
	}
	if len(f.Aliases()) > 0 {
		opts = append(opts, avro.WithAliases(f.Aliases()))
	}
	if f.HasDefault() {
		opts = append(opts, avro.WithDefault(f.Default()))
	}
	return avro.NewField(f.Name(), typ, opts...)
}

// refFullName reports the qualified name a RefSchema points at, independent
// of whether hamba/avro has already resolved it to a concrete target
// within this parse call.
func refFullName(t *avro.RefSchema) string {
	if named, ok := t.Schema().(avro.NamedSchema); ok {
		return named.FullName()
	}
	return string(t.Schema().Type())
}
