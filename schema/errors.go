package schema

import "fmt"

// UnsupportedSchemaError reports a WSL schema variant that has no CF
// representation: a union shape other than [null, T], or a schema or
// primitive type with no mapping. A bare Ref is reported as
// UnresolvedRefError, and BigDecimal falls back to Binary.
type UnsupportedSchemaError struct {
	Desc string
}

func (e *UnsupportedSchemaError) Error() string {
	return fmt.Sprintf("unsupported schema: %s", e.Desc)
}

// UnresolvedRefError reports a Ref schema reaching the translator without
// having been expanded first.
type UnresolvedRefError struct {
	Name string
}

func (e *UnresolvedRefError) Error() string {
	return fmt.Sprintf("unresolved schema reference: %s", e.Name)
}

// RootMustBeRecordError reports a top-level schema that is not a Record.
type RootMustBeRecordError struct {
	Got string
}

func (e *RootMustBeRecordError) Error() string {
	return fmt.Sprintf("root schema must be a record, got %s", e.Got)
}
