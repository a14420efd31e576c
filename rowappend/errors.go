package rowappend

import "fmt"

// TypeMismatchError reports a decoded value whose Go type does not match
// what the WSL schema at that position promised.
type TypeMismatchError struct {
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Got)
}

// FixedLengthMismatchError reports a Fixed/UUID value whose byte length
// does not match the schema's declared size.
type FixedLengthMismatchError struct {
	Expected int
	Got      int
}

func (e *FixedLengthMismatchError) Error() string {
	return fmt.Sprintf("fixed length mismatch: expected %d bytes, got %d", e.Expected, e.Got)
}

// UnsupportedSchemaError reports a WSL schema variant RowAppender cannot
// walk, mirroring schema.UnsupportedSchemaError for the append side.
type UnsupportedSchemaError struct {
	Desc string
}

func (e *UnsupportedSchemaError) Error() string {
	return fmt.Sprintf("unsupported schema: %s", e.Desc)
}
