package registry

import "fmt"

// ExpectedRecordError reports Register called with a non-Record top-level
// schema.
type ExpectedRecordError struct{}

func (e *ExpectedRecordError) Error() string {
	return "register: top-level schema must be a record"
}

// UnresolvedRefError reports SchemaExpander failing to find a referenced
// name in the supplied map.
type UnresolvedRefError struct {
	Name string
}

func (e *UnresolvedRefError) Error() string {
	return fmt.Sprintf("unresolved schema reference: %s", e.Name)
}

// ResolutionFailedError reports a union, field or record failing to
// reconstruct during expansion, or a requested key missing from the
// expanded cache after resolve. A batch that fails to parse is reported as
// DeserializationFailedError instead.
type ResolutionFailedError struct {
	Msg string
}

func (e *ResolutionFailedError) Error() string {
	return fmt.Sprintf("schema resolution failed: %s", e.Msg)
}

// ClientError wraps a transport-level failure talking to the schema
// registry (non-200 response, network error, decode error).
type ClientError struct {
	Msg string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("registry client error: %s", e.Msg)
}

// DeserializationFailedError reports a batch of raw schema text failing to
// parse together.
type DeserializationFailedError struct {
	Msg string
}

func (e *DeserializationFailedError) Error() string {
	return fmt.Sprintf("schema deserialization failed: %s", e.Msg)
}
