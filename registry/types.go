package registry

// Subject is a single fetched schema-registry response, flattened from the
// wire shape documented in SPEC_FULL.md §4.5 (mirrors client.rs's Subject).
type Subject struct {
	ID         int         `json:"id"`
	Version    int         `json:"version"`
	SchemaText string      `json:"schema"`
	SchemaType string      `json:"schemaType"`
	References []Reference `json:"references,omitempty"`
}

// Reference is one entry of a Subject's dependency list.
type Reference struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Version int    `json:"version"`
}
