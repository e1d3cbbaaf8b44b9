package tables

import "github.com/apache/arrow/go/v18/arrow"

// Metadata keys written to exported schemas.
const (
	comment      = "comment"
	RunIDKey     = "run_id"
	SourceKey    = "source"
	SourceDigest = "source_blake2b"
)

// MetadataBuilder accumulates key/value pairs for Arrow fields and schemas.
type MetadataBuilder struct {
	keys   []string
	values []string
}

func NewMetadataBuilder() *MetadataBuilder {
	return &MetadataBuilder{}
}

func (b *MetadataBuilder) Add(key, value string) *MetadataBuilder {
	b.keys = append(b.keys, key)
	b.values = append(b.values, value)
	return b
}

// AddComment attaches a human-readable description.
func (b *MetadataBuilder) AddComment(value string) *MetadataBuilder {
	return b.Add(comment, value)
}

// Build constructs and returns the arrow.Metadata.
func (b *MetadataBuilder) Build() arrow.Metadata {
	return arrow.NewMetadata(b.keys, b.values)
}

// BuildReference constructs and returns the arrow.Metadata result as a
// reference, as arrow.NewSchema expects.
func (b *MetadataBuilder) BuildReference() *arrow.Metadata {
	result := b.Build()
	return &result
}

// Lookup returns the value stored under key, if any.
func Lookup(md arrow.Metadata, key string) (string, bool) {
	i := md.FindKey(key)
	if i < 0 {
		return "", false
	}
	return md.Values()[i], true
}

// Comment returns the description attached to a field, or "" when none is.
func Comment(field arrow.Field) string {
	value, _ := Lookup(field.Metadata, comment)
	return value
}
