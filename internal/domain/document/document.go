package document

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/kailas-cloud/fieldex/internal/domain"
	"github.com/kailas-cloud/fieldex/internal/domain/posting"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_:-]+$`)

// MaxIDLength is the maximum document id length in bytes.
const MaxIDLength = 256

// MaxTextSize is the maximum size of a single raw value in bytes.
const MaxTextSize = 163840 // 160KB

// RawValue is untyped input for one field: the text has not been resolved yet.
type RawValue struct {
	Field string
	Text  string
}

// Document is a caller-identified set of raw field values (immutable value object).
type Document struct {
	id     posting.DocID
	values []RawValue
}

// ValidateID checks a document id: ^[a-zA-Z0-9_:-]+$, 1-256 chars.
func ValidateID(id posting.DocID) error {
	if id == "" {
		return fmt.Errorf("%w: document ID is required", domain.ErrInvalidDocument)
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("%w: document ID too long (max %d)", domain.ErrInvalidDocument, MaxIDLength)
	}
	if !idRegex.MatchString(string(id)) {
		return fmt.Errorf("%w: document ID must be alphanumeric with '_', ':', '-'", domain.ErrInvalidDocument)
	}
	return nil
}

// New validates and creates a Document.
// Every value needs a field name and text no larger than MaxTextSize.
// Whether the fields exist is checked at dispatch time.
func New(id posting.DocID, values []RawValue) (Document, error) {
	if err := ValidateID(id); err != nil {
		return Document{}, err
	}
	if len(values) == 0 {
		return Document{}, fmt.Errorf("%w: at least one field value is required", domain.ErrInvalidDocument)
	}
	for i, v := range values {
		if v.Field == "" {
			return Document{}, fmt.Errorf("%w: value %d has no field name", domain.ErrInvalidDocument, i)
		}
		if len(v.Text) > MaxTextSize {
			return Document{}, fmt.Errorf("%w: value for %q too large (max %d bytes)",
				domain.ErrInvalidDocument, v.Field, MaxTextSize)
		}
	}
	return Document{id: id, values: cloneValues(values)}, nil
}

// FromMap creates a Document from field → text pairs.
// Map iteration order is random, so values are ordered by field name.
func FromMap(id posting.DocID, fields map[string]string) (Document, error) {
	values := make([]RawValue, 0, len(fields))
	for name, text := range fields {
		values = append(values, RawValue{Field: name, Text: text})
	}
	slices.SortFunc(values, func(a, b RawValue) int { return strings.Compare(a.Field, b.Field) })
	return New(id, values)
}

// Reconstruct creates a Document without validation.
func Reconstruct(id posting.DocID, values []RawValue) Document {
	return Document{id: id, values: values}
}

// ID returns the document identifier.
func (d Document) ID() posting.DocID { return d.id }

// Values returns the raw field values in input order.
func (d Document) Values() []RawValue { return d.values }

// Len returns the number of raw values.
func (d Document) Len() int { return len(d.values) }

func cloneValues(vs []RawValue) []RawValue {
	c := make([]RawValue, len(vs))
	copy(c, vs)
	return c
}
