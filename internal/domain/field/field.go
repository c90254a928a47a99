package field

import (
	"fmt"
	"regexp"

	"github.com/kailas-cloud/fieldex/internal/domain"
)

// MaxNameLength is the maximum field name length in bytes.
const MaxNameLength = 64

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Tag identifies a registered value type. The set of tags is open: it is
// whatever the embedding system registers, never a fixed enumeration.
type Tag string

// String returns the tag as a plain string.
func (t Tag) String() string { return string(t) }

// Definition is an immutable value object binding a field name to a type tag.
type Definition struct {
	name string
	tag  Tag
}

// New validates and creates a Definition.
// Name must be non-empty, max 64 chars, ^[a-zA-Z0-9_.-]+$. Tag must be non-empty.
// Whether the tag is registered is checked by the dispatcher, not here.
func New(name string, tag Tag) (Definition, error) {
	if name == "" {
		return Definition{}, fmt.Errorf("%w: field name is required", domain.ErrInvalidField)
	}
	if len(name) > MaxNameLength {
		return Definition{}, fmt.Errorf("%w: field name %q too long (max %d)", domain.ErrInvalidField, name, MaxNameLength)
	}
	if !nameRegex.MatchString(name) {
		return Definition{}, fmt.Errorf("%w: field name %q must be alphanumeric with '_', '.', '-'",
			domain.ErrInvalidField, name)
	}
	if tag == "" {
		return Definition{}, fmt.Errorf("%w: type is required for %q", domain.ErrInvalidField, name)
	}
	return Definition{name: name, tag: tag}, nil
}

// Reconstruct creates a Definition without validation.
func Reconstruct(name string, tag Tag) Definition {
	return Definition{name: name, tag: tag}
}

// Name returns the field name.
func (d Definition) Name() string { return d.name }

// Tag returns the field's type tag.
func (d Definition) Tag() Tag { return d.tag }
