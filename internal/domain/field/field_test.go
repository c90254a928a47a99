package field

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/fieldex/internal/domain"
)

func TestNew_Valid(t *testing.T) {
	tests := []struct {
		name string
		tag  Tag
	}{
		{"price", "float"},
		{"year", "integer"},
		{"a", "keyword"},
		{strings.Repeat("x", 64), "text"},
		{"with_underscore", "keyword"},
		{"meta.published-at", "date"},
	}

	for _, tt := range tests {
		d, err := New(tt.name, tt.tag)
		if err != nil {
			t.Errorf("New(%q, %q) unexpected error: %v", tt.name, tt.tag, err)
			continue
		}
		if d.Name() != tt.name {
			t.Errorf("Name() = %q, want %q", d.Name(), tt.name)
		}
		if d.Tag() != tt.tag {
			t.Errorf("Tag() = %q, want %q", d.Tag(), tt.tag)
		}
	}
}

func TestNew_EmptyName(t *testing.T) {
	_, err := New("", "float")
	if err == nil {
		t.Fatal("expected error for empty name")
	}
	if !errors.Is(err, domain.ErrInvalidField) {
		t.Errorf("error = %v, want ErrInvalidField", err)
	}
	if !strings.Contains(err.Error(), "required") {
		t.Errorf("error = %q, want 'required'", err)
	}
}

func TestNew_NameTooLong(t *testing.T) {
	_, err := New(strings.Repeat("x", 65), "float")
	if err == nil {
		t.Fatal("expected error for name too long")
	}
	if !strings.Contains(err.Error(), "too long") {
		t.Errorf("error = %q, want 'too long'", err)
	}
}

func TestNew_InvalidCharacters(t *testing.T) {
	for _, name := range []string{"has space", "semi;colon", "slash/name", "ünicode"} {
		if _, err := New(name, "keyword"); err == nil {
			t.Errorf("expected error for name %q", name)
		}
	}
}

func TestNew_EmptyTag(t *testing.T) {
	_, err := New("valid_name", "")
	if err == nil {
		t.Fatal("expected error for empty tag")
	}
	if !errors.Is(err, domain.ErrInvalidField) {
		t.Errorf("error = %v, want ErrInvalidField", err)
	}
}

func TestNew_AnyTagAccepted(t *testing.T) {
	// Tags are open: the definition does not know which ones are registered.
	d, err := New("location", "geo_point_v2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Tag().String() != "geo_point_v2" {
		t.Errorf("Tag() = %q", d.Tag())
	}
}

func TestReconstruct_SkipsValidation(t *testing.T) {
	d := Reconstruct("has space", "")
	if d.Name() != "has space" {
		t.Errorf("Reconstruct should skip validation, got Name() = %q", d.Name())
	}
}
