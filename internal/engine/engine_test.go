package engine

import (
	"context"
	"testing"

	"github.com/kailas-cloud/fieldex/internal/domain/posting"
)

type plainIndex struct{}

func (plainIndex) Insert(context.Context, int, posting.DocID) error { return nil }
func (plainIndex) Query(context.Context, int) ([]posting.Posting, error) {
	return nil, nil
}

type describedIndex struct{ plainIndex }

func (describedIndex) Capabilities() Capabilities {
	return Capabilities{Unique: true, Concurrent: true}
}

func TestCapabilitiesOf_DefaultsToZero(t *testing.T) {
	got := CapabilitiesOf[int](plainIndex{})
	if got != (Capabilities{}) {
		t.Errorf("CapabilitiesOf(plain) = %+v, want zero", got)
	}
}

func TestCapabilitiesOf_Described(t *testing.T) {
	got := CapabilitiesOf[int](describedIndex{})
	if !got.Unique || !got.Concurrent {
		t.Errorf("CapabilitiesOf(described) = %+v", got)
	}
}

func TestFunc_Create(t *testing.T) {
	var seen Target
	f := Func[int](func(_ context.Context, tg Target) (Index[int], error) {
		seen = tg
		return plainIndex{}, nil
	})
	if _, err := f.Create(context.Background(), Target{Field: "year", Tag: "integer"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen.Field != "year" || seen.Tag != "integer" {
		t.Errorf("target = %+v", seen)
	}
}
