package dispatch

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"testing"

	"github.com/kailas-cloud/fieldex/internal/domain"
	"github.com/kailas-cloud/fieldex/internal/domain/posting"
	"github.com/kailas-cloud/fieldex/internal/engine"
	"github.com/kailas-cloud/fieldex/internal/engine/enginetest"
	"github.com/kailas-cloud/fieldex/internal/repository/index"
	"github.com/kailas-cloud/fieldex/internal/repository/schema"
	"github.com/kailas-cloud/fieldex/internal/resolver"
)

type stack struct {
	svc     *Service
	reg     *resolver.Registry
	counter *enginetest.Counter
	floats  *enginetest.Engine[float64]
	ints    *enginetest.Engine[int64]
}

func newStack(t *testing.T) *stack {
	t.Helper()
	counter := &enginetest.Counter{}
	st := &stack{
		reg:     resolver.New(),
		counter: counter,
		floats:  enginetest.New[float64](counter),
		ints:    enginetest.New[int64](counter),
	}
	if err := resolver.Register(st.reg, "float", resolver.Ops[float64]{
		Parse:  func(s string) (float64, error) { return strconv.ParseFloat(s, 64) },
		Engine: st.floats,
	}); err != nil {
		t.Fatal(err)
	}
	if err := resolver.Register(st.reg, "integer", resolver.Ops[int64]{
		Parse:  func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) },
		Engine: st.ints,
	}); err != nil {
		t.Fatal(err)
	}
	sch := schema.New()
	st.svc = New(st.reg, sch, index.New(st.reg, sch))
	return st
}

func TestAddField_IndexThenQuery(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)

	if err := st.svc.AddField(ctx, "price", "float"); err != nil {
		t.Fatalf("AddField: %v", err)
	}
	if err := st.svc.IndexField(ctx, "doc1", "price", "42.5"); err != nil {
		t.Fatalf("IndexField: %v", err)
	}
	got, err := st.svc.QueryField(ctx, "price", "42.5")
	if err != nil {
		t.Fatalf("QueryField: %v", err)
	}
	if !slices.Contains(got, posting.DocID("doc1")) {
		t.Errorf("QueryField() = %v, want to contain doc1", got)
	}
}

func TestAddField_TwiceCreatesOneHandle(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)

	for i := range 2 {
		if err := st.svc.AddField(ctx, "price", "float"); err != nil {
			t.Fatalf("AddField #%d: %v", i+1, err)
		}
	}
	if st.counter.Creates() != 1 {
		t.Errorf("Creates() = %d, want 1", st.counter.Creates())
	}
	if len(st.svc.Fields()) != 1 {
		t.Errorf("Fields() = %v", st.svc.Fields())
	}
}

func TestDeclareField_ReportsCreated(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)

	created, err := st.svc.DeclareField(ctx, "year", "integer")
	if err != nil || !created {
		t.Fatalf("first DeclareField() = %v, %v; want true, nil", created, err)
	}
	created, err = st.svc.DeclareField(ctx, "year", "integer")
	if err != nil || created {
		t.Fatalf("second DeclareField() = %v, %v; want false, nil", created, err)
	}
}

func TestAddField_ConflictingTypeKeepsOriginal(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)

	_ = st.svc.AddField(ctx, "price", "float")
	_ = st.svc.IndexField(ctx, "doc1", "price", "10")

	err := st.svc.AddField(ctx, "price", "integer")
	var dup *domain.DuplicateFieldError
	if !errors.As(err, &dup) {
		t.Fatalf("error = %v, want DuplicateFieldError", err)
	}
	if dup.Existing != "float" || dup.Requested != "integer" {
		t.Errorf("DuplicateFieldError = %+v", dup)
	}

	got, err := st.svc.QueryField(ctx, "price", "10.0")
	if err != nil || len(got) != 1 || got[0] != "doc1" {
		t.Errorf("original handle: QueryField() = %v, %v", got, err)
	}
	if st.counter.Creates() != 1 {
		t.Errorf("Creates() = %d, want 1", st.counter.Creates())
	}
}

func TestAddField_UnknownTypeDeclaresNothing(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)

	err := st.svc.AddField(ctx, "published", "date")
	var ute *domain.UnknownTypeError
	if !errors.As(err, &ute) || ute.Tag != "date" {
		t.Fatalf("error = %v, want UnknownTypeError{date}", err)
	}
	if len(st.svc.Fields()) != 0 {
		t.Error("unknown type must not declare the field")
	}
	if st.counter.Total() != 0 {
		t.Errorf("engine calls = %d, want 0", st.counter.Total())
	}
}

func TestAddField_InvalidName(t *testing.T) {
	st := newStack(t)
	if err := st.svc.AddField(context.Background(), "bad name", "float"); !errors.Is(err, domain.ErrInvalidField) {
		t.Errorf("error = %v, want ErrInvalidField", err)
	}
}

func TestUndeclaredField_NoEngineCall(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	_ = st.svc.AddField(ctx, "price", "float")
	before := st.counter.Total()

	err := st.svc.IndexField(ctx, "doc1", "color", "red")
	var ufe *domain.UnknownFieldError
	if !errors.As(err, &ufe) || ufe.Name != "color" {
		t.Errorf("IndexField error = %v, want UnknownFieldError{color}", err)
	}
	if _, err := st.svc.QueryField(ctx, "color", "red"); !errors.Is(err, domain.ErrUnknownField) {
		t.Errorf("QueryField error = %v, want ErrUnknownField", err)
	}
	if st.counter.Total() != before {
		t.Errorf("engine calls = %d, want %d", st.counter.Total(), before)
	}
}

func TestParseFailure_NoInsert(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	_ = st.svc.AddField(ctx, "price", "float")

	err := st.svc.IndexField(ctx, "doc2", "price", "abc")
	var pe *domain.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want ParseError", err)
	}
	if pe.Field != "price" || pe.Text != "abc" || pe.Tag != "float" {
		t.Errorf("ParseError = %+v", pe)
	}
	if st.counter.Inserts() != 0 {
		t.Errorf("Inserts() = %d, want 0", st.counter.Inserts())
	}

	if _, err := st.svc.QueryField(ctx, "price", "abc"); !errors.Is(err, domain.ErrParse) {
		t.Errorf("QueryField error = %v, want ErrParse", err)
	}
	if st.counter.Queries() != 0 {
		t.Errorf("Queries() = %d, want 0", st.counter.Queries())
	}
}

func TestScenario_Price(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)

	if err := st.svc.AddField(ctx, "price", "float"); err != nil {
		t.Fatal(err)
	}
	if err := st.svc.IndexField(ctx, "doc1", "price", "19.99"); err != nil {
		t.Fatalf("index doc1: %v", err)
	}
	if err := st.svc.IndexField(ctx, "doc2", "price", "abc"); !errors.Is(err, domain.ErrParse) {
		t.Fatalf("index doc2: %v, want ErrParse", err)
	}
	got, err := st.svc.QueryField(ctx, "price", "19.99")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []posting.DocID{"doc1"}) {
		t.Errorf("QueryField(price, 19.99) = %v, want [doc1]", got)
	}
	if _, err := st.svc.QueryField(ctx, "color", "red"); !errors.Is(err, domain.ErrUnknownField) {
		t.Errorf("QueryField(color) error = %v, want ErrUnknownField", err)
	}
}

func TestScenario_Year(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	_ = st.svc.AddField(ctx, "year", "integer")

	for i := 1; i <= 5; i++ {
		doc := posting.DocID(fmt.Sprintf("doc%d", i))
		if err := st.svc.IndexField(ctx, doc, "year", strconv.Itoa(2000+i)); err != nil {
			t.Fatal(err)
		}
	}

	got, err := st.svc.QueryField(ctx, "year", "2003")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []posting.DocID{"doc3"}) {
		t.Errorf("QueryField(year, 2003) = %v, want [doc3]", got)
	}

	none, err := st.svc.QueryField(ctx, "year", "1999")
	if err != nil {
		t.Fatalf("QueryField(year, 1999) error = %v, want nil", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("QueryField(year, 1999) = %#v, want empty non-nil", none)
	}
}

func TestIndexField_EmptyDocID(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	_ = st.svc.AddField(ctx, "price", "float")

	if err := st.svc.IndexField(ctx, "", "price", "1"); !errors.Is(err, domain.ErrInvalidDocument) {
		t.Errorf("error = %v, want ErrInvalidDocument", err)
	}
	if st.counter.Inserts() != 0 {
		t.Error("empty doc id must not reach the engine")
	}
}

func TestIndexField_EngineErrorPassThrough(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	_ = st.svc.AddField(ctx, "price", "float")
	boom := errors.New("replica unavailable")
	st.floats.FailInsert(boom)

	err := st.svc.IndexField(ctx, "doc1", "price", "1")
	if !errors.Is(err, domain.ErrEngine) || !errors.Is(err, boom) {
		t.Errorf("error = %v, want EngineError wrapping original", err)
	}
}

func TestAddField_CreateFailureLeavesFieldWithoutIndex(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	st.floats.FailCreate(errors.New("boom"))

	if err := st.svc.AddField(ctx, "price", "float"); !errors.Is(err, domain.ErrEngine) {
		t.Fatalf("AddField error = %v, want ErrEngine", err)
	}
	if defs := st.svc.Fields(); len(defs) != 1 || defs[0].Name() != "price" {
		t.Fatalf("Fields() = %v, want the declaration to persist", defs)
	}

	err := st.svc.IndexField(ctx, "doc1", "price", "1")
	if !errors.Is(err, domain.ErrUnknownField) || errors.Is(err, domain.ErrEngine) {
		t.Errorf("IndexField error = %v, want ErrUnknownField", err)
	}
	if _, err := st.svc.QueryField(ctx, "price", "1"); !errors.Is(err, domain.ErrUnknownField) {
		t.Errorf("QueryField error = %v, want ErrUnknownField", err)
	}
	if st.counter.Inserts() != 0 || st.counter.Queries() != 0 {
		t.Error("a field without an index must not reach the engine")
	}

	st.floats.FailCreate(nil)
	if err := st.svc.AddField(ctx, "price", "float"); err != nil {
		t.Fatalf("retried AddField: %v", err)
	}
	if err := st.svc.IndexField(ctx, "doc1", "price", "1"); err != nil {
		t.Errorf("IndexField after retry: %v", err)
	}
}

func TestValidate_NoEngineCall(t *testing.T) {
	ctx := context.Background()
	st := newStack(t)
	_ = st.svc.AddField(ctx, "price", "float")
	before := st.counter.Total()

	if err := st.svc.Validate(ctx, "price", "1.5"); err != nil {
		t.Errorf("Validate(valid) = %v", err)
	}
	if err := st.svc.Validate(ctx, "price", "x"); !errors.Is(err, domain.ErrParse) {
		t.Errorf("Validate(invalid) = %v", err)
	}
	if err := st.svc.Validate(ctx, "nope", "1"); !errors.Is(err, domain.ErrUnknownField) {
		t.Errorf("Validate(unknown) = %v", err)
	}
	if st.counter.Total() != before {
		t.Error("Validate must not call the engine")
	}
}

// uniqueEngine declares Unique but forwards to a counting engine, so repeated
// inserts still yield repeated postings.
type uniqueEngine struct{ inner *enginetest.Engine[int64] }

type uniqueIndex struct{ engine.Index[int64] }

func (uniqueIndex) Capabilities() engine.Capabilities { return engine.Capabilities{Unique: true} }

func (u uniqueEngine) Create(ctx context.Context, t engine.Target) (engine.Index[int64], error) {
	idx, err := u.inner.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	return uniqueIndex{idx}, nil
}

func TestQueryField_DedupPolicy(t *testing.T) {
	tests := []struct {
		name   string
		policy Dedup
		unique bool
		want   int
	}{
		{"auto non-unique engine", DedupAuto, false, 1},
		{"auto unique engine", DedupAuto, true, 2},
		{"always", DedupAlways, true, 1},
		{"never", DedupNever, false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			reg := resolver.New()
			var e engine.Engine[int64] = enginetest.New[int64](nil)
			if tt.unique {
				e = uniqueEngine{inner: enginetest.New[int64](nil)}
			}
			_ = resolver.Register(reg, "integer", resolver.Ops[int64]{
				Parse:  func(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) },
				Engine: e,
			})
			sch := schema.New()
			svc := New(reg, sch, index.New(reg, sch)).WithDedup(tt.policy)

			_ = svc.AddField(ctx, "year", "integer")
			_ = svc.IndexField(ctx, "doc1", "year", "2020")
			_ = svc.IndexField(ctx, "doc1", "year", "2020")

			got, err := svc.QueryField(ctx, "year", "2020")
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Errorf("QueryField() = %v, want %d ids", got, tt.want)
			}
		})
	}
}

func TestParseDedup(t *testing.T) {
	tests := []struct {
		in      string
		want    Dedup
		wantErr bool
	}{
		{"", DedupAuto, false},
		{"auto", DedupAuto, false},
		{"ALWAYS", DedupAlways, false},
		{" never ", DedupNever, false},
		{"sometimes", DedupAuto, true},
	}
	for _, tt := range tests {
		got, err := ParseDedup(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDedup(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDedup(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if !tt.wantErr && got.String() == "" {
			t.Errorf("String() empty for %v", got)
		}
	}
}

func TestTypes_Describe(t *testing.T) {
	st := newStack(t)
	infos := st.svc.Types()
	if len(infos) != 2 || infos[0].Tag != "float" || infos[1].Tag != "integer" {
		t.Errorf("Types() = %+v", infos)
	}
}
