// Package fieldex resolves raw field text into typed values and dispatches
// them to per-field indexes.
//
// Fields are declared with a type tag. Every value indexed or queried for a
// field is parsed by that tag's resolver first, so malformed input fails at
// the call site with a ParseError instead of deep inside an index. The set
// of types is open: the built-ins (integer, float, date, keyword, text, ...)
// are registered the same way as user types.
//
// # Declaring and querying fields
//
//	client, _ := fieldex.New(ctx)
//	_ = client.AddField(ctx, "price", fieldex.Float)
//	_ = client.IndexField(ctx, "doc1", "price", "19.99")
//	ids, _ := client.QueryField(ctx, "price", "19.99") // [doc1]
//
// # Custom types
//
//	err := fieldex.RegisterType(client, "semver", fieldex.TypeOps[Version]{
//	    Parse:  ParseVersion,
//	    Engine: myEngine,
//	})
//
// # Schema-first with Go generics
//
//	type Book struct {
//	    ISBN  string    `fieldex:",id"`
//	    Title string    `fieldex:"title,text"`
//	    Year  int       `fieldex:"year,integer"`
//	}
//
//	idx, _ := fieldex.NewIndex[Book](client)
//	_ = idx.Ensure(ctx)
//	_, _ = idx.Index(ctx, book)
package fieldex

import (
	"github.com/kailas-cloud/fieldex/internal/domain"
	"github.com/kailas-cloud/fieldex/internal/domain/field"
	"github.com/kailas-cloud/fieldex/internal/domain/posting"
	"github.com/kailas-cloud/fieldex/internal/engine"
	"github.com/kailas-cloud/fieldex/internal/types"
	"github.com/kailas-cloud/fieldex/internal/usecase/dispatch"
)

// Tag identifies a registered value type.
type Tag = field.Tag

// DocID is a caller-assigned document identifier.
type DocID = posting.DocID

// Posting is a single engine match.
type Posting = posting.Posting

// Target identifies the field an index is created for.
type Target = engine.Target

// Capabilities describes guarantees an index makes.
type Capabilities = engine.Capabilities

// Engine creates per-field indexes over values of type T.
type Engine[T any] = engine.Engine[T]

// Index is a single field's index over values of type T.
type Index[T any] = engine.Index[T]

// EngineFunc adapts a create function to Engine.
type EngineFunc[T any] = engine.Func[T]

// Built-in type tags. Which ones are available depends on the backend.
const (
	Integer  = types.Integer
	Unsigned = types.Unsigned
	Float    = types.Float
	Bool     = types.Bool
	Date     = types.Date
	Keyword  = types.Keyword
	Text     = types.Text
	Fulltext = types.Fulltext
)

// Dedup selects how query results with repeated documents are projected.
type Dedup = dispatch.Dedup

// Dedup policies.
const (
	DedupAuto   = dispatch.DedupAuto
	DedupAlways = dispatch.DedupAlways
	DedupNever  = dispatch.DedupNever
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrUnknownField    = domain.ErrUnknownField
	ErrUnknownType     = domain.ErrUnknownType
	ErrDuplicateField  = domain.ErrDuplicateField
	ErrDuplicateType   = domain.ErrDuplicateType
	ErrParse           = domain.ErrParse
	ErrEngine          = domain.ErrEngine
	ErrInvalidField    = domain.ErrInvalidField
	ErrInvalidType     = domain.ErrInvalidType
	ErrInvalidDocument = domain.ErrInvalidDocument
	ErrTagMismatch     = domain.ErrTagMismatch
	ErrBatchAborted    = domain.ErrBatchAborted
)

// Typed errors carrying details. Use errors.As() to inspect.
type (
	UnknownFieldError   = domain.UnknownFieldError
	UnknownTypeError    = domain.UnknownTypeError
	DuplicateFieldError = domain.DuplicateFieldError
	DuplicateTypeError  = domain.DuplicateTypeError
	ParseError          = domain.ParseError
	EngineError         = domain.EngineError
)
