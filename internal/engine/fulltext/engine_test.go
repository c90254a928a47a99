package fulltext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/fieldex/internal/domain/posting"
	"github.com/kailas-cloud/fieldex/internal/engine"
)

func newIndex(t *testing.T, opts ...Option) engine.Index[string] {
	t.Helper()
	e := New(opts...)
	t.Cleanup(func() { _ = e.Close() })

	idx, err := e.Create(context.Background(), engine.Target{Field: "description", Tag: "fulltext"})
	require.NoError(t, err)
	return idx
}

func TestEngine_MatchQuery(t *testing.T) {
	ctx := context.Background()
	idx := newIndex(t)

	require.NoError(t, idx.Insert(ctx, "Warm wool sweater for winter", "doc1"))
	require.NoError(t, idx.Insert(ctx, "Cotton summer shirt", "doc2"))
	require.NoError(t, idx.Insert(ctx, "Wool socks", "doc3"))

	got, err := idx.Query(ctx, "wool")
	require.NoError(t, err)
	assert.ElementsMatch(t, []posting.DocID{"doc1", "doc3"}, posting.DocIDs(got))
}

func TestEngine_AccumulatesTextPerDocument(t *testing.T) {
	ctx := context.Background()
	idx := newIndex(t)

	require.NoError(t, idx.Insert(ctx, "red sweater", "doc1"))
	require.NoError(t, idx.Insert(ctx, "machine washable", "doc1"))

	for _, q := range []string{"sweater", "washable"} {
		got, err := idx.Query(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, []posting.DocID{"doc1"}, posting.DocIDs(got), "query %q", q)
	}
}

func TestEngine_NoMatchIsEmpty(t *testing.T) {
	ctx := context.Background()
	idx := newIndex(t)
	require.NoError(t, idx.Insert(ctx, "wool", "doc1"))

	got, err := idx.Query(ctx, "cashmere")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	blank, err := idx.Query(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, blank)
}

func TestEngine_MaxHits(t *testing.T) {
	ctx := context.Background()
	idx := newIndex(t, WithMaxHits(2))
	for _, doc := range []posting.DocID{"a", "b", "c"} {
		require.NoError(t, idx.Insert(ctx, "wool", doc))
	}

	got, err := idx.Query(ctx, "wool")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestEngine_Capabilities(t *testing.T) {
	idx := newIndex(t)
	assert.Equal(t, engine.Capabilities{Unique: true}, engine.CapabilitiesOf(idx))
}
