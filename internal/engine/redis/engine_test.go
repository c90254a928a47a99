package redis

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	dbredis "github.com/kailas-cloud/fieldex/internal/db/redis"
	"github.com/kailas-cloud/fieldex/internal/domain/posting"
	"github.com/kailas-cloud/fieldex/internal/engine"
)

func encodeInt(v int64) string { return strconv.FormatInt(v, 10) }

func TestEngine_InsertCommands(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	gomock.InOrder(
		c.EXPECT().
			Do(gomock.Any(), mock.Match("INCR", "fx:year:seq")).
			Return(mock.Result(mock.RedisInt64(1))),
		c.EXPECT().
			DoMulti(gomock.Any(), mock.Match("ZADD", "fx:year:v:2003", "NX", "1", "doc3")).
			Return([]rueidis.RedisResult{mock.Result(mock.RedisInt64(1))}),
	)

	e := New(dbredis.NewStoreForTest(c), "fx:", encodeInt)
	idx, err := e.Create(context.Background(), engine.Target{Field: "year", Tag: "integer"})
	require.NoError(t, err)
	require.NoError(t, idx.Insert(context.Background(), 2003, "doc3"))
}

func TestEngine_QueryCommands(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), mock.Match("ZRANGE", "fx:year:v:2003", "0", "-1")).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisArray(mock.RedisString("doc3"), mock.RedisString("doc9"))),
		})

	e := New(dbredis.NewStoreForTest(c), "fx:", encodeInt)
	idx, err := e.Create(context.Background(), engine.Target{Field: "year", Tag: "integer"})
	require.NoError(t, err)

	got, err := idx.Query(context.Background(), 2003)
	require.NoError(t, err)
	assert.Equal(t, []posting.DocID{"doc3", "doc9"}, posting.DocIDs(got))
	assert.Equal(t, engine.Capabilities{Unique: true, Concurrent: true}, engine.CapabilitiesOf(idx))
}

func TestEngine_QueryMissingKeyIsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{mock.Result(mock.RedisArray())})

	idx, err := New(dbredis.NewStoreForTest(c), "fx:", encodeInt).
		Create(context.Background(), engine.Target{Field: "year"})
	require.NoError(t, err)

	got, err := idx.Query(context.Background(), 1999)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEngine_InsertErrorIsReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("INCR", "fx:year:seq")).
		Return(mock.ErrorResult(errors.New("READONLY")))

	idx, err := New(dbredis.NewStoreForTest(c), "fx:", encodeInt).
		Create(context.Background(), engine.Target{Field: "year"})
	require.NoError(t, err)

	err = idx.Insert(context.Background(), 2003, "doc3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "READONLY")
}

func TestTerms_InsertDedupesTokens(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("INCR", "fx:title:seq")).
		Return(mock.Result(mock.RedisInt64(4)))
	c.EXPECT().
		DoMulti(gomock.Any(),
			mock.Match("ZADD", "fx:title:v:wool", "NX", "4", "doc2"),
			mock.Match("ZADD", "fx:title:v:socks", "NX", "4", "doc2"),
		).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(1)),
			mock.Result(mock.RedisInt64(1)),
		})

	idx, err := NewTerms(dbredis.NewStoreForTest(c), "fx:", engine.MatchAny).
		Create(context.Background(), engine.Target{Field: "title", Tag: "text"})
	require.NoError(t, err)
	require.NoError(t, idx.Insert(context.Background(), []string{"wool", "wool", "socks"}, "doc2"))
	assert.False(t, engine.CapabilitiesOf(idx).Unique)
}

func TestTerms_QueryConcatenatesInTermOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(),
			mock.Match("ZRANGE", "fx:title:v:red", "0", "-1"),
			mock.Match("ZRANGE", "fx:title:v:socks", "0", "-1"),
		).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisArray(mock.RedisString("doc1"), mock.RedisString("doc3"))),
			mock.Result(mock.RedisArray(mock.RedisString("doc2"), mock.RedisString("doc3"))),
		})

	idx, err := NewTerms(dbredis.NewStoreForTest(c), "fx:", engine.MatchAny).
		Create(context.Background(), engine.Target{Field: "title"})
	require.NoError(t, err)

	got, err := idx.Query(context.Background(), []string{"red", "socks"})
	require.NoError(t, err)
	assert.Equal(t, []posting.DocID{"doc1", "doc3", "doc2", "doc3"}, posting.DocIDs(got))
}

func TestTerms_MatchAllIntersects(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(),
			mock.Match("ZRANGE", "fx:title:v:red", "0", "-1"),
			mock.Match("ZRANGE", "fx:title:v:socks", "0", "-1"),
		).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisArray(mock.RedisString("doc1"), mock.RedisString("doc3"), mock.RedisString("doc4"))),
			mock.Result(mock.RedisArray(mock.RedisString("doc4"), mock.RedisString("doc2"), mock.RedisString("doc3"))),
		})

	idx, err := NewTerms(dbredis.NewStoreForTest(c), "fx:", engine.MatchAll).
		Create(context.Background(), engine.Target{Field: "title"})
	require.NoError(t, err)

	got, err := idx.Query(context.Background(), []string{"red", "socks", "red"})
	require.NoError(t, err)
	assert.Equal(t, []posting.DocID{"doc3", "doc4"}, posting.DocIDs(got))
	assert.Equal(t, engine.Capabilities{Unique: true, Concurrent: true}, engine.CapabilitiesOf(idx))
}

func TestTerms_MatchAllMissingTermIsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisArray(mock.RedisString("doc1"))),
			mock.Result(mock.RedisArray()),
		})

	idx, err := NewTerms(dbredis.NewStoreForTest(c), "fx:", engine.MatchAll).
		Create(context.Background(), engine.Target{Field: "title"})
	require.NoError(t, err)

	got, err := idx.Query(context.Background(), []string{"red", "plaid"})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTerms_EmptyTokensSkipStore(t *testing.T) {
	idx, err := NewTerms(dbredis.NewStoreForTest(nil), "fx:", engine.MatchAny).
		Create(context.Background(), engine.Target{Field: "title"})
	require.NoError(t, err)

	require.NoError(t, idx.Insert(context.Background(), nil, "doc1"))
	got, err := idx.Query(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCreate_RequiresField(t *testing.T) {
	_, err := New(dbredis.NewStoreForTest(nil), "fx:", encodeInt).Create(context.Background(), engine.Target{})
	assert.Error(t, err)
}
