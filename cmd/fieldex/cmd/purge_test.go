package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKeyStore struct {
	keys    []string
	deleted [][]string
	delErr  error
	pattern string
}

func (f *fakeKeyStore) Scan(_ context.Context, pattern string) ([]string, error) {
	f.pattern = pattern
	prefix := strings.TrimSuffix(pattern, "*")
	var out []string
	for _, k := range f.keys {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (f *fakeKeyStore) Del(_ context.Context, keys ...string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, append([]string(nil), keys...))
	return nil
}

func TestPurgeKeys_DeletesInChunks(t *testing.T) {
	s := &fakeKeyStore{keys: []string{"other:1"}}
	for i := range purgeChunk + 10 {
		s.keys = append(s.keys, fmt.Sprintf("fieldex:price:%d", i))
	}

	n, err := purgeKeys(context.Background(), s, "fieldex:", false)
	require.NoError(t, err)
	assert.Equal(t, purgeChunk+10, n)
	assert.Equal(t, "fieldex:*", s.pattern)
	require.Len(t, s.deleted, 2)
	assert.Len(t, s.deleted[0], purgeChunk)
	assert.Len(t, s.deleted[1], 10)
}

func TestPurgeKeys_DryRun(t *testing.T) {
	s := &fakeKeyStore{keys: []string{"fieldex:a", "fieldex:b"}}

	n, err := purgeKeys(context.Background(), s, "fieldex:", true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, s.deleted)
}

func TestPurgeKeys_EmptyPrefix(t *testing.T) {
	_, err := purgeKeys(context.Background(), &fakeKeyStore{}, "", false)
	assert.Error(t, err)
}

func TestPurgeKeys_DelError(t *testing.T) {
	boom := errors.New("READONLY")
	s := &fakeKeyStore{keys: []string{"fieldex:a"}, delErr: boom}

	_, err := purgeKeys(context.Background(), s, "fieldex:", false)
	assert.ErrorIs(t, err, boom)
}

func TestPurgeCmd_RequiresConfirmation(t *testing.T) {
	cmd := newPurgeCmd()
	cmd.SetArgs([]string{})
	cmd.SilenceErrors = true

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
}
