package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealerOpensWhatItSeals(t *testing.T) {
	s, err := NewSealer("passphrase")
	require.NoError(t, err)

	a, err := s.Seal("tok-123")
	require.NoError(t, err)
	b, err := s.Seal("tok-123")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "nonce must differ per seal")
	assert.NotContains(t, a, "tok-123")

	plain, err := s.Open(a)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", plain)
}

func TestSealerRejectsWrongKey(t *testing.T) {
	s1, err := NewSealer("one")
	require.NoError(t, err)
	s2, err := NewSealer("two")
	require.NoError(t, err)

	sealed, err := s1.Seal("tok-123")
	require.NoError(t, err)
	_, err = s2.Open(sealed)
	assert.Error(t, err)

	_, err = s1.Open("c2hvcnQ=")
	assert.Error(t, err)

	_, err = NewSealer("")
	assert.Error(t, err)
}

func TestMemoryStoreSlot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx)
	assert.ErrorIs(t, err, ErrNoCredential)

	require.NoError(t, store.Set(ctx, "tok"))
	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", got)

	require.NoError(t, store.Clear(ctx))
	_, err = store.Get(ctx)
	assert.ErrorIs(t, err, ErrNoCredential)
}
