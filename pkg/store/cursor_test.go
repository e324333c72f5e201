package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	token := EncodeCursor("doc-42")
	require.NotEmpty(t, token)
	assert.NotEqual(t, "doc-42", token, "tokens are opaque, not raw key tails")

	tail, err := DecodeCursor(token)
	require.NoError(t, err)
	assert.Equal(t, "doc-42", tail)
}

func TestCursorEmptyMeansStart(t *testing.T) {
	assert.Empty(t, EncodeCursor(""))

	tail, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Empty(t, tail)
}

func TestCursorMalformedToken(t *testing.T) {
	_, err := DecodeCursor("not!!valid@@base64")
	assert.Error(t, err)
}

func TestCursorBinaryTail(t *testing.T) {
	// Key tails may contain the key separator.
	tail := "doc-1\x00chunk-9"
	decoded, err := DecodeCursor(EncodeCursor(tail))
	require.NoError(t, err)
	assert.Equal(t, tail, decoded)
}
