package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	token, err := Encode(Cursor{Offset: 42})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	cursor, err := Decode(token)
	require.NoError(t, err)
	assert.Equal(t, 42, cursor.Offset)
}

func TestDecodeEmptyTokenIsFirstPage(t *testing.T) {
	cursor, err := Decode("")
	require.NoError(t, err)
	assert.Equal(t, 0, cursor.Offset)
}

func TestDecodeGarbageFails(t *testing.T) {
	_, err := Decode("!!not-base64!!")
	assert.Error(t, err)

	// valid base64, invalid JSON
	_, err = Decode("bm90LWpzb24")
	assert.Error(t, err)
}
