package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSONEncoder(t *testing.T) {
	t.Parallel()

	t.Run("marshals structs", func(t *testing.T) {
		t.Parallel()

		type doc struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		}

		data, err := JSONEncoder{}.Encode(doc{ID: 7, Name: "x"})
		require.NoError(t, err)
		require.JSONEq(t, `{"id":7,"name":"x"}`, string(data))
	})

	t.Run("unmarshalable values fail with ErrEncode", func(t *testing.T) {
		t.Parallel()

		_, err := JSONEncoder{}.Encode(make(chan int))
		require.ErrorIs(t, err, ErrEncode)
	})
}

func TestBytesEncoder(t *testing.T) {
	t.Parallel()

	t.Run("passes bytes through", func(t *testing.T) {
		t.Parallel()

		data, err := BytesEncoder{}.Encode([]byte{0x01, 0x02})
		require.NoError(t, err)
		require.Equal(t, []byte{0x01, 0x02}, data)
	})

	t.Run("converts strings", func(t *testing.T) {
		t.Parallel()

		data, err := BytesEncoder{}.Encode("raw")
		require.NoError(t, err)
		require.Equal(t, []byte("raw"), data)
	})

	t.Run("rejects other types", func(t *testing.T) {
		t.Parallel()

		_, err := BytesEncoder{}.Encode(42)
		require.ErrorIs(t, err, ErrEncode)
	})
}
