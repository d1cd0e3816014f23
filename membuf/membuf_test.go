package membuf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClone(t *testing.T) {
	require.Nil(t, Clone(nil))

	src := []byte{1, 2, 3}
	got := Clone(src)
	require.Equal(t, src, got)

	src[0] = 9
	require.Equal(t, []byte{1, 2, 3}, got)
}

func TestConcat(t *testing.T) {
	require.Equal(t, []byte{1, 2, 3, 4}, Concat([]byte{1, 2}, []byte{3, 4}))
	require.Equal(t, []byte{1, 2}, Concat([]byte{1, 2}, nil))
	require.Equal(t, []byte{3, 4}, Concat(nil, []byte{3, 4}))
	require.Empty(t, Concat(nil, nil))
}

func TestPool(t *testing.T) {
	var p Pool
	b := p.Get()
	b.B = append(b.B, 1, 2, 3)
	p.Put(b)

	b = p.Get()
	require.Empty(t, b.B)
}
