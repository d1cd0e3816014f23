package varint

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

// one value on each side of every width breakpoint
var breakpoints = []struct {
	v    uint32
	size int
}{
	{0, 1},
	{1, 1},
	{0x7f, 1},
	{0x80, 2},
	{0x3fff, 2},
	{0x4000, 3},
	{0x1fffff, 3},
	{0x200000, 4},
	{0x0fffffff, 4},
	{0x10000000, 5},
	{0xffffffff, 5},
}

func TestRoundTrip(t *testing.T) {
	for _, c := range breakpoints {
		b := Append(nil, c.v)
		require.Len(t, b, c.size, "value %#x", c.v)
		require.Equal(t, c.size, Len(c.v), "value %#x", c.v)

		v, n, err := Uint32(b)
		require.NoError(t, err)
		require.Equal(t, c.v, v)
		require.Equal(t, c.size, n)
	}
}

func TestPutMatchesAppend(t *testing.T) {
	for _, c := range breakpoints {
		var buf [MaxLen]byte
		n, err := Put(buf[:], c.v)
		require.NoError(t, err)
		require.Equal(t, Append(nil, c.v), buf[:n])
	}
}

func TestPutShortBuffer(t *testing.T) {
	var buf [1]byte
	_, err := Put(buf[:], 0x80)
	require.ErrorIs(t, err, ErrShortBuffer)

	_, err = Put(nil, 0)
	require.ErrorIs(t, err, ErrShortBuffer)

	n, err := Put(buf[:], 0x7f)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestPeekLenAgreesWithDecode(t *testing.T) {
	for _, c := range breakpoints {
		b := Append(nil, c.v)
		w, err := PeekLen(b)
		require.NoError(t, err)

		_, n, err := Uint32(b)
		require.NoError(t, err)
		require.Equal(t, n, w, "value %#x", c.v)
	}
}

func TestWidthMonotonic(t *testing.T) {
	last := 0
	for _, c := range breakpoints {
		require.GreaterOrEqual(t, c.size, last)
		last = c.size
	}
	require.Equal(t, 1, Len(0x7f))
	require.Equal(t, 2, Len(0x80))
	require.Equal(t, 2, Len(0x3fff))
	require.Equal(t, 3, Len(0x4000))
}

func TestWireFormat(t *testing.T) {
	// 300 = 0x12c, top six bits land in the tag byte
	require.Equal(t, []byte{0x81, 0x2c}, Append(nil, 300))
	require.Equal(t, []byte{0x7f}, Append(nil, 0x7f))
	require.Equal(t, []byte{0xf0, 0x10, 0x00, 0x00, 0x00}, Append(nil, 0x10000000))

	v, n, err := Uint32([]byte{0x81, 0x2c})
	require.NoError(t, err)
	require.Equal(t, uint32(300), v)
	require.Equal(t, 2, n)
}

func TestTruncated(t *testing.T) {
	_, _, err := Uint32(nil)
	require.ErrorIs(t, err, ErrTruncated)

	_, err = PeekLen(nil)
	require.ErrorIs(t, err, ErrTruncated)

	for _, c := range breakpoints {
		b := Append(nil, c.v)
		for cut := 0; cut < len(b); cut++ {
			_, _, err := Uint32(b[:cut])
			require.ErrorIs(t, err, ErrTruncated, "value %#x cut to %d bytes", c.v, cut)
		}
	}
}

func TestRandomRoundTrip(t *testing.T) {
	for range 10000 {
		v := rand.Uint32()
		b := Append(nil, v)
		require.Len(t, b, Len(v))

		got, n, err := Uint32(b)
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, len(b), n)

		w, err := PeekLen(b)
		require.NoError(t, err)
		require.Equal(t, n, w)
	}
}
