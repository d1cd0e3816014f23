package bufenc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFixedWidth(t *testing.T) {
	var b2 [2]byte
	PutUint16(b2[:], 0xbeef)
	require.Equal(t, []byte{0xbe, 0xef}, b2[:])
	require.Equal(t, uint16(0xbeef), Uint16(b2[:]))

	var b4 [4]byte
	PutUint32(b4[:], 0xdeadbeef)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, b4[:])
	require.Equal(t, uint32(0xdeadbeef), Uint32(b4[:]))
}

func TestAppendHex(t *testing.T) {
	require.Equal(t, "0f0f0f0f", string(AppendHex(nil, 0x0f0f0f0f)))
	require.Equal(t, "00000000", string(AppendHex(nil, 0)))
	require.Equal(t, "deadbeef", string(AppendHex(nil, 0xdeadbeef)))
	require.Equal(t, "xx0000012c", string(AppendHex([]byte("xx"), 300)))
}
