// Package varint implements a self describing variable length encoding of
// unsigned 32 bit integers.
//
// Values are stored in one to five bytes. The high bits of the leading byte
// form a unary prefix that carries the total width, the remaining bits and
// any following bytes carry the value big endian:
//
//	0xxxxxxx                                        0 .. 0x7f
//	10xxxxxx xxxxxxxx                            0x80 .. 0x3fff
//	110xxxxx xxxxxxxx xxxxxxxx                 0x4000 .. 0x1fffff
//	1110xxxx xxxxxxxx xxxxxxxx xxxxxxxx      0x200000 .. 0x0fffffff
//	11110000 xxxxxxxx (4 byte big endian)   0x10000000 .. 0xffffffff
//
// The format is fixed. Data encoded this way is persisted in existing files,
// so the bit layout must never change.
package varint

import (
	"encoding/binary"
	"math/bits"

	"github.com/pkg/errors"
)

// MaxLen is the largest number of bytes a single encoded value occupies.
const MaxLen = 5

var (
	// ErrTruncated is returned when a buffer holds fewer bytes than its
	// leading byte claims.
	ErrTruncated = errors.New("varint: truncated buffer")

	// ErrShortBuffer is returned by Put when the destination cannot hold
	// the encoded value.
	ErrShortBuffer = errors.New("varint: short destination buffer")
)

// Len returns the number of bytes needed to encode v. It is the width Put
// reports and the width Uint32 consumes for the same value.
func Len(v uint32) int {
	switch {
	case v <= 0x7f:
		return 1
	case v <= 0x3fff:
		return 2
	case v <= 0x1fffff:
		return 3
	case v <= 0x0fffffff:
		return 4
	default:
		return 5
	}
}

// Append appends the encoding of v to b and returns the extended slice.
func Append(b []byte, v uint32) []byte {
	switch Len(v) {
	case 1:
		return append(b, byte(v))
	case 2:
		return append(b, byte(v>>8)|0x80, byte(v))
	case 3:
		return append(b, byte(v>>16)|0xc0, byte(v>>8), byte(v))
	case 4:
		return append(b, byte(v>>24)|0xe0, byte(v>>16), byte(v>>8), byte(v))
	default:
		return binary.BigEndian.AppendUint32(append(b, 0xf0), v)
	}
}

// Put encodes v at the start of b and returns the number of bytes written.
// It fails with ErrShortBuffer instead of writing past len(b).
func Put(b []byte, v uint32) (int, error) {
	n := Len(v)
	if len(b) < n {
		return 0, errors.Wrapf(ErrShortBuffer, "need %d bytes, have %d", n, len(b))
	}
	switch n {
	case 1:
		b[0] = byte(v)
	case 2:
		b[0] = byte(v>>8) | 0x80
		b[1] = byte(v)
	case 3:
		b[0] = byte(v>>16) | 0xc0
		b[1] = byte(v >> 8)
		b[2] = byte(v)
	case 4:
		b[0] = byte(v>>24) | 0xe0
		b[1] = byte(v >> 16)
		b[2] = byte(v >> 8)
		b[3] = byte(v)
	default:
		b[0] = 0xf0
		binary.BigEndian.PutUint32(b[1:], v)
	}
	return n, nil
}

// Uint32 decodes the value at the start of b and returns it together with
// the number of bytes consumed. It fails with ErrTruncated instead of
// reading past len(b).
func Uint32(b []byte) (uint32, int, error) {
	if len(b) == 0 {
		return 0, 0, ErrTruncated
	}
	n := tagLen(b[0])
	if len(b) < n {
		return 0, 0, errors.Wrapf(ErrTruncated, "leading byte %#02x needs %d bytes, have %d", b[0], n, len(b))
	}
	switch n {
	case 1:
		return uint32(b[0]), 1, nil
	case 2:
		return uint32(b[0]&0x3f)<<8 | uint32(b[1]), 2, nil
	case 3:
		return uint32(b[0]&0x1f)<<16 | uint32(b[1])<<8 | uint32(b[2]), 3, nil
	case 4:
		return uint32(b[0]&0x0f)<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), 4, nil
	default:
		// the leading byte carries no value bits, the payload is a plain
		// 4 byte big endian integer
		return binary.BigEndian.Uint32(b[1:5]), 5, nil
	}
}

// PeekLen returns the total width of the encoded value starting at b,
// looking only at the leading byte. Use it to skip over a value without
// decoding it.
func PeekLen(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, ErrTruncated
	}
	return tagLen(b[0]), nil
}

// tagLen maps a leading byte to the total encoded width. The width is one
// plus the number of leading one bits, capped at the five byte class.
func tagLen(b0 byte) int {
	n := bits.LeadingZeros8(^b0)
	if n > 4 {
		n = 4
	}
	return n + 1
}
