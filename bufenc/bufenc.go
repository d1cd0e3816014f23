// Package bufenc has fixed width big endian pack helpers for byte buffers.
package bufenc

import "encoding/binary"

// PutUint16 writes v big endian into the first two bytes of b.
func PutUint16(b []byte, v uint16) {
	binary.BigEndian.PutUint16(b, v)
}

// Uint16 reads a big endian value from the first two bytes of b.
func Uint16(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}

// PutUint32 writes v big endian into the first four bytes of b.
func PutUint32(b []byte, v uint32) {
	binary.BigEndian.PutUint32(b, v)
}

// Uint32 reads a big endian value from the first four bytes of b.
func Uint32(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

const hexDigits = "0123456789abcdef"

// AppendHex appends v to dst as exactly eight lowercase hex digits.
func AppendHex(dst []byte, v uint32) []byte {
	for shift := 28; shift >= 0; shift -= 4 {
		dst = append(dst, hexDigits[v>>uint(shift)&0xf])
	}
	return dst
}
