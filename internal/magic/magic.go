package magic

import "unsafe"

// Slice views s as a byte slice without copying. The result must not be
// modified.
func Slice(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// String views b as a string without copying. b must not be modified while
// the string is live.
func String(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
