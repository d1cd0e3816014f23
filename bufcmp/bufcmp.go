// Package bufcmp defines the total order used for byte buffer keys.
package bufcmp

import (
	"bytes"
	"cmp"
)

// Compare returns -1, 0 or +1 depending on whether a sorts before, equal to
// or after b.
//
// An empty buffer sorts before any non empty buffer. Otherwise the shared
// prefix is compared byte wise unsigned; if the shared prefix is equal the
// shorter buffer sorts first. The result is the same order bytes.Compare
// produces, spelled out here because persisted keys depend on it.
func Compare(a, b []byte) int {
	if len(a) == 0 {
		if len(b) == 0 {
			return 0
		}
		return -1
	}
	if len(b) == 0 {
		return 1
	}
	n := min(len(a), len(b))
	if c := bytes.Compare(a[:n], b[:n]); c != 0 {
		return c
	}
	return cmp.Compare(len(a), len(b))
}

// CommonPrefixLen returns the number of leading bytes at which a and b
// agree. It is 0 when either buffer is empty or the first bytes differ, and
// at most min(len(a), len(b)).
func CommonPrefixLen(a, b []byte) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
