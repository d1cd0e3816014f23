// Package bufset implements an ordered in memory set of byte buffers.
package bufset

import (
	"github.com/google/btree"

	"github.com/gernest/varbuf/bufcmp"
	"github.com/gernest/varbuf/membuf"
)

const degree = 16

// Set holds byte buffers sorted in bufcmp.Compare order. Inserted buffers
// are copied, so callers keep ownership of their slices. Not safe for
// concurrent mutation.
type Set struct {
	tree *btree.BTreeG[[]byte]
}

func New() *Set {
	return &Set{tree: btree.NewG(degree, func(a, b []byte) bool {
		return bufcmp.Compare(a, b) < 0
	})}
}

// Insert adds a copy of b to the set. It reports whether an equal buffer was
// already present.
func (s *Set) Insert(b []byte) bool {
	_, replaced := s.tree.ReplaceOrInsert(membuf.Clone(b))
	return replaced
}

func (s *Set) Has(b []byte) bool {
	return s.tree.Has(b)
}

// Delete removes b from the set and reports whether it was present.
func (s *Set) Delete(b []byte) bool {
	_, ok := s.tree.Delete(b)
	return ok
}

func (s *Set) Len() int {
	return s.tree.Len()
}

func (s *Set) Min() ([]byte, bool) {
	return s.tree.Min()
}

func (s *Set) Max() ([]byte, bool) {
	return s.tree.Max()
}

// Ascend calls fn for every buffer in ascending order until fn returns
// false.
func (s *Set) Ascend(fn func(b []byte) bool) {
	s.tree.Ascend(fn)
}

// AscendPrefix calls fn for every buffer that starts with prefix, in
// ascending order. Buffers sharing a prefix are contiguous in bufcmp order
// and the prefix itself is the smallest of them, so the scan starts at the
// prefix and stops at the first buffer that diverges.
func (s *Set) AscendPrefix(prefix []byte, fn func(b []byte) bool) {
	s.tree.AscendGreaterOrEqual(prefix, func(b []byte) bool {
		if bufcmp.CommonPrefixLen(b, prefix) != len(prefix) {
			return false
		}
		return fn(b)
	})
}
