// Package membuf provides buffer duplication helpers and a reusable scratch
// buffer pool.
package membuf

import "sync"

// Clone returns a copy of b. A nil input stays nil.
func Clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append(make([]byte, 0, len(b)), b...)
}

// Concat returns a new buffer holding a followed by b. The result never
// aliases either input.
func Concat(a, b []byte) []byte {
	out := make([]byte, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

type Pool struct {
	pool sync.Pool
}

func (p *Pool) Get() *B {
	b := p.pool.Get()
	if b != nil {
		return b.(*B)
	}
	return &B{}
}

func (p *Pool) Put(b *B) {
	b.B = b.B[:0]
	p.pool.Put(b)
}

// B is a growable scratch buffer handed out by Pool.
type B struct {
	B []byte
}
