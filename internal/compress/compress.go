package compress

import "github.com/minio/minlz"

// Encode returns the minlz block encoding of src, reusing dst when it is
// large enough.
func Encode(dst, src []byte) ([]byte, error) {
	return minlz.Encode(dst, src, minlz.LevelBalanced)
}

// Decode returns the block decoded from src, reusing dst when it is large
// enough.
func Decode(dst, src []byte) ([]byte, error) {
	return minlz.Decode(dst, src)
}
