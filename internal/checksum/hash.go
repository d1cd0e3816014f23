package checksum

import (
	"github.com/cespare/xxhash/v2"
)

// Sum returns the uint64 xxhash checksum of data. This is the only hash
// function used for record integrity.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}
