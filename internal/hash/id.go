// Package hash provides the xxHash64 primitive used for the header's
// optional content checksum and for the default bag-of-words stand-in in
// host.
package hash

import "github.com/cespare/xxhash/v2"

// Sum64 computes the xxHash64 of data.
func Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Sum64String computes the xxHash64 of a string without an allocation.
func Sum64String(s string) uint64 {
	return xxhash.Sum64String(s)
}
