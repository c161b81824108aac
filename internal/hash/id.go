package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string. It is used both for field
// name identifiers in record index entries and for deriving element resource
// IDs.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}
