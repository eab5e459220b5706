package hashes

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Hash is a short hex digest. Not collision free.
type Hash string

func Of(v any) Hash {
	return Hash(strconv.FormatUint(xxhash.Sum64String(Stringify(v)), 16))
}
