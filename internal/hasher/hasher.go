// Package hasher computes the content hashes recorded for converted outputs.
package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/cespare/xxhash/v2"
)

// HexLen is the length of hashes written to manifests: 16 hex chars,
// the full 64 bits of xxHash64.
const HexLen = 16

// ContentHash returns the hex xxHash64 of data.
func ContentHash(data []byte) string {
	return format(xxhash.Sum64(data))
}

// ContentHashReader computes the same hash as ContentHash, streaming r.
func ContentHashReader(r io.Reader) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return format(h.Sum64()), nil
}

// Short truncates a hash for use inside file names.
func Short(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}

func format(sum uint64) string {
	return hex.EncodeToString(binary.BigEndian.AppendUint64(nil, sum))
}
