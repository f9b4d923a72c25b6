package hasher

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// ContentHash computes the xxHash64 of data and returns a hex string
// truncated to hexLen (0 keeps all 16 chars).
func ContentHash(data []byte, hexLen int) string {
	return truncate(sum(xxhash.Sum64(data)), hexLen)
}

// Signature hashes an ordered list of parts into a short stable key.
// Parts are length-prefixed so ("ab","c") and ("a","bc") differ.
func Signature(parts ...string) string {
	d := xxhash.New()
	var n [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(n[:], uint64(len(p)))
		d.Write(n[:])
		d.WriteString(p)
	}
	return sum(d.Sum64())
}

func sum(v uint64) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return hex.EncodeToString(b[:])
}

func truncate(full string, hexLen int) string {
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
