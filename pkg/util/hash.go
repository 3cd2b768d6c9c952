package util

import (
	"encoding/binary"
	"encoding/hex"
	"github.com/twmb/murmur3"
)

// HashFunc ...
func HashFunc(s string) uint32 {
	return murmur3.Sum32([]byte(s))
}

// ChainHash derives a new version token from the previous token and the ordered ids,
// so that every change of the list yields a different token
func ChainHash(prev string, ids []int64) string {
	data := make([]byte, 0, len(prev)+8*len(ids)+8)
	data = append(data, prev...)

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(len(ids)))
	data = append(data, buf[:]...)

	for _, id := range ids {
		binary.LittleEndian.PutUint64(buf[:], uint64(id))
		data = append(data, buf[:]...)
	}

	h1, h2 := murmur3.Sum128(data)
	binary.BigEndian.PutUint64(buf[:], h1)
	out := hex.EncodeToString(buf[:])
	binary.BigEndian.PutUint64(buf[:], h2)
	return out + hex.EncodeToString(buf[:])
}
