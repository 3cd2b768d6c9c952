package memtable

import (
	"github.com/coocood/freecache"
)

// MemTable is an in memory cache with eviction, entries may disappear at any time
type MemTable struct {
	cache *freecache.Cache
}

// New creates freecache with size in bytes
func New(size int) *MemTable {
	return &MemTable{
		cache: freecache.NewCache(size),
	}
}

// Get ...
func (m *MemTable) Get(key string) (data []byte, ok bool) {
	data, err := m.cache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set with expiry in seconds, zero means no expiry
func (m *MemTable) Set(key string, data []byte, expireSeconds int) {
	_ = m.cache.Set([]byte(key), data, expireSeconds)
}

// Delete ...
func (m *MemTable) Delete(key string) {
	m.cache.Del([]byte(key))
}
