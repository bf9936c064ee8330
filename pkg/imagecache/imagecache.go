// Package imagecache provides a BadgerDB-backed cache of per-image
// resolution records: veneer slot bindings and whether the image's decoding
// table is cacheable. Every entry is keyed by the BLAKE3 digest of the raw
// image bytes. The package stores and returns records as given; it does not
// derive them from an image or check a hit against one.
package imagecache

import (
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/zeebo/blake3"
)

// Digest identifies a game image by content.
type Digest [32]byte

// Sum computes the digest of raw image bytes.
func Sum(raw []byte) Digest {
	var d Digest
	sum := blake3.Sum256(raw)
	copy(d[:], sum[:])
	return d
}

func (d Digest) String() string { return fmt.Sprintf("%x", d[:]) }

// VeneerBinding is one resolved native-override address, keyed by slot.
type VeneerBinding struct {
	Slot uint32
	Addr uint32
}

// Resolution is one cached record: veneer slot bindings and the image's
// decoding table's cacheability.
type Resolution struct {
	Bindings        []VeneerBinding
	DecodingCached  bool
}

var prefixResolution = []byte{0x01}

// Config contains BadgerDB configuration for the cache.
type Config struct {
	Path       string
	InMemory   bool
	SyncWrites bool
	Logger     badger.Logger
}

// DefaultConfig returns a sensible cache configuration: async writes, since
// no engine behavior depends on a cache entry surviving.
func DefaultConfig(path string) Config {
	return Config{Path: path, InMemory: false, SyncWrites: false}
}

// Cache is a BadgerDB-backed image-resolution cache.
type Cache struct {
	db *badger.DB
}

// Open opens or creates a cache at the configured path.
func Open(cfg Config) (*Cache, error) {
	opts := badger.DefaultOptions(cfg.Path)
	opts.InMemory = cfg.InMemory
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = cfg.Logger
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open image cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Get returns a previously stored Resolution for digest, if any.
func (c *Cache) Get(digest Digest) (*Resolution, bool) {
	var res *Resolution
	err := c.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get(resolutionKey(digest))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			decoded, err := decodeResolution(val)
			if err != nil {
				return err
			}
			res = decoded
			return nil
		})
	})
	if err != nil {
		return nil, false
	}
	return res, true
}

// Put stores a Resolution for digest.
func (c *Cache) Put(digest Digest, res *Resolution) error {
	return c.db.Update(func(tx *badger.Txn) error {
		return tx.Set(resolutionKey(digest), encodeResolution(res))
	})
}

// Close closes the underlying database.
func (c *Cache) Close() error { return c.db.Close() }

func resolutionKey(d Digest) []byte {
	return append(append([]byte{}, prefixResolution...), d[:]...)
}

func encodeResolution(r *Resolution) []byte {
	out := make([]byte, 0, 9+len(r.Bindings)*8)
	out = append(out, 0)
	if r.DecodingCached {
		out[0] = 1
	}
	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(r.Bindings)))
	out = append(out, countBuf[:]...)
	for _, b := range r.Bindings {
		var pair [8]byte
		binary.BigEndian.PutUint32(pair[0:], b.Slot)
		binary.BigEndian.PutUint32(pair[4:], b.Addr)
		out = append(out, pair[:]...)
	}
	return out
}

func decodeResolution(data []byte) (*Resolution, error) {
	if len(data) < 5 {
		return nil, fmt.Errorf("imagecache: truncated resolution record")
	}
	res := &Resolution{DecodingCached: data[0] == 1}
	count := binary.BigEndian.Uint32(data[1:5])
	off := 5
	for i := uint32(0); i < count; i++ {
		if off+8 > len(data) {
			return nil, fmt.Errorf("imagecache: truncated binding at index %d", i)
		}
		res.Bindings = append(res.Bindings, VeneerBinding{
			Slot: binary.BigEndian.Uint32(data[off:]),
			Addr: binary.BigEndian.Uint32(data[off+4:]),
		})
		off += 8
	}
	return res, nil
}
