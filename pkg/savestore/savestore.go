// Package savestore provides persistent, named storage for Quetzal save
// files, bucketed per game image so saves from different games never
// collide even when a player reuses a slot name.
package savestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	bolt "go.etcd.io/bbolt"
)

// ErrSlotNotFound is returned when a named slot has no save in a bucket.
var ErrSlotNotFound = errors.New("save slot not found")

// ErrClosed is returned when operating on a closed store.
var ErrClosed = errors.New("save store closed")

var bucketMetaName = []byte("_meta")

// Config holds savestore configuration options.
type Config struct {
	// Path is the database file path.
	Path string

	// NoSync disables fsync after each write (faster but less durable).
	NoSync bool

	// ReadOnly opens the database in read-only mode.
	ReadOnly bool
}

// DefaultConfig returns the default savestore configuration.
func DefaultConfig(path string) Config {
	return Config{Path: path, NoSync: false, ReadOnly: false}
}

// SlotInfo describes one stored save without its payload.
type SlotInfo struct {
	Name      string
	SavedAt   time.Time
	SizeBytes int
}

// Store is a named save-slot directory, one bucket per image digest.
type Store interface {
	Put(imageDigest [32]byte, slot string, data []byte) error
	Get(imageDigest [32]byte, slot string) ([]byte, error)
	Delete(imageDigest [32]byte, slot string) error
	List(imageDigest [32]byte) ([]SlotInfo, error)
	Close() error
}

// BoltStore implements Store using bbolt.
type BoltStore struct {
	db     *bolt.DB
	config Config
	closed bool
}

// Open creates or opens a save store at the given path.
func Open(config Config) (*BoltStore, error) {
	dir := filepath.Dir(config.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}
	opts := &bolt.Options{
		Timeout:  5 * time.Second,
		ReadOnly: config.ReadOnly,
		NoSync:   config.NoSync,
	}
	db, err := bolt.Open(config.Path, 0644, opts)
	if err != nil {
		return nil, fmt.Errorf("open save store: %w", err)
	}
	return &BoltStore{db: db, config: config}, nil
}

func bucketName(digest [32]byte) []byte {
	return []byte(fmt.Sprintf("img-%x", digest))
}

// Put writes or overwrites the named slot's save payload, zstd-compressed
// at rest. The compression is transparent to callers: a full state dump can
// run to hundreds of kilobytes even after Quetzal's own RLE pass, and most
// of that is still redundant across the CMem, Stks, and MAll chunks.
func (s *BoltStore) Put(digest [32]byte, slot string, data []byte) error {
	if s.closed {
		return ErrClosed
	}
	compressed, err := compressSlot(data)
	if err != nil {
		return fmt.Errorf("compress save data: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName(digest))
		if err != nil {
			return err
		}
		if err := b.Put([]byte(slot), compressed); err != nil {
			return err
		}
		meta, err := b.CreateBucketIfNotExists(bucketMetaName)
		if err != nil {
			return err
		}
		var ts [8]byte
		putBeInt64(ts[:], time.Now().Unix())
		return meta.Put([]byte(slot), ts[:])
	})
}

// Get returns the named slot's save payload.
func (s *BoltStore) Get(digest [32]byte, slot string) ([]byte, error) {
	if s.closed {
		return nil, ErrClosed
	}
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName(digest))
		if b == nil {
			return ErrSlotNotFound
		}
		v := b.Get([]byte(slot))
		if v == nil {
			return ErrSlotNotFound
		}
		decompressed, err := decompressSlot(v)
		if err != nil {
			return fmt.Errorf("decompress save data: %w", err)
		}
		out = decompressed
		return nil
	})
	return out, err
}

// Delete removes the named slot's save, if present.
func (s *BoltStore) Delete(digest [32]byte, slot string) error {
	if s.closed {
		return ErrClosed
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName(digest))
		if b == nil {
			return nil
		}
		if err := b.Delete([]byte(slot)); err != nil {
			return err
		}
		if meta := b.Bucket(bucketMetaName); meta != nil {
			_ = meta.Delete([]byte(slot))
		}
		return nil
	})
}

// List enumerates every slot stored for the given image digest.
func (s *BoltStore) List(digest [32]byte) ([]SlotInfo, error) {
	if s.closed {
		return nil, ErrClosed
	}
	var out []SlotInfo
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName(digest))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			if string(k) == string(bucketMetaName) {
				return nil
			}
			info := SlotInfo{Name: string(k), SizeBytes: len(v)}
			if meta := b.Bucket(bucketMetaName); meta != nil {
				if ts := meta.Get(k); len(ts) == 8 {
					info.SavedAt = time.Unix(beInt64(ts), 0)
				}
			}
			out = append(out, info)
			return nil
		})
	})
	return out, err
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func putBeInt64(b []byte, v int64) {
	u := uint64(v)
	for i := 7; i >= 0; i-- {
		b[i] = byte(u)
		u >>= 8
	}
}

func beInt64(b []byte) int64 {
	var u uint64
	for i := 0; i < 8; i++ {
		u = u<<8 | uint64(b[i])
	}
	return int64(u)
}

func compressSlot(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func decompressSlot(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, make([]byte, 0, len(data)*2))
}
