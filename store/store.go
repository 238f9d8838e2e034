// Package store serves byte keys and values out of an in-memory B-tree
// index. It is the caller that owns the index: every request holds one lock
// for its whole duration, since the tree itself is single-threaded.
package store

import (
	"bytes"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"ordindex/btree"
	"ordindex/config"
	"ordindex/encoder"
)

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrEmptyKey    = errors.New("empty key")
)

type Store struct {
	mu      sync.Mutex
	tree    *btree.Tree[[]byte, []byte] // keys to encoded values
	encoder *encoder.Encoder
	logger  *zap.Logger
	sizes   sizes
}

// Open returns an empty store configured by cfg. A nil logger discards logs.
func Open(cfg config.Config, logger *zap.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		tree:    btree.NewFunc[[]byte, []byte](cfg.Degree, bytes.Compare),
		encoder: encoder.NewEncoder(cfg.CompressThreshold),
		logger:  logger,
	}
	s.logger.Info("opened index",
		zap.Int("degree", cfg.Degree),
		zap.Int("compressThreshold", cfg.CompressThreshold))
	return s, nil
}

// Set stores val under key, replacing any previous value. Neither slice is
// retained.
func (s *Store) Set(key, val []byte) error {
	if len(key) == 0 {
		return ErrEmptyKey
	}
	encoded := s.encoder.Encode(val)
	key = bytes.Clone(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	old, exists := s.tree.Get(key)
	height := s.tree.Height()
	s.tree.Insert(key, encoded)

	if exists {
		s.sizes.remove(key, old)
	}
	s.sizes.add(key, encoded)

	s.logger.Debug("set",
		zap.ByteString("key", key),
		zap.Int("size", len(val)),
		zap.Int("encodedSize", len(encoded)),
		zap.Bool("overwrite", exists))
	if h := s.tree.Height(); h > height {
		s.logger.Info("index grew a level", zap.Int("height", h), zap.Int("keys", s.tree.Len()))
	}
	return nil
}

func (s *Store) Get(key []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	encoded, ok := s.tree.Get(key)
	if !ok {
		s.logger.Debug("key not found", zap.ByteString("key", key))
		return nil, ErrKeyNotFound
	}
	ev, err := s.encoder.Parse(encoded)
	if err != nil {
		return nil, errors.Wrapf(err, "decode value of key %q", key)
	}
	s.logger.Debug("found key", zap.ByteString("key", key), zap.Bool("compressed", ev.Compressed()))
	return ev.Value(), nil
}

// Scan calls fn with every pair in ascending key order until fn returns
// false. fn gets copies of keys and values and may keep or modify them.
// The store stays locked during the scan, so fn must not call back into it.
func (s *Store) Scan(fn func(key, val []byte) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	s.tree.Ascend(func(key, encoded []byte) bool {
		var ev *encoder.EncodedValue
		if ev, err = s.encoder.Parse(encoded); err != nil {
			err = errors.Wrapf(err, "decode value of key %q", key)
			return false
		}
		return fn(bytes.Clone(key), ev.Value())
	})
	return err
}

// Visualize renders the index level by level.
func (s *Store) Visualize() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := &btree.Visualizer[[]byte, []byte]{
		Tree:   s.tree,
		Format: func(k []byte) string { return string(k) },
	}
	return v.Visualize()
}

// Verify checks the structural invariants of the index.
func (s *Store) Verify() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree.Verify()
}
