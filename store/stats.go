package store

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"ordindex/encoder"
)

// sizes keeps the approximate amount of memory taken by keys and encoded
// values (in bytes).
type sizes struct {
	keyBytes   int
	valueBytes int
	compressed int // values stored snappy compressed
}

func (z *sizes) add(key, encoded []byte) {
	z.keyBytes += len(key)
	z.valueBytes += len(encoded)
	if kind, _ := encoder.KindOf(encoded); kind == encoder.KindSnappy {
		z.compressed++
	}
}

// remove undoes add for a value that is being overwritten. The key stays.
func (z *sizes) remove(key, encoded []byte) {
	z.keyBytes -= len(key)
	z.valueBytes -= len(encoded)
	if kind, _ := encoder.KindOf(encoded); kind == encoder.KindSnappy {
		z.compressed--
	}
}

type Stats struct {
	Keys       int
	Height     int
	Nodes      int
	Degree     int
	KeyBytes   int
	ValueBytes int
	Compressed int
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Keys:       s.tree.Len(),
		Height:     s.tree.Height(),
		Nodes:      s.tree.Nodes(),
		Degree:     s.tree.Degree(),
		KeyBytes:   s.sizes.keyBytes,
		ValueBytes: s.sizes.valueBytes,
		Compressed: s.sizes.compressed,
	}
}

func (st Stats) String() string {
	return fmt.Sprintf("entries=%s height=%d nodes=%s degree=%d keyBytes=%s valueBytes=%s compressed=%s",
		humanize.Comma(int64(st.Keys)),
		st.Height,
		humanize.Comma(int64(st.Nodes)),
		st.Degree,
		humanize.Bytes(uint64(st.KeyBytes)),
		humanize.Bytes(uint64(st.ValueBytes)),
		humanize.Comma(int64(st.Compressed)))
}
