// Package encoder frames values stored in the index. Each encoded value
// starts with one kind byte telling how the remaining bytes are stored.
package encoder

import (
	"github.com/cockroachdb/errors"
	"github.com/golang/snappy"
)

type Kind uint8

const (
	KindRaw Kind = iota
	KindSnappy
)

func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindSnappy:
		return "snappy"
	}
	return "unknown"
}

var ErrShortValue = errors.New("encoded value has no kind byte")

// Encoder compresses values of at least threshold bytes with snappy. A
// threshold of zero stores every value raw.
type Encoder struct {
	threshold int
}

func NewEncoder(threshold int) *Encoder {
	return &Encoder{threshold: threshold}
}

type EncodedValue struct {
	val  []byte
	kind Kind
}

func (e *Encoder) Encode(val []byte) []byte {
	if e.threshold > 0 && len(val) >= e.threshold {
		if maxLen := snappy.MaxEncodedLen(len(val)); maxLen > 0 {
			buf := make([]byte, 1+maxLen)
			buf[0] = byte(KindSnappy)
			n := len(snappy.Encode(buf[1:], val))
			// keep the compressed form only if it pays for itself
			if n < len(val) {
				return buf[:1+n]
			}
		}
	}
	buf := make([]byte, len(val)+1)
	buf[0] = byte(KindRaw)
	copy(buf[1:], val)
	return buf
}

func (e *Encoder) Parse(buf []byte) (*EncodedValue, error) {
	if len(buf) == 0 {
		return nil, ErrShortValue
	}
	kind := Kind(buf[0])
	switch kind {
	case KindRaw:
		val := make([]byte, len(buf)-1)
		copy(val, buf[1:])
		return &EncodedValue{val: val, kind: kind}, nil
	case KindSnappy:
		val, err := snappy.Decode(nil, buf[1:])
		if err != nil {
			return nil, errors.Wrap(err, "snappy decode")
		}
		return &EncodedValue{val: val, kind: kind}, nil
	}
	return nil, errors.Newf("unknown value kind %d", buf[0])
}

// KindOf returns the kind byte of an encoded value without decoding it.
func KindOf(buf []byte) (Kind, bool) {
	if len(buf) == 0 {
		return 0, false
	}
	return Kind(buf[0]), true
}

func (ev *EncodedValue) Value() []byte {
	return ev.val
}

func (ev *EncodedValue) Kind() Kind {
	return ev.kind
}

func (ev *EncodedValue) Compressed() bool {
	return ev.kind == KindSnappy
}
