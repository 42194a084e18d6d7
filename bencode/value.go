// Package bencode implements a byte-exact bencode codec: decoding produces a
// typed value tree that records the original byte span of every node, so
// re-encoding (or simply re-slicing) a subtree reproduces the source bytes
// verbatim. That property is load-bearing for infohash derivation: the
// info dictionary's SHA-1 digest must match the bytes peers and trackers
// expect, not a normalized re-rendering of them.
package bencode

import "unicode/utf8"

// Kind tags which of the four bencode variants a Value holds.
type Kind int

const (
	String Kind = iota
	Int
	List
	Dict
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Int:
		return "int"
	case List:
		return "list"
	case Dict:
		return "dict"
	default:
		return "unknown"
	}
}

// DictEntry is one key/value pair of a Dict value. Dict entries are kept as
// a slice, not a map, specifically so insertion order survives decode and
// re-encode produces byte-identical dictionaries.
type DictEntry struct {
	Key []byte
	Val Value
}

// Value is a tagged bencode node. Exactly one of Str, Int, List, or Dict is
// meaningful depending on Kind. Start and End are the half-open byte range
// `[Start, End)` this value occupied in the buffer it was decoded from,
// which lets a caller slice the exact source bytes of any subtree without
// re-encoding it.
type Value struct {
	Kind  Kind
	Str   []byte
	Int   int64
	List  []Value
	Dict  []DictEntry
	Start int
	End   int

	// keysOutOfOrder records whether this Dict's keys were observed out of
	// ascending byte order during decode. Strict bencode requires sorted
	// keys; this codec decodes leniently (see KeysOutOfOrder) but still
	// surfaces the fact for diagnostic logging.
	keysOutOfOrder bool
}

// KeysOutOfOrder reports whether a Dict value's keys were decoded in a
// non-ascending byte order. Always false for non-Dict values.
func (v Value) KeysOutOfOrder() bool {
	return v.Kind == Dict && v.keysOutOfOrder
}

// Bytes returns the exact source bytes this value spanned, given the buffer
// it was decoded from. It is the implementation of spec strategy (a):
// byte-exact subtree extraction via span, not re-encoding.
func (v Value) Bytes(source []byte) []byte {
	return source[v.Start:v.End]
}

// Get looks up key in a Dict value, returning the found value and whether
// the key was present. Get on a non-Dict value always returns false.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != Dict {
		return Value{}, false
	}
	for _, e := range v.Dict {
		if string(e.Key) == key {
			return e.Val, true
		}
	}
	return Value{}, false
}

// IsUTF8String reports whether a String value's bytes form valid UTF-8. It
// is used only for presentation (the `decode` CLI command); bencode itself
// is binary-safe and never assumes text.
func (v Value) IsUTF8String() bool {
	if v.Kind != String {
		return false
	}
	return utf8.Valid(v.Str)
}
