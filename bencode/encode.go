package bencode

import (
	"strconv"
)

// Encode renders v back into bencode bytes following the deterministic
// inverse of Decode: byte strings as `<len>:<bytes>`, integers as
// `i<decimal>e`, lists as `l<items>e`, dictionaries as `d<key><value>...e`
// with pairs emitted in the order Dict stores them. It never reorders or
// reformats beyond what decoding already fixed in place, which is what
// makes `Encode(Decode(b)) == b` hold for any subtree decoded from bytes.
//
// Metainfo's infohash never goes through Encode — it slices the original
// buffer via Value.Bytes instead, per the codec's span-based strategy — and
// the `decode` CLI command prints JSON via MarshalJSON, not Encode. Encode is
// exercised by the round-trip test suite, and is the only way to serialize
// a Value built by hand rather than decoded from bytes.
func Encode(v Value) []byte {
	var out []byte
	return appendValue(out, v)
}

func appendValue(out []byte, v Value) []byte {
	switch v.Kind {
	case String:
		out = strconv.AppendInt(out, int64(len(v.Str)), 10)
		out = append(out, ':')
		out = append(out, v.Str...)
	case Int:
		out = append(out, 'i')
		out = strconv.AppendInt(out, v.Int, 10)
		out = append(out, 'e')
	case List:
		out = append(out, 'l')
		for _, item := range v.List {
			out = appendValue(out, item)
		}
		out = append(out, 'e')
	case Dict:
		out = append(out, 'd')
		for _, e := range v.Dict {
			out = appendValue(out, Value{Kind: String, Str: e.Key})
			out = appendValue(out, e.Val)
		}
		out = append(out, 'e')
	}
	return out
}

// NewString builds a String value from a Go string, for hand-constructed
// trees (tests, or values assembled outside of Decode).
func NewString(s string) Value { return Value{Kind: String, Str: []byte(s)} }

// NewInt builds an Int value.
func NewInt(n int64) Value { return Value{Kind: Int, Int: n} }

// NewList builds a List value from items.
func NewList(items ...Value) Value { return Value{Kind: List, List: items} }

// NewDict builds a Dict value from pairs, preserving the given order.
func NewDict(pairs ...DictEntry) Value { return Value{Kind: Dict, Dict: pairs} }
