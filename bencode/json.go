package bencode

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strconv"
)

// MarshalJSON renders v the way the `decode` CLI command prints a value:
// byte strings as JSON strings when they're valid UTF-8, or as a
// `{"base64": "..."}` envelope when they're not, since bencode strings are
// binary-safe and arbitrary bytes can't round-trip through JSON text.
// Integers, lists, and dicts map onto their obvious JSON counterparts; dict
// keys keep the order Decode observed, which json.Marshal does not
// guarantee for a Go map, which is exactly why Value.Dict is a slice.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case String:
		if v.IsUTF8String() {
			return json.Marshal(string(v.Str))
		}
		return json.Marshal(map[string]string{"base64": base64.StdEncoding.EncodeToString(v.Str)})
	case Int:
		return []byte(strconv.FormatInt(v.Int, 10)), nil
	case List:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.List {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case Dict:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, e := range v.Dict {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyJSON, err := json.Marshal(string(e.Key))
			if err != nil {
				return nil, err
			}
			buf.Write(keyJSON)
			buf.WriteByte(':')
			valJSON, err := e.Val.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(valJSON)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return []byte("null"), nil
	}
}
