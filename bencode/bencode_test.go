package bencode_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stupidafcoder/gorent/bencode"
)

func TestDecodeScenarios(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		v, err := bencode.Decode([]byte("5:hello"))
		require.NoError(t, err)
		require.Equal(t, bencode.String, v.Kind)
		assert.Equal(t, "hello", string(v.Str))
	})

	t.Run("negative integer", func(t *testing.T) {
		v, err := bencode.Decode([]byte("i-42e"))
		require.NoError(t, err)
		require.Equal(t, bencode.Int, v.Kind)
		assert.EqualValues(t, -42, v.Int)
	})

	t.Run("list", func(t *testing.T) {
		v, err := bencode.Decode([]byte("l5:helloi52ee"))
		require.NoError(t, err)
		require.Equal(t, bencode.List, v.Kind)
		require.Len(t, v.List, 2)
		assert.Equal(t, "hello", string(v.List[0].Str))
		assert.EqualValues(t, 52, v.List[1].Int)
	})

	t.Run("dictionary preserves insertion order", func(t *testing.T) {
		v, err := bencode.Decode([]byte("d3:foo3:bar5:helloi52ee"))
		require.NoError(t, err)
		require.Equal(t, bencode.Dict, v.Kind)
		require.Len(t, v.Dict, 2)
		assert.Equal(t, "foo", string(v.Dict[0].Key))
		assert.Equal(t, "bar", string(v.Dict[0].Val.Str))
		assert.Equal(t, "hello", string(v.Dict[1].Key))
		assert.EqualValues(t, 52, v.Dict[1].Val.Int)
	})
}

func TestDecodeRejectsNonCanonicalIntegers(t *testing.T) {
	_, err := bencode.Decode([]byte("i-0e"))
	assert.Error(t, err)

	_, err = bencode.Decode([]byte("i04e"))
	assert.Error(t, err)

	v, err := bencode.Decode([]byte("i0e"))
	require.NoError(t, err)
	assert.EqualValues(t, 0, v.Int)
}

func TestDecodeRejectsTruncation(t *testing.T) {
	_, err := bencode.Decode([]byte("5:hel"))
	assert.Error(t, err)

	_, err = bencode.Decode([]byte("l5:helloi52e"))
	assert.Error(t, err)

	_, err = bencode.Decode([]byte("d3:foo"))
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	cases := []string{
		"5:hello",
		"i-42e",
		"i0e",
		"l5:helloi52ee",
		"d3:foo3:bar5:helloi52ee",
		"d4:infod6:lengthi92063e4:name10:sample.iso12:piece lengthi32768e6:pieces20:01234567890123456789ee",
	}
	for _, c := range cases {
		v, err := bencode.Decode([]byte(c))
		require.NoError(t, err, c)
		got := bencode.Encode(v)
		assert.Equal(t, c, string(got))
	}
}

func TestValueBytesSlicesOriginalSource(t *testing.T) {
	src := []byte("d4:infod6:lengthi3e4:name3:foo12:piece lengthi1e6:pieces0:ee")
	v, err := bencode.Decode(src)
	require.NoError(t, err)
	info, ok := v.Get("info")
	require.True(t, ok)
	infoBytes := info.Bytes(src)
	assert.Equal(t, "d6:lengthi3e4:name3:foo12:piece lengthi1e6:pieces0:e", string(infoBytes))
}

func TestMarshalJSONEscapesBinaryStrings(t *testing.T) {
	v, err := bencode.Decode([]byte("3:\xff\xfe\x00"))
	require.NoError(t, err)
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]string
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Contains(t, m, "base64")
}

func TestMarshalJSONUTF8String(t *testing.T) {
	v, err := bencode.Decode([]byte("5:hello"))
	require.NoError(t, err)
	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `"hello"`, string(b))
}
