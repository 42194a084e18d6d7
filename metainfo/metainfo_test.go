package metainfo_test

import (
	"bytes"
	"crypto/sha1"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stupidafcoder/gorent/metainfo"
)

// buildSample constructs a single-file metainfo dictionary by hand, the way
// a minimal .torrent would be laid out on disk, and returns both the full
// bytes and the exact bytes of the nested info dictionary so the test can
// independently recompute the expected infohash.
func buildSample(t *testing.T, length, pieceLength int64, pieces string) ([]byte, []byte) {
	t.Helper()
	info := "d" +
		"6:lengthi" + itoa(length) + "e" +
		"4:name10:sample.iso" +
		"12:piece lengthi" + itoa(pieceLength) + "e" +
		"6:pieces" + itoa(int64(len(pieces))) + ":" + pieces +
		"e"
	full := "d" +
		"8:announce35:http://tracker.example.com/announce" +
		"4:info" + info +
		"e"
	return []byte(full), []byte(info)
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		digits = append([]byte{'-'}, digits...)
	}
	return string(digits)
}

func TestParseSingleFileMetainfo(t *testing.T) {
	pieceA := strings.Repeat("A", 20)
	pieceB := strings.Repeat("B", 20)
	full, info := buildSample(t, 40, 20, pieceA+pieceB)

	m, err := metainfo.Parse(full)
	require.NoError(t, err)

	assert.Equal(t, "http://tracker.example.com/announce", m.Announce)
	assert.Equal(t, "sample.iso", m.Name)
	assert.EqualValues(t, 40, m.Length)
	assert.EqualValues(t, 20, m.PieceLength)
	require.Len(t, m.PieceHashes, 2)
	assert.Equal(t, []byte(pieceA), m.PieceHashes[0][:])
	assert.Equal(t, []byte(pieceB), m.PieceHashes[1][:])

	want := sha1.Sum(info)
	assert.Equal(t, want, [20]byte(m.InfoHash))
}

func TestParseRejectsPieceCountMismatch(t *testing.T) {
	// length 40 at piece length 20 requires exactly 2 piece hashes; give 1.
	full, _ := buildSample(t, 40, 20, strings.Repeat("A", 20))
	_, err := metainfo.Parse(full)
	assert.Error(t, err)
}

func TestParseRejectsMisalignedPiecesField(t *testing.T) {
	full, _ := buildSample(t, 40, 20, strings.Repeat("A", 19))
	_, err := metainfo.Parse(full)
	assert.Error(t, err)
}

func TestParseRejectsMissingAnnounce(t *testing.T) {
	_, err := metainfo.Parse([]byte("d4:infod6:lengthi1e4:name1:a12:piece lengthi1e6:pieces20:" + strings.Repeat("A", 20) + "ee"))
	assert.Error(t, err)
}

func TestPieceLengthAtShortensFinalPiece(t *testing.T) {
	full, _ := buildSample(t, 45, 20, strings.Repeat("A", 20)+strings.Repeat("B", 20)+strings.Repeat("C", 20))
	m, err := metainfo.Parse(full)
	require.NoError(t, err)
	require.Equal(t, 3, m.NumPieces())
	assert.EqualValues(t, 20, m.PieceLengthAt(0))
	assert.EqualValues(t, 20, m.PieceLengthAt(1))
	assert.EqualValues(t, 5, m.PieceLengthAt(2))
}

func TestOpenReadsFromReader(t *testing.T) {
	full, _ := buildSample(t, 20, 20, strings.Repeat("A", 20))
	m, err := metainfo.Open(bytes.NewReader(full))
	require.NoError(t, err)
	assert.EqualValues(t, 20, m.Length)
}
