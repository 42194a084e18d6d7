// Package metainfo provides a typed view over a decoded single-file torrent
// metainfo dictionary: the tracker announce URL, the info hash, the piece
// digests, and the lengths needed to split the file into pieces and blocks.
//
// This is the direct descendant of the teacher's torrentFile/bencodeTorrent
// split (torrent/torrent.go), rebuilt on top of this module's own bencode
// value tree instead of jackpal/bencode-go's struct-tag unmarshaling, so
// that the info hash can be derived from a byte-exact slice of the source
// (see bencode.Value.Bytes) rather than a re-marshaled struct — a struct
// round-trip risks silently reordering or dropping dictionary keys the
// struct tags don't know about, which would desync the hash from what
// peers and trackers expect.
package metainfo

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/stupidafcoder/gorent/bencode"
	"github.com/stupidafcoder/gorent/bterrors"
	"github.com/stupidafcoder/gorent/infohash"
)

const hashSize = infohash.Size

// MetaInfo is a typed, validated view over a single-file torrent's
// metainfo dictionary.
type MetaInfo struct {
	Announce    string
	Name        string
	Length      int64
	PieceLength int64
	PieceHashes [][hashSize]byte
	InfoHash    infohash.Hash

	// Raw is the full decoded value tree, kept around so callers can
	// inspect fields this typed view doesn't surface without re-parsing
	// the file.
	Raw bencode.Value
}

// Open reads r fully, bencode-decodes it as a single-file torrent
// metainfo dictionary, and validates the required shape described in
// spec.md §3. It fails with bterrors.MetainfoShape if a required field is
// missing or of the wrong kind, and with bterrors.BencodeSyntax if the
// bytes aren't valid bencode at all.
func Open(r io.Reader) (*MetaInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, bterrors.Wrap(bterrors.MetainfoShape, err, "reading metainfo")
	}
	return Parse(data)
}

// Parse decodes and validates raw metainfo bytes. Unlike Open, it takes
// the buffer directly so the caller can keep the original bytes around
// (useful for tests that assert on exact infohash values).
func Parse(data []byte) (*MetaInfo, error) {
	root, err := bencode.Decode(data)
	if err != nil {
		return nil, err
	}
	if root.Kind != bencode.Dict {
		return nil, bterrors.New(bterrors.MetainfoShape, "metainfo top level is not a dictionary")
	}

	announceVal, ok := root.Get("announce")
	if !ok || announceVal.Kind != bencode.String {
		return nil, bterrors.New(bterrors.MetainfoShape, "missing or malformed \"announce\"")
	}

	infoVal, ok := root.Get("info")
	if !ok || infoVal.Kind != bencode.Dict {
		return nil, bterrors.New(bterrors.MetainfoShape, "missing or malformed \"info\" dictionary")
	}
	if infoVal.KeysOutOfOrder() {
		logrus.WithField("component", "metainfo").Debug("info dictionary keys are not in ascending byte order")
	}

	nameVal, ok := infoVal.Get("name")
	if !ok || nameVal.Kind != bencode.String {
		return nil, bterrors.New(bterrors.MetainfoShape, "missing or malformed \"info.name\"")
	}

	pieceLenVal, ok := infoVal.Get("piece length")
	if !ok || pieceLenVal.Kind != bencode.Int || pieceLenVal.Int <= 0 {
		return nil, bterrors.New(bterrors.MetainfoShape, "missing or malformed \"info.piece length\"")
	}

	lengthVal, ok := infoVal.Get("length")
	if !ok || lengthVal.Kind != bencode.Int || lengthVal.Int <= 0 {
		return nil, bterrors.New(bterrors.MetainfoShape, "missing or malformed \"info.length\" (multi-file torrents are not supported)")
	}

	piecesVal, ok := infoVal.Get("pieces")
	if !ok || piecesVal.Kind != bencode.String {
		return nil, bterrors.New(bterrors.MetainfoShape, "missing or malformed \"info.pieces\"")
	}
	if len(piecesVal.Str)%hashSize != 0 {
		return nil, bterrors.Newf(bterrors.MetainfoShape, "\"info.pieces\" length %d is not a multiple of %d", len(piecesVal.Str), hashSize)
	}

	numPieces := len(piecesVal.Str) / hashSize
	expectedPieces := (int(lengthVal.Int) + int(pieceLenVal.Int) - 1) / int(pieceLenVal.Int)
	if numPieces != expectedPieces {
		return nil, bterrors.Newf(bterrors.MetainfoShape,
			"piece count %d does not match ceil(length/piece length) = %d", numPieces, expectedPieces)
	}

	pieceHashes := make([][hashSize]byte, numPieces)
	for i := 0; i < numPieces; i++ {
		copy(pieceHashes[i][:], piecesVal.Str[i*hashSize:(i+1)*hashSize])
	}

	h := infohash.Compute(infoVal.Bytes(data))

	return &MetaInfo{
		Announce:    string(announceVal.Str),
		Name:        string(nameVal.Str),
		Length:      lengthVal.Int,
		PieceLength: pieceLenVal.Int,
		PieceHashes: pieceHashes,
		InfoHash:    h,
		Raw:         root,
	}, nil
}

// PieceLengthAt returns the actual length of the piece at index, which is
// piece length for every piece except possibly the last.
func (m *MetaInfo) PieceLengthAt(index int) int64 {
	begin := int64(index) * m.PieceLength
	end := begin + m.PieceLength
	if end > m.Length {
		end = m.Length
	}
	return end - begin
}

// NumPieces returns the number of pieces in the torrent.
func (m *MetaInfo) NumPieces() int {
	return len(m.PieceHashes)
}
