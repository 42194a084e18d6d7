// Package peer implements the BitTorrent peer handshake and the
// single-piece download state machine run against one connected peer.
// Grounded on the teacher's peer package (peer/peer.go) and its
// pieceProgress download loop (torrent/torrent.go), cut down from the
// teacher's multi-peer goroutine pool to the single blocking session
// spec.md §5 requires.
package peer

import (
	"bytes"
	"io"

	"github.com/stupidafcoder/gorent/bterrors"
)

const protocolString = "BitTorrent protocol"

// Handshake is the fixed 68-byte opening exchange on every peer
// connection: protocol-string length, the protocol string itself, 8
// reserved zero bytes, the infohash, and the peer id.
type Handshake struct {
	InfoHash [20]byte
	PeerID   [20]byte
}

// Serialize renders the handshake to its 68-byte wire form.
func (h Handshake) Serialize() []byte {
	buf := make([]byte, 49+len(protocolString))
	cursor := 0
	buf[cursor] = byte(len(protocolString))
	cursor++
	cursor += copy(buf[cursor:], protocolString)
	cursor += 8 // reserved, left zero
	cursor += copy(buf[cursor:], h.InfoHash[:])
	copy(buf[cursor:], h.PeerID[:])
	return buf
}

// readHandshake reads exactly 68 bytes from r and parses them as a
// handshake, validating the protocol-string length and content but not
// the infohash (the caller compares that against what it expects).
func readHandshake(r io.Reader) (Handshake, error) {
	var lenBuf [1]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return Handshake{}, bterrors.Wrap(bterrors.PeerIO, err, "reading handshake protocol length")
	}
	pstrlen := int(lenBuf[0])
	if pstrlen != len(protocolString) {
		return Handshake{}, bterrors.Newf(bterrors.HandshakeReject, "protocol string length %d, expected %d", pstrlen, len(protocolString))
	}

	rest := make([]byte, pstrlen+8+20+20)
	if _, err := io.ReadFull(r, rest); err != nil {
		return Handshake{}, bterrors.Wrap(bterrors.PeerIO, err, "reading handshake body")
	}

	if !bytes.Equal(rest[:pstrlen], []byte(protocolString)) {
		return Handshake{}, bterrors.Newf(bterrors.HandshakeReject, "unexpected protocol string %q", rest[:pstrlen])
	}

	var h Handshake
	cursor := pstrlen + 8
	copy(h.InfoHash[:], rest[cursor:cursor+20])
	cursor += 20
	copy(h.PeerID[:], rest[cursor:cursor+20])
	return h, nil
}
