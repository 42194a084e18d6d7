// Package peerwire implements length-prefixed framing for the BitTorrent
// peer wire protocol: a 4-byte big-endian length prefix followed by that
// many payload bytes, with length 0 meaning keep-alive. Grounded on the
// teacher's message package (message/message.go), generalized to expose
// WriteMessage as its own operation (the teacher only ever serialized then
// wrote inline) and to loop on short writes explicitly, per spec.md §4.4.
package peerwire

import (
	"encoding/binary"
	"io"

	"github.com/stupidafcoder/gorent/bterrors"
)

// ID identifies a peer wire message's type. Only the ids the core uses are
// named; others are tolerated and simply carried through as their numeric
// value.
type ID uint8

const (
	Choke         ID = 0
	Unchoke       ID = 1
	Interested    ID = 2
	NotInterested ID = 3
	Have          ID = 4
	Bitfield      ID = 5
	Request       ID = 6
	Piece         ID = 7
	Cancel        ID = 8
)

// Message is one peer wire protocol message. A nil *Message (returned by
// ReadMessage) represents a keep-alive: no id, no payload.
type Message struct {
	ID      ID
	Payload []byte
}

// Serialize renders m into its 4-byte-length-prefixed wire form. A nil
// receiver serializes to the 4-byte zero-length keep-alive.
func (m *Message) Serialize() []byte {
	if m == nil {
		return make([]byte, 4)
	}
	length := uint32(len(m.Payload) + 1)
	buf := make([]byte, 4+length)
	binary.BigEndian.PutUint32(buf[0:4], length)
	buf[4] = byte(m.ID)
	copy(buf[5:], m.Payload)
	return buf
}

// ReadMessage reads one message from r, looping on short reads until the
// declared length is assembled or the connection closes. It returns
// (nil, nil) for a keep-alive. It fails with bterrors.PeerFraming on EOF
// mid-message.
func ReadMessage(r io.Reader) (*Message, error) {
	var lengthBuf [4]byte
	if _, err := io.ReadFull(r, lengthBuf[:]); err != nil {
		return nil, bterrors.Wrap(bterrors.PeerFraming, err, "reading message length prefix")
	}
	length := binary.BigEndian.Uint32(lengthBuf[:])
	if length == 0 {
		return nil, nil
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, bterrors.Wrap(bterrors.PeerFraming, err, "reading message payload")
	}

	return &Message{ID: ID(payload[0]), Payload: payload[1:]}, nil
}

// WriteMessage writes id and payload to w as a single framed message,
// looping on short writes until the whole buffer is flushed. Passing a nil
// id with an empty payload is not how a keep-alive is sent; use
// WriteKeepAlive for that.
func WriteMessage(w io.Writer, id ID, payload []byte) error {
	m := &Message{ID: id, Payload: payload}
	return writeAll(w, m.Serialize())
}

// WriteKeepAlive writes the 4-byte zero-length keep-alive message.
func WriteKeepAlive(w io.Writer) error {
	return writeAll(w, (*Message)(nil).Serialize())
}

func writeAll(w io.Writer, buf []byte) error {
	for len(buf) > 0 {
		n, err := w.Write(buf)
		if err != nil {
			return bterrors.Wrap(bterrors.PeerIO, err, "writing peer message")
		}
		buf = buf[n:]
	}
	return nil
}

// ParsePiece extracts the piece index, begin offset, and block data from a
// Piece message's payload, validating it against the expected index and
// the assembly buffer's bounds. On success it copies the block into buf at
// begin and returns the number of bytes copied.
func ParsePiece(expectedIndex int, buf []byte, msg *Message) (int, error) {
	if msg.ID != Piece {
		return 0, bterrors.Newf(bterrors.PeerProtocol, "expected piece message, got id %d", msg.ID)
	}
	if len(msg.Payload) < 8 {
		return 0, bterrors.Newf(bterrors.PeerProtocol, "piece payload too short: %d bytes", len(msg.Payload))
	}
	index := int(binary.BigEndian.Uint32(msg.Payload[0:4]))
	if index != expectedIndex {
		return 0, bterrors.Newf(bterrors.PeerProtocol, "piece index mismatch: expected %d, got %d", expectedIndex, index)
	}
	begin := int(binary.BigEndian.Uint32(msg.Payload[4:8]))
	if begin < 0 || begin >= len(buf) {
		return 0, bterrors.Newf(bterrors.PeerProtocol, "piece begin offset %d out of range for buffer of length %d", begin, len(buf))
	}
	data := msg.Payload[8:]
	if begin+len(data) > len(buf) {
		return 0, bterrors.Newf(bterrors.PeerProtocol, "piece data of length %d at offset %d overruns buffer of length %d", len(data), begin, len(buf))
	}
	copy(buf[begin:], data)
	return len(data), nil
}

// FormatRequest builds a Request message's 12-byte payload: big-endian
// piece index, begin offset, and requested length.
func FormatRequest(index, begin, length int) *Message {
	payload := make([]byte, 12)
	binary.BigEndian.PutUint32(payload[0:4], uint32(index))
	binary.BigEndian.PutUint32(payload[4:8], uint32(begin))
	binary.BigEndian.PutUint32(payload[8:12], uint32(length))
	return &Message{ID: Request, Payload: payload}
}
