package peer

import (
	"bytes"
	"crypto/sha1"
	"encoding/binary"
	"encoding/hex"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stupidafcoder/gorent/bterrors"
	"github.com/stupidafcoder/gorent/peerwire"
)

// BlockSize is the fixed size of a requested block, 2^14 bytes, per
// spec.md §4.5.
const BlockSize = 16384

// State names the peer session's position in the state machine described
// by spec.md §4.5's transition diagram.
type State int

const (
	Connecting State = iota
	HandshakePending
	AwaitingBitfield
	AwaitingUnchoke
	Downloading
	Closed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case HandshakePending:
		return "handshake-pending"
	case AwaitingBitfield:
		return "awaiting-bitfield"
	case AwaitingUnchoke:
		return "awaiting-unchoke"
	case Downloading:
		return "downloading"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session is a single blocking peer-wire connection, carried from
// Connecting through to Closed exactly once: one peer, one piece, per
// spec.md §5. It owns its socket and, while downloading, the assembly
// buffer for the target piece.
//
// Grounded on the teacher's peer.Client (peer/peer.go) and its
// pieceProgress download loop (torrent/torrent.go), collapsed from the
// teacher's multi-peer goroutine-pool worker into the single sequential
// session this core requires, with the implicit state the teacher tracked
// across scattered bools (Choked, the caller's own loop counters) made
// explicit as a State value.
type Session struct {
	conn         net.Conn
	state        State
	bitfield     Bitfield
	peerID       [20]byte
	infoHash     [20]byte
	remotePeerID [20]byte
	log          *logrus.Entry
}

// Connect dials addr, performs the 68-byte handshake, and advances the
// session through HandshakePending to AwaitingBitfield. It fails with
// bterrors.PeerIO on dial/read/write failure and bterrors.HandshakeReject
// if the remote's handshake doesn't echo our infohash or protocol string.
func Connect(addr string, infoHash, peerID [20]byte, log *logrus.Entry) (*Session, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithFields(logrus.Fields{"component": "peer", "addr": addr})

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, bterrors.Wrap(bterrors.PeerIO, err, "dialing peer")
	}

	s := &Session{conn: conn, state: Connecting, peerID: peerID, infoHash: infoHash, log: log}
	if err := s.handshake(); err != nil {
		conn.Close()
		s.state = Closed
		return nil, err
	}
	s.state = AwaitingBitfield
	return s, nil
}

// Close closes the underlying socket. Safe to call more than once.
func (s *Session) Close() error {
	s.state = Closed
	return s.conn.Close()
}

// State reports the session's current position in the state machine.
func (s *Session) State() State { return s.state }

// RemotePeerID is the 20-byte peer id the remote echoed in its handshake.
// Captured but never validated against an expectation, per spec.md §4.5.
func (s *Session) RemotePeerID() [20]byte { return s.remotePeerID }

func (s *Session) handshake() error {
	s.state = HandshakePending
	s.conn.SetDeadline(time.Now().Add(5 * time.Second))
	defer s.conn.SetDeadline(time.Time{})

	out := Handshake{InfoHash: s.infoHash, PeerID: s.peerID}
	if _, err := s.conn.Write(out.Serialize()); err != nil {
		return bterrors.Wrap(bterrors.PeerIO, err, "writing handshake")
	}

	in, err := readHandshake(s.conn)
	if err != nil {
		return err
	}
	if !bytes.Equal(in.InfoHash[:], s.infoHash[:]) {
		return bterrors.Newf(bterrors.HandshakeReject, "handshake: peer echoed infohash %x, expected %x", in.InfoHash, s.infoHash)
	}
	s.remotePeerID = in.PeerID
	s.log.WithField("peer_id", hex.EncodeToString(in.PeerID[:])).Debug("handshake accepted")
	return nil
}

// AwaitBitfield reads peer messages until a bitfield arrives, tolerating
// keep-alives and unrelated ids in between (spec.md §4.5). It advances the
// session to AwaitingUnchoke and sends `interested` once the bitfield is
// seen. The bitfield payload is stored but never interpreted to gate
// requests — this core targets a specific piece index the tracker already
// vouched for.
func (s *Session) AwaitBitfield() error {
	if s.state != AwaitingBitfield {
		return bterrors.Newf(bterrors.PeerProtocol, "AwaitBitfield called in state %s", s.state)
	}
	s.conn.SetDeadline(time.Now().Add(10 * time.Second))
	defer s.conn.SetDeadline(time.Time{})

	for {
		msg, err := peerwire.ReadMessage(s.conn)
		if err != nil {
			return err
		}
		if msg == nil {
			continue // keep-alive
		}
		if msg.ID != peerwire.Bitfield {
			s.log.WithField("id", msg.ID).Debug("ignoring message while awaiting bitfield")
			continue
		}
		s.bitfield = Bitfield(msg.Payload)
		break
	}

	if err := peerwire.WriteMessage(s.conn, peerwire.Interested, nil); err != nil {
		return err
	}
	s.state = AwaitingUnchoke
	return nil
}

// AwaitUnchoke reads peer messages until `unchoke` arrives, tolerating
// keep-alives and unrelated ids. It advances the session to Downloading.
func (s *Session) AwaitUnchoke() error {
	if s.state != AwaitingUnchoke {
		return bterrors.Newf(bterrors.PeerProtocol, "AwaitUnchoke called in state %s", s.state)
	}
	s.conn.SetDeadline(time.Now().Add(30 * time.Second))
	defer s.conn.SetDeadline(time.Time{})

	for {
		msg, err := peerwire.ReadMessage(s.conn)
		if err != nil {
			return err
		}
		if msg == nil {
			continue
		}
		if msg.ID == peerwire.Unchoke {
			break
		}
		s.log.WithField("id", msg.ID).Debug("ignoring message while awaiting unchoke")
	}

	s.state = Downloading
	return nil
}

// HasPiece reports whether the peer's advertised bitfield claims the given
// piece index. Diagnostic only; DownloadPiece does not consult it, per
// spec.md §4.5.
func (s *Session) HasPiece(index int) bool {
	return s.bitfield.HasPiece(index)
}

// DownloadPiece requests and assembles one full piece, sequentially
// (request, await response, next request), per spec.md §4.5's reference
// behavior. length is the piece's actual byte length (the caller computes
// this as min(piece_length, total_length - index*piece_length)); expected
// is the piece's SHA-1 digest from the metainfo's pieces field.
//
// It fails with bterrors.PeerProtocol if a `piece` response doesn't match
// the outstanding request's index/offset, and bterrors.PieceCorrupt if the
// assembled bytes don't hash to expected. On success the session
// transitions to Closed; on failure it is left for the caller to Close.
func (s *Session) DownloadPiece(index int, length int, expected [20]byte) ([]byte, error) {
	if s.state != Downloading {
		return nil, bterrors.Newf(bterrors.PeerProtocol, "DownloadPiece called in state %s", s.state)
	}
	s.conn.SetDeadline(time.Now().Add(120 * time.Second))
	defer s.conn.SetDeadline(time.Time{})

	buf := make([]byte, length)
	numBlocks := (length + BlockSize - 1) / BlockSize

	for i := 0; i < numBlocks; i++ {
		begin := i * BlockSize
		blockLen := BlockSize
		if length-begin < blockLen {
			blockLen = length - begin
		}

		req := peerwire.FormatRequest(index, begin, blockLen)
		if err := peerwire.WriteMessage(s.conn, req.ID, req.Payload); err != nil {
			return nil, err
		}

		if err := s.awaitBlock(index, begin, buf); err != nil {
			return nil, err
		}
	}

	sum := sha1.Sum(buf)
	if !bytes.Equal(sum[:], expected[:]) {
		return nil, bterrors.Newf(bterrors.PieceCorrupt, "piece %d sha1 mismatch: got %x, expected %x", index, sum, expected)
	}

	s.state = Closed
	return buf, nil
}

// awaitBlock reads messages until a piece response lands in buf, tolerating
// unrelated ids (have, choke/unchoke churn, keep-alives) in between.
func (s *Session) awaitBlock(index, begin int, buf []byte) error {
	for {
		msg, err := peerwire.ReadMessage(s.conn)
		if err != nil {
			return err
		}
		if msg == nil {
			continue
		}
		switch msg.ID {
		case peerwire.Piece:
			if len(msg.Payload) >= 8 {
				if got := int(binary.BigEndian.Uint32(msg.Payload[4:8])); got != begin {
					return bterrors.Newf(bterrors.PeerProtocol, "piece begin offset mismatch: expected %d, got %d", begin, got)
				}
			}
			if _, err := peerwire.ParsePiece(index, buf, msg); err != nil {
				return err
			}
			return nil
		case peerwire.Have:
			if len(msg.Payload) == 4 {
				have := int(binary.BigEndian.Uint32(msg.Payload))
				s.log.WithField("piece", have).Debug("peer announced have while downloading")
			}
		case peerwire.Choke:
			s.log.Debug("peer choked mid-download")
		default:
			s.log.WithField("id", msg.ID).Debug("ignoring message while awaiting piece")
		}
	}
}

