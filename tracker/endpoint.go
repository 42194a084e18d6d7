package tracker

import (
	"encoding/binary"
	"net"
	"strconv"

	"github.com/stupidafcoder/gorent/bterrors"
)

// Endpoint is a peer's IPv4 address and TCP port, as decoded from a
// tracker's compact peer list. Grounded on the teacher's peer.Peer
// (peer/peer.go), renamed to make clear it's a plain address, not a live
// connection.
type Endpoint struct {
	IP   net.IP
	Port uint16
}

// String renders the endpoint as "ip:port".
func (e Endpoint) String() string {
	return net.JoinHostPort(e.IP.String(), strconv.Itoa(int(e.Port)))
}

// ParseCompactPeers decodes a tracker's compact peer string: each peer
// occupies 6 bytes, a 4-byte IPv4 address followed by a 2-byte big-endian
// port. It fails with bterrors.TrackerProtocol if the length isn't a
// multiple of 6.
func ParseCompactPeers(peersBin []byte) ([]Endpoint, error) {
	const peerSize = 6
	if len(peersBin)%peerSize != 0 {
		return nil, bterrors.Newf(bterrors.TrackerProtocol, "compact peers length %d is not a multiple of %d", len(peersBin), peerSize)
	}
	numPeers := len(peersBin) / peerSize
	peers := make([]Endpoint, numPeers)
	for i := 0; i < numPeers; i++ {
		offset := i * peerSize
		ip := make(net.IP, 4)
		copy(ip, peersBin[offset:offset+4])
		peers[i] = Endpoint{
			IP:   ip,
			Port: binary.BigEndian.Uint16(peersBin[offset+4 : offset+6]),
		}
	}
	return peers, nil
}
