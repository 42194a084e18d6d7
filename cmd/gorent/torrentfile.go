package main

import (
	"os"

	"github.com/google/uuid"

	"github.com/stupidafcoder/gorent/metainfo"
)

// defaultClientPort is the TCP port advertised to the tracker. Real clients
// listen for incoming connections on it; this client never does (spec.md
// §1 — no seeding), so it's announced for protocol compliance only.
const defaultClientPort = 6881

// openMetainfo reads and validates the .torrent file at path.
func openMetainfo(path string) (*metainfo.MetaInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return metainfo.Open(f)
}

// generatePeerID builds the 20-byte peer id sent in the handshake and the
// tracker announce. spec.md §9 leaves the generation policy to this
// collaborator; rather than the teacher's fixed "12345678901234567890" (or
// gorent's prior fixed "-GR0001-..." prefix with a static suffix), this
// derives the suffix from a random UUID each run so concurrent client
// instances on the same host don't collide at a tracker that keys peers by
// id, while keeping the conventional Azureus-style "-XX####-" prefix
// clients use to self-identify.
func generatePeerID() [20]byte {
	var id [20]byte
	copy(id[:], "-GR0001-")
	u := uuid.New()
	copy(id[8:], u[:12])
	return id
}
