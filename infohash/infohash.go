// Package infohash computes and renders the 20-byte SHA-1 digest that
// identifies a torrent: the hash of the bencoded bytes of the info
// dictionary exactly as they appeared in the source .torrent file.
package infohash

import (
	"crypto/sha1"
	"encoding/hex"
)

// Size is the length in bytes of an infohash.
const Size = sha1.Size

// Hash is a 20-byte SHA-1 digest of an info dictionary's source bytes.
type Hash [Size]byte

// Compute derives the infohash from the exact bencoded bytes of the info
// subtree. infoBytes must be sliced directly from the source buffer (see
// bencode.Value.Bytes), never produced by re-encoding a decoded tree, so
// that no lossy representation sits between the source and the digest.
func Compute(infoBytes []byte) Hash {
	return Hash(sha1.Sum(infoBytes))
}

// Hex renders the digest as lowercase hex, the form conventionally shown
// to users and compared against other clients' output.
func (h Hash) Hex() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) String() string { return h.Hex() }
