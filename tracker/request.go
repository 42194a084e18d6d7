package tracker

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/stupidafcoder/gorent/bterrors"
	"github.com/stupidafcoder/gorent/infohash"
)

// AnnounceParams are the query parameters sent on every tracker GET,
// spec.md §4.3's table in struct form.
type AnnounceParams struct {
	InfoHash   infohash.Hash
	PeerID     [20]byte
	Port       uint16
	Uploaded   int64
	Downloaded int64
	Left       int64
	Compact    bool
}

// percentEncode leaves the unreserved characters of spec.md §4.3
// (A-Z a-z 0-9 - _ . ~) literal and percent-escapes everything else as
// uppercase %HH. url.QueryEscape follows form encoding and turns a space
// into "+" rather than "%20", so this is hand-rolled here rather than
// reused from net/url.
func percentEncode(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 3)
	for _, c := range b {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9',
			c == '-', c == '_', c == '.', c == '~':
			sb.WriteByte(c)
		default:
			fmt.Fprintf(&sb, "%%%02X", c)
		}
	}
	return sb.String()
}

// BuildAnnounceURL builds the tracker GET URL for announceBase with the
// parameters from spec.md §4.3. info_hash and peer_id are percent-encoded
// by hand (see percentEncode); the rest ride on url.Values since they're
// plain decimal ASCII with no encoding subtleties.
func BuildAnnounceURL(announceBase string, p AnnounceParams) (string, error) {
	base, err := url.Parse(announceBase)
	if err != nil {
		return "", bterrors.Wrap(bterrors.TrackerProtocol, err, "parsing announce URL")
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return "", bterrors.Newf(bterrors.TrackerProtocol, "unsupported tracker scheme %q (only http/https trackers are supported)", base.Scheme)
	}

	compact := "0"
	if p.Compact {
		compact = "1"
	}
	values := url.Values{
		"port":       {strconv.Itoa(int(p.Port))},
		"uploaded":   {strconv.FormatInt(p.Uploaded, 10)},
		"downloaded": {strconv.FormatInt(p.Downloaded, 10)},
		"left":       {strconv.FormatInt(p.Left, 10)},
		"compact":    {compact},
	}
	base.RawQuery = values.Encode() +
		"&info_hash=" + percentEncode(p.InfoHash[:]) +
		"&peer_id=" + percentEncode(p.PeerID[:])
	return base.String(), nil
}
