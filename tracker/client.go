// Package tracker builds the announce request, performs the HTTP GET
// against the tracker, and parses the compact peer response.
package tracker

import (
	"bytes"
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	bencodego "github.com/jackpal/bencode-go"
	"github.com/sirupsen/logrus"

	"github.com/stupidafcoder/gorent/bterrors"
)

// announceResponse mirrors the teacher's trackerRespone struct
// (torrent/torrent.go), decoded with jackpal/bencode-go exactly as the
// teacher does, extended with FailureReason so a tracker-reported failure
// (spec.md §4.3) is caught by the same Unmarshal call instead of a second
// decode pass.
type announceResponse struct {
	FailureReason string `bencode:"failure reason"`
	Interval      int    `bencode:"interval"`
	Peers         string `bencode:"peers"`
}

// Client performs tracker announces over HTTP.
type Client struct {
	http *resty.Client
	log  *logrus.Entry
}

// NewClient builds a tracker client with a bounded per-request timeout.
// No retries are performed at this layer, per spec.md §4.3 — the
// underlying resty client's retry mechanism is left at its zero value
// (disabled) rather than configured and then suppressed.
func NewClient(log *logrus.Entry, timeout time.Duration) *Client {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Client{
		http: resty.New().SetTimeout(timeout),
		log:  log.WithField("component", "tracker"),
	}
}

// Announce builds the announce URL, issues the HTTP GET, and returns the
// peer list from a compact response. It fails with bterrors.TrackerHTTP on
// transport error or a non-2xx status, bterrors.TrackerFailure if the
// tracker's response carries a "failure reason", and
// bterrors.TrackerProtocol if the response isn't valid bencode or the
// peers field is malformed.
func (c *Client) Announce(ctx context.Context, announceBase string, params AnnounceParams) ([]Endpoint, error) {
	announceURL, err := BuildAnnounceURL(announceBase, params)
	if err != nil {
		return nil, err
	}
	c.log.WithField("url", announceURL).Debug("announcing to tracker")

	resp, err := c.http.R().SetContext(ctx).Get(announceURL)
	if err != nil {
		return nil, bterrors.Wrap(bterrors.TrackerHTTP, err, "GET tracker announce")
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, bterrors.Newf(bterrors.TrackerHTTP, "tracker responded with status %d", resp.StatusCode())
	}

	var ar announceResponse
	if err := bencodego.Unmarshal(bytes.NewReader(resp.Body()), &ar); err != nil {
		return nil, bterrors.Wrap(bterrors.TrackerProtocol, err, "decoding tracker response")
	}
	if ar.FailureReason != "" {
		return nil, bterrors.New(bterrors.TrackerFailure, ar.FailureReason)
	}

	peers, err := ParseCompactPeers([]byte(ar.Peers))
	if err != nil {
		return nil, err
	}
	c.log.WithFields(logrus.Fields{"interval": ar.Interval, "peers": len(peers)}).Info("tracker announce complete")
	return peers, nil
}
