package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/stupidafcoder/gorent/bterrors"
	"github.com/stupidafcoder/gorent/peer"
	"github.com/stupidafcoder/gorent/tracker"
)

// newDownloadPieceCmd implements spec.md §6's `download_piece` row: fetch
// one piece from a tracker-supplied peer and write it to -o.
func newDownloadPieceCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "download_piece <torrent-file> <piece-index>",
		Short: "Download a single piece and write it to the output file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("-o OUT is required")
			}
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid piece index %q: %w", args[1], err)
			}
			return runDownloadPiece(cmd, args[0], index, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file path")
	return cmd
}

func runDownloadPiece(cmd *cobra.Command, torrentPath string, index int, out string) error {
	m, err := openMetainfo(torrentPath)
	if err != nil {
		return err
	}
	if index < 0 || index >= m.NumPieces() {
		return bterrors.Newf(bterrors.MetainfoShape, "piece index %d out of range [0, %d)", index, m.NumPieces())
	}

	peerID := generatePeerID()
	trackerClient := tracker.NewClient(log.WithField("cmd", "download_piece"), 15*time.Second)
	peers, err := trackerClient.Announce(context.Background(), m.Announce, tracker.AnnounceParams{
		InfoHash: m.InfoHash,
		PeerID:   peerID,
		Port:     defaultClientPort,
		Left:     m.Length,
		Compact:  true,
	})
	if err != nil {
		return err
	}
	if len(peers) == 0 {
		return bterrors.New(bterrors.TrackerProtocol, "tracker returned no peers")
	}

	s, err := peer.Connect(peers[0].String(), m.InfoHash, peerID, log.WithField("cmd", "download_piece"))
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.AwaitBitfield(); err != nil {
		return err
	}
	if err := s.AwaitUnchoke(); err != nil {
		return err
	}

	length := int(m.PieceLengthAt(index))
	data, err := s.DownloadPiece(index, length, m.PieceHashes[index])
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Piece %d downloaded to %s\n", index, out)
	return nil
}
