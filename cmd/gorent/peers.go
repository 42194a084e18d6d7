package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stupidafcoder/gorent/tracker"
)

// newPeersCmd implements spec.md §6's `peers` row.
func newPeersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "peers <torrent-file>",
		Short: "Announce to the tracker and print the peer list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openMetainfo(args[0])
			if err != nil {
				return err
			}

			client := tracker.NewClient(log.WithField("cmd", "peers"), 15*time.Second)
			peers, err := client.Announce(context.Background(), m.Announce, tracker.AnnounceParams{
				InfoHash: m.InfoHash,
				PeerID:   generatePeerID(),
				Port:     defaultClientPort,
				Left:     m.Length,
				Compact:  true,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range peers {
				fmt.Fprintln(out, p.String())
			}
			return nil
		},
	}
}
