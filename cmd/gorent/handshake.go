package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stupidafcoder/gorent/peer"
)

// newHandshakeCmd implements spec.md §6's `handshake` row: connect to a
// single given peer and print its peer id on a successful handshake.
func newHandshakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "handshake <torrent-file> <ip:port>",
		Short: "Perform the peer handshake against a given peer and print its peer id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openMetainfo(args[0])
			if err != nil {
				return err
			}

			s, err := peer.Connect(args[1], m.InfoHash, generatePeerID(), log.WithField("cmd", "handshake"))
			if err != nil {
				return err
			}
			defer s.Close()

			remote := s.RemotePeerID()
			fmt.Fprintln(cmd.OutOrStdout(), "Peer ID:", hex.EncodeToString(remote[:]))
			return nil
		},
	}
}
