package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

// newInfoCmd implements spec.md §6's `info` row.
func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <torrent-file>",
		Short: "Print a torrent's tracker URL, length, infohash, and piece hashes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := openMetainfo(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Tracker URL:", m.Announce)
			fmt.Fprintln(out, "Length:", m.Length)
			fmt.Fprintln(out, "Info Hash:", m.InfoHash.Hex())
			fmt.Fprintln(out, "Piece Length:", m.PieceLength)
			fmt.Fprintln(out, "Piece Hashes:")
			for _, h := range m.PieceHashes {
				fmt.Fprintln(out, hex.EncodeToString(h[:]))
			}
			return nil
		},
	}
}
