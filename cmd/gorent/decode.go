package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stupidafcoder/gorent/bencode"
)

// newDecodeCmd implements spec.md §6's `decode` row: bencode-decode a
// single argument and print a JSON-ish dump, grounded on the codecrafters
// reference client's `decode` subcommand in the retrieval pack (see
// SPEC_FULL.md §5).
func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <bencoded-value>",
		Short: "Decode a bencoded value and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := bencode.Decode([]byte(args[0]))
			if err != nil {
				return err
			}
			out, err := json.Marshal(v)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
