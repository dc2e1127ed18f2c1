package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Amr-9/luckyhunter/internal/recorder"
	"github.com/Amr-9/luckyhunter/internal/ui"
)

func newListCmd() *cobra.Command {
	var showSecrets bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List wallets saved in the output file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := recorder.ReadFile(cfg.OutputFile)
			if err != nil {
				return fmt.Errorf("read %s: %w", cfg.OutputFile, err)
			}
			printEntries(cmd.OutOrStdout(), entries, showSecrets)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print private keys and mnemonics")
	return cmd
}

func printEntries(w io.Writer, entries []recorder.Entry, showSecrets bool) {
	for i, e := range entries {
		fmt.Fprintf(w, "%3d. %s  %s\n", i+1, e.Address, e.Details)
		if showSecrets {
			fmt.Fprintf(w, "     Private Key: %s\n", e.PrivateKey)
			fmt.Fprintf(w, "     Mnemonic:    %s\n", e.Mnemonic)
		} else {
			fmt.Fprintf(w, "     Private Key: %s\n", mask(e.PrivateKey))
		}
	}
	fmt.Fprintf(w, "%s wallet(s)\n", ui.FormatNumber(uint64(len(entries))))
}

// mask keeps the first and last four characters.
func mask(s string) string {
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}
