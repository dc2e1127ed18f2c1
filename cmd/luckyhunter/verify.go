package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Amr-9/luckyhunter/internal/recorder"
	"github.com/Amr-9/luckyhunter/pkg/generator/ethereum"
)

// ErrVerifyFailed is returned when a saved wallet does not re-derive.
var ErrVerifyFailed = errors.New("verification failed")

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Re-derive every saved mnemonic and check it matches its key and address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := recorder.ReadFile(cfg.OutputFile)
			if err != nil {
				return fmt.Errorf("read %s: %w", cfg.OutputFile, err)
			}
			return verifyEntries(cmd.OutOrStdout(), entries)
		},
	}
}

// verifyEntries checks each entry and reports a line per wallet.
func verifyEntries(w io.Writer, entries []recorder.Entry) error {
	failed := 0
	for i, e := range entries {
		if err := verifyEntry(e); err != nil {
			failed++
			fmt.Fprintf(w, "  ❌ %d. %s: %v\n", i+1, e.Address, err)
			continue
		}
		fmt.Fprintf(w, "  ✅ %d. %s\n", i+1, e.Address)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d wallet(s)", ErrVerifyFailed, failed, len(entries))
	}
	fmt.Fprintf(w, "All %d wallet(s) verified\n", len(entries))
	return nil
}

func verifyEntry(e recorder.Entry) error {
	id, err := ethereum.FromMnemonic(e.Mnemonic)
	if err != nil {
		return err
	}
	if id.Address != e.Address {
		return fmt.Errorf("mnemonic derives %s", id.Address)
	}
	if !strings.EqualFold(id.PrivateKey, e.PrivateKey) {
		return errors.New("private key does not match mnemonic")
	}
	return nil
}
