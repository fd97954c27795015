package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ctmerge/internal/discovery"
	"ctmerge/internal/structcheck"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [folder]",
	Short: "Check two cheat tables for structural parity",
	Long: `Compares the two .ct files in the folder line by line: same address
positions and counts, identical text outside the addresses, offsets that
actually moved between builds. Run this before merging to catch tables that
were not built from the same patch.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	first, second, err := discovery.FindTablePair(args[0])
	if err != nil {
		return err
	}
	logger.Info("verifying tables",
		zap.String("first", filepath.Base(first)),
		zap.String("second", filepath.Base(second)))

	aliases := make([]structcheck.Alias, 0, len(cfg.Verify.Aliases))
	for _, a := range cfg.Verify.Aliases {
		alias, err := structcheck.NewAlias(a.Pattern, a.Canonical)
		if err != nil {
			return err
		}
		aliases = append(aliases, alias)
	}

	findings, err := structcheck.CompareFiles(first, second, aliases)
	if err != nil {
		return err
	}

	if len(findings) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Verification passed. All checks completed successfully.")
		return nil
	}
	for _, finding := range findings {
		fmt.Fprintln(cmd.OutOrStdout(), finding)
	}
	return fmt.Errorf("verification failed with %d finding(s)", len(findings))
}
