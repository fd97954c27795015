package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ctmerge/internal/cheattable"
	"ctmerge/internal/discovery"
	"ctmerge/internal/engine"
	"ctmerge/internal/watch"
)

var (
	outputDir string
	watchMode bool
)

var mergeCmd = &cobra.Command{
	Use:   "merge [folder]",
	Short: "Merge the two cheat tables found in a folder",
	Long: `Locates exactly two .ct files in the folder, merges every cheat entry
present in both, and writes <base>_Merged.CT into the output directory
(default: a Merged/ directory inside the folder).

With --watch the merge re-runs whenever either table changes.`,
	Args: cobra.ExactArgs(1),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVarP(&outputDir, "out", "o", "", "Output directory (overrides config)")
	mergeCmd.Flags().BoolVar(&watchMode, "watch", false, "Re-run the merge when a table file changes")
}

func runMerge(cmd *cobra.Command, args []string) error {
	folder := args[0]

	if err := mergeOnce(folder); err != nil {
		return err
	}
	if !watchMode {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	debounce := time.Duration(cfg.Watch.DebounceMS) * time.Millisecond
	watcher, err := watch.New(folder, debounce, logger, func() {
		if err := mergeOnce(folder); err != nil {
			logger.Error("merge run failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	watcher.Stop()
	return nil
}

// mergeOnce runs a full discovery/parse/merge/write cycle. Document-level
// failures are returned; per-entry failures only show up in the tally.
func mergeOnce(folder string) error {
	first, second, err := discovery.FindTablePair(folder)
	if err != nil {
		return err
	}
	logger.Info("merging tables",
		zap.String("base", filepath.Base(first)),
		zap.String("second", filepath.Base(second)))

	doc1, err := cheattable.ParseFile(first)
	if err != nil {
		return err
	}
	doc2, err := cheattable.ParseFile(second)
	if err != nil {
		return err
	}

	summary := engine.MergeTables(doc1, doc2, logger)
	logger.Info("merge summary",
		zap.Int("merged", summary.Merged),
		zap.Int("skipped", summary.Skipped),
		zap.Int("errored", summary.Errored))

	if summary.Merged == 0 && summary.Errored == 0 {
		logger.Warn("no mergeable entries found, output not written")
		return nil
	}

	outPath, err := resolveOutputPath(folder, first)
	if err != nil {
		return err
	}
	if err := cheattable.WriteFile(doc1, outPath, cfg.Output.Pretty); err != nil {
		return err
	}
	logger.Info("merged table written", zap.String("path", outPath))
	return nil
}

func resolveOutputPath(folder, base string) (string, error) {
	dir := outputDir
	if dir == "" {
		dir = cfg.Output.Dir
	}
	if dir == "" {
		dir = filepath.Join(folder, "Merged")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	name := filepath.Base(base)
	name = strings.TrimSuffix(name, filepath.Ext(name)) + "_Merged.CT"
	return filepath.Join(dir, name), nil
}
