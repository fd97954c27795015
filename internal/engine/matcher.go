package engine

import (
	"errors"

	"go.uber.org/zap"

	"ctmerge/internal/cheattable"
)

// Summary tallies the outcome of one table-pair merge. Merged+Skipped+Errored
// always equals the number of script entries in the base document.
type Summary struct {
	Merged  int
	Skipped int
	Errored int
}

// MergeTables merges every script entry present in both documents, writing
// the merged text back into doc1 in place. Entries missing from doc2 are
// skipped; entries whose merge fails are counted and left untouched.
// Per-entry failures never abort the batch.
func MergeTables(doc1, doc2 *cheattable.Document, log *zap.Logger) Summary {
	if log == nil {
		log = zap.NewNop()
	}

	index2 := cheattable.ScriptIndex(doc2)

	var summary Summary
	for _, entry := range cheattable.ScriptEntries(doc1) {
		script2, ok := index2[entry.ID]
		if !ok {
			log.Warn("entry not present in second table, skipping",
				zap.String("id", entry.ID))
			summary.Skipped++
			continue
		}

		merged, err := MergeScripts(entry.Script.Text, script2.Text)
		if err != nil {
			var mismatch *TokenCountMismatchError
			if errors.As(err, &mismatch) {
				log.Error("entry not structurally comparable",
					zap.String("id", entry.ID),
					zap.String("section", mismatch.Section),
					zap.Int("count_v1", mismatch.V1),
					zap.Int("count_v2", mismatch.V2))
			} else {
				log.Error("merge failed",
					zap.String("id", entry.ID),
					zap.Error(err))
			}
			summary.Errored++
			continue
		}

		entry.Script.Text = merged
		log.Debug("merged entry", zap.String("id", entry.ID))
		summary.Merged++
	}

	return summary
}
