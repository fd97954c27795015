// Package discovery locates the pair of cheat-table files a merge or
// verification run operates on.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CountError reports a folder that does not contain exactly two table files.
type CountError struct {
	Dir   string
	Found []string
}

func (e *CountError) Error() string {
	if len(e.Found) == 0 {
		return fmt.Sprintf("expected exactly 2 .ct files in %s, found none", e.Dir)
	}
	names := make([]string, len(e.Found))
	for i, f := range e.Found {
		names[i] = filepath.Base(f)
	}
	return fmt.Sprintf("expected exactly 2 .ct files in %s, found %d: %s",
		e.Dir, len(e.Found), strings.Join(names, ", "))
}

// FindTablePair returns the two .ct files in dir, sorted by name. The first
// file is the merge base (version 1). The extension check is
// case-insensitive; subdirectories are not searched. Any count other than
// two is a CountError.
func FindTablePair(dir string) (first, second string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", "", fmt.Errorf("scan %s: %w", dir, err)
	}

	var found []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".ct") {
			found = append(found, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(found)

	if len(found) != 2 {
		return "", "", &CountError{Dir: dir, Found: found}
	}
	return found[0], found[1], nil
}
