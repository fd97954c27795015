// Package structcheck cross-checks two raw cheat-table files line by line
// for structural parity: same token positions and counts, same surrounding
// text, offsets that actually moved between versions. It reuses the merge
// engine's token grammar so the two recognizers can never drift apart.
package structcheck

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"ctmerge/internal/engine"
)

// Alias rewrites process-name variants to one canonical name before
// comparison, e.g. collapsing the DX9 and DX10 builds of the same game.
type Alias struct {
	Pattern   *regexp.Regexp
	Canonical string
}

// NewAlias compiles an alias rule. The pattern is matched case-insensitively
// against the full process name.
func NewAlias(pattern, canonical string) (Alias, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return Alias{}, fmt.Errorf("alias pattern %q: %w", pattern, err)
	}
	return Alias{Pattern: re, Canonical: canonical}, nil
}

// CompareFiles reads both files and reports structural differences as a flat
// list of diagnostics. An empty list means the files are structurally
// parallel. The error return covers file I/O only.
func CompareFiles(path1, path2 string, aliases []Alias) ([]string, error) {
	data1, err := os.ReadFile(path1)
	if err != nil {
		return nil, err
	}
	data2, err := os.ReadFile(path2)
	if err != nil {
		return nil, err
	}
	lines1 := strings.Split(strings.ReplaceAll(string(data1), "\r\n", "\n"), "\n")
	lines2 := strings.Split(strings.ReplaceAll(string(data2), "\r\n", "\n"), "\n")
	return CompareLines(lines1, lines2, aliases), nil
}

// CompareLines checks the two line sequences pairwise. Lines beyond the
// shorter file are not compared; the length difference itself is reported.
func CompareLines(lines1, lines2 []string, aliases []Alias) []string {
	var findings []string

	if len(lines1) != len(lines2) {
		findings = append(findings,
			fmt.Sprintf("files have different number of lines (%d vs %d)", len(lines1), len(lines2)))
	}

	n := len(lines1)
	if len(lines2) < n {
		n = len(lines2)
	}

	for i := 0; i < n; i++ {
		line1, line2 := lines1[i], lines2[i]
		lineNum := i + 1

		// Data blocks are opaque bytes that legitimately differ between
		// builds; only their mutual presence is checked.
		db1 := isDataLine(line1)
		db2 := isDataLine(line2)
		if db1 && db2 {
			continue
		}
		if db1 || db2 {
			findings = append(findings,
				fmt.Sprintf("line %d: one line starts with 'db' and the other does not", lineNum))
			continue
		}

		tmpl1, tokens1 := engine.Extract(line1)
		tmpl2, tokens2 := engine.Extract(line2)

		if len(tokens1) != len(tokens2) {
			findings = append(findings,
				fmt.Sprintf("line %d: different number of addresses (%d vs %d)", lineNum, len(tokens1), len(tokens2)))
		}

		if masked(tmpl1) != masked(tmpl2) {
			findings = append(findings,
				fmt.Sprintf("line %d: lines differ outside of addresses", lineNum),
				fmt.Sprintf("  line 1: %s", masked(tmpl1)),
				fmt.Sprintf("  line 2: %s", masked(tmpl2)))
		}

		pairs := len(tokens1)
		if len(tokens2) < pairs {
			pairs = len(tokens2)
		}
		for j := 0; j < pairs; j++ {
			findings = append(findings, compareTokens(lineNum, line1, line2, tokens1[j], tokens2[j], aliases)...)
		}
	}

	return findings
}

func compareTokens(lineNum int, line1, line2 string, t1, t2 engine.Token, aliases []Alias) []string {
	var findings []string

	proc1 := normalizeProcess(t1.Process, aliases)
	proc2 := normalizeProcess(t2.Process, aliases)
	if !strings.EqualFold(proc1, proc2) {
		findings = append(findings,
			fmt.Sprintf("line %d: process names differ %q vs %q", lineNum, proc1, proc2))
	}

	if t1.Offset == t2.Offset {
		findings = append(findings,
			fmt.Sprintf("line %d: addresses are identical %q", lineNum, t1.Offset))
	}

	// The low hex digit encodes the position within an instruction group and
	// is expected to survive a rebuild even when the rest of the offset moves.
	if t1.Offset[len(t1.Offset)-1] != t2.Offset[len(t2.Offset)-1] {
		findings = append(findings,
			fmt.Sprintf("line %d: last hex character differs %q vs %q", lineNum, t1.Offset, t2.Offset),
			fmt.Sprintf("  line 1: %s", line1),
			fmt.Sprintf("  line 2: %s", line2))
	}

	return findings
}

func normalizeProcess(name string, aliases []Alias) string {
	for _, alias := range aliases {
		if alias.Pattern.MatchString(name) {
			return alias.Canonical
		}
	}
	return name
}

func masked(tmpl engine.Template) string {
	return tmpl.Mask("{ADDR}")
}

func isDataLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return len(trimmed) >= 2 && strings.EqualFold(trimmed[:2], "db")
}
