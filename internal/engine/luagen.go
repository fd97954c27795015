package engine

import (
	"fmt"
	"strings"
)

// Section names used in mismatch diagnostics.
const (
	SectionEnable  = "ENABLE"
	SectionDisable = "DISABLE"
)

// TokenCountMismatchError reports that the two script versions disagree on
// the number of address tokens within one section. This is the consistency
// check that proves the two versions are structurally comparable; the merge
// for that entry is abandoned when it fails.
type TokenCountMismatchError struct {
	Section string
	V1      int
	V2      int
}

func (e *TokenCountMismatchError) Error() string {
	return fmt.Sprintf("dynamic value count mismatch in %s section: %d vs %d", e.Section, e.V1, e.V2)
}

// BuildConfigTable emits a Lua table named name mapping version 1 and 2 to
// their address rows (dynamic1..dynamicN keyed by extraction order). Returns
// the table text and the row width. Fails if and only if the two token lists
// differ in length.
func BuildConfigTable(name string, v1, v2 []Token) (string, int, error) {
	if len(v1) != len(v2) {
		return "", 0, &TokenCountMismatchError{Section: name, V1: len(v1), V2: len(v2)}
	}

	table := fmt.Sprintf("local %s = {\n    [1] = %s,\n    [2] = %s\n}",
		name, buildVersionRow(v1), buildVersionRow(v2))
	return table, len(v1), nil
}

func buildVersionRow(tokens []Token) string {
	if len(tokens) == 0 {
		return "{\n\n    }"
	}
	lines := make([]string, len(tokens))
	for i, tok := range tokens {
		lines[i] = fmt.Sprintf("        dynamic%d = \"%s\"", i+1, luaEscape(tok.Raw))
	}
	return "{\n" + strings.Join(lines, ",\n") + "\n    }"
}

// luaEscape makes a raw token safe inside a double-quoted Lua string
// literal. Backslashes first, then quotes.
func luaEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// BuildScriptPart emits the Lua binding for one section's script text.
//
// With no tokens the section is bound as a raw long-string literal, exactly
// the original text. With tokens, the literal percent signs of the template
// are doubled first so that string.format sees exactly Count intentional
// placeholders, then the addrPrefix.dynamicN values are substituted in
// extraction order at evaluation time.
func BuildScriptPart(tmpl Template, scriptVar, addrPrefix string) string {
	n := tmpl.Count()
	if n == 0 {
		return fmt.Sprintf("local %s = [==[\n%s\n]==]", scriptVar, tmpl.Literal())
	}

	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("%s.dynamic%d", addrPrefix, i+1)
	}
	return fmt.Sprintf("local %s = string.format([==[\n%s\n]==], %s)",
		scriptVar, tmpl.formatText(), strings.Join(keys, ", "))
}

// formatText returns the template as a string.format pattern: every literal
// percent doubled, a %s at each substitution point. Working from the segment
// list means a literal "%s" in the source can never be mistaken for a
// substitution point.
func (t Template) formatText() string {
	escaped := make([]string, len(t.segments))
	for i, seg := range t.segments {
		escaped[i] = strings.ReplaceAll(seg, "%", "%%")
	}
	return strings.Join(escaped, "%s")
}
