// Package engine merges two versions of a cheat-table assembler script into a
// single script that selects the correct per-version addresses at runtime.
//
// The two inputs are assumed to be the same logical patch built against two
// different binary layouts: only the process-relative addresses differ, never
// the surrounding code. The engine cuts those addresses out of both scripts,
// checks that the remaining structure agrees, and emits one script whose
// enable/disable sections look up their addresses in a version-keyed Lua
// table.
package engine

import "regexp"

// tokenPattern recognizes process-relative address references such as
//
//	Game.exe+1A2B
//	"Some Game.exe"+FF00:
//	'Some Game.exe'+0C
//
// The module name may be quoted (allowing spaces) with either quote
// character, quotes must match, the hex offset is a maximal run, and an
// optional trailing colon is part of the match. Shared by the merge engine
// and the structural verifier so the two never disagree on what an address
// looks like.
var tokenPattern = regexp.MustCompile(
	`(?i)("[^"]+\.exe"|'[^']+\.exe'|[^"'+\s\[\](){},]+\.exe)\+([0-9A-Fa-f]+)(:?)`,
)

// Token is one matched address reference.
type Token struct {
	Raw     string // full matched substring, quotes/plus/colon included
	Process string // module name with quotes stripped, ".exe" kept
	Offset  string // hex offset, uppercased
}

// Template is the literal text of a script section with every token cut out.
// It is stored as the list of literal segments between matches; a template
// with n tokens has n+1 segments. Interleaving the segments with the raw
// token strings reproduces the original text exactly.
type Template struct {
	segments []string
}

// Count returns the number of substitution points in the template. A
// zero-value template has none.
func (t Template) Count() int {
	if len(t.segments) == 0 {
		return 0
	}
	return len(t.segments) - 1
}

// Literal returns the template text with the placeholder marker at each
// substitution point. With zero tokens this is the original text verbatim.
func (t Template) Literal() string {
	return t.join("%s")
}

// Mask returns the template text with marker at each substitution point.
// Unlike Literal this keeps literal text and substitution points apart even
// when the source text happens to contain the marker.
func (t Template) Mask(marker string) string {
	return t.join(marker)
}

// Render re-inserts raw token strings at the substitution points. Used to
// reconstruct the original section text from an extraction.
func (t Template) Render(tokens []Token) string {
	if len(t.segments) == 0 {
		return ""
	}
	out := t.segments[0]
	for i, tok := range tokens {
		if i+1 >= len(t.segments) {
			break
		}
		out += tok.Raw + t.segments[i+1]
	}
	return out
}

func (t Template) join(sep string) string {
	if len(t.segments) == 0 {
		return ""
	}
	out := t.segments[0]
	for _, seg := range t.segments[1:] {
		out += sep + seg
	}
	return out
}

// Extract scans text left to right and cuts out every address token. Matches
// are non-overlapping and leftmost-first; the literal text before, between
// and after matches is preserved byte-for-byte. Zero matches yields a
// single-segment template equal to text and a nil token slice.
func Extract(text string) (Template, []Token) {
	locs := tokenPattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return Template{segments: []string{text}}, nil
	}

	segments := make([]string, 0, len(locs)+1)
	tokens := make([]Token, 0, len(locs))
	last := 0
	for _, loc := range locs {
		segments = append(segments, text[last:loc[0]])
		tokens = append(tokens, newToken(text, loc))
		last = loc[1]
	}
	segments = append(segments, text[last:])
	return Template{segments: segments}, tokens
}

func newToken(text string, loc []int) Token {
	raw := text[loc[0]:loc[1]]
	process := text[loc[2]:loc[3]]
	if len(process) >= 2 && (process[0] == '"' || process[0] == '\'') {
		process = process[1 : len(process)-1]
	}
	return Token{
		Raw:     raw,
		Process: process,
		Offset:  upperHex(text[loc[4]:loc[5]]),
	}
}

// upperHex uppercases ASCII hex digits without the unicode machinery.
func upperHex(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'f' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}
