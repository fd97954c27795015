package engine

import (
	"regexp"
	"strings"
)

const enableHeader = "[ENABLE]"

var disableHeader = regexp.MustCompile(`(?i)\[DISABLE\]`)

// SplitSections divides a raw assembler script into its enable and disable
// bodies. A leading [ENABLE] header is consumed if present; the remainder is
// split on the first [DISABLE] header. Both headers are case-insensitive and
// both are optional: a script with no [DISABLE] header has an empty disable
// body.
func SplitSections(script string) (enable, disable string) {
	s := strings.TrimLeft(script, " \t\r\n")
	if len(s) >= len(enableHeader) && strings.EqualFold(s[:len(enableHeader)], enableHeader) {
		s = strings.TrimLeft(s[len(enableHeader):], " \t\r\n")
	}

	loc := disableHeader.FindStringIndex(s)
	if loc == nil {
		return strings.TrimSpace(s), ""
	}
	return strings.TrimSpace(s[:loc[0]]), strings.TrimSpace(s[loc[1]:])
}
