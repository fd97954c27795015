package engine

import "fmt"

// MergeScripts combines two versions of the same assembler script into one
// script that picks its addresses from a version-keyed table at runtime.
//
// Both inputs are split into enable/disable bodies and tokenized. The token
// counts must agree per section (checked for the enable pair and the disable
// pair independently, so a disable mismatch is never masked by a matching
// enable section). Version 1's templates are the structural basis of the
// output: once the counts agree the templates are identical up to the token
// substrings, so there is exactly one shape to emit.
//
// The emitted script guards its own runtime failure modes: an unknown
// version selector and a failed assembly both raise a Lua error with a
// diagnostic, and the disable phase always clears the saved allocation state
// so repeated enable/disable cycles never see stale data.
func MergeScripts(v1, v2 string) (string, error) {
	enable1, disable1 := SplitSections(v1)
	enable2, disable2 := SplitSections(v2)

	enableTmpl, enableTokens1 := Extract(enable1)
	_, enableTokens2 := Extract(enable2)
	disableTmpl, disableTokens1 := Extract(disable1)
	_, disableTokens2 := Extract(disable2)

	if len(enableTokens1) != len(enableTokens2) {
		return "", &TokenCountMismatchError{Section: SectionEnable, V1: len(enableTokens1), V2: len(enableTokens2)}
	}
	if len(disableTokens1) != len(disableTokens2) {
		return "", &TokenCountMismatchError{Section: SectionDisable, V1: len(disableTokens1), V2: len(disableTokens2)}
	}

	enableConfig, _, err := BuildConfigTable("config_enable", enableTokens1, enableTokens2)
	if err != nil {
		return "", err
	}
	disableConfig, disableCount, err := BuildConfigTable("config_disable", disableTokens1, disableTokens2)
	if err != nil {
		return "", err
	}

	enablePart := BuildScriptPart(enableTmpl, "enableScript", "addrE")
	disablePart := BuildScriptPart(disableTmpl, "disableScript", "addrD")

	disableLogic := "disableInfo = nil -- No disable script"
	if disableTmpl.Literal() != "" || disableCount > 0 {
		disableLogic = `if disableInfo and disableInfo.info then
    autoAssemble(disableScript, disableInfo.info)
else
    autoAssemble(disableScript)
end
disableInfo = nil`
	}

	merged := fmt.Sprintf(`[ENABLE]
{$lua}
if syntaxcheck then return end

%s

local addrE = config_enable[version]
if not addrE then error("Could not determine addresses for the current game version (" .. tostring(version) .. ")") end

%s

local success, info = autoAssemble(enableScript)
if not success then
    error("Assembly failed: " .. tostring(info))
end

-- Save disable info for use in the disable section
disableInfo = { info = info }
{$asm}

[DISABLE]
{$lua}
if syntaxcheck then return end

%s

local addrD = config_disable[version]
if not addrD then error("Could not determine disable addresses for the current game version (" .. tostring(version) .. ")") end

%s

%s
{$asm}
`, enableConfig, enablePart, disableConfig, disablePart, disableLogic)

	return merged, nil
}
