package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	scriptV1 = `[ENABLE]
mov [Game.exe+1A2B],eax
mov [Game.exe+FF00],ebx
[DISABLE]
mov [Game.exe+1A2B],0
`
	scriptV2 = `[ENABLE]
mov [Game.exe+2B3C],eax
mov [Game.exe+EE00],ebx
[DISABLE]
mov [Game.exe+2B3C],0
`
)

func TestMergeScripts(t *testing.T) {
	merged, err := MergeScripts(scriptV1, scriptV2)
	require.NoError(t, err)

	// Two-phase shape with the Lua wrappers.
	assert.True(t, strings.HasPrefix(merged, "[ENABLE]\n{$lua}"))
	assert.Contains(t, merged, "[DISABLE]\n{$lua}")
	assert.Contains(t, merged, "if syntaxcheck then return end")

	// Version-keyed address rows for both sections.
	assert.Contains(t, merged, `dynamic1 = "Game.exe+1A2B"`)
	assert.Contains(t, merged, `dynamic2 = "Game.exe+FF00"`)
	assert.Contains(t, merged, `dynamic1 = "Game.exe+2B3C"`)
	assert.Contains(t, merged, `dynamic2 = "Game.exe+EE00"`)

	// Runtime version selection with a guard on the unknown case.
	assert.Contains(t, merged, "local addrE = config_enable[version]")
	assert.Contains(t, merged, "local addrD = config_disable[version]")
	assert.Contains(t, merged, `if not addrE then error(`)
	assert.Contains(t, merged, `if not addrD then error(`)

	// Assembly failure is caught and reported, and the enable phase hands
	// its allocation info to the disable phase.
	assert.Contains(t, merged, `error("Assembly failed: " .. tostring(info))`)
	assert.Contains(t, merged, "disableInfo = { info = info }")
	assert.Contains(t, merged, "autoAssemble(disableScript, disableInfo.info)")
	assert.Contains(t, merged, "disableInfo = nil")
}

func TestMergeScriptsUsesFirstVersionTemplate(t *testing.T) {
	merged, err := MergeScripts(scriptV1, scriptV2)
	require.NoError(t, err)

	// The structural text comes from version 1; version 2 contributes only
	// its address row.
	assert.Contains(t, merged, "mov [%s],eax")
	assert.NotContains(t, merged, "Game.exe+2B3C],eax")
}

func TestMergeScriptsEnableMismatch(t *testing.T) {
	v2 := `[ENABLE]
mov [Game.exe+2B3C],eax
mov [Game.exe+EE00],ebx
mov [Game.exe+AA00],ecx
[DISABLE]
mov [Game.exe+2B3C],0
`
	_, err := MergeScripts(scriptV1, v2)
	require.Error(t, err)

	var mismatch *TokenCountMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, SectionEnable, mismatch.Section)
	assert.Equal(t, 2, mismatch.V1)
	assert.Equal(t, 3, mismatch.V2)
}

func TestMergeScriptsDisableMismatchNotMaskedByEnable(t *testing.T) {
	// Enable sections agree; only the disable sections diverge. The
	// diagnostic must name the disable section.
	v2 := `[ENABLE]
mov [Game.exe+2B3C],eax
mov [Game.exe+EE00],ebx
[DISABLE]
mov [Game.exe+2B3C],0
mov [Game.exe+EE00],0
`
	_, err := MergeScripts(scriptV1, v2)
	require.Error(t, err)

	var mismatch *TokenCountMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, SectionDisable, mismatch.Section)
	assert.Equal(t, 1, mismatch.V1)
	assert.Equal(t, 2, mismatch.V2)
}

func TestMergeScriptsNoDisableSection(t *testing.T) {
	v1 := "[ENABLE]\nmov [Game.exe+1A],eax\n"
	v2 := "[ENABLE]\nmov [Game.exe+2A],eax\n"

	merged, err := MergeScripts(v1, v2)
	require.NoError(t, err)

	// Empty disable body: no assemble call in the disable phase, but the
	// hand-off state is still cleared.
	assert.Contains(t, merged, "disableInfo = nil -- No disable script")
	assert.NotContains(t, merged, "autoAssemble(disableScript, disableInfo.info)")
}

func TestMergeScriptsNoTokensUsesFastPath(t *testing.T) {
	v1 := "[ENABLE]\nmov eax,1\n[DISABLE]\nmov eax,0\n"
	v2 := "[ENABLE]\nmov eax,1\n[DISABLE]\nmov eax,0\n"

	merged, err := MergeScripts(v1, v2)
	require.NoError(t, err)

	// Literal binding for both sections, no runtime substitution at all.
	assert.Contains(t, merged, "local enableScript = [==[\nmov eax,1\n]==]")
	assert.Contains(t, merged, "local disableScript = [==[\nmov eax,0\n]==]")
	assert.NotContains(t, merged, "string.format")
}
