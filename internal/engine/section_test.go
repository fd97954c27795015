package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSections(t *testing.T) {
	tests := []struct {
		name        string
		script      string
		wantEnable  string
		wantDisable string
	}{
		{
			name:        "both headers",
			script:      "[ENABLE]\nmov eax,1\n[DISABLE]\nmov eax,0\n",
			wantEnable:  "mov eax,1",
			wantDisable: "mov eax,0",
		},
		{
			name:        "no enable header",
			script:      "mov eax,1\n[DISABLE]\nmov eax,0",
			wantEnable:  "mov eax,1",
			wantDisable: "mov eax,0",
		},
		{
			name:        "no disable header",
			script:      "[ENABLE]\nmov eax,1\n",
			wantEnable:  "mov eax,1",
			wantDisable: "",
		},
		{
			name:        "headers are case insensitive",
			script:      "[enable]\nfoo\n[Disable]\nbar",
			wantEnable:  "foo",
			wantDisable: "bar",
		},
		{
			name:        "leading whitespace before header",
			script:      "\n\n  [ENABLE]\nfoo",
			wantEnable:  "foo",
			wantDisable: "",
		},
		{
			name:        "empty script",
			script:      "",
			wantEnable:  "",
			wantDisable: "",
		},
		{
			name:        "only disable",
			script:      "[DISABLE]\nbar",
			wantEnable:  "",
			wantDisable: "bar",
		},
		{
			name:        "splits on first disable only",
			script:      "a\n[DISABLE]\nb\n[DISABLE]\nc",
			wantEnable:  "a",
			wantDisable: "b\n[DISABLE]\nc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enable, disable := SplitSections(tt.script)
			assert.Equal(t, tt.wantEnable, enable)
			assert.Equal(t, tt.wantDisable, disable)
		})
	}
}
