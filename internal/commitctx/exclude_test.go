package commitctx

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLockFile(t *testing.T) {
	assert.True(t, isLockFile("go.sum"))
	assert.True(t, isLockFile("frontend/package-lock.json"))
	assert.True(t, isLockFile("deep/nested/Cargo.lock"))
	assert.False(t, isLockFile("main.go"))
	assert.False(t, isLockFile("locks/mutex.go"))
	assert.False(t, isLockFile("go.mod"))
}

func TestRenderExclusionReport_Reasons(t *testing.T) {
	report := renderExclusionReport([]Exclusion{
		{Path: "go.sum", Reason: ReasonLockFile},
		{Path: "img.png", Reason: ReasonBinary},
		{Path: "gen.go", Reason: ReasonLargeDiff, ChangedLines: 900},
		{Path: "misc.go", Reason: ReasonBudget, ChangedLines: 42},
	})
	assert.Equal(t, "Excluded files from diff context:\n"+
		"- go.sum (excluded lock file)\n"+
		"- img.png (binary file)\n"+
		"- gen.go (large diff (900 lines))\n"+
		"- misc.go (diff budget (42 lines))", report)
}

func TestRenderExclusionReport_CapsDisplay(t *testing.T) {
	var excluded []Exclusion
	for i := 0; i < 57; i++ {
		excluded = append(excluded, Exclusion{
			Path:   fmt.Sprintf("file%02d.bin", i),
			Reason: ReasonBinary,
		})
	}
	report := renderExclusionReport(excluded)
	assert.Contains(t, report, "file49.bin")
	assert.NotContains(t, report, "file50.bin")
	assert.True(t, strings.HasSuffix(report, "- ... and 7 more"))
}
