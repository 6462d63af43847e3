package commitctx

import (
	"fmt"
	"path"
	"strings"
)

// ExclusionReason says why a changed file was left out of the diff text.
type ExclusionReason int

const (
	// ReasonLockFile marks generated dependency lock files.
	ReasonLockFile ExclusionReason = iota
	// ReasonBinary marks changes with no numeric line counts.
	ReasonBinary
	// ReasonLargeDiff marks files dropped by the oversized-file pre-filter.
	ReasonLargeDiff
	// ReasonBudget marks files whose patch did not fit the running budget.
	ReasonBudget
)

// Exclusion records one file omitted from the diff text, in discovery order.
type Exclusion struct {
	Path         string
	Reason       ExclusionReason
	ChangedLines int
}

// maxExcludedList caps how many exclusions the report lists individually.
const maxExcludedList = 50

// lockFileBasenames are dependency lock files whose diffs are machine
// -generated noise. Matched against the basename only.
var lockFileBasenames = map[string]struct{}{
	"bun.lockb":            {},
	"Cargo.lock":           {},
	"composer.lock":        {},
	"Gemfile.lock":         {},
	"go.sum":               {},
	"go.work.sum":          {},
	"mix.lock":             {},
	"npm-shrinkwrap.json":  {},
	"package-lock.json":    {},
	"Package.resolved":     {},
	"Pipfile.lock":         {},
	"pnpm-lock.yaml":       {},
	"pnpm-lock.yml":        {},
	"poetry.lock":          {},
	"pdm.lock":             {},
	"pubspec.lock":         {},
	"uv.lock":              {},
	"yarn.lock":            {},
}

func isLockFile(p string) bool {
	_, ok := lockFileBasenames[path.Base(p)]
	return ok
}

func (e Exclusion) describe() string {
	switch e.Reason {
	case ReasonLockFile:
		return "excluded lock file"
	case ReasonBinary:
		return "binary file"
	case ReasonLargeDiff:
		return fmt.Sprintf("large diff (%d lines)", e.ChangedLines)
	case ReasonBudget:
		return fmt.Sprintf("diff budget (%d lines)", e.ChangedLines)
	default:
		return "excluded"
	}
}

// renderExclusionReport formats the omitted-file appendix so the downstream
// consumer knows what the diff text does not show. First maxExcludedList
// entries are listed; the rest collapse into a count.
func renderExclusionReport(excluded []Exclusion) string {
	var b strings.Builder
	b.WriteString("Excluded files from diff context:")
	shown := excluded
	if len(shown) > maxExcludedList {
		shown = shown[:maxExcludedList]
	}
	for _, e := range shown {
		b.WriteString(fmt.Sprintf("\n- %s (%s)", e.Path, e.describe()))
	}
	if remaining := len(excluded) - maxExcludedList; remaining > 0 {
		b.WriteString(fmt.Sprintf("\n- ... and %d more", remaining))
	}
	return b.String()
}
