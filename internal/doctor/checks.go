// Package doctor runs environment diagnostics for ktop: whether git is
// usable, what configuration would be loaded, whether every configured
// repository path resolves, and whether the output is a usable terminal.
package doctor

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/rileyhilliard/ktop/internal/util"
)

// CheckStatus represents the result status of a check.
type CheckStatus int

const (
	StatusPass CheckStatus = iota
	StatusWarn
	StatusFail
)

// String returns a human-readable status string.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status by name so JSON reports read "warn"
// rather than 1.
func (s CheckStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Categories in report order.
const (
	CategoryConfig   = "CONFIG"
	CategoryGit      = "GIT"
	CategoryRepos    = "REPOSITORIES"
	CategorySystem   = "SYSTEM"
	CategoryTerminal = "TERMINAL"
)

// CategoryOrder is the order categories appear in a report.
var CategoryOrder = []string{CategoryConfig, CategoryGit, CategoryRepos, CategorySystem, CategoryTerminal}

// CheckResult contains the outcome of running a check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Fixable    bool        `json:"fixable,omitempty"` // Whether --fix can address this
}

// Check defines the interface for diagnostic checks.
type Check interface {
	// Name returns the check's identifier.
	Name() string

	// Category returns the check's category (one of the Category constants).
	Category() string

	// Run executes the check and returns the result.
	Run(ctx context.Context) CheckResult

	// Fix attempts to repair what Run reported. Checks that can't fix
	// anything return nil.
	Fix() error
}

// RunAll executes every check concurrently, a few at a time, and returns
// the results in the same order as checks.
func RunAll(ctx context.Context, checks []Check) []CheckResult {
	results := make([]CheckResult, len(checks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, check := range checks {
		g.Go(func() error {
			results[i] = check.Run(ctx)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Fix runs Fix on every check whose result is fixable and not passing,
// then re-runs it. It returns the updated results and how many fixes
// succeeded.
func Fix(ctx context.Context, checks []Check, results []CheckResult) ([]CheckResult, int) {
	fixed := 0
	for i, result := range results {
		if !result.Fixable || result.Status == StatusPass {
			continue
		}
		if err := checks[i].Fix(); err != nil {
			results[i].Suggestion = fmt.Sprintf("Automatic fix failed: %v", err)
			continue
		}
		results[i] = checks[i].Run(ctx)
		if results[i].Status == StatusPass {
			fixed++
		}
	}
	return results, fixed
}

// Section is one category's results, in check order.
type Section struct {
	Name    string        `json:"name"`
	Results []CheckResult `json:"results"`
}

// Group splits results into sections following CategoryOrder. Categories
// not in CategoryOrder follow in first-seen order.
func Group(checks []Check, results []CheckResult) []Section {
	byCategory := make(map[string][]CheckResult)
	var extra []string
	for i, check := range checks {
		cat := check.Category()
		if _, seen := byCategory[cat]; !seen && !knownCategory(cat) {
			extra = append(extra, cat)
		}
		byCategory[cat] = append(byCategory[cat], results[i])
	}

	var sections []Section
	for _, cat := range append(append([]string{}, CategoryOrder...), extra...) {
		if rs, ok := byCategory[cat]; ok {
			sections = append(sections, Section{Name: cat, Results: rs})
		}
	}
	return sections
}

func knownCategory(cat string) bool {
	for _, c := range CategoryOrder {
		if c == cat {
			return true
		}
	}
	return false
}

// CountByStatus counts results by status.
func CountByStatus(results []CheckResult) map[CheckStatus]int {
	counts := make(map[CheckStatus]int)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}

// HasFailures returns true if any result has a fail status.
func HasFailures(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

// HasIssues returns true if any result has a fail or warn status.
func HasIssues(results []CheckResult) bool {
	for _, r := range results {
		if r.Status != StatusPass {
			return true
		}
	}
	return false
}

// FixableCount returns the number of issues that can be fixed automatically.
func FixableCount(results []CheckResult) int {
	count := 0
	for _, r := range results {
		if r.Fixable && r.Status != StatusPass {
			count++
		}
	}
	return count
}

// Summary returns a summary string of the check results.
func Summary(results []CheckResult) string {
	counts := CountByStatus(results)
	total := counts[StatusWarn] + counts[StatusFail]
	if total == 0 {
		return "Everything looks good"
	}
	return util.CountNoun(total, "issue", "issues") + " found"
}
