package doctor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStatus_String(t *testing.T) {
	tests := []struct {
		status   CheckStatus
		expected string
	}{
		{StatusPass, "pass"},
		{StatusWarn, "warn"},
		{StatusFail, "fail"},
		{CheckStatus(99), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.status.String())
		})
	}
}

func TestCheckResult_JSON(t *testing.T) {
	data, err := json.Marshal(CheckResult{Name: "git_binary", Status: StatusWarn, Message: "m"})
	require.NoError(t, err)

	assert.JSONEq(t, `{"name":"git_binary","status":"warn","message":"m"}`, string(data))
}

// mockCheck is a test implementation of Check.
type mockCheck struct {
	name     string
	category string
	result   CheckResult
	afterFix *CheckResult
	fixErr   error
	fixCalls int
}

func (m *mockCheck) Name() string     { return m.name }
func (m *mockCheck) Category() string { return m.category }
func (m *mockCheck) Run(context.Context) CheckResult {
	if m.fixCalls > 0 && m.afterFix != nil {
		return *m.afterFix
	}
	return m.result
}
func (m *mockCheck) Fix() error {
	m.fixCalls++
	return m.fixErr
}

func TestRunAll_PreservesOrder(t *testing.T) {
	var checks []Check
	for i, status := range []CheckStatus{StatusPass, StatusWarn, StatusFail, StatusPass, StatusFail} {
		checks = append(checks, &mockCheck{
			name:     string(rune('a' + i)),
			category: CategoryConfig,
			result:   CheckResult{Name: string(rune('a' + i)), Status: status},
		})
	}

	results := RunAll(context.Background(), checks)

	require.Len(t, results, 5)
	for i, r := range results {
		assert.Equal(t, string(rune('a'+i)), r.Name)
	}
	assert.Equal(t, StatusFail, results[4].Status)
}

func TestFix(t *testing.T) {
	passed := CheckResult{Name: "fixable", Status: StatusPass}
	fixable := &mockCheck{
		name:     "fixable",
		result:   CheckResult{Name: "fixable", Status: StatusWarn, Fixable: true},
		afterFix: &passed,
	}
	broken := &mockCheck{
		name:   "broken",
		result: CheckResult{Name: "broken", Status: StatusFail, Fixable: true},
		fixErr: errors.New("read-only filesystem"),
	}
	manual := &mockCheck{
		name:   "manual",
		result: CheckResult{Name: "manual", Status: StatusFail},
	}
	checks := []Check{fixable, broken, manual}

	results, fixed := Fix(context.Background(), checks, RunAll(context.Background(), checks))

	assert.Equal(t, 1, fixed)
	assert.Equal(t, StatusPass, results[0].Status)
	assert.Equal(t, StatusFail, results[1].Status)
	assert.Contains(t, results[1].Suggestion, "read-only filesystem")
	assert.Equal(t, 0, manual.fixCalls)
}

func TestGroup(t *testing.T) {
	checks := []Check{
		&mockCheck{name: "t", category: CategoryTerminal},
		&mockCheck{name: "custom", category: "CUSTOM"},
		&mockCheck{name: "c1", category: CategoryConfig},
		&mockCheck{name: "r", category: CategoryRepos},
		&mockCheck{name: "c2", category: CategoryConfig},
	}
	results := []CheckResult{{Name: "t"}, {Name: "custom"}, {Name: "c1"}, {Name: "r"}, {Name: "c2"}}

	sections := Group(checks, results)

	var names []string
	for _, s := range sections {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{CategoryConfig, CategoryRepos, CategoryTerminal, "CUSTOM"}, names)
	assert.Equal(t, []CheckResult{{Name: "c1"}, {Name: "c2"}}, sections[0].Results)
}

func TestCounts(t *testing.T) {
	tests := []struct {
		name        string
		results     []CheckResult
		hasFailures bool
		hasIssues   bool
		fixable     int
		summary     string
	}{
		{
			name:    "all pass",
			results: []CheckResult{{Status: StatusPass}, {Status: StatusPass, Fixable: true}},
			summary: "Everything looks good",
		},
		{
			name:      "warn only",
			results:   []CheckResult{{Status: StatusPass}, {Status: StatusWarn, Fixable: true}},
			hasIssues: true,
			fixable:   1,
			summary:   "1 issue found",
		},
		{
			name:        "warn and fail",
			results:     []CheckResult{{Status: StatusWarn}, {Status: StatusFail}, {Status: StatusFail, Fixable: true}},
			hasFailures: true,
			hasIssues:   true,
			fixable:     1,
			summary:     "3 issues found",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.hasFailures, HasFailures(tc.results))
			assert.Equal(t, tc.hasIssues, HasIssues(tc.results))
			assert.Equal(t, tc.fixable, FixableCount(tc.results))
			assert.Equal(t, tc.summary, Summary(tc.results))
		})
	}
}

func TestCountByStatus(t *testing.T) {
	counts := CountByStatus([]CheckResult{
		{Status: StatusPass},
		{Status: StatusPass},
		{Status: StatusWarn},
		{Status: StatusFail},
	})

	assert.Equal(t, 2, counts[StatusPass])
	assert.Equal(t, 1, counts[StatusWarn])
	assert.Equal(t, 1, counts[StatusFail])
}
