package doctor

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"regexp"
	"time"

	kexec "github.com/rileyhilliard/ktop/internal/exec"
	"github.com/rileyhilliard/ktop/internal/gitstatus"
	"github.com/rileyhilliard/ktop/internal/snapshot"
)

// RepoProber is the part of gitstatus.Prober the checks use.
type RepoProber interface {
	Available() (string, error)
	Status(ctx context.Context, path string) (snapshot.RepoStatus, error)
}

// probeTimeout bounds a single repository probe.
const probeTimeout = 10 * time.Second

// GitBinaryCheck verifies git is installed and reports its version.
type GitBinaryCheck struct {
	Prober RepoProber
	// Required is set when repositories are configured; a missing git is
	// then a failure rather than a warning.
	Required bool
}

func (c *GitBinaryCheck) Name() string     { return "git_binary" }
func (c *GitBinaryCheck) Category() string { return CategoryGit }

func (c *GitBinaryCheck) Run(ctx context.Context) CheckResult {
	path, err := c.Prober.Available()
	if err != nil {
		status := StatusWarn
		if c.Required {
			status = StatusFail
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     status,
			Message:    "git not found on PATH",
			Suggestion: "Install git: brew install git (macOS) or apt install git (Linux)",
		}
	}

	out, err := kexec.Output(ctx, kexec.Command{Name: path, Args: []string{"--version"}})
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "git found (version unknown)",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("git %s (%s)", parseGitVersion(string(out)), path),
	}
}

func (c *GitBinaryCheck) Fix() error {
	return nil // System package installation is out of scope
}

var gitVersionRe = regexp.MustCompile(`(\d+\.\d+(?:\.\d+)?)`)

// parseGitVersion extracts the version from "git version 2.43.0".
func parseGitVersion(output string) string {
	if m := gitVersionRe.FindStringSubmatch(output); len(m) >= 2 {
		return m[1]
	}
	return "unknown"
}

// RepoCheck probes one configured repository path the same way the
// dashboard does.
type RepoCheck struct {
	Path   string
	Prober RepoProber
}

func (c *RepoCheck) Name() string     { return "repo_" + c.Path }
func (c *RepoCheck) Category() string { return CategoryRepos }

func (c *RepoCheck) Run(ctx context.Context) CheckResult {
	if _, err := os.Stat(c.Path); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%s: path does not exist", c.Path),
			Suggestion: "Remove it from git.repos or fix the path; the dashboard skips it",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	st, err := c.Prober.Status(ctx, c.Path)
	if err != nil {
		if stderrors.Is(err, gitstatus.ErrNotRepository) {
			return CheckResult{
				Name:       c.Name(),
				Status:     StatusWarn,
				Message:    fmt.Sprintf("%s: not the root of a git working tree", c.Path),
				Suggestion: "Point git.repos at the repository's top-level directory; the dashboard skips it",
			}
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s: git status failed", c.Path),
			Suggestion: err.Error(),
		}
	}

	state := "clean"
	if st.Dirty() {
		state = fmt.Sprintf("%d modified, %d staged, %d untracked", st.Modified, st.Staged, st.Untracked)
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s on %s, %s", st.Name, st.Branch, state),
	}
}

func (c *RepoCheck) Fix() error {
	return nil
}

// NewGitChecks creates the git binary check plus one check per repo path.
func NewGitChecks(prober RepoProber, repos []string) []Check {
	checks := []Check{&GitBinaryCheck{Prober: prober, Required: len(repos) > 0}}
	for _, path := range repos {
		checks = append(checks, &RepoCheck{Path: path, Prober: prober})
	}
	return checks
}
