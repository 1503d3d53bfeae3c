// Package gitstatus reads working-tree status by running the git CLI.
package gitstatus

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rileyhilliard/ktop/internal/errors"
	kexec "github.com/rileyhilliard/ktop/internal/exec"
	"github.com/rileyhilliard/ktop/internal/snapshot"
)

// ErrNotRepository means the path is not the root of a git working tree.
var ErrNotRepository = stderrors.New("not a git working tree root")

// Prober reports repository status. The zero value uses "git" from PATH.
type Prober struct {
	// Git is the git executable. Empty means "git".
	Git string
}

// New returns a Prober using git from PATH.
func New() *Prober {
	return &Prober{}
}

// Available checks that the git executable can be found.
func (p *Prober) Available() (string, error) {
	path, err := exec.LookPath(p.bin())
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrGit,
			"git not found",
			"Install git and make sure it is on your PATH")
	}
	return path, nil
}

// Status returns the status of the working tree rooted at path. Paths that
// are missing, bare, or inside a repository without being its root fail
// with an error wrapping ErrNotRepository.
func (p *Prober) Status(ctx context.Context, path string) (snapshot.RepoStatus, error) {
	st := snapshot.RepoStatus{
		Name: filepath.Base(filepath.Clean(path)),
		Path: path,
	}

	if err := p.checkRoot(ctx, path); err != nil {
		return st, err
	}

	st.Branch = p.branch(ctx, path)

	out, err := p.output(ctx, path, "status", "--porcelain=v1", "-z", "--untracked-files=all")
	if err != nil {
		return st, errors.WrapWithCode(err, errors.ErrGit,
			"git status failed in "+path, "")
	}
	counts := ParsePorcelain(out)
	st.Modified = counts.Modified
	st.Staged = counts.Staged
	st.Untracked = counts.Untracked

	st.Ahead, st.Behind = p.aheadBehind(ctx, path, st.Branch)
	return st, nil
}

// checkRoot verifies path is the top level of a non-bare working tree.
// EvalSymlinks keeps macOS /tmp -> /private/tmp from causing a mismatch.
func (p *Prober) checkRoot(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s: %w", path, ErrNotRepository)
	}

	top, err := p.output(ctx, path, "rev-parse", "--show-toplevel")
	if err != nil {
		return fmt.Errorf("%s: %w", path, ErrNotRepository)
	}

	absTop, err := filepath.EvalSymlinks(strings.TrimSpace(string(top)))
	if err != nil {
		return fmt.Errorf("%s: %w", path, ErrNotRepository)
	}
	absPath, err := filepath.Abs(path)
	if err == nil {
		absPath, err = filepath.EvalSymlinks(absPath)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, ErrNotRepository)
	}
	if filepath.Clean(absTop) != filepath.Clean(absPath) {
		return fmt.Errorf("%s is inside %s: %w", path, absTop, ErrNotRepository)
	}
	return nil
}

// branch returns the short branch name, snapshot.BranchDetached when HEAD
// points at a commit, or snapshot.BranchUnborn when HEAD can't be resolved.
func (p *Prober) branch(ctx context.Context, path string) string {
	out, err := p.output(ctx, path, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return snapshot.BranchUnborn
	}
	name := strings.TrimSpace(string(out))
	if name == "" {
		return snapshot.BranchUnborn
	}
	if name == "HEAD" {
		return snapshot.BranchDetached
	}
	return name
}

// aheadBehind counts commits between HEAD and refs/remotes/origin/<branch>.
// Anything that prevents the comparison yields (0, 0).
func (p *Prober) aheadBehind(ctx context.Context, path, branch string) (int, int) {
	// A detached HEAD is not compared against refs/remotes/origin/HEAD even
	// when that ref exists: it reports (0, 0) like an unborn branch.
	if branch == snapshot.BranchUnborn || branch == snapshot.BranchDetached {
		return 0, 0
	}
	upstream := "refs/remotes/origin/" + branch
	if _, err := p.output(ctx, path, "rev-parse", "--verify", "-q", upstream); err != nil {
		return 0, 0
	}

	out, err := p.output(ctx, path, "rev-list", "--left-right", "--count", "HEAD..."+upstream)
	if err != nil {
		return 0, 0
	}
	fields := strings.Fields(string(out))
	if len(fields) != 2 {
		return 0, 0
	}
	ahead, err1 := strconv.Atoi(fields[0])
	behind, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return 0, 0
	}
	return ahead, behind
}

func (p *Prober) bin() string {
	if p.Git != "" {
		return p.Git
	}
	return "git"
}

// output runs git in dir and returns stdout. Stderr is folded into the
// error so callers can log something useful.
func (p *Prober) output(ctx context.Context, dir string, args ...string) ([]byte, error) {
	out, err := kexec.Output(ctx, kexec.Command{
		Name: p.bin(),
		Args: args,
		Dir:  dir,
		Env:  []string{"GIT_OPTIONAL_LOCKS=0", "LC_ALL=C"},
	})
	if err != nil {
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	return out, nil
}

// Counts are the per-category entry counts from one status listing.
type Counts struct {
	Modified  int
	Staged    int
	Untracked int
}

// ParsePorcelain counts entries in `git status --porcelain=v1 -z` output.
// An entry counts as staged when its index column shows an add, modify,
// delete, rename, copy or type change, and as modified when its work-tree
// column shows a modify, delete, rename or type change. One entry can be
// both. Unmerged entries count as neither.
func ParsePorcelain(out []byte) Counts {
	var c Counts

	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(splitNUL)

	skipNext := false
	for scanner.Scan() {
		entry := scanner.Text()
		if skipNext {
			// Original path of a rename or copy.
			skipNext = false
			continue
		}
		if len(entry) < 3 {
			continue
		}
		x, y := entry[0], entry[1]

		if x == 'R' || x == 'C' || y == 'R' || y == 'C' {
			skipNext = true
		}
		if x == '?' && y == '?' {
			c.Untracked++
			continue
		}
		if x == '!' || unmerged(x, y) {
			continue
		}
		if strings.IndexByte("AMDRCT", x) >= 0 {
			c.Staged++
		}
		if strings.IndexByte("MDRT", y) >= 0 {
			c.Modified++
		}
	}
	return c
}

func unmerged(x, y byte) bool {
	return x == 'U' || y == 'U' || (x == 'A' && y == 'A') || (x == 'D' && y == 'D')
}

// splitNUL is a bufio.SplitFunc for NUL-terminated records.
func splitNUL(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
