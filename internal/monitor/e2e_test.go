package monitor

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/ktop/internal/gitstatus"
	"github.com/rileyhilliard/ktop/internal/snapshot"
	"github.com/rileyhilliard/ktop/internal/source"
)

type staticResources struct{}

func (staticResources) Sample(context.Context) (snapshot.Resources, error) {
	return snapshot.Resources{CPU: []float64{20, 40}, MemTotal: 100, MemUsed: 50}, nil
}

func git(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(out))
}

func write(t *testing.T, dir, path, content string) {
	t.Helper()
	full := filepath.Join(dir, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func commit(t *testing.T, dir, path, content string) {
	t.Helper()
	write(t, dir, path, content)
	git(t, dir, "add", path)
	git(t, dir, "commit", "-m", "update "+path)
}

// buildRepoA creates ./repoA with 2 modified, 1 staged and 3 untracked
// files, one commit ahead of origin/main.
func buildRepoA(t *testing.T) {
	t.Helper()
	repo := "repoA"
	require.NoError(t, os.MkdirAll(repo, 0755))
	git(t, repo, "init", "-b", "main")
	git(t, repo, "config", "user.email", "test@test.com")
	git(t, repo, "config", "user.name", "Test")
	git(t, repo, "config", "commit.gpgsign", "false")

	commit(t, repo, "a.txt", "a")
	commit(t, repo, "b.txt", "b")
	commit(t, repo, "c.txt", "c")
	git(t, repo, "update-ref", "refs/remotes/origin/main", "HEAD")
	commit(t, repo, "d.txt", "d")

	write(t, repo, "a.txt", "a changed")
	write(t, repo, "b.txt", "b changed")
	write(t, repo, "c.txt", "c staged")
	git(t, repo, "add", "c.txt")
	write(t, repo, "u1.txt", "1")
	write(t, repo, "u2.txt", "2")
	write(t, repo, "u3.txt", "3")
}

// runUntil runs a dashboard fed by real sources and quits once done reports
// true on a frame boundary.
func runUntil(t *testing.T, opts Options, plan source.Plan, done func(*Dashboard) bool) *Dashboard {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	events, snaps := newQueues()
	set := source.Spawn(ctx, plan, snaps, nil)

	r := &fakeRenderer{width: 100, height: 30}
	opts.Renderer = r
	opts.Refresher = set
	d := NewDashboard(opts)
	r.onDraw = func(int) {
		if done(d) {
			_ = events.Push(quitKey())
		}
	}

	require.NoError(t, d.Run(ctx, events, snaps))
	require.NoError(t, ctx.Err(), "dashboard did not reach the expected state")

	snaps.Close()
	events.Close()
	cancel()
	set.Wait()
	return d
}

func TestEndToEnd_RepositoryPanel(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	t.Chdir(t.TempDir())
	buildRepoA(t)
	require.NoError(t, os.MkdirAll("not-a-repo", 0755))

	plan := source.Plan{
		Resources:    staticResources{},
		Repos:        []string{"./repoA", "./not-a-repo", "./missing"},
		RepoInterval: time.Second,
		RepoProvider: gitstatus.New(),
	}
	d := runUntil(t, Options{ReposEnabled: true}, plan, func(d *Dashboard) bool {
		return d.RepoPanel().Ready()
	})

	require.Len(t, d.RepoPanel().Repos(), 1)
	got := d.RepoPanel().Repos()[0]
	assert.Equal(t, "repoA", got.Name)
	assert.Equal(t, "main", got.Branch)
	assert.Equal(t, 2, got.Modified)
	assert.Equal(t, 1, got.Staged)
	assert.Equal(t, 3, got.Untracked)
	assert.Equal(t, 1, got.Ahead)
	assert.Equal(t, 0, got.Behind)
}

func TestEndToEnd_NoRepositoriesConfigured(t *testing.T) {
	plan := source.Plan{
		Resources:    staticResources{},
		RepoInterval: 10 * time.Millisecond,
		RepoProvider: gitstatus.New(),
	}

	// Let the resource source deliver a few samples; any repository
	// snapshot would have arrived by then.
	d := runUntil(t, Options{}, plan, func(d *Dashboard) bool {
		return d.ResourcePanel().History().Len() >= 2
	})

	assert.False(t, d.RepoPanel().Ready())
	assert.Empty(t, d.RepoPanel().Repos())
	assert.InDelta(t, 30, d.ResourcePanel().MeanCPU(), 1e-9)
}
