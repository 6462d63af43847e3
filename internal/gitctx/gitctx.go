package gitctx

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// logEntryDelimiter terminates each commit in the structured log export so
// multi-paragraph bodies can be split reliably.
const logEntryDelimiter = "----END----"

// NumStat describes one staged file as reported by `git diff --numstat`.
// Added and Deleted are -1 when the change is binary.
type NumStat struct {
	Path       string
	Added      int
	Deleted    int
	IsBinary   bool
	PathBefore string
}

// ChangedLines returns added+deleted, treating binary counts as zero.
func (n NumStat) ChangedLines() int {
	if n.IsBinary {
		return 0
	}
	return n.Added + n.Deleted
}

// CommitMessage is one historical commit split into subject and body.
type CommitMessage struct {
	Subject string
	Body    string
}

// HooksPathEntry is one core.hooksPath setting with its config origin.
type HooksPathEntry struct {
	Origin string
	Path   string
}

// Repo issues git commands against a single repository root.
type Repo struct {
	root string
}

// New returns a Repo rooted at dir. dir may be any directory inside the
// repository; commands run with it as the working directory.
func New(dir string) *Repo {
	return &Repo{root: dir}
}

// Root returns the directory the Repo runs git in.
func (r *Repo) Root() string { return r.root }

// ResolveRoot locates the repository top-level for cwd.
func ResolveRoot(ctx context.Context, cwd string) (string, error) {
	out, err := runGit(ctx, cwd, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// HasCommits reports whether HEAD resolves to a commit.
func (r *Repo) HasCommits(ctx context.Context) bool {
	_, err := r.git(ctx, "rev-parse", "--verify", "HEAD")
	return err == nil
}

// StagedFiles returns the post-rename paths of all staged changes.
func (r *Repo) StagedFiles(ctx context.Context) ([]string, error) {
	out, err := r.git(ctx, "diff", "--cached", "--name-only", "-z")
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range strings.Split(out, "\x00") {
		if entry != "" {
			files = append(files, entry)
		}
	}
	return files, nil
}

// NameStatus returns the staged diff in --name-status form.
func (r *Repo) NameStatus(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "diff", "--cached", "--name-status")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// DiffStat returns the staged diff in --stat form.
func (r *Repo) DiffStat(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "diff", "--cached", "--stat")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Patch returns the staged unified diff, optionally restricted to paths.
func (r *Repo) Patch(ctx context.Context, paths ...string) (string, error) {
	args := []string{"diff", "--cached"}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}
	return r.git(ctx, args...)
}

// NumStats returns per-file added/deleted line counts for the staged diff.
func (r *Repo) NumStats(ctx context.Context) ([]NumStat, error) {
	out, err := r.git(ctx, "diff", "--cached", "--numstat", "-z")
	if err != nil {
		return nil, err
	}
	return parseNumStats(out), nil
}

// parseNumStats parses NUL-delimited --numstat output. Renames emit an empty
// path field in the header followed by the old and new names as separate
// NUL-terminated records.
func parseNumStats(out string) []NumStat {
	if out == "" {
		return nil
	}
	parts := strings.Split(out, "\x00")
	var entries []NumStat
	for i := 0; i < len(parts); i++ {
		header := parts[i]
		if header == "" {
			continue
		}
		fields := strings.SplitN(header, "\t", 3)
		if len(fields) < 3 {
			continue
		}
		addedRaw, deletedRaw, path := fields[0], fields[1], fields[2]
		isBinary := addedRaw == "-" || deletedRaw == "-"
		added, deleted := -1, -1
		if !isBinary {
			added, _ = strconv.Atoi(addedRaw)
			deleted, _ = strconv.Atoi(deletedRaw)
		}
		entry := NumStat{Added: added, Deleted: deleted, IsBinary: isBinary}
		if path == "" {
			// Rename: the next two records are the pre- and post-rename names.
			if i+2 >= len(parts) {
				break
			}
			entry.PathBefore = parts[i+1]
			entry.Path = parts[i+2]
			i += 2
		} else {
			entry.Path = path
		}
		entries = append(entries, entry)
	}
	return entries
}

// LogEntries returns up to max commit messages, most recent first, scoped to
// path when path is non-empty. A failing log query (for example an unborn
// branch) yields an empty slice rather than an error; absent history is a
// normal result for the callers.
func (r *Repo) LogEntries(ctx context.Context, path string, max int) []CommitMessage {
	if max <= 0 {
		return nil
	}
	args := []string{
		"log",
		fmt.Sprintf("--max-count=%d", max),
		"--pretty=format:%s%n%b%n" + logEntryDelimiter,
	}
	if path != "" {
		args = append(args, "--", path)
	}
	out, err := r.git(ctx, args...)
	if err != nil {
		return nil
	}
	return ParseLogEntries(out)
}

// ParseLogEntries splits delimiter-terminated log output into messages.
func ParseLogEntries(out string) []CommitMessage {
	var entries []CommitMessage
	for _, chunk := range strings.Split(out, logEntryDelimiter) {
		text := strings.Trim(chunk, "\n")
		if strings.TrimSpace(text) == "" {
			continue
		}
		lines := strings.Split(text, "\n")
		subject := strings.TrimSpace(lines[0])
		var bodyLines []string
		for _, line := range lines[1:] {
			bodyLines = append(bodyLines, strings.TrimRight(line, " \t"))
		}
		body := strings.TrimSpace(strings.Join(bodyLines, "\n"))
		entries = append(entries, CommitMessage{Subject: subject, Body: body})
	}
	return entries
}

// HooksDir returns the effective hooks directory for the repository.
func (r *Repo) HooksDir(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "rev-parse", "--git-path", "hooks")
	if err != nil {
		return "", err
	}
	dir := strings.TrimSpace(out)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(r.root, dir)
	}
	return dir, nil
}

// HooksPathEntries returns every core.hooksPath setting in effect, with the
// config origin it came from. A non-zero git exit (key unset) yields nil.
func (r *Repo) HooksPathEntries(ctx context.Context) []HooksPathEntry {
	out, err := r.git(ctx, "config", "--show-origin", "--get-all", "core.hooksPath")
	if err != nil {
		return nil
	}
	return ParseHooksPathEntries(out)
}

// ParseHooksPathEntries parses `git config --show-origin` output. Values may
// be tab-separated ("origin\tkey=value") or space-separated
// ("origin key = value") depending on git version.
func ParseHooksPathEntries(out string) []HooksPathEntry {
	var entries []HooksPathEntry
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		origin, rest, found := strings.Cut(line, "\t")
		if !found {
			origin, rest, found = strings.Cut(line, " ")
			if !found {
				continue
			}
		}
		rest = strings.TrimSpace(rest)
		key, value, found := strings.Cut(rest, "=")
		if !found {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(key), "core.hookspath") {
			continue
		}
		entries = append(entries, HooksPathEntry{
			Origin: strings.TrimSpace(origin),
			Path:   strings.TrimSpace(value),
		})
	}
	return entries
}

// Commit runs `git commit -v -F file`, optionally opening the editor, with
// any extra user-supplied arguments appended. The subprocess inherits the
// caller's stdio so the editor can take over the terminal. The returned int
// is the git exit code.
func (r *Repo) Commit(messageFile string, edit bool, extraArgs []string) (int, error) {
	args := []string{"commit", "-v", "-F", messageFile}
	if edit {
		args = append(args, "--edit")
	}
	args = append(args, extraArgs...)
	cmd := exec.Command("git", args...)
	cmd.Dir = r.root
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return 1, err
	}
	return 0, nil
}

func (r *Repo) git(ctx context.Context, args ...string) (string, error) {
	return runGit(ctx, r.root, args...)
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr := strings.TrimSpace(string(exitErr.Stderr))
			if stderr == "" {
				stderr = strings.TrimSpace(string(out))
			}
			if stderr == "" {
				stderr = "unknown git error"
			}
			return string(out), fmt.Errorf("git %s: %s", args[0], stderr)
		}
		return "", err
	}
	return string(out), nil
}
