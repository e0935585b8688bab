// Package cron registers and removes the recurring capture job in the
// invoking user's crontab. A repository's job is identified by its canonical
// invocation command: registration removes every line containing that exact
// substring before appending a fresh one, which makes it idempotent and
// schedule-replacing. The crontab is rewritten wholesale; concurrent external
// edits race with us and the last writer wins.
package cron

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes the crontab binary with the given stdin and arguments.
// Tests substitute an in-memory implementation.
type Runner func(stdin []byte, args ...string) ([]byte, error)

// Crontab reads and rewrites the user's recurring-job list.
type Crontab struct {
	run Runner
}

// NewCrontab returns a Crontab backed by the system crontab binary.
func NewCrontab() *Crontab {
	return &Crontab{run: systemRunner}
}

// NewCrontabWithRunner returns a Crontab backed by a custom runner.
func NewCrontabWithRunner(run Runner) *Crontab {
	return &Crontab{run: run}
}

// Watch registers the repository's capture job with the given schedule
// expression, replacing any existing entry for the same repository. It
// reports whether an entry was replaced.
func (c *Crontab) Watch(repoRoot, schedule string) (bool, error) {
	tab, err := c.load()
	if err != nil {
		return false, err
	}

	command := Command(repoRoot)
	removed := tab.remove(command)
	tab.append(schedule + " " + command)

	if err := c.save(tab); err != nil {
		return false, err
	}
	return removed > 0, nil
}

// Unwatch removes the repository's capture job and reports whether one
// existed. With no matching entry the crontab is left untouched.
func (c *Crontab) Unwatch(repoRoot string) (bool, error) {
	tab, err := c.load()
	if err != nil {
		return false, err
	}

	if tab.remove(Command(repoRoot)) == 0 {
		return false, nil
	}

	if err := c.save(tab); err != nil {
		return false, err
	}
	return true, nil
}

// Watched reports whether a capture job is registered for the repository.
// Read-only: the crontab is not modified.
func (c *Crontab) Watched(repoRoot string) (bool, error) {
	tab, err := c.load()
	if err != nil {
		return false, err
	}
	return tab.contains(Command(repoRoot)), nil
}

// load reads the full job list. A missing crontab reads as empty.
func (c *Crontab) load() (*tab, error) {
	out, err := c.run(nil, "-l")
	if err != nil {
		// crontab -l exits non-zero when the user has no crontab yet.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &tab{}, nil
		}
		return nil, fmt.Errorf("failed to read crontab: %w", err)
	}
	return parseTab(string(out)), nil
}

// save rewrites the job list wholesale.
func (c *Crontab) save(t *tab) error {
	if _, err := c.run([]byte(t.render()), "-"); err != nil {
		return fmt.Errorf("failed to write crontab: %w", err)
	}
	return nil
}

// tab is the ordered sequence of crontab lines. Unrelated lines (other
// jobs, comments, environment assignments) pass through verbatim.
type tab struct {
	lines []string
}

func parseTab(content string) *tab {
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return &tab{}
	}
	return &tab{lines: strings.Split(trimmed, "\n")}
}

// remove drops every line containing substr and returns how many were dropped.
func (t *tab) remove(substr string) int {
	kept := t.lines[:0]
	removed := 0
	for _, line := range t.lines {
		if strings.Contains(line, substr) {
			removed++
			continue
		}
		kept = append(kept, line)
	}
	t.lines = kept
	return removed
}

func (t *tab) append(line string) {
	t.lines = append(t.lines, line)
}

func (t *tab) contains(substr string) bool {
	for _, line := range t.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// render produces the crontab file content; crontab requires the trailing
// newline.
func (t *tab) render() string {
	if len(t.lines) == 0 {
		return ""
	}
	return strings.Join(t.lines, "\n") + "\n"
}

// systemRunner shells out to the real crontab binary.
func systemRunner(stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.Command("crontab", args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("crontab %s: %s: %w", strings.Join(args, " "), msg, err)
		}
		return nil, fmt.Errorf("crontab %s: %w", strings.Join(args, " "), err)
	}
	return stdout.Bytes(), nil
}
