package cron

import (
	"fmt"
	"os"

	cronparse "github.com/robfig/cron/v3"
)

// DefaultEveryMinutes is the capture interval used when no schedule is given.
const DefaultEveryMinutes = 5

// Schedule builds the five-field cron expression for a watch job. Exactly one
// of everyMinutes or expr may be set; with neither, the default interval
// applies. The result is validated before being returned.
func Schedule(everyMinutes int, expr string) (string, error) {
	switch {
	case everyMinutes != 0 && expr != "":
		return "", fmt.Errorf("interval and schedule expression are mutually exclusive")
	case everyMinutes < 0:
		return "", fmt.Errorf("interval must be at least 1 minute, got %d", everyMinutes)
	case everyMinutes != 0:
		expr = fmt.Sprintf("*/%d * * * *", everyMinutes)
	case expr == "":
		expr = fmt.Sprintf("*/%d * * * *", DefaultEveryMinutes)
	}

	if _, err := cronparse.ParseStandard(expr); err != nil {
		return "", fmt.Errorf("invalid schedule %q: %w", expr, err)
	}
	return expr, nil
}

// Command returns the canonical capture invocation for a repository. The
// exact string doubles as the idempotency key within the crontab, so it must
// be stable across invocations from the same binary.
func Command(repoRoot string) string {
	bin := "wipstash"
	if exe, err := os.Executable(); err == nil {
		bin = exe
	}
	return fmt.Sprintf("cd '%s' && '%s' save >/dev/null 2>&1", repoRoot, bin)
}
