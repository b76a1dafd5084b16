// Package notes is the Apple Notes capability adapter. Operations are
// scripted through osascript; the Runner seam keeps the AppleScript
// bridge swappable in tests.
package notes

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes an AppleScript and returns its trimmed stdout.
type Runner interface {
	Run(ctx context.Context, script string) (string, error)
}

// OsascriptRunner shells out to the system osascript binary, feeding the
// script on stdin so multi-line scripts need no quoting.
type OsascriptRunner struct{}

func (OsascriptRunner) Run(ctx context.Context, script string) (string, error) {
	cmd := exec.CommandContext(ctx, "osascript", "-")
	cmd.Stdin = strings.NewReader(script)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("applescript: %s", msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}
