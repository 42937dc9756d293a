package engine

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes one engine binary inside dir and returns its stdout.
type Runner interface {
	Run(ctx context.Context, dir, bin string, args ...string) ([]byte, error)
}

type execRunner struct{}

// NewExecRunner runs binaries as child processes.
func NewExecRunner() Runner {
	return execRunner{}
}

func (execRunner) Run(ctx context.Context, dir, bin string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", bin, ctxErr)
		}
		return nil, fmt.Errorf("%s: %w: %s", bin, err, tail(stderr.String(), 512))
	}
	return stdout.Bytes(), nil
}

// tail keeps the end of the encoder log, where the actual failure is printed.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
