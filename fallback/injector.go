package fallback

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// FaultInjector applies an externally defined fault to the deployment under
// test. Inject returns an error when the command reports failure.
type FaultInjector interface {
	Inject(ctx context.Context, command string) error
}

// ShellInjector runs fault-injection commands through bash -c.
type ShellInjector struct{}

// Inject runs command, logging its output, and surfaces a nonzero exit
// status as an InjectionError.
func (ShellInjector) Inject(ctx context.Context, command string) error {
	logrus.Infof("running fault-injection command: %s", command)
	cmd := exec.CommandContext(ctx, "bash", "-c", command)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	logrus.Infof("fault-injection stdout: %s", strings.TrimSpace(stdout.String()))
	logrus.Infof("fault-injection stderr: %s", strings.TrimSpace(stderr.String()))
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &InjectionError{Command: command, ExitCode: exitErr.ExitCode()}
	}
	return fmt.Errorf("running %q: %w", command, err)
}
