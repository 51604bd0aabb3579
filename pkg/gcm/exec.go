package gcm

import (
	"bytes"
	"context"
	goerrors "errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/modularity/gcm/pkg/errors"
)

// binaryName is the conventional name of the compiled clustering binary,
// kept from the upstream generalized-modularity-density build.
const binaryName = "a.out"

// binaryEnv overrides the binary location when set.
const binaryEnv = "GCM_BINARY"

// modeArgs are the fixed positional arguments the binary expects ahead of
// seed, chi, and the input filename. They select the GCM variant and are
// part of the binary's CLI contract.
var modeArgs = []string{"2", "5", "2"}

// resolveBinary locates the clustering binary. Explicit paths win, then
// $GCM_BINARY, then a.out next to this executable, then PATH.
func resolveBinary(path string) (string, error) {
	if path == "" {
		path = os.Getenv(binaryEnv)
	}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", errors.Wrap(errors.ErrCodeBinaryNotFound, err, "clustering binary %s", path)
		}
		return filepath.Abs(path)
	}

	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), binaryName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	found, err := exec.LookPath(binaryName)
	if err != nil {
		return "", errors.New(errors.ErrCodeBinaryNotFound,
			"clustering binary not found (set %s, --binary, or place %s next to gcm)", binaryEnv, binaryName)
	}
	return found, nil
}

// runPrepare runs the prepare script on the formatted edge list with dir
// as the working directory, mirroring the upstream work.sh step.
func (r *Runner) runPrepare(ctx context.Context, script, dir, file string) error {
	if _, err := os.Stat(script); err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "prepare script %s", script)
	}
	abs, err := filepath.Abs(script)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "bash", abs, file)
	cmd.Dir = dir
	return r.runCommand(ctx, cmd, "prepare script")
}

// runBinary invokes the clustering binary on the formatted edge list with
// dir as the working directory. The binary writes its raw partition next
// to its input, so the caller reads partition.ResultName(file) from dir
// afterwards.
func (r *Runner) runBinary(ctx context.Context, bin, dir string, seed int64, chi float64, file string) error {
	args := append(append([]string{}, modeArgs...),
		strconv.FormatInt(seed, 10),
		strconv.FormatFloat(chi, 'g', -1, 64),
		file)

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	return r.runCommand(ctx, cmd, "clustering binary")
}

// runCommand executes cmd, discarding stdout and buffering stderr for
// error reporting.
func (r *Runner) runCommand(ctx context.Context, cmd *exec.Cmd, what string) error {
	var errBuf bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &errBuf

	err := cmd.Run()
	if err == nil {
		return nil
	}

	if goerrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrCodeTimeout, err, "%s timed out", what)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var exitErr *exec.ExitError
	if goerrors.As(err, &exitErr) {
		msg := strings.TrimSpace(errBuf.String())
		if msg != "" {
			return errors.Wrap(errors.ErrCodeProcessFailed, err, "%s exited with code %d: %s",
				what, exitErr.ExitCode(), msg)
		}
		return errors.Wrap(errors.ErrCodeProcessFailed, err, "%s exited with code %d",
			what, exitErr.ExitCode())
	}
	return errors.Wrap(errors.ErrCodeBinaryNotFound, err, "%s could not be started", what)
}
