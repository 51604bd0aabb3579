// Package scratch manages per-run scratch directories.
//
// Every clustering run works inside an isolated directory named
// "gcm_cache_<suffix>" under a configurable root (the current working
// directory by default). The directory holds the staged input, the
// reformatted edge list, the key file, and the binary's raw output, and
// is removed once the run completes. List finds directories left behind
// by interrupted or failed runs so they can be cleaned up.
package scratch

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/modularity/gcm/pkg/errors"
	"github.com/modularity/gcm/pkg/observability"
)

// Prefix is the name prefix of every scratch directory.
const Prefix = "gcm_cache_"

// Dir is a scratch directory created for a single run.
type Dir struct {
	path string
}

// New creates a fresh scratch directory under root. If root is empty the
// current working directory is used.
func New(root string) (*Dir, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = wd
	}

	// The uuid suffix keeps concurrent runs in the same root from
	// colliding.
	name := Prefix + uuid.NewString()[:8]
	path := filepath.Join(root, name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create scratch directory %s", path)
	}

	observability.Scratch().OnCreate(path)
	return &Dir{path: path}, nil
}

// Path returns the absolute path of the scratch directory.
func (d *Dir) Path() string { return d.path }

// File returns the path of name inside the scratch directory.
func (d *Dir) File(name string) string {
	return filepath.Join(d.path, name)
}

// CopyIn copies the file at src into the scratch directory, keeping its
// basename, and returns the destination path.
func (d *Dir) CopyIn(src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "input file %s", src)
		}
		return "", err
	}
	defer in.Close()

	dst := d.File(filepath.Base(src))
	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return dst, nil
}

// CopyOut copies the file named name from the scratch directory to dst.
func (d *Dir) CopyOut(name, dst string) error {
	in, err := os.Open(d.File(name))
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeResultNotFound, err, "result file %s", name)
		}
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Remove deletes the scratch directory and everything in it.
func (d *Dir) Remove() error {
	err := os.RemoveAll(d.path)
	observability.Scratch().OnRemove(d.path, err)
	return err
}

// List returns the scratch directories found directly under root, sorted
// the way os.ReadDir returns them. These are leftovers from interrupted
// runs when no run is in flight.
func List(root string) ([]string, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = wd
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), Prefix) {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}
	return dirs, nil
}
