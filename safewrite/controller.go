// Package safewrite replaces generated files atomically, and only when
// their content changed.
package safewrite

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/willibrandon/vcproj2cmake/observability"
)

// PreviousSuffix is appended to the name of a replaced output file.
const PreviousSuffix = ".previous"

// DefaultPerm is the mode of promoted output files.
const DefaultPerm fs.FileMode = 0o644

// Result tells what a commit did to the output file.
type Result int

const (
	// Wrote means the output file was created or replaced
	Wrote Result = iota
	// Unchanged means the output file already had the content and was not touched
	Unchanged
)

func (r Result) String() string {
	switch r {
	case Wrote:
		return "wrote"
	case Unchanged:
		return "unchanged"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// Controller commits rendered content to output files. Output trees may be
// built from several machines at once, so a file is never visible partially
// written, and identical content never bumps its modification time.
type Controller struct {
	perm   fs.FileMode
	log    observability.Logger
	rename func(from, to string) error
}

// New creates a controller promoting files with mode perm.
func New(perm fs.FileMode, log observability.Logger) *Controller {
	if perm == 0 {
		perm = DefaultPerm
	}
	if log == nil {
		log = observability.NewNullLogger()
	}
	return &Controller{perm: perm, log: log, rename: rename}
}

// Commit makes data the content of outputPath. The data is written to a
// scratch file next to outputPath first; an existing output that differs
// is kept as outputPath + ".previous". On failure the output is left as it
// was.
func (c *Controller) Commit(data []byte, outputPath string) (Result, error) {
	scratch, err := c.writeScratch(data, outputPath)
	if err != nil {
		return Wrote, err
	}

	previous := ""
	existing, err := os.ReadFile(outputPath)
	switch {
	case err == nil:
		if bytes.Equal(existing, data) {
			c.log.Debug("{Output} is up to date", outputPath)
			_ = os.Remove(scratch)
			return Unchanged, nil
		}
		previous = outputPath + PreviousSuffix
		if err := c.rename(outputPath, previous); err != nil {
			_ = os.Remove(scratch)
			return Wrote, fmt.Errorf("keep previous output: %w", err)
		}
		c.log.Debug("Moved old {Output} to {Previous}", outputPath, previous)
	case errors.Is(err, fs.ErrNotExist):
	default:
		_ = os.Remove(scratch)
		return Wrote, fmt.Errorf("read existing output: %w", err)
	}

	if err := os.Chmod(scratch, c.perm); err != nil {
		return Wrote, c.rollback(scratch, previous, outputPath, fmt.Errorf("set output permissions: %w", err))
	}
	if err := c.rename(scratch, outputPath); err != nil {
		return Wrote, c.rollback(scratch, previous, outputPath, fmt.Errorf("promote output: %w", err))
	}
	return Wrote, nil
}

// rollback drops the scratch file and moves a kept previous output back.
func (c *Controller) rollback(scratch, previous, outputPath string, cause error) error {
	_ = os.Remove(scratch)
	if previous == "" {
		return cause
	}
	if err := c.rename(previous, outputPath); err != nil {
		return errors.Join(cause, fmt.Errorf("restore previous output: %w", err))
	}
	c.log.Warn("Restored {Output} from {Previous}", outputPath, previous)
	return cause
}

// writeScratch writes data to a new file in the directory of outputPath,
// so that promoting it is a rename within one file system.
func (c *Controller) writeScratch(data []byte, outputPath string) (string, error) {
	dir := filepath.Dir(outputPath)
	f, err := os.CreateTemp(dir, "."+filepath.Base(outputPath)+".new.*")
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}
	name := f.Name()
	defer func() { _ = f.Close() }()

	if _, err := f.Write(data); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("write scratch file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("sync scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("close scratch file: %w", err)
	}
	return name, nil
}

// rename moves from to to. Windows refuses to rename onto an existing
// file, so the destination is removed and the rename retried once.
func rename(from, to string) error {
	err := os.Rename(from, to)
	if err == nil {
		return nil
	}
	if _, statErr := os.Stat(to); statErr != nil {
		return err
	}
	if rmErr := os.Remove(to); rmErr != nil {
		return err
	}
	return os.Rename(from, to)
}
