// Package files stores uploaded resume files on the local filesystem and
// replaces them with a staged swap that can be rolled back.
package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideStore is returned for paths that do not belong to the store.
var ErrOutsideStore = errors.New("path is outside of the file store")

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("prepare upload dir: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &Store{dir: abs}, nil
}

func (s *Store) Dir() string { return s.dir }

// Path returns the absolute path for a file name inside the store.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s *Store) contains(path string) bool {
	rel, err := filepath.Rel(s.dir, filepath.Clean(path))
	return err == nil && rel != "." && !strings.HasPrefix(rel, "..")
}

// resolve maps a stored name to its path. Names are relative to the store
// so records survive a move of the upload directory; absolute paths are
// accepted only inside the store.
func (s *Store) resolve(name string) (string, error) {
	if filepath.IsAbs(name) {
		if !s.contains(name) {
			return "", ErrOutsideStore
		}
		return filepath.Clean(name), nil
	}
	return s.Path(name), nil
}

// Open opens a stored file for reading.
func (s *Store) Open(name string) (*os.File, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Remove deletes a stored file. Missing files are not an error.
func (s *Store) Remove(name string) error {
	if name == "" {
		return nil
	}
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Stage writes data to a temporary file next to the target. Nothing visible
// changes until Commit.
func (s *Store) Stage(name string, data []byte) (*Swap, error) {
	target := s.Path(name)
	tmp, err := os.CreateTemp(s.dir, ".stage-*")
	if err != nil {
		return nil, fmt.Errorf("stage file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("stage file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("stage file: %w", err)
	}
	return &Swap{store: s, target: target, tmp: tmp.Name()}, nil
}

// Swap is a pending replacement of one stored file.
type Swap struct {
	store     *Store
	target    string
	tmp       string
	backup    string
	committed bool
}

// Path is where the new file lives after Commit.
func (w *Swap) Path() string { return w.target }

// Name is the store-relative name to persist for the new file.
func (w *Swap) Name() string { return filepath.Base(w.target) }

// Commit moves any existing target aside and renames the staged file into place.
func (w *Swap) Commit() error {
	if _, err := os.Stat(w.target); err == nil {
		w.backup = w.target + ".bak"
		if err := os.Rename(w.target, w.backup); err != nil {
			w.backup = ""
			return fmt.Errorf("backup existing file: %w", err)
		}
	}
	if err := os.Rename(w.tmp, w.target); err != nil {
		if w.backup != "" {
			_ = os.Rename(w.backup, w.target)
			w.backup = ""
		}
		return fmt.Errorf("move staged file into place: %w", err)
	}
	w.committed = true
	return nil
}

// Rollback restores the state before Commit (or discards the staged file).
func (w *Swap) Rollback() error {
	if !w.committed {
		return w.store.Remove(w.tmp)
	}
	if err := os.Remove(w.target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if w.backup != "" {
		if err := os.Rename(w.backup, w.target); err != nil {
			return fmt.Errorf("restore previous file: %w", err)
		}
	}
	w.committed = false
	return nil
}

// Finalize drops the backup and, if previous names another file than the
// target, that file too. previous is what the owner's record pointed at.
func (w *Swap) Finalize(previous string) error {
	var errs []error
	if w.backup != "" {
		errs = append(errs, w.store.Remove(w.backup))
	}
	if previous != "" {
		prev, err := w.store.resolve(previous)
		switch {
		case err != nil:
			errs = append(errs, err)
		case prev != w.target:
			errs = append(errs, w.store.Remove(prev))
		}
	}
	return errors.Join(errs...)
}
