package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// Store serializes access to one snapshot file.
//
// The lock is a sidecar file next to the snapshot, because the snapshot
// itself is replaced by rename on every write and a lock on the old inode
// would be useless.
type Store struct {
	path string
	lock *flock.Flock
}

// New creates a store for the given snapshot file. The file itself is
// created lazily on the first write.
func New(path string) *Store {
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// ResolvePath returns path itself, or name joined onto it when path is an
// existing directory. Drivers use it so callers can point them at either a
// file or a data directory.
func ResolvePath(path, name string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, name)
	}
	return path
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the current snapshot into v under a shared lock. A missing
// file is not an error; v is left untouched.
func (s *Store) Load(v any) error {
	if err := s.lock.RLock(); err != nil {
		return errors.Join(ErrLockFailed, err)
	}
	defer s.lock.Unlock() //nolint:errcheck

	return s.read(v)
}

// Save writes v as the new snapshot under an exclusive lock.
func (s *Store) Save(v any) error {
	if err := s.lock.Lock(); err != nil {
		return errors.Join(ErrLockFailed, err)
	}
	defer s.lock.Unlock() //nolint:errcheck

	return s.write(v)
}

// Update performs one read-modify-write cycle under an exclusive lock: the
// current snapshot is loaded into v, mutate is applied, and the result
// replaces the file. If mutate returns an error the snapshot is untouched.
func (s *Store) Update(v any, mutate func() error) error {
	if err := s.lock.Lock(); err != nil {
		return errors.Join(ErrLockFailed, err)
	}
	defer s.lock.Unlock() //nolint:errcheck

	if err := s.read(v); err != nil {
		return err
	}
	if err := mutate(); err != nil {
		return err
	}
	return s.write(v)
}

func (s *Store) read(v any) error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: %s: %w", ErrReadFailed, s.path, err)
	}
	if err := yaml.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCorruptSnapshot, s.path, err)
	}
	return nil
}

// write replaces the snapshot atomically: marshal, write to a temp file in
// the same directory, fsync, rename over the target.
func (s *Store) write(v any) error {
	raw, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, s.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, s.path, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, s.path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, s.path, err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, s.path, err)
	}
	return nil
}
