package photos

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
)

// Store removes the photo files attached to a task. Deletion happens outside
// the task's database transaction, so implementations must tolerate being
// called for tasks whose rows are already gone.
type Store interface {
	Remove(ctx context.Context, taskID int64) error
}

// DiskStore keeps task photos as flat files named task_<id>_<n>.<ext> in a
// single directory, matching the layout the upload clients produce.
type DiskStore struct {
	dir string
}

// NewDiskStore builds a store rooted at dir. The directory is created if it
// does not exist so a fresh deployment starts clean.
func NewDiskStore(dir string) (*DiskStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("photos directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create photos directory %s: %w", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

// Remove deletes every photo of the task. All matching files are attempted;
// failures are collected so one locked file does not shadow the rest.
func (s *DiskStore) Remove(ctx context.Context, taskID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	pattern := filepath.Join(s.dir, fmt.Sprintf("task_%d_*", taskID))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("glob photos of task %d: %w", taskID, err)
	}

	var errs error
	for _, path := range matches {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = multierr.Append(errs, fmt.Errorf("remove %s: %w", path, err))
		}
	}
	return errs
}
