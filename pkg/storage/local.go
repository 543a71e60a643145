package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/beam-cloud/pngme/pkg/common"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const lockRetryDelay = 50 * time.Millisecond

type LocalPngStorage struct {
	path string
}

type LocalPngStorageOpts struct {
	Path string
}

func NewLocalPngStorage(opts LocalPngStorageOpts) *LocalPngStorage {
	return &LocalPngStorage{path: opts.Path}
}

func (s *LocalPngStorage) Read(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("unable to read png <%s>: %w", s.path, err)
	}

	log.Debug().Str("path", s.path).Int("bytes", len(data)).Msg("read png")
	return data, nil
}

// Write replaces the file atomically: the data goes to a temporary sibling
// which is then renamed over the destination. When the path is a symlink the
// file it points to is replaced and the link is kept.
func (s *LocalPngStorage) Write(ctx context.Context, data []byte) error {
	target, err := s.targetPath()
	if err != nil {
		return fmt.Errorf("unable to resolve png path <%s>: %w", s.path, err)
	}

	perm := fs.FileMode(0644)
	if info, err := os.Stat(target); err == nil {
		perm = info.Mode().Perm()
	}

	tmpPath := fmt.Sprintf("%s.%s", target, uuid.New().String()[:6])
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("failed to create temp file for <%s>: %w", s.path, err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write png <%s>: %w", s.path, err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync png <%s>: %w", s.path, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move temp file to <%s>: %w", target, err)
	}

	log.Debug().Str("path", s.path).Str("target", target).Int("bytes", len(data)).Msg("wrote png")
	return nil
}

func (s *LocalPngStorage) Lock(ctx context.Context) (func() error, error) {
	lockFilePath := s.lockPath()
	fileLock := flock.New(lockFilePath)

	locked, err := fileLock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("error while trying to acquire file lock <%s>: %w", lockFilePath, err)
	}
	if !locked {
		return nil, fmt.Errorf("unable to acquire file lock <%s>", lockFilePath)
	}

	log.Debug().Str("lock", lockFilePath).Msg("acquired file lock")

	// The lock file is left in place: removing it would let a waiter that
	// already opened it and a newcomer that recreates it both hold a lock.
	return fileLock.Unlock, nil
}

// targetPath follows s.path through any symlinks to the file that holds the
// data. A dangling link resolves to the path it names.
func (s *LocalPngStorage) targetPath() (string, error) {
	info, err := os.Lstat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s.path, nil
	}
	if err != nil {
		return "", err
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		return s.path, nil
	}

	target, err := filepath.EvalSymlinks(s.path)
	if err == nil {
		return target, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	link, err := os.Readlink(s.path)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(link) {
		link = filepath.Join(filepath.Dir(s.path), link)
	}
	return link, nil
}

// lockPath sits next to the resolved target so every link to the same file
// shares one lock.
func (s *LocalPngStorage) lockPath() string {
	target, err := s.targetPath()
	if err != nil {
		target = s.path
	}
	dir, file := filepath.Split(target)
	return filepath.Join(dir, "."+file+".lock")
}

func (s *LocalPngStorage) Path() string {
	return s.path
}

func (s *LocalPngStorage) Mode() common.StorageMode {
	return common.StorageModeLocal
}
