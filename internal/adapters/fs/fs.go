// Package fs provides the real-filesystem adapter for ports.FileSystem,
// grounded on the teacher's config.OSFS: a thin struct wrapping os/io
// calls, no buffering or caching of its own.
package fs

import (
	"errors"
	"io"
	"os"

	"go.trai.ch/zerr"

	"go.nomake.dev/nomake/internal/core/ports"
)

// OSFileSystem implements ports.FileSystem using the standard library.
type OSFileSystem struct{}

// New returns an OSFileSystem.
func New() *OSFileSystem { return &OSFileSystem{} }

// Stat reports path's modification time and existence. A missing path is
// not an error — only other stat failures (permission, I/O) are. IsSymlink
// reflects path itself, via a best-effort Lstat; os.Stat already follows
// the link for ModTime/IsDir/Size.
func (*OSFileSystem) Stat(path string) (ports.FileInfo, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ports.FileInfo{}, false, nil
		}
		return ports.FileInfo{}, false, zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
	}
	isSymlink := false
	if lstatInfo, lerr := os.Lstat(path); lerr == nil {
		isSymlink = lstatInfo.Mode()&os.ModeSymlink != 0
	}
	return ports.FileInfo{
		ModTime:   info.ModTime(),
		IsDir:     info.IsDir(),
		Size:      info.Size(),
		IsSymlink: isSymlink,
	}, true, nil
}

// Remove deletes path if it exists; removing an absent path is not an
// error, so remove_if_existing's callers don't need their own existence
// check.
func (*OSFileSystem) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to remove path"), "path", path)
	}
	return nil
}

// ReadFile reads path's entire content.
func (*OSFileSystem) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is rule-base-supplied
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read file"), "path", path)
	}
	return data, nil
}

// WriteFile writes content to path, creating or truncating it.
func (*OSFileSystem) WriteFile(path string, content []byte) error {
	if err := os.WriteFile(path, content, 0o644); err != nil { //nolint:gosec // rule output, not secret material
		return zerr.With(zerr.Wrap(err, "failed to write file"), "path", path)
	}
	return nil
}

// Copy copies src's content to dest, preserving src's permission bits.
func (*OSFileSystem) Copy(dest, src string) error {
	in, err := os.Open(src) //nolint:gosec // path is rule-base-supplied
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open copy source"), "path", src)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat copy source"), "path", src)
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open copy destination"), "path", dest)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to copy file content"), "path", dest)
	}
	return out.Sync()
}
