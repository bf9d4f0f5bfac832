package probe

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// placeholderPrefix is shared by every ReadFile placeholder.
const placeholderPrefix = "Unable to "

// FS reads files relative to an optional sysroot.
//
// The zero value reads the real filesystem and logs through slog.Default().
type FS struct {
	// Root is prepended to every path. Empty means "/".
	Root string

	// Logger receives one error record per failed read.
	Logger *slog.Logger
}

// NewFS returns an FS rooted at root.
func NewFS(root string, logger *slog.Logger) FS {
	return FS{Root: root, Logger: logger}
}

func (f FS) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.Default()
	}
	return f.Logger
}

// Path resolves a logical path to the on-disk path under Root.
func (f FS) Path(path string) string {
	if f.Root == "" {
		return path
	}
	return filepath.Join(f.Root, path)
}

// Exists reports whether a stat of path succeeds. A missing entry, a
// permission error and a dangling symlink all report false.
func (f FS) Exists(path string) bool {
	_, err := os.Stat(f.Path(path))
	return err == nil
}

// Read opens path read-only, determines its size and reads that many bytes.
// Pseudo-files that report a size of zero are read until EOF. Content is cut
// at the first NUL byte. The file is closed on every path.
func (f FS) Read(path string) (string, error) {
	file, err := os.Open(f.Path(path))
	if err != nil {
		return "", &Error{Op: OpOpen, Path: path, Err: err}
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", &Error{Op: OpStat, Path: path, Err: err}
	}
	if info.IsDir() {
		return "", &Error{Op: OpRead, Path: path, Err: errors.New("is a directory")}
	}

	var data []byte
	if size := info.Size(); size > 0 {
		data = make([]byte, size)
		n, err := io.ReadFull(file, data)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
			return "", &Error{Op: OpRead, Path: path, Err: err}
		}
		data = data[:n]
	} else {
		data, err = io.ReadAll(file)
		if err != nil {
			return "", &Error{Op: OpRead, Path: path, Err: err}
		}
	}

	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return string(data), nil
}

// ReadDir returns the names of the entries in directory path, sorted.
func (f FS) ReadDir(path string) ([]string, error) {
	entries, err := os.ReadDir(f.Path(path))
	if err != nil {
		return nil, &Error{Op: OpOpen, Path: path, Err: err}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// ReadFile is Read with failures rendered as a placeholder line.
func (f FS) ReadFile(path string) string {
	content, err := f.Read(path)
	if err == nil {
		return content
	}

	var perr *Error
	if !errors.As(err, &perr) {
		perr = &Error{Op: OpRead, Path: path, Err: err}
	}
	f.logger().Error("failed to read file",
		"path", path,
		"stage", perr.Op,
		"error", perr.Err,
	)
	return perr.Placeholder()
}

// IsPlaceholder reports whether s looks like a ReadFile failure placeholder.
func IsPlaceholder(s string) bool {
	return strings.HasPrefix(s, placeholderPrefix)
}
