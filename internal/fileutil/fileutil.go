// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrEmptyPath = errors.New("path cannot be empty")
)

// Permission constants for files written on behalf of the user.
const (
	DirPermissions  = 0o700 // rwx------: credential directories stay private
	FilePermissions = 0o600 // rw-------: credential files stay private
)

// appDirName is the per-user configuration directory name.
const appDirName = "go-md2note"

// WriteFileAtomic replaces path with data in one step: the bytes are written
// to a temporary sibling, synced, then renamed over the destination. Parent
// directories are created as needed. Readers never observe a partial file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if path == "" {
		return ErrEmptyPath
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		cleanup()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "work" -> false (config name)
//   - "./work.yaml" -> true (relative path)
//   - "/etc/md2note.yaml" -> true (absolute)
//   - "C:\cfg\md2note.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL returns true if the string looks like a URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// UserConfigPath returns <UserConfigDir>/go-md2note/<name>.
func UserConfigPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config directory: %w", err)
	}
	return filepath.Join(dir, appDirName, name), nil
}

// DefaultCredentialStorePath is where authentication state lives when no
// path is configured.
func DefaultCredentialStorePath() string {
	p, err := UserConfigPath("auth.json")
	if err != nil {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "."+appDirName, "auth.json")
	}
	return p
}

// imageMIMETypes maps lower-case extensions to the MIME types the editor accepts.
var imageMIMETypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".bmp":  "image/bmp",
	".avif": "image/avif",
}

// DefaultImageMIMEType is used for unrecognized extensions.
const DefaultImageMIMEType = "image/png"

// ImageMIMEType derives an image MIME type from the file extension.
func ImageMIMEType(path string) string {
	if mt, ok := imageMIMETypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	return DefaultImageMIMEType
}
