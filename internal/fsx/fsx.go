// Package fsx wraps the filesystem mutations the executor performs: directory
// creation, no-overwrite moves and deletes. Each failure maps onto a sentinel
// so callers can report it by kind.
package fsx

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"
)

// Sentinel error kinds. Match with errors.Is.
var (
	ErrDirectoryCreateFailed = errors.New("directory create failed")
	ErrMoveFailed            = errors.New("file move failed")
	ErrDeleteFailed          = errors.New("file delete failed")
	ErrPathEncoding          = errors.New("path not representable")
)

// Swappable so tests can simulate EXDEV and other rename failures.
var renameFunc = os.Rename

// MoveError describes a failed Move. CrossDevice is set when the rename
// crossed filesystems; no copy+delete fallback is attempted.
type MoveError struct {
	Src         string
	Dst         string
	CrossDevice bool
	Err         error
}

func (e *MoveError) Error() string {
	if e.CrossDevice {
		return fmt.Sprintf("move %q -> %q: source and destination are on different filesystems: %v", e.Src, e.Dst, e.Err)
	}
	return fmt.Sprintf("move %q -> %q: %v", e.Src, e.Dst, e.Err)
}

func (e *MoveError) Unwrap() error { return e.Err }

func (e *MoveError) Is(target error) bool { return target == ErrMoveFailed }

// IsCrossDevice reports whether err is a MoveError caused by EXDEV.
func IsCrossDevice(err error) bool {
	var me *MoveError
	return errors.As(err, &me) && me.CrossDevice
}

// CheckPath rejects paths that are not valid UTF-8 or contain NUL bytes.
// Such names cannot be passed to the media tool or shown in notifications.
func CheckPath(p string) error {
	if !utf8.ValidString(p) {
		return fmt.Errorf("%w: %q is not valid UTF-8", ErrPathEncoding, p)
	}
	if strings.ContainsRune(p, 0) {
		return fmt.Errorf("%w: %q contains a NUL byte", ErrPathEncoding, p)
	}
	return nil
}

// EnsureDir creates dir (and parents) when missing. created is true only when
// this call made the directory.
func EnsureDir(dir string) (created bool, err error) {
	fi, err := os.Stat(dir)
	if err == nil {
		if !fi.IsDir() {
			return false, fmt.Errorf("%w: %q exists and is not a directory", ErrDirectoryCreateFailed, dir)
		}
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("%w: %q: %w", ErrDirectoryCreateFailed, dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("%w: %q: %w", ErrDirectoryCreateFailed, dir, err)
	}
	return true, nil
}

// Exists reports whether anything is present at path (without following a
// final symlink).
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// Move renames src to dst. It never overwrites: an existing dst (file,
// directory or symlink) is a MoveError wrapping fs.ErrExist.
func Move(src, dst string) error {
	for _, p := range []string{src, dst} {
		if err := CheckPath(p); err != nil {
			return &MoveError{Src: src, Dst: dst, Err: err}
		}
	}
	if _, err := os.Lstat(dst); err == nil {
		return &MoveError{Src: src, Dst: dst, Err: fs.ErrExist}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &MoveError{Src: src, Dst: dst, Err: err}
	}
	if err := renameFunc(src, dst); err != nil {
		return &MoveError{Src: src, Dst: dst, CrossDevice: isEXDEV(err), Err: err}
	}
	return nil
}

// Remove deletes a single file. A missing file is an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	return nil
}

// RemoveStale deletes a leftover file if present. removed reports whether
// anything was deleted; a missing file is not an error.
func RemoveStale(path string) (removed bool, err error) {
	fi, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	if fi.IsDir() {
		return false, fmt.Errorf("%w: %q is a directory", ErrDeleteFailed, path)
	}
	if err := os.Remove(path); err != nil {
		return false, fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	return true, nil
}
