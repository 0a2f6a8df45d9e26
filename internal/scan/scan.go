// Package scan lists capture files in a directory and returns the metadata
// the planners reconcile against: stem, extension and modification time.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrDirectoryUnreadable is matched (via errors.Is) by every listing failure.
var ErrDirectoryUnreadable = errors.New("directory unreadable")

// DirError reports which directory could not be listed and why.
type DirError struct {
	Dir string
	Err error
}

func (e *DirError) Error() string {
	return fmt.Sprintf("cannot read directory %q: %v", e.Dir, e.Err)
}

func (e *DirError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDirectoryUnreadable) true for any DirError.
func (e *DirError) Is(target error) bool { return target == ErrDirectoryUnreadable }

// SourceFile is a regular file found by a scan. Identity is Path.
type SourceFile struct {
	Path    string    // Absolute (or dir-joined) path.
	Name    string    // Base name, e.g. "talk_video.mp4".
	Stem    string    // Name without the final extension, e.g. "talk_video".
	Ext     string    // Lowercase extension without the dot, e.g. "mp4".
	ModTime time.Time // Last modification time.
	Size    int64
}

// Dir returns the directory holding the file.
func (f SourceFile) Dir() string { return filepath.Dir(f.Path) }

// Scan lists the regular files directly inside dir whose extension matches
// ext (case-insensitive, with or without a leading dot). An empty ext matches
// every file. Results are sorted by name so passes are reproducible.
func Scan(dir, ext string) ([]SourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &DirError{Dir: dir, Err: err}
	}
	files, err := collect(dir, entries, normalizeExt(ext))
	if err != nil {
		return nil, &DirError{Dir: dir, Err: err}
	}
	sortFiles(files)
	return files, nil
}

// collect stats each matching entry. Entries removed since the listing are
// dropped.
func collect(dir string, entries []fs.DirEntry, want string) ([]SourceFile, error) {
	var files []SourceFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		f, ok, err := entryFile(dir, e, want)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if ok {
			files = append(files, f)
		}
	}
	return files, nil
}

// List is Scan with no extension filter.
func List(dir string) ([]SourceFile, error) {
	return Scan(dir, "")
}

// ScanTree is Scan over dir and every subdirectory beneath it. A missing
// root is reported like any other unreadable directory.
func ScanTree(dir, ext string) ([]SourceFile, error) {
	want := normalizeExt(ext)
	var files []SourceFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		f, ok, err := entryFile(filepath.Dir(path), d, want)
		if err != nil {
			// Vanished between listing and stat; not our file anymore.
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if ok {
			files = append(files, f)
		}
		return nil
	})
	if err != nil {
		return nil, &DirError{Dir: dir, Err: err}
	}
	sortFiles(files)
	return files, nil
}

// Stems returns the set of stems in files.
func Stems(files []SourceFile) map[string]bool {
	set := make(map[string]bool, len(files))
	for _, f := range files {
		set[f.Stem] = true
	}
	return set
}

func entryFile(dir string, e fs.DirEntry, want string) (SourceFile, bool, error) {
	name := e.Name()
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if want != "" && ext != want {
		return SourceFile{}, false, nil
	}
	info, err := e.Info()
	if err != nil {
		return SourceFile{}, false, err
	}
	if !info.Mode().IsRegular() {
		return SourceFile{}, false, nil
	}
	return SourceFile{
		Path:    filepath.Join(dir, name),
		Name:    name,
		Stem:    strings.TrimSuffix(name, filepath.Ext(name)),
		Ext:     ext,
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}, true, nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

func sortFiles(files []SourceFile) {
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
}
