package fsx

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func write(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	created, err := EnsureDir(dir)
	if err != nil || !created {
		t.Fatalf("first EnsureDir = %v, %v; want true, nil", created, err)
	}
	created, err = EnsureDir(dir)
	if err != nil || created {
		t.Fatalf("second EnsureDir = %v, %v; want false, nil", created, err)
	}
}

func TestEnsureDir_FileInTheWay(t *testing.T) {
	p := filepath.Join(t.TempDir(), "file")
	write(t, p, "x")
	if _, err := EnsureDir(p); !errors.Is(err, ErrDirectoryCreateFailed) {
		t.Fatalf("err = %v, want ErrDirectoryCreateFailed", err)
	}
}

func TestMove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mp4")
	dst := filepath.Join(dir, "out", "a.mp4")
	write(t, src, "data")
	if err := os.Mkdir(filepath.Dir(dst), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := Move(src, dst); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if Exists(src) || !Exists(dst) {
		t.Fatal("file not moved")
	}
}

func TestMove_NeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.mp4")
	dst := filepath.Join(dir, "b.mp4")
	write(t, src, "new")
	write(t, dst, "old")

	err := Move(src, dst)
	if !errors.Is(err, ErrMoveFailed) || !errors.Is(err, fs.ErrExist) {
		t.Fatalf("err = %v, want ErrMoveFailed wrapping ErrExist", err)
	}
	b, _ := os.ReadFile(dst)
	if string(b) != "old" {
		t.Errorf("destination overwritten: %q", b)
	}
}

func TestMove_InvalidPath(t *testing.T) {
	err := Move("bad\xffname.mp4", filepath.Join(t.TempDir(), "x.mp4"))
	if !errors.Is(err, ErrMoveFailed) || !errors.Is(err, ErrPathEncoding) {
		t.Fatalf("err = %v, want ErrMoveFailed and ErrPathEncoding", err)
	}
}

func TestRemove(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a.flv")
	write(t, p, "x")
	if err := Remove(p); err != nil {
		t.Fatal(err)
	}
	if err := Remove(p); !errors.Is(err, ErrDeleteFailed) {
		t.Fatalf("second Remove err = %v, want ErrDeleteFailed", err)
	}
}

func TestRemoveStale(t *testing.T) {
	p := filepath.Join(t.TempDir(), "talk.mp4")
	removed, err := RemoveStale(p)
	if err != nil || removed {
		t.Fatalf("missing: %v, %v", removed, err)
	}
	write(t, p, "leftover")
	removed, err = RemoveStale(p)
	if err != nil || !removed || Exists(p) {
		t.Fatalf("present: %v, %v", removed, err)
	}
}

func TestCheckPath(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"/rec/live.flv", false},
		{"/rec/直播.flv", false},
		{"/rec/\xff.flv", true},
		{"/rec/a\x00b.flv", true},
	}
	for _, tt := range tests {
		err := CheckPath(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("CheckPath(%q) = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrPathEncoding) {
			t.Errorf("CheckPath(%q) not ErrPathEncoding: %v", tt.in, err)
		}
	}
}
