package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/media/captures", "/media/captures"},
		{"single trailing slash", "/media/captures/", "/media/captures"},
		{"multiple trailing slashes", "/media/captures///", "/media/captures"},
		{"root path", "/", "/"},
		{"relative path", "output", "output"},
		{"relative with slash", "output/", "output"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDirArg(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeDirArg(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolve_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Resolve("/rec"); err != nil {
		t.Fatal(err)
	}
	if cfg.WorkDir != "/rec" {
		t.Errorf("WorkDir = %q, want /rec", cfg.WorkDir)
	}
	if want := filepath.Join("/rec", DefaultOutputDirName); cfg.OutputDir != want {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, want)
	}
	if want := filepath.Join("/rec", MergeDirName); cfg.MergeOutputDir() != want {
		t.Errorf("MergeOutputDir = %q, want %q", cfg.MergeOutputDir(), want)
	}
}

func TestResolve_RelativePaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkDir = "captures/"
	cfg.OutputDir = "out"
	if err := cfg.Resolve("/home/me"); err != nil {
		t.Fatal(err)
	}
	if cfg.WorkDir != "/home/me/captures" {
		t.Errorf("WorkDir = %q", cfg.WorkDir)
	}
	if cfg.OutputDir != "/home/me/out" {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
}

func TestPollInterval(t *testing.T) {
	tests := []struct {
		seconds int
		want    time.Duration
	}{
		{30, 30 * time.Second},
		{5, 5 * time.Second},
		{0, DefaultPollSeconds * time.Second},
		{-10, 10 * time.Second},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.PollSeconds = tt.seconds
		if got := cfg.PollInterval(); got != tt.want {
			t.Errorf("PollInterval(%d) = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults with paths", func(c *Config) {}, false},
		{"merge needs no output", func(c *Config) { c.Command = CommandMerge; c.OutputDir = "" }, false},
		{"unknown command", func(c *Config) { c.Command = "split" }, true},
		{"bad color", func(c *Config) { c.ColorMode = "rainbow" }, true},
		{"empty ffmpeg", func(c *Config) { c.FFmpegBin = " " }, true},
		{"missing workdir", func(c *Config) { c.WorkDir = "" }, true},
		{"convert missing output", func(c *Config) { c.OutputDir = "" }, true},
		{"negative stable window", func(c *Config) { c.StableAfter = -time.Second }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.WorkDir = "/rec"
			cfg.OutputDir = "/rec/out"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPollSecondsValue_Lenient(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"45", 45},
		{"45s", 45},
		{"abc", DefaultPollSeconds},
		{"-5", -5},
	}
	for _, tt := range tests {
		n := 0
		v := &pollSecondsValue{&n}
		if err := v.Set(tt.in); err != nil {
			t.Fatalf("Set(%q): %v", tt.in, err)
		}
		if n != tt.want {
			t.Errorf("Set(%q) = %d, want %d", tt.in, n, tt.want)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recmux.yaml")
	body := "cwd: captures\nwatch: true\narchive: true\ntimeout: 12\nstable_after_seconds: 5\nffmpeg: /opt/ffmpeg\ncolor: NEVER\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if err := LoadFile(&cfg, path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.WorkDir != filepath.Join(dir, "captures") {
		t.Errorf("WorkDir = %q", cfg.WorkDir)
	}
	if !cfg.Watch || !cfg.Archive {
		t.Errorf("Watch/Archive not applied: %+v", cfg)
	}
	if cfg.RemoveSource {
		t.Error("RemoveSource should keep its default")
	}
	if cfg.PollSeconds != 12 {
		t.Errorf("PollSeconds = %d, want 12", cfg.PollSeconds)
	}
	if cfg.StableAfter != 5*time.Second {
		t.Errorf("StableAfter = %v, want 5s", cfg.StableAfter)
	}
	if cfg.FFmpegBin != "/opt/ffmpeg" {
		t.Errorf("FFmpegBin = %q", cfg.FFmpegBin)
	}
	if cfg.ColorMode != ColorNever {
		t.Errorf("ColorMode = %q", cfg.ColorMode)
	}
}

func TestLoadFile_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recmux.yaml")
	if err := os.WriteFile(path, []byte("wacth: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	if err := LoadFile(&cfg, path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvWatch:   "true",
		EnvTimeout: "7",
		EnvOutput:  "/srv/out",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	cfg := DefaultConfig()
	if err := ApplyEnv(&cfg, lookup); err != nil {
		t.Fatal(err)
	}
	if !cfg.Watch || cfg.PollSeconds != 7 || cfg.OutputDir != "/srv/out" {
		t.Errorf("env not applied: %+v", cfg)
	}

	env[EnvArchive] = "maybe"
	if err := ApplyEnv(&cfg, lookup); err == nil || !strings.Contains(err.Error(), EnvArchive) {
		t.Errorf("expected error naming %s, got %v", EnvArchive, err)
	}
}

func TestLoadDotEnv_Missing(t *testing.T) {
	if err := LoadDotEnv(t.TempDir()); err != nil {
		t.Errorf("missing .env should not fail: %v", err)
	}
}

func TestFinalize_FlagsWinOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recmux.yaml")
	if err := os.WriteFile(path, []byte("watch: true\ntimeout: 90\narchive: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	var n NegatedFlags
	fs := pflag.NewFlagSet("convert", pflag.ContinueOnError)
	BindPersistentFlags(fs, &cfg, &n)
	BindConvertFlags(fs, &cfg)
	if err := fs.Parse([]string{"--config", path, "-t", "15", "--no-color", "-c", dir}); err != nil {
		t.Fatal(err)
	}
	if err := Finalize(fs, &cfg, &n, dir); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if cfg.PollSeconds != 15 {
		t.Errorf("PollSeconds = %d, want flag value 15", cfg.PollSeconds)
	}
	if !cfg.Watch || !cfg.Archive {
		t.Error("file values should apply where no flag was given")
	}
	if cfg.ColorMode != ColorNever {
		t.Errorf("ColorMode = %q, want never", cfg.ColorMode)
	}
	if cfg.WorkDir != dir {
		t.Errorf("WorkDir = %q, want %q", cfg.WorkDir, dir)
	}
	if cfg.OutputDir != filepath.Join(dir, DefaultOutputDirName) {
		t.Errorf("OutputDir = %q", cfg.OutputDir)
	}
}
