// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/modhost/modman/internal/issue"
	"github.com/modhost/modman/internal/testutil"
	"github.com/modhost/modman/pkg/platform"
)

// isolate clears MODMAN_* overrides and moves into an empty working
// directory so neither the environment nor a stray ./config.cue leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range []string{"MODMAN_MODS_ROOT", "MODMAN_FALLBACK_ROOT", "MODMAN_HOST_VERSION", "MODMAN_UI_VERBOSE", "MODMAN_UI_COLOR_SCHEME"} {
		t.Cleanup(testutil.MustUnsetenv(t, key))
	}
	wd := t.TempDir()
	t.Cleanup(testutil.MustChdir(t, wd))
	t.Cleanup(Reset)
	return wd
}

func load(t *testing.T, opts LoadOptions) (*Config, error) {
	t.Helper()
	return NewProvider().Load(context.Background(), opts)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ModsRoot != "mods" {
		t.Errorf("expected default mods root to be mods, got %s", cfg.ModsRoot)
	}
	if cfg.FallbackRoot != "assets" {
		t.Errorf("expected default fallback root to be assets, got %s", cfg.FallbackRoot)
	}
	if cfg.HostVersion != "0.0.0" {
		t.Errorf("expected default host version to be 0.0.0, got %s", cfg.HostVersion)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("expected default color scheme to be auto, got %s", cfg.UI.ColorScheme)
	}
	if cfg.UI.Verbose {
		t.Error("expected default verbose to be false")
	}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("default config must be valid: %v", errs)
	}
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS != platform.Linux {
		t.Skip("XDG_CONFIG_HOME only applies on Linux")
	}
	t.Cleanup(Reset)

	tmp := t.TempDir()
	t.Cleanup(testutil.SetConfigHome(t, tmp))

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error: %v", err)
	}
	if want := filepath.Join(tmp, AppName); dir != want {
		t.Errorf("ConfigDir() = %s, want %s", dir, want)
	}

	SetConfigDirOverride("/custom")
	if dir, _ := ConfigDir(); dir != "/custom" {
		t.Errorf("override ignored: %s", dir)
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := load(t, LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	isolate(t)

	cfgDir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(cfgDir, "config.cue"), `
mods_root: "game/mods"
host_version: "1.4.0"
ui: verbose: true
`)

	cfg, err := load(t, LoadOptions{ConfigDirPath: cfgDir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ModsRoot != "game/mods" || cfg.HostVersion != "1.4.0" || !cfg.UI.Verbose {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.FallbackRoot != "assets" || cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("unset fields must keep defaults, got %+v", cfg)
	}
}

func TestLoad_WorkingDirectoryFile(t *testing.T) {
	wd := isolate(t)
	testutil.WriteFile(t, filepath.Join(wd, "config.cue"), `fallback_root: "data"`)

	cfg, err := load(t, LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.FallbackRoot != "data" {
		t.Errorf("FallbackRoot = %s, want data", cfg.FallbackRoot)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	isolate(t)

	_, err := load(t, LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue")})
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("expected ActionableError, got %v", err)
	}
	if ae.IssueId != issue.ConfigLoadFailedId {
		t.Errorf("IssueId = %d, want ConfigLoadFailedId", ae.IssueId)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	isolate(t)

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{name: "bad color scheme", content: `ui: color_scheme: "neon"`, field: "color_scheme"},
		{name: "unknown key", content: `modsroot: "x"`, field: "modsroot"},
		{name: "empty root", content: `mods_root: ""`, field: "mods_root"},
		{name: "bad version", content: `host_version: "latest"`, field: "host_version"},
		{name: "syntax error", content: `mods_root: `, field: "config.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.cue")
			testutil.WriteFile(t, path, tt.content)

			_, err := load(t, LoadOptions{ConfigFilePath: path})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error should mention %q: %v", tt.field, err)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)

	cfgDir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(cfgDir, "config.cue"), `mods_root: "from-file"`)
	t.Cleanup(testutil.MustSetenv(t, "MODMAN_MODS_ROOT", "from-env"))
	t.Cleanup(testutil.MustSetenv(t, "MODMAN_HOST_VERSION", "2.1.0"))

	cfg, err := load(t, LoadOptions{ConfigDirPath: cfgDir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ModsRoot != "from-env" {
		t.Errorf("ModsRoot = %s, want from-env", cfg.ModsRoot)
	}
	if cfg.HostVersion != "2.1.0" {
		t.Errorf("HostVersion = %s, want 2.1.0", cfg.HostVersion)
	}
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	isolate(t)
	t.Cleanup(testutil.MustSetenv(t, "MODMAN_HOST_VERSION", "banana"))

	_, err := load(t, LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Load() error = %v, want ErrInvalidConfig", err)
	}
	if !errors.Is(err, ErrInvalidHostVersion) {
		t.Errorf("expected the field error to be reachable, got %v", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestSaveTo_LoadsBack(t *testing.T) {
	isolate(t)

	cfg := &Config{
		ModsRoot:     "C:/Games/Host/mods",
		FallbackRoot: "/opt/host/assets",
		HostVersion:  "1.4.2",
		UI:           UIConfig{Verbose: true, ColorScheme: ColorSchemeDark},
	}
	path := filepath.Join(t.TempDir(), "nested", "config.cue")
	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	got, err := load(t, LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if *got != *cfg {
		t.Errorf("Load() = %+v, want %+v", got, cfg)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	isolate(t)
	cfgDir := t.TempDir()
	SetConfigDirOverride(cfgDir)

	path, err := CreateDefaultConfig(false)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error: %v", err)
	}
	if want := filepath.Join(cfgDir, "config.cue"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}

	testutil.WriteFile(t, path, `host_version: "3.0.0"`)
	if _, err := CreateDefaultConfig(false); err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(path); !strings.Contains(string(data), "3.0.0") {
		t.Error("existing config was overwritten without force")
	}

	if _, err := CreateDefaultConfig(true); err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(path); !strings.Contains(string(data), `host_version: "0.0.0"`) {
		t.Errorf("force did not rewrite defaults:\n%s", data)
	}
}

func TestLocate(t *testing.T) {
	wd := isolate(t)
	cfgDir := t.TempDir()

	if p, err := Locate(LoadOptions{ConfigDirPath: cfgDir}); err != nil || p != "" {
		t.Errorf("Locate() = %q, %v; want empty", p, err)
	}

	testutil.WriteFile(t, filepath.Join(wd, "config.cue"), "")
	if p, _ := Locate(LoadOptions{ConfigDirPath: cfgDir}); p != "config.cue" {
		t.Errorf("Locate() = %q, want working directory file", p)
	}

	dirFile := filepath.Join(cfgDir, "config.cue")
	testutil.WriteFile(t, dirFile, "")
	if p, _ := Locate(LoadOptions{ConfigDirPath: cfgDir}); p != dirFile {
		t.Errorf("Locate() = %q, want %q", p, dirFile)
	}

	if p, _ := Locate(LoadOptions{ConfigFilePath: "explicit.cue"}); p != "explicit.cue" {
		t.Errorf("Locate() = %q, want explicit path", p)
	}
}
