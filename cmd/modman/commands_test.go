// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/modhost/modman/internal/issue"
	"github.com/modhost/modman/internal/testutil"
	"github.com/modhost/modman/pkg/modpkg"
	"github.com/modhost/modman/pkg/types"
)

func TestListCommand_Text(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t).withStandardPackages()
	if err := h.run(t, "list"); err != nil {
		t.Fatalf("list error: %v", err)
	}

	out := h.stdout.String()
	for _, want := range []string{"alpha", "beta", "gamma", "Alpha Textures", "v1.1.0", "Extra maps for skirmish", "incompatible"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "alpha") > strings.Index(out, "gamma") {
		t.Error("list output is not in discovery order")
	}
}

func TestListCommand_Empty(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)
	if err := h.run(t, "list"); err != nil {
		t.Fatalf("list error: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "no packages found") {
		t.Errorf("list output = %q, want empty notice", h.stdout.String())
	}
}

func TestListCommand_YAMLIncompatible(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t).withStandardPackages()
	if err := h.run(t, "list", "--incompatible", "--format", "yaml"); err != nil {
		t.Fatalf("list error: %v", err)
	}

	var listing packageListing
	if err := yaml.Unmarshal(h.stdout.Bytes(), &listing); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, h.stdout.String())
	}
	if len(listing.Packages) != 1 || listing.Packages[0].Dir != "beta" {
		t.Fatalf("Packages = %+v, want only beta", listing.Packages)
	}
	if listing.Packages[0].Compatible {
		t.Error("beta reported as compatible")
	}
	if listing.HostVersion != "1.0.0" {
		t.Errorf("HostVersion = %q, want 1.0.0", listing.HostVersion)
	}
	if listing.Packages[0].ID != modpkg.PackageID("beta").String() {
		t.Errorf("ID = %q, want %s", listing.Packages[0].ID, modpkg.PackageID("beta"))
	}
}

func TestListCommand_TOMLCompatible(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t).withStandardPackages()
	if err := h.run(t, "list", "--compatible", "-f", "toml"); err != nil {
		t.Fatalf("list error: %v", err)
	}

	var listing packageListing
	if err := toml.Unmarshal(h.stdout.Bytes(), &listing); err != nil {
		t.Fatalf("output is not TOML: %v\n%s", err, h.stdout.String())
	}
	if len(listing.Packages) != 2 {
		t.Fatalf("got %d packages, want 2", len(listing.Packages))
	}
	if listing.Packages[0].Dir != "alpha" || listing.Packages[1].Dir != "gamma" {
		t.Errorf("Packages = %+v, want alpha, gamma", listing.Packages)
	}
	if listing.Packages[1].Index != 2 {
		t.Errorf("gamma Index = %d, want 2", listing.Packages[1].Index)
	}
}

func TestListCommand_FlagErrors(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)

	err := h.run(t, "list", "--format", "xml")
	if got := exitCodeOf(err); got != types.ExitUsage {
		t.Errorf("--format xml exit code = %d, want %d", got, types.ExitUsage)
	}

	if err := h.run(t, "list", "--compatible", "--incompatible"); err == nil {
		t.Error("--compatible --incompatible should be rejected")
	}

	err = h.run(t, "list", "--sort", "size")
	if got := exitCodeOf(err); got != types.ExitUsage {
		t.Errorf("--sort size exit code = %d, want %d", got, types.ExitUsage)
	}
}

func TestSortEntries(t *testing.T) {
	t.Parallel()

	newEntries := func() []modpkg.Entry {
		return []modpkg.Entry{
			{Index: 0, Dir: "a", Manifest: modpkg.PackageManifest{Name: "gamma", Version: "1.0.0-rc.9"}},
			{Index: 1, Dir: "b", Manifest: modpkg.PackageManifest{Name: "Alpha"}},
			{Index: 2, Dir: "c", Manifest: modpkg.PackageManifest{Name: "beta", Version: "1.0.0-rc.10"}},
		}
	}

	tests := []struct {
		by   string
		want []int
	}{
		{sortIndex, []int{0, 1, 2}},
		{sortName, []int{1, 2, 0}},
		{sortVersion, []int{2, 0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.by, func(t *testing.T) {
			t.Parallel()

			got := sortEntries(newEntries(), tt.by)
			for i, e := range got {
				if e.Index != tt.want[i] {
					t.Errorf("sortEntries(%s) order = %v, want %v", tt.by, indices(got), tt.want)
					break
				}
			}
		})
	}

	h := newCLIHarness(t).withStandardPackages()
	if err := h.run(t, "list", "--sort", "version"); err != nil {
		t.Fatalf("list error: %v", err)
	}
	if out := h.stdout.String(); strings.Index(out, "beta") > strings.Index(out, "gamma") {
		t.Errorf("list --sort version put gamma (no version) before beta:\n%s", out)
	}
}

func indices(entries []modpkg.Entry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Index
	}
	return out
}

func TestShowCommand(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t).withStandardPackages()

	tests := []struct {
		name     string
		selector string
		want     []string
	}{
		{"by dir", "alpha", []string{"Alpha Textures", "kim", "^1.0", "compatible", modpkg.PackageID("alpha").String()}},
		{"by dir case-insensitive", "GAMMA", []string{"Gamma Maps", "Extra maps for skirmish"}},
		{"by index", "1", []string{"Beta Sounds", "incompatible"}},
	}

	for _, tt := range tests {
		if err := h.run(t, "show", tt.selector); err != nil {
			t.Fatalf("%s: show error: %v", tt.name, err)
		}
		for _, want := range tt.want {
			if !strings.Contains(h.stdout.String(), want) {
				t.Errorf("%s: output missing %q:\n%s", tt.name, want, h.stdout.String())
			}
		}
	}
}

func TestShowCommand_NullFields(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)
	h.tree.AddPackage("bare", testutil.Manifest{})

	if err := h.run(t, "show", "bare"); err != nil {
		t.Fatalf("show error: %v", err)
	}
	out := h.stdout.String()
	if !strings.Contains(out, "(unnamed)") || !strings.Contains(out, "(not set)") {
		t.Errorf("show output =\n%s\nwant placeholders for null fields", out)
	}
}

func TestShowCommand_WarnsOnUnparseableRange(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t).withStandardPackages()
	h.tree.AddPackage("delta", testutil.Manifest{Name: "Delta", Supported: "banana"})

	if err := h.run(t, "show", "delta"); err != nil {
		t.Fatalf("show error: %v", err)
	}
	if out := h.stdout.String(); !strings.Contains(out, `supported range "banana" is not understood`) {
		t.Errorf("show output =\n%s\nwant range warning", out)
	}

	if err := h.run(t, "show", "alpha"); err != nil {
		t.Fatalf("show error: %v", err)
	}
	if strings.Contains(h.stdout.String(), "not understood") {
		t.Errorf("valid range produced a warning:\n%s", h.stdout.String())
	}
}

func TestShowCommand_UnknownPackage(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t).withStandardPackages()

	for _, selector := range []string{"delta", "3", "99"} {
		err := h.run(t, "show", selector)
		if got := exitCodeOf(err); got != types.ExitUsage {
			t.Errorf("show %s exit code = %d, want %d", selector, got, types.ExitUsage)
		}
		requireIssue(t, err, issue.PackageNotFoundId)
	}
}

func TestSearchCommand(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t).withStandardPackages()

	if err := h.run(t, "search", "sound"); err != nil {
		t.Fatalf("search error: %v", err)
	}
	out := h.stdout.String()
	if !strings.Contains(out, "beta") || strings.Contains(out, "alpha") {
		t.Errorf("search sound =\n%s\nwant only beta", out)
	}

	if err := h.run(t, "search", "zzzz"); err != nil {
		t.Fatalf("search error: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "No packages match") {
		t.Errorf("search zzzz = %q, want no-match notice", h.stdout.String())
	}
}

func TestSearchEntries_RanksAndLimits(t *testing.T) {
	t.Parallel()

	entries := []modpkg.Entry{
		{Index: 0, Dir: "hd-textures", Manifest: modpkg.PackageManifest{Name: "HD Textures", Author: "kim"}},
		{Index: 1, Dir: "sounds", Manifest: modpkg.PackageManifest{Name: "Sounds", Author: "lee"}},
		{Index: 2, Dir: "kim-maps", Manifest: modpkg.PackageManifest{Name: "Maps", Author: "kim"}},
	}

	got := searchEntries(entries, "kim")
	if len(got) != 2 {
		t.Fatalf("searchEntries(kim) returned %d entries, want 2", len(got))
	}
	for _, e := range got {
		if e.Index == 1 {
			t.Errorf("searchEntries(kim) matched %q", e.Dir)
		}
	}

	h := newCLIHarness(t).withStandardPackages()
	if err := h.run(t, "search", "a", "--limit", "1"); err != nil {
		t.Fatalf("search error: %v", err)
	}
	if lines := strings.Count(strings.TrimSpace(h.stdout.String()), "\n") + 1; lines != 1 {
		t.Errorf("search --limit 1 printed %d lines:\n%s", lines, h.stdout.String())
	}
}

func TestResolveCommand(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t).withStandardPackages()
	base := h.tree.AddFallbackFile("textures/rock.png", "base")
	override := h.tree.AddModFile("alpha", "textures/rock.png", "hd")
	h.tree.AddModFile("beta", "sounds/boom.ogg", "loud")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"fallback without mod", []string{"resolve", "textures/rock.png"}, base},
		{"mod overrides fallback", []string{"resolve", "textures/rock.png", "--mod", "alpha"}, override},
		{"mod by index", []string{"resolve", "textures/rock.png", "-m", "0"}, override},
		{"mod without file falls back", []string{"resolve", "textures/rock.png", "--mod", "gamma"}, base},
	}

	for _, tt := range tests {
		if err := h.run(t, tt.args...); err != nil {
			t.Fatalf("%s: resolve error: %v", tt.name, err)
		}
		if got := strings.TrimSpace(h.stdout.String()); got != tt.want {
			t.Errorf("%s: resolved %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestResolveCommand_Failures(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t).withStandardPackages()
	h.tree.AddModFile("beta", "sounds/boom.ogg", "loud")

	tests := []struct {
		name     string
		args     []string
		wantCode types.ExitCode
		wantID   issue.Id
	}{
		{"missing asset", []string{"resolve", "textures/none.png"}, types.ExitNotResolved, issue.AssetNotFoundId},
		{"escapes root", []string{"resolve", "../secret.txt"}, types.ExitNotResolved, issue.PathOutsideRootsId},
		{"outside roots", []string{"resolve", filepath.Join(h.tree.Root, "elsewhere.txt")}, types.ExitNotResolved, issue.PathOutsideRootsId},
		{"incompatible mod", []string{"resolve", "sounds/boom.ogg", "--mod", "beta"}, types.ExitBadPackage, issue.IncompatiblePackageId},
		{"unknown mod", []string{"resolve", "sounds/boom.ogg", "--mod", "delta"}, types.ExitUsage, issue.PackageNotFoundId},
	}

	for _, tt := range tests {
		err := h.run(t, tt.args...)
		if got := exitCodeOf(err); got != tt.wantCode {
			t.Errorf("%s: exit code = %d, want %d (err: %v)", tt.name, got, tt.wantCode, err)
			continue
		}
		requireIssue(t, err, tt.wantID)
	}
}

func TestIssueCommand(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)

	if err := h.run(t, "issue"); err != nil {
		t.Fatalf("issue error: %v", err)
	}
	for _, name := range issue.Names() {
		if !strings.Contains(h.stdout.String(), name) {
			t.Errorf("issue listing missing %q", name)
		}
	}

	if err := h.run(t, "issue", "malformed-package", "--raw"); err != nil {
		t.Fatalf("issue --raw error: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "# Malformed package!") {
		t.Errorf("issue --raw output =\n%s\nwant markdown heading", h.stdout.String())
	}

	if err := h.run(t, "issue", "asset-not-found"); err != nil {
		t.Fatalf("issue error: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "Asset not found") {
		t.Errorf("rendered issue =\n%s\nwant title", h.stdout.String())
	}

	err := h.run(t, "issue", "no-such-issue")
	if got := exitCodeOf(err); got != types.ExitUsage {
		t.Errorf("unknown issue exit code = %d, want %d", got, types.ExitUsage)
	}
}

func TestConfigShowCommand(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)
	explicit := filepath.Join(h.tree.Root, "custom.cue")

	if err := h.run(t, "config", "show", "--config", explicit, "--host-version", "3.2.1"); err != nil {
		t.Fatalf("config show error: %v", err)
	}
	out := h.stdout.String()
	for _, want := range []string{"// source: " + explicit, `host_version: "3.2.1"`, "mods_root:", "color_scheme:"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigPathCommand_Explicit(t *testing.T) {
	t.Parallel()

	h := newCLIHarness(t)
	explicit := filepath.Join(h.tree.Root, "custom.cue")

	if err := h.run(t, "config", "path", "--config", explicit); err != nil {
		t.Fatalf("config path error: %v", err)
	}
	if got := strings.TrimSpace(h.stdout.String()); got != explicit {
		t.Errorf("config path = %q, want %q", got, explicit)
	}
}

func TestConfigInitCommand(t *testing.T) {
	// Not parallel: points the config directory at a temp dir.
	dir := t.TempDir()
	t.Cleanup(testutil.SetConfigHome(t, dir))

	h := newCLIHarness(t)

	if err := h.run(t, "config", "init"); err != nil {
		t.Fatalf("config init error: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "Created config") {
		t.Errorf("first init output = %q", h.stdout.String())
	}

	if err := h.run(t, "config", "init"); err != nil {
		t.Fatalf("second config init error: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "already exists") {
		t.Errorf("second init output = %q, want already-exists notice", h.stdout.String())
	}

	if err := h.run(t, "config", "init", "--force"); err != nil {
		t.Fatalf("config init --force error: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "Created config") {
		t.Errorf("forced init output = %q", h.stdout.String())
	}
}
