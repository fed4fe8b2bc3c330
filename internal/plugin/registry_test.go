package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// scriptFor produces a minimal valid script answering to the given
// bindings and returning url from process.
func scriptFor(url string, bindings ...string) string {
	quoted := ""
	for i, b := range bindings {
		if i > 0 {
			quoted += ", "
		}
		quoted += fmt.Sprintf("%q", b)
	}
	return fmt.Sprintf(`
function describe()
    return {bindings = {%s}, description = "test", example = "%s x"}
end
function process(args)
    return %q
end
`, quoted, bindings[0], url)
}

func newTestRegistry(t *testing.T, vendorDirs ...string) (*Registry, string) {
	t.Helper()
	userDir := filepath.Join(t.TempDir(), "commands")
	paths := NewPathsAt(userDir, vendorDirs)
	reg := NewRegistry(paths, NewLoader(zerolog.Nop()), zerolog.Nop())
	return reg, userDir
}

func TestRebuildAndLookup(t *testing.T) {
	reg, userDir := newTestRegistry(t)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeScript(t, userDir, "gh.lua", scriptFor("https://github.com", "gh", "github"))

	if err := reg.Rebuild(); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	for _, token := range []string{"gh", "github"} {
		d, ok := reg.Lookup(token)
		if !ok {
			t.Fatalf("Lookup(%q) missed", token)
		}
		if d.Primary() != "gh" {
			t.Errorf("Lookup(%q).Primary() = %q", token, d.Primary())
		}
	}

	if _, ok := reg.Lookup("GH"); ok {
		t.Error("Lookup is case-sensitive; GH should miss")
	}
	if reg.Len() != 2 {
		t.Errorf("Len() = %d, want 2", reg.Len())
	}
}

func TestRebuildRecursive(t *testing.T) {
	reg, userDir := newTestRegistry(t)
	nested := filepath.Join(userDir, "social")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	writeScript(t, nested, "tw.lua", scriptFor("https://twitter.com", "tw"))

	if err := reg.Rebuild(); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	d, ok := reg.Lookup("tw")
	if !ok {
		t.Fatal("Lookup(tw) missed for nested script")
	}
	if d.Origin != "social" {
		t.Errorf("Origin = %q, want social", d.Origin)
	}
}

func TestRebuildSkipsBadSibling(t *testing.T) {
	reg, userDir := newTestRegistry(t)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeScript(t, userDir, "bad.lua", `function describe() return {bindings = {"bad"}, description = "d", example = "e"} end`)
	writeScript(t, userDir, "good.lua", scriptFor("https://example.com", "good"))

	if err := reg.Rebuild(); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	if _, ok := reg.Lookup("bad"); ok {
		t.Error("script without process() should be skipped")
	}
	if _, ok := reg.Lookup("good"); !ok {
		t.Error("valid sibling should load despite bad file")
	}
}

func TestUserOverridesVendor(t *testing.T) {
	vendorDir := t.TempDir()
	writeScript(t, vendorDir, "gh.lua", scriptFor("https://vendor.example", "gh"))

	reg, userDir := newTestRegistry(t, vendorDir)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeScript(t, userDir, "gh.lua", scriptFor("https://user.example", "gh"))

	if err := reg.Rebuild(); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	d, ok := reg.Lookup("gh")
	if !ok {
		t.Fatal("Lookup(gh) missed")
	}
	if d.Origin != OriginUser {
		t.Errorf("Origin = %q, want user script to win the conflict", d.Origin)
	}

	url, err := d.Execute(context.Background(), "gh")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if url != "https://user.example" {
		t.Errorf("Execute() = %q, want the user script's URL", url)
	}
}

func TestListUniqueDeduplicates(t *testing.T) {
	reg, userDir := newTestRegistry(t)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeScript(t, userDir, "ig.lua", scriptFor("https://instagram.com", "ig", "instagram"))
	writeScript(t, userDir, "tw.lua", scriptFor("https://twitter.com", "tw"))

	if err := reg.Rebuild(); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	unique := reg.ListUnique()
	if len(unique) != 2 {
		t.Fatalf("ListUnique() = %d entries, want 2", len(unique))
	}
	for _, d := range unique {
		if d.Primary() == "ig" {
			if len(d.Bindings) != 2 || d.Bindings[0] != "ig" || d.Bindings[1] != "instagram" {
				t.Errorf("Bindings = %v, want [ig instagram]", d.Bindings)
			}
		}
	}
}

func TestRebuildDropsRemovedScript(t *testing.T) {
	reg, userDir := newTestRegistry(t)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := writeScript(t, userDir, "tmp.lua", scriptFor("https://example.com", "tmp"))

	if err := reg.Rebuild(); err != nil {
		t.Fatal(err)
	}
	if _, ok := reg.Lookup("tmp"); !ok {
		t.Fatal("Lookup(tmp) missed after load")
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := reg.Rebuild(); err != nil {
		t.Fatal(err)
	}
	if _, ok := reg.Lookup("tmp"); ok {
		t.Error("descriptor survived removal of its file")
	}
}

func TestConcurrentLookupDuringRebuild(t *testing.T) {
	reg, userDir := newTestRegistry(t)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeScript(t, userDir, "gh.lua", scriptFor("https://github.com", "gh", "github"))
	if err := reg.Rebuild(); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				// gh and github always point at the same descriptor:
				// a reader must never observe a snapshot with only
				// one of a script's bindings present.
				a, okA := reg.Lookup("gh")
				b, okB := reg.Lookup("github")
				if okA != okB {
					t.Error("observed a partially populated snapshot")
					return
				}
				if okA && a.Primary() != b.Primary() {
					t.Error("bindings resolved to different descriptors")
					return
				}
			}
		}()
	}

	for i := 0; i < 20; i++ {
		if err := reg.Rebuild(); err != nil {
			t.Errorf("Rebuild() error = %v", err)
			break
		}
	}
	close(done)
	wg.Wait()
}
