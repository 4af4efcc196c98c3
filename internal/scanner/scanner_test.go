package scanner

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"image-indexer/internal/indexerr"
)

// writeFiles creates empty files (and their parent dirs) under root.
func writeFiles(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		p := filepath.Join(root, filepath.FromSlash(r))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(p), err)
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
}

func sorted(paths []string) []string {
	out := append([]string(nil), paths...)
	sort.Strings(out)
	return out
}

func assertPaths(t *testing.T, got []string, want ...string) {
	t.Helper()
	g, w := sorted(got), sorted(want)
	if len(g) != len(w) {
		t.Fatalf("got %d paths %v, want %d %v", len(g), g, len(w), w)
	}
	for i := range w {
		if g[i] != w[i] {
			t.Errorf("path[%d] = %q, want %q", i, g[i], w[i])
		}
	}
}

func TestScanMixedDirectory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "root")
	writeFiles(t, root, "photo.JPG", "notes.txt", "._photo.jpg", "cache/pic.jpg")

	s, err := New([]string{root}, []string{filepath.Join(root, "cache")}, []string{"jpg"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res := s.Scan()

	assertPaths(t, res.Paths, filepath.Join(root, "photo.JPG"))
	if res.TotalFiles != len(res.Paths) {
		t.Errorf("TotalFiles = %d, want %d", res.TotalFiles, len(res.Paths))
	}
	if res.Elapsed < 0 || res.ElapsedMillis() < 0 {
		t.Errorf("Elapsed = %v, want non-negative", res.Elapsed)
	}
}

func TestScanExcludeIsComponentWise(t *testing.T) {
	root := filepath.Join(t.TempDir(), "root")
	writeFiles(t, root, "cache/a.png", "cachefoo/b.png", "cache2/c.png")

	s, err := New([]string{root}, []string{filepath.Join(root, "cache")}, []string{"png"})
	if err != nil {
		t.Fatal(err)
	}

	res := s.Scan()
	assertPaths(t, res.Paths,
		filepath.Join(root, "cachefoo", "b.png"),
		filepath.Join(root, "cache2", "c.png"),
	)
}

func TestScanMultipleRootsUnion(t *testing.T) {
	base := t.TempDir()
	rootA := filepath.Join(base, "a")
	rootB := filepath.Join(base, "b")
	writeFiles(t, rootA, "1.jpg", "sub/2.jpeg", "skip.gif")
	writeFiles(t, rootB, "3.JPEG", "deep/er/4.jpg")

	s, err := New([]string{rootA, rootB}, nil, []string{".jpg", "JPEG"})
	if err != nil {
		t.Fatal(err)
	}

	res := s.Scan()
	assertPaths(t, res.Paths,
		filepath.Join(rootA, "1.jpg"),
		filepath.Join(rootA, "sub", "2.jpeg"),
		filepath.Join(rootB, "3.JPEG"),
		filepath.Join(rootB, "deep", "er", "4.jpg"),
	)
	if res.TotalFiles != 4 {
		t.Errorf("TotalFiles = %d, want 4", res.TotalFiles)
	}
}

func TestScanUnusableRootsContributeNothing(t *testing.T) {
	base := t.TempDir()
	good := filepath.Join(base, "good")
	writeFiles(t, good, "x.png")
	fileRoot := filepath.Join(base, "file.png")
	writeFiles(t, base, "file.png")

	s, err := New([]string{filepath.Join(base, "missing"), fileRoot, good}, nil, []string{"png"})
	if err != nil {
		t.Fatal(err)
	}

	res := s.Scan()
	assertPaths(t, res.Paths, filepath.Join(good, "x.png"))
}

func TestScanNoRoots(t *testing.T) {
	s, err := New(nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	res := s.Scan()
	if res.TotalFiles != 0 || len(res.Paths) != 0 {
		t.Errorf("empty scan returned %v", res.Paths)
	}
}

func TestScanSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on Windows")
	}

	root := t.TempDir()
	writeFiles(t, root, "real.jpg", "dir/inner.jpg")
	if err := os.Symlink(filepath.Join(root, "real.jpg"), filepath.Join(root, "link.jpg")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(root, "gone.jpg"), filepath.Join(root, "dangling.jpg")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(root, "dir"), filepath.Join(root, "dirlink.jpg")); err != nil {
		t.Fatal(err)
	}

	s, err := New([]string{root}, nil, []string{"jpg"})
	if err != nil {
		t.Fatal(err)
	}

	res := s.Scan()
	assertPaths(t, res.Paths,
		filepath.Join(root, "real.jpg"),
		filepath.Join(root, "link.jpg"),
		filepath.Join(root, "dir", "inner.jpg"),
	)
}

func TestScanUnreadableDirectoryIsSkipped(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}

	root := t.TempDir()
	writeFiles(t, root, "ok.png", "locked/hidden.png")
	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	s, err := New([]string{root}, nil, []string{"png"})
	if err != nil {
		t.Fatal(err)
	}

	res := s.Scan()
	assertPaths(t, res.Paths, filepath.Join(root, "ok.png"))
}

func TestNewRejectsInvalidExtension(t *testing.T) {
	_, err := New([]string{"."}, nil, []string{"tar.gz"})
	if !indexerr.IsKind(err, indexerr.KindInvalidExtension) {
		t.Errorf("err = %v, want invalid_extension", err)
	}
}

func TestScanIsRepeatable(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.png", "b.png", "c/d.png")

	s, err := New([]string{root}, nil, []string{"png"})
	if err != nil {
		t.Fatal(err)
	}

	first := sorted(s.Scan().Paths)
	second := sorted(s.Scan().Paths)
	assertPaths(t, second, first...)
}
