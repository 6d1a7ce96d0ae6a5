package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rollerrors "git.home.luguber.info/inful/roll/internal/foundation/errors"
)

func TestStripHistory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, ".git/HEAD", ".git/objects/pack/x", "main.go", ".github/ci.yml")

	require.NoError(t, StripHistory(root))
	assert.Equal(t, []string{".github/", ".github/ci.yml", "main.go"}, listTree(t, root))

	require.NoError(t, StripHistory(root), "a second call is a no-op")
}

func TestFlattenNestedVendorReportsFileDirs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"main.go",
		"vendor/a/x.go",
		"vendor/a/b/y.go",
		"vendor/c/",
		"vendor/d/e/z.go",
		"vendor/modules.txt",
	)

	w, err := FlattenNestedVendor(root, "vendor")
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, WarnNestedVendor, w.Kind)
	assert.Equal(t, []string{"vendor", "vendor/a", "vendor/a/b", "vendor/d/e"}, w.Dirs)
	assert.Contains(t, w.String(), "vendor/a/b")
	assert.Equal(t, []string{"main.go"}, listTree(t, root))
}

func TestFlattenNestedVendorWithoutFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "vendor/a/", "vendor/b/c/", "main.go")

	w, err := FlattenNestedVendor(root, "vendor")
	require.NoError(t, err)
	assert.Nil(t, w)
	assert.NoDirExists(t, filepath.Join(root, "vendor"))
}

func TestFlattenNestedVendorAbsent(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "main.go", "lib/vendor/x.go")

	w, err := FlattenNestedVendor(root, "vendor")
	require.NoError(t, err)
	assert.Nil(t, w)
	assert.FileExists(t, filepath.Join(root, "lib", "vendor", "x.go"), "only the root vendor directory is flattened")
}

func TestFlattenNestedVendorIgnoresPlainFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "vendor")

	w, err := FlattenNestedVendor(root, "vendor")
	require.NoError(t, err)
	assert.Nil(t, w)
	assert.FileExists(t, filepath.Join(root, "vendor"))
}

func TestProvenanceRoundTrip(t *testing.T) {
	root := t.TempDir()
	p := Provenance{URL: "https://user@example.com/org/repo.git", Revision: "0123456789abcdef0123456789abcdef01234567"}

	require.NoError(t, WriteProvenance(root, DefaultManifestName, p))

	data, err := os.ReadFile(filepath.Join(root, DefaultManifestName))
	require.NoError(t, err)
	assert.Equal(t, p.URL+"\n"+p.Revision+"\n", string(data))
	assert.Equal(t, []string{DefaultManifestName}, listTree(t, root))

	got, err := ReadProvenance(root, DefaultManifestName)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestWriteProvenanceReplaces(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, WriteProvenance(root, ".version", Provenance{URL: "a", Revision: "1"}))
	require.NoError(t, WriteProvenance(root, ".version", Provenance{URL: "b", Revision: "2"}))

	got, err := ReadProvenance(root, ".version")
	require.NoError(t, err)
	assert.Equal(t, Provenance{URL: "b", Revision: "2"}, got)
}

func TestReadProvenanceErrors(t *testing.T) {
	root := t.TempDir()

	_, err := ReadProvenance(root, ".version")
	assert.True(t, rollerrors.HasCategory(err, rollerrors.CategoryFileSystem))

	writeTree(t, root, ".version")
	_, err = ReadProvenance(root, ".version")
	require.Error(t, err)
	c, ok := rollerrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, "malformed provenance manifest", c.Message())
}

func TestMeasure(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "one"), make([]byte, 1500), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "b", "two"), make([]byte, 500), 0o600))

	s, err := Measure(root)
	require.NoError(t, err)
	assert.Equal(t, Stats{Files: 2, Dirs: 2, Bytes: 2000}, s)
	assert.Equal(t, "2 files in 2 directories, 2.0 kB", s.String())
}
