package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	name := FileName("fig|83333.1.peg.4")
	assert.True(t, strings.HasPrefix(name, "fig_83333_1_peg_4-"), name)
	assert.True(t, strings.HasSuffix(name, ".png"), name)
	assert.Equal(t, name, FileName("fig|83333.1.peg.4"), "deterministic")

	assert.NotEqual(t, FileName("a.b"), FileName("a_b"), "ids that sanitize alike stay apart")
	assert.NotContains(t, FileName("../../etc/passwd"), "/")
}

func TestDirPlacement(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	p := DirPlacement{Dir: dir}

	path, err := p.Path("gene1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName("gene1")), path)
	assert.DirExists(t, dir)

	again, err := p.Path("gene1")
	require.NoError(t, err)
	assert.Equal(t, path, again)
}

func TestDirPlacement_DefaultsToTempDir(t *testing.T) {
	path, err := DirPlacement{}.Path("gene1")
	require.NoError(t, err)
	assert.Equal(t, os.TempDir(), filepath.Dir(path))
}

func TestUniqueDirPlacement(t *testing.T) {
	dir := t.TempDir()
	p := UniqueDirPlacement{Dir: dir}

	a, err := p.Path("gene1")
	require.NoError(t, err)
	b, err := p.Path("gene1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, FileName("gene1"), filepath.Base(a))
	assert.Equal(t, dir, filepath.Dir(filepath.Dir(a)))
	assert.DirExists(t, filepath.Dir(a))
}

func TestWritePNG_NoTempLeftBehind(t *testing.T) {
	features := exampleFeatures()
	d, err := Layout(features, colorsFor(features), "center", 200, false, DefaultOptions())
	require.NoError(t, err)
	img, err := Rasterize(d)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	require.NoError(t, writePNG(path, img))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.png", entries[0].Name())
}
