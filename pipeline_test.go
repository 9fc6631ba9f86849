package mems

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bodgit/mems/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	hidden := filepath.Join(dir, ".hidden")
	require.NoError(t, os.Mkdir(sub, 0755))
	require.NoError(t, os.Mkdir(hidden, 0755))

	pattern := checkerboardPNG(t, 2, 2)
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "a.png"), pattern, 0644))
	require.NoError(t, ioutil.WriteFile(filepath.Join(sub, "b.PNG"), pattern, 0644))
	require.NoError(t, ioutil.WriteFile(filepath.Join(hidden, "c.png"), pattern, 0644))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "broken.png"), []byte("nope"), 0644))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	// Same base name as a.png, solid black
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "a.gif"), solidGIF(t, 2, 2, color.Black), 0644))

	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 2, 2
	cfg.Orientation = table.RowsPerParameter
	s, err := New(cfg, discard)
	require.NoError(t, err)

	require.NoError(t, s.Batch(dir))

	// 2, 1, 1, 2 packed least significant first
	want := "Parameter\tPixels\tValue\n10\t1-4\t68\n"
	for _, file := range []string{filepath.Join(dir, "a.png.tsv"), filepath.Join(sub, "b.PNG.tsv")} {
		b, err := ioutil.ReadFile(file)
		require.NoError(t, err)
		assert.Equal(t, want, string(b))
	}

	// 1, 1, 1, 1
	b, err := ioutil.ReadFile(filepath.Join(dir, "a.gif.tsv"))
	require.NoError(t, err)
	assert.Equal(t, "Parameter\tPixels\tValue\n10\t1-4\t40\n", string(b))

	for _, file := range []string{filepath.Join(dir, "a.tsv"), filepath.Join(hidden, "c.png.tsv"), filepath.Join(dir, "broken.png.tsv"), filepath.Join(dir, "notes.txt.tsv")} {
		_, err := os.Stat(file)
		assert.True(t, os.IsNotExist(err), file)
	}

	// The session grid is untouched
	assert.Equal(t, 0, s.Calculate().Active)
}

func TestBatchMissingDirectory(t *testing.T) {
	s, err := New(DefaultConfig(), discard)
	require.NoError(t, err)

	assert.Error(t, s.Batch(filepath.Join(t.TempDir(), "missing")))
}

func TestIsImage(t *testing.T) {
	for _, file := range []string{"a.png", "b.JPG", "c.jpeg", "d.gif", "e.bmp", "f.tif", "g.tiff", "h.webp"} {
		assert.True(t, isImage(file), file)
	}
	for _, file := range []string{"a.tsv", "b", strings.Repeat("x", 3) + ".txt"} {
		assert.False(t, isImage(file), file)
	}
}

func solidGIF(t *testing.T, width, height int, c color.Color) []byte {
	t.Helper()
	m := image.NewPaletted(image.Rect(0, 0, width, height), color.Palette{c})
	b := new(bytes.Buffer)
	require.NoError(t, gif.Encode(b, m, nil))
	return b.Bytes()
}
