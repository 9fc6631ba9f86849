package mems

import (
	"bytes"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bodgit/mems/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	s := newSession(t, 5, 4)

	script := `# two pixels on
set 0 0 on
index 1 positive

calc
export rows
export
`
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	require.NoError(t, s.Run(strings.NewReader(script), out, errOut))

	assert.Empty(t, errOut.String())
	assert.Equal(t, "Active pixels: 2/20\n"+
		"Parameter\tPixels\tValue\n10\t1-15\t4\n11\t16-20\t0\n"+
		"\t10\t11\nParameter\t10\t11\nPixels\t1-15\t16-20\nValue\t4\t0\n", out.String())
}

func TestRunContinuesAfterErrors(t *testing.T) {
	s := newSession(t, 4, 4)

	script := strings.Join([]string{
		"fill 2",
		"set 4 0 1",
		"set 0 x 1",
		"index 16 0",
		"fill purple",
		"load " + filepath.Join(t.TempDir(), "missing.png"),
		"rotate 90",
		"export diagonal",
		"clear now",
		"set 3 3 0",
		"calc",
	}, "\n")

	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	require.NoError(t, s.Run(strings.NewReader(script), out, errOut))

	lines := strings.Split(strings.TrimSuffix(errOut.String(), "\n"), "\n")
	require.Len(t, lines, 8)
	for i, n := range []string{"2", "3", "4", "5", "6", "7", "8", "9"} {
		assert.True(t, strings.HasPrefix(lines[i], "line "+n+": "), lines[i])
	}

	assert.Equal(t, "Active pixels: 15/16\n", out.String())
}

func TestExecErrors(t *testing.T) {
	s := newSession(t, 4, 4)

	tables := []struct {
		line string
		err  error
	}{
		{"set 1 1", ErrCommand},
		{"set a 1 1", ErrCommand},
		{"set 9 9 1", grid.ErrOutOfRange},
		{"set 1 1 7", grid.ErrState},
		{"index", ErrCommand},
		{"index -1 1", grid.ErrOutOfRange},
		{"get 1", ErrCommand},
		{"get 4 0", grid.ErrOutOfRange},
		{"fill", ErrCommand},
		{"load", ErrCommand},
		{"preview", ErrCommand},
		{"preview out.png x", ErrCommand},
		{"decode", ErrCommand},
		{"decode -4", ErrCommand},
		{"decode 9 2", ErrCommand},
		{"decode 1 0", ErrGroupSize},
		{"frobnicate", ErrCommand},
	}

	for _, table := range tables {
		assert.ErrorIs(t, s.Exec(table.line, ioutil.Discard), table.err, table.line)
	}
	assert.Equal(t, 0, s.Calculate().Active)
}

func TestExecGet(t *testing.T) {
	s := newSession(t, 4, 4)
	require.NoError(t, s.Exec("set 2 3 negative", ioutil.Discard))
	require.NoError(t, s.Exec("index 1 on", ioutil.Discard))

	b := new(bytes.Buffer)
	require.NoError(t, s.Exec("get 2 3", b))
	require.NoError(t, s.Exec("get 1 0", b))
	require.NoError(t, s.Exec("get 0 0", b))
	assert.Equal(t, "2,3\tnegative\n1,0\tpositive\n0,0\tinactive\n", b.String())
}

func TestSetIndexLogsCoords(t *testing.T) {
	b := new(bytes.Buffer)
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 4, 4
	s, err := New(cfg, log.New(b, "", 0))
	require.NoError(t, err)

	require.NoError(t, s.SetIndex(6, grid.PositiveTilt))
	assert.Equal(t, "Set pixel 7 (2, 1) to positive\n", b.String())
	assert.Error(t, s.SetIndex(16, grid.PositiveTilt))
}

func TestExecInfo(t *testing.T) {
	s := newSession(t, 4, 4)

	b := new(bytes.Buffer)
	require.NoError(t, s.Exec("info", b))
	assert.Equal(t, s.Report(s.Calculate()), b.String())
}

func TestExecDecode(t *testing.T) {
	s := newSession(t, 4, 4)

	b := new(bytes.Buffer)
	require.NoError(t, s.Exec("decode 4 3", b))
	assert.Equal(t, "1\t1\tpositive\n2\t1\tpositive\n3\t0\tinactive\n", b.String())

	b.Reset()
	require.NoError(t, s.Exec("decode 14348906", b))
	assert.Len(t, strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n"), 15)
	assert.Equal(t, 15, strings.Count(b.String(), "negative"))
}

func TestExecLoadAndPreview(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "checker board.png")
	require.NoError(t, ioutil.WriteFile(img, checkerboardPNG(t, 2, 2), 0644))

	s := newSession(t, 2, 2)
	require.NoError(t, s.Exec("load "+img, ioutil.Discard))
	assert.Equal(t, []grid.State{
		grid.NegativeTilt, grid.PositiveTilt,
		grid.PositiveTilt, grid.NegativeTilt,
	}, s.Snapshot())

	out := filepath.Join(dir, "preview.png")
	require.NoError(t, s.Exec("preview "+out+" 3", ioutil.Discard))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	m, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 6, m.Bounds().Dx())
	assert.Equal(t, 6, m.Bounds().Dy())
}
