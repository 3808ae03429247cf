package tostructure

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/kpotier/molstructure/pkg/convert"
	"github.com/kpotier/molstructure/pkg/structure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const traj = `ITEM: TIMESTEP
0
ITEM: NUMBER OF ATOMS
2
ITEM: BOX BOUNDS pp pp pp
0 10
0 10
0 10
ITEM: ATOMS id type x y z
1 1 5 5 5
2 2 6 7 8
ITEM: TIMESTEP
10
ITEM: NUMBER OF ATOMS
2
ITEM: BOX BOUNDS pp pp pp
0 10
0 10
0 10
ITEM: ATOMS id type x y z
1 1 4 5 5
2 2 6 7 9
ITEM: TIMESTEP
20
ITEM: NUMBER OF ATOMS
2
ITEM: BOX BOUNDS pp pp pp
0 10
0 10
0 10
ITEM: ATOMS id type x y z
1 1 3 5 5
2 3 6 7 9
`

// setup writes the trajectory and a configuration file containing the
// parameters given in extra. It returns the path of the configuration file
// and the one of the output.
func setup(t *testing.T, extra string) (string, string) {
	dir := t.TempDir()
	in := filepath.Join(dir, "traj.lammpstrj")
	out := filepath.Join(dir, "out")
	require.NoError(t, os.WriteFile(in, []byte(traj), 0o644))

	cfg := fmt.Sprintf("[to_structure]\nfile_in = %q\nfile_out = %q\n%s", in, out, extra)
	path := filepath.Join(dir, "to_structure.toml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path, out
}

func read(t *testing.T, path string, format structure.Format) []*structure.Structure {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r, err := structure.NewReader(f, format)
	require.NoError(t, err)

	var s []*structure.Structure
	for {
		v, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		s = append(s, v)
	}
	return s
}

func TestNewDefaults(t *testing.T) {
	path, _ := setup(t, "")

	c, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, 1, c.TypeOffset)
	assert.Equal(t, convert.DefaultLabels, c.Types)
	assert.Equal(t, structure.FormatExtXYZ, c.format)
	assert.False(t, c.Recenter)

	c.Types[0] = "O"
	assert.Equal(t, []string{"C", "F"}, convert.DefaultLabels)
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name  string
		extra string
	}{
		{"format", "format = \"pdb\"\n"},
		{"cfg_start", "cfg_start = -1\n"},
		{"cfg_end", "cfg_start = 2\ncfg_end = 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, _ := setup(t, tt.extra)
			_, err := New(path)
			assert.Error(t, err)
		})
	}

	_, err := New(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	c := ToStructure{FileIn: "in"}
	assert.Error(t, c.Check())
}

func TestStartRecenter(t *testing.T) {
	path, out := setup(t, "recenter = true\ncfg_end = 2\n")

	c, err := New(path)
	require.NoError(t, err)
	require.NoError(t, c.Start())
	assert.Equal(t, 2, c.Converted())
	assert.Equal(t, "2 configuration(s) of CF", c.String())

	s := read(t, out, structure.FormatExtXYZ)
	require.Len(t, s, 2)

	// The box starts at 0, so recentering then shifting gives back the
	// positions of the trajectory.
	assert.Equal(t, []string{"C", "F"}, s[0].Symbols())
	assert.Equal(t, [][3]float64{{5, 5, 5}, {6, 7, 8}}, s[0].Positions())
	assert.Equal(t, [][3]float64{{4, 5, 5}, {6, 7, 9}}, s[1].Positions())
	assert.Equal(t, [3]bool{true, true, true}, s[1].PBC)
	assert.Equal(t, [3][3]float64{{10, 0, 0}, {0, 10, 0}, {0, 0, 10}}, s[1].Cell)
}

func TestStartShift(t *testing.T) {
	path, out := setup(t, "format = \"yaml\"\ncfg_start = 1\ncfg_end = 2\n")

	c, err := New(path)
	require.NoError(t, err)
	require.NoError(t, c.Start())

	s := read(t, out, structure.FormatYAML)
	require.Len(t, s, 1)
	assert.Equal(t, [][3]float64{{9, 10, 10}, {11, 12, 14}}, s[0].Positions())
}

func TestStartTypes(t *testing.T) {
	path, out := setup(t, "format = \"msgpack\"\ntypes = [\"X\", \"O\", \"H\", \"N\"]\ntype_offset = 0\n")

	c, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, 0, c.TypeOffset)
	require.NoError(t, c.Start())
	assert.Equal(t, 3, c.Converted())

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	r, err := structure.NewReader(f, structure.FormatMsgpack)
	require.NoError(t, err)
	for _, expected := range [][]string{{"O", "H"}, {"O", "H"}, {"O", "N"}} {
		s, err := r.Read()
		require.NoError(t, err)
		assert.Equal(t, expected, s.Symbols())
	}
}

func TestStartLabelLookup(t *testing.T) {
	path, _ := setup(t, "")

	c, err := New(path)
	require.NoError(t, err)

	err = c.Start()
	require.Error(t, err)
	assert.True(t, errors.Is(err, convert.ErrLabelLookup))
	assert.Contains(t, err.Error(), "cfg 2")
	assert.Equal(t, 2, c.Converted())
}
