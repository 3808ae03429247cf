package structure

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Structure {
	s := New([3][3]float64{{10, 0, 0}, {0, 10, 0}, {0, 0, 10}}, [3]bool{true, true, true})
	s.Append(Atom{Symbol: "C", Position: [3]float64{5, 5, 5}})
	s.Append(Atom{Symbol: "F", Position: [3]float64{5.5, 0, 1}})
	return s
}

func TestWriteExtXYZ(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatExtXYZ)
	require.NoError(t, err)
	require.NoError(t, w.Write(sample()))
	require.NoError(t, w.Close())

	expected := "2\n" +
		`Lattice="10 0 0 0 10 0 0 0 10" Properties=species:S:1:pos:R:3 pbc="T T T"` + "\n" +
		"C 5 5 5\n" +
		"F 5.5 0 1\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteReadFrames(t *testing.T) {
	second := New([3][3]float64{{3, 0, 0}, {1, 3, 0}, {0, 0, 3}}, [3]bool{true, false, true})
	second.Append(Atom{Symbol: "O", Position: [3]float64{-1.25, 0.5, 2}})

	for _, format := range []Format{FormatExtXYZ, FormatYAML, FormatMsgpack} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, format)
			require.NoError(t, err)
			require.NoError(t, w.Write(sample()))
			require.NoError(t, w.Write(second))
			require.NoError(t, w.Close())

			r, err := NewReader(&buf, format)
			require.NoError(t, err)

			s, err := r.Read()
			require.NoError(t, err)
			assert.Equal(t, sample(), s)

			s, err = r.Read()
			require.NoError(t, err)
			assert.Equal(t, second, s)

			_, err = r.Read()
			assert.True(t, errors.Is(err, io.EOF))
		})
	}
}

func TestYAMLLayout(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatYAML)
	require.NoError(t, err)
	require.NoError(t, w.Write(sample()))
	require.NoError(t, w.Close())

	out := buf.String()
	for _, v := range []string{"pbc:", "cell:", "symbols:", "positions:", "- C", "- F"} {
		assert.Contains(t, out, v)
	}
}

func TestUnknownFormat(t *testing.T) {
	_, err := NewWriter(io.Discard, "pdb")
	assert.True(t, errors.Is(err, ErrUnknownFormat))

	_, err = NewReader(strings.NewReader(""), "pdb")
	assert.True(t, errors.Is(err, ErrUnknownFormat))

	_, err = ParseFormat("cif")
	assert.True(t, errors.Is(err, ErrUnknownFormat))

	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatExtXYZ, f)
}

func TestReadExtXYZErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"count", "two\n\n"},
		{"lattice", "0\nLattice=\"1 2 3\"\n"},
		{"truncated", "2\npbc=\"T T T\"\nC 0 0 0\n"},
		{"columns", "1\n\nC 0 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(strings.NewReader(tt.in), FormatExtXYZ)
			require.NoError(t, err)
			_, err = r.Read()
			assert.Error(t, err)
			assert.False(t, errors.Is(err, io.EOF))
		})
	}
}

func TestRecordStructureErrors(t *testing.T) {
	_, err := Record{PBC: []bool{true}}.Structure()
	assert.Error(t, err)

	rec := sample().Record()
	rec.Symbols = rec.Symbols[:1]
	_, err = rec.Structure()
	assert.Error(t, err)
}
