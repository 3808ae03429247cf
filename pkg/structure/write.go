package structure

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format is the format used to write a structure.
type Format string

// Here are the accepted formats. FormatExtXYZ is the extended XYZ format (one
// frame per structure). FormatYAML writes one document per structure and
// FormatMsgpack one object per structure.
var (
	FormatExtXYZ  Format = "extxyz"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// ErrUnknownFormat is returned when a format isn't supported.
var ErrUnknownFormat = errors.New("unknown structure format")

// ParseFormat returns the format corresponding to name. An empty name is the
// extended XYZ format.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case "", FormatExtXYZ:
		return FormatExtXYZ, nil
	case FormatYAML:
		return FormatYAML, nil
	case FormatMsgpack:
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("%w: `%s`", ErrUnknownFormat, name)
}

// Record is the representation of a structure used by the YAML and msgpack
// formats.
type Record struct {
	PBC       []bool      `yaml:"pbc" msgpack:"pbc"`
	Cell      [][]float64 `yaml:"cell" msgpack:"cell"`
	Symbols   []string    `yaml:"symbols" msgpack:"symbols"`
	Positions [][]float64 `yaml:"positions" msgpack:"positions"`
}

// Record returns the record of the structure.
func (s *Structure) Record() Record {
	rec := Record{
		PBC:       append([]bool(nil), s.PBC[:]...),
		Cell:      make([][]float64, 3),
		Symbols:   s.Symbols(),
		Positions: make([][]float64, len(s.Atoms)),
	}
	for k := 0; k < 3; k++ {
		rec.Cell[k] = append([]float64(nil), s.Cell[k][:]...)
	}
	for k, v := range s.Atoms {
		rec.Positions[k] = append([]float64(nil), v.Position[:]...)
	}
	return rec
}

// Structure converts back a record into a structure. The record must have
// three periodic flags, a 3x3 cell and as many positions as symbols.
func (r Record) Structure() (*Structure, error) {
	if len(r.PBC) != 3 {
		return nil, fmt.Errorf("length of pbc isn't equal to 3 but %d", len(r.PBC))
	}
	if len(r.Cell) != 3 {
		return nil, fmt.Errorf("length of cell isn't equal to 3 but %d", len(r.Cell))
	}
	if len(r.Symbols) != len(r.Positions) {
		return nil, fmt.Errorf("length of symbols isn't equal to positions (%d vs %d)",
			len(r.Symbols), len(r.Positions))
	}

	var s Structure
	for k := 0; k < 3; k++ {
		if len(r.Cell[k]) != 3 {
			return nil, fmt.Errorf("length of lattice vector %d isn't equal to 3 but %d", k, len(r.Cell[k]))
		}
		copy(s.Cell[k][:], r.Cell[k])
		s.PBC[k] = r.PBC[k]
	}

	s.Atoms = make([]Atom, len(r.Symbols))
	for k, v := range r.Positions {
		if len(v) != 3 {
			return nil, fmt.Errorf("length of position %d isn't equal to 3 but %d", k, len(v))
		}
		s.Atoms[k].Symbol = r.Symbols[k]
		copy(s.Atoms[k].Position[:], v)
	}
	return &s, nil
}

// Writer writes structures one after another. Close must be called once the
// last structure has been written; it doesn't close the underlying writer.
type Writer interface {
	Write(s *Structure) error
	Close() error
}

// NewWriter returns a writer for the given format.
func NewWriter(w io.Writer, format Format) (Writer, error) {
	switch format {
	case FormatExtXYZ:
		return &xyzWriter{w: w}, nil
	case FormatYAML:
		return &yamlWriter{enc: yaml.NewEncoder(w)}, nil
	case FormatMsgpack:
		return &msgpackWriter{enc: msgpack.NewEncoder(w)}, nil
	}
	return nil, fmt.Errorf("%w: `%s`", ErrUnknownFormat, format)
}

type yamlWriter struct {
	enc *yaml.Encoder
}

func (y *yamlWriter) Write(s *Structure) error {
	return y.enc.Encode(s.Record())
}

func (y *yamlWriter) Close() error {
	return y.enc.Close()
}

type msgpackWriter struct {
	enc *msgpack.Encoder
}

func (m *msgpackWriter) Write(s *Structure) error {
	return m.enc.Encode(s.Record())
}

func (m *msgpackWriter) Close() error { return nil }

type xyzWriter struct {
	w io.Writer
}

// Write writes a frame in the extended XYZ format.
func (x *xyzWriter) Write(s *Structure) error {
	bw := bufio.NewWriter(x.w)

	var b []byte
	b = strconv.AppendInt(b, int64(len(s.Atoms)), 10)
	b = append(b, '\n')

	b = append(b, `Lattice="`...)
	for i := 0; i < 3; i++ {
		for k := 0; k < 3; k++ {
			if i+k > 0 {
				b = append(b, ' ')
			}
			b = strconv.AppendFloat(b, s.Cell[i][k], 'g', -1, 64)
		}
	}
	b = append(b, `" Properties=species:S:1:pos:R:3 pbc="`...)
	for k := 0; k < 3; k++ {
		if k > 0 {
			b = append(b, ' ')
		}
		if s.PBC[k] {
			b = append(b, 'T')
		} else {
			b = append(b, 'F')
		}
	}
	b = append(b, '"', '\n')
	bw.Write(b)

	for _, v := range s.Atoms {
		b = b[:0]
		b = append(b, v.Symbol...)
		for k := 0; k < 3; k++ {
			b = append(b, ' ')
			b = strconv.AppendFloat(b, v.Position[k], 'g', -1, 64)
		}
		b = append(b, '\n')
		bw.Write(b)
	}

	return bw.Flush()
}

func (x *xyzWriter) Close() error { return nil }
