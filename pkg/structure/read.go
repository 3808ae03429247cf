package structure

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Reader reads back structures written by a Writer. Read returns io.EOF when
// there is no structure left.
type Reader interface {
	Read() (*Structure, error)
}

// NewReader returns a reader for the given format.
func NewReader(r io.Reader, format Format) (Reader, error) {
	switch format {
	case FormatExtXYZ:
		return &xyzReader{r: bufio.NewReader(r)}, nil
	case FormatYAML:
		return &yamlReader{dec: yaml.NewDecoder(r)}, nil
	case FormatMsgpack:
		return &msgpackReader{dec: msgpack.NewDecoder(r)}, nil
	}
	return nil, fmt.Errorf("%w: `%s`", ErrUnknownFormat, format)
}

type yamlReader struct {
	dec *yaml.Decoder
}

func (y *yamlReader) Read() (*Structure, error) {
	var rec Record
	err := y.dec.Decode(&rec)
	if err != nil {
		return nil, err
	}
	return rec.Structure()
}

type msgpackReader struct {
	dec *msgpack.Decoder
}

func (m *msgpackReader) Read() (*Structure, error) {
	var rec Record
	err := m.dec.Decode(&rec)
	if err != nil {
		return nil, err
	}
	return rec.Structure()
}

type xyzReader struct {
	r *bufio.Reader
}

// Read reads a frame in the extended XYZ format. Only the Lattice and pbc keys
// of the comment line are interpreted and only the species and the positions
// (the first four columns) are read.
func (x *xyzReader) Read() (*Structure, error) {
	line, err := x.r.ReadString('\n')
	if strings.TrimSpace(line) == "" && errors.Is(err, io.EOF) {
		return nil, io.EOF
	}

	atoms, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return nil, fmt.Errorf("number of atoms: %w", err)
	}

	comment, err := x.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	var s Structure
	lattice, ok := keyValue(comment, "Lattice")
	if ok {
		fields := strings.Fields(lattice)
		if len(fields) != 9 {
			return nil, fmt.Errorf("Lattice must contain 9 values; got %d", len(fields))
		}
		for k, v := range fields {
			s.Cell[k/3][k%3], err = strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("Lattice: %w", err)
			}
		}
	}

	pbc, ok := keyValue(comment, "pbc")
	if ok {
		fields := strings.Fields(pbc)
		if len(fields) != 3 {
			return nil, fmt.Errorf("pbc must contain 3 values; got %d", len(fields))
		}
		for k, v := range fields {
			s.PBC[k] = v == "T" || v == "True" || v == "true"
		}
	}

	s.Atoms = make([]Atom, atoms)
	for i := 0; i < atoms; i++ {
		line, err := x.r.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return nil, fmt.Errorf("atom %d: %w", i, io.ErrUnexpectedEOF)
		}

		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, fmt.Errorf("not enough columns (atom %d, at least 4; got %d)", i, len(fields))
		}

		s.Atoms[i].Symbol = fields[0]
		for k := 0; k < 3; k++ {
			s.Atoms[i].Position[k], err = strconv.ParseFloat(fields[k+1], 64)
			if err != nil {
				return nil, fmt.Errorf("atom %d: %w", i, err)
			}
		}
	}

	return &s, nil
}

// keyValue returns the quoted value of key in an extended XYZ comment line.
func keyValue(comment, key string) (string, bool) {
	prefix := key + `="`
	start := strings.Index(comment, prefix)
	if start < 0 {
		return "", false
	}
	start += len(prefix)

	end := strings.IndexByte(comment[start:], '"')
	if end < 0 {
		return "", false
	}
	return comment[start : start+end], true
}
