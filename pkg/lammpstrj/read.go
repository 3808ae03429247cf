package lammpstrj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Reader reads the configurations of a LAMMPS trajectory one after another.
// TypeOffset is given to every frame read (see Frame); it is 1 by default
// since the types of LAMMPS start at 1.
type Reader struct {
	TypeOffset int

	r *bufio.Reader
}

// NewReader returns a Reader reading from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{TypeOffset: 1, r: bufio.NewReader(r)}
}

// columns contains the indices of the columns of the ITEM: ATOMS line.
type columns struct {
	id     int
	typ    int
	xyz    [3]int
	scaled bool
	n      int
}

// eof returns true if there is nothing left to read.
func (rd *Reader) eof() (bool, error) {
	_, err := rd.r.Peek(1)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// Next reads the next configuration. It returns io.EOF if there is no
// configuration left.
func (rd *Reader) Next() (*Frame, error) {
	end, err := rd.eof()
	if err != nil {
		return nil, err
	}
	if end {
		return nil, io.EOF
	}

	f := Frame{TypeOffset: rd.TypeOffset}
	var atoms int
	f.Timestep, atoms, f.Box, f.Lo, err = header(rd.r)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	fields, err := item(rd.r, "ATOMS")
	if err != nil {
		return nil, err
	}
	cols, err := readColumns(fields)
	if err != nil {
		return nil, fmt.Errorf("readColumns: %w", err)
	}

	for i := 0; i < atoms; i++ {
		l, err := readLine(rd.r)
		if err != nil {
			return nil, fmt.Errorf("atom %d: %w", i, err)
		}

		fields := strings.Fields(l)
		if len(fields) != cols.n {
			return nil, fmt.Errorf("number of columns don't match (id %d, got %d, expected %d)", i, len(fields), cols.n)
		}

		typ, err := strconv.Atoi(fields[cols.typ])
		if err != nil {
			return nil, fmt.Errorf("type (atom %d): %w", i, err)
		}
		f.Types = append(f.Types, typ)

		if cols.id >= 0 {
			id, err := strconv.Atoi(fields[cols.id])
			if err != nil {
				return nil, fmt.Errorf("id (atom %d): %w", i, err)
			}
			f.IDs = append(f.IDs, id)
		}

		var xyz [3]float64
		for k := 0; k < 3; k++ {
			xyz[k], err = strconv.ParseFloat(fields[cols.xyz[k]], 64)
			if err != nil {
				return nil, fmt.Errorf("position (atom %d): %w", i, err)
			}
		}
		f.Positions = append(f.Positions, xyz)
	}

	if cols.scaled {
		f.unscale()
	}
	return &f, nil
}

// readColumns finds the columns type, x, y and z. The positions can be
// wrapped (x y z), unwrapped (xu yu zu) or scaled (xs ys zs). Scaled positions
// cannot be mixed with the other ones.
func readColumns(fields []string) (columns, error) {
	c := columns{id: -1, typ: -1, xyz: [3]int{-1, -1, -1}, n: len(fields)}
	var scaled [3]bool

	for k, v := range fields {
		switch v {
		case "id":
			c.id = k
		case "type":
			c.typ = k
		case "x", "xu":
			c.xyz[0] = k
		case "y", "yu":
			c.xyz[1] = k
		case "z", "zu":
			c.xyz[2] = k
		case "xs":
			c.xyz[0] = k
			scaled[0] = true
		case "ys":
			c.xyz[1] = k
			scaled[1] = true
		case "zs":
			c.xyz[2] = k
			scaled[2] = true
		}
	}

	if c.typ < 0 || c.xyz[0] < 0 || c.xyz[1] < 0 || c.xyz[2] < 0 {
		return columns{}, fmt.Errorf("cannot find the columns type, x, y, and z")
	}

	c.scaled = scaled[0] && scaled[1] && scaled[2]
	if !c.scaled && (scaled[0] || scaled[1] || scaled[2]) {
		return columns{}, fmt.Errorf("scaled and unscaled positions cannot be mixed")
	}
	return c, nil
}

// Skip discards x configurations without parsing the atoms. It is a very fast
// method. It returns io.EOF if the trajectory ends before.
func (rd *Reader) Skip(x int) error {
	for i := 0; i < x; i++ {
		end, err := rd.eof()
		if err != nil {
			return err
		}
		if end {
			return io.EOF
		}

		_, atoms, _, _, err := header(rd.r)
		if err != nil {
			return fmt.Errorf("header (cfg %d): %w", i, err)
		}

		// ITEM: ATOMS and the atoms
		for l := 0; l < (1 + atoms); l++ {
			_, err = readLine(rd.r)
			if err != nil {
				return fmt.Errorf("cfg %d: %w", i, err)
			}
		}
	}
	return nil
}
