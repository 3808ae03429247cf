package lammpstrj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// readLine reads until \n. The end of the file is only accepted if something
// has been read.
func readLine(r *bufio.Reader) (string, error) {
	b, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(b) > 0 {
			return b, nil
		}
		if errors.Is(err, io.EOF) {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}
	return b, nil
}

// item reads a line that must start with ITEM: followed by name. It returns
// the remaining fields of the line.
func item(r *bufio.Reader, name string) ([]string, error) {
	l, err := readLine(r)
	if err != nil {
		return nil, fmt.Errorf("ITEM: %s: %w", name, err)
	}

	prefix := "ITEM: " + name
	l = strings.TrimSpace(l)
	if !strings.HasPrefix(l, prefix) {
		return nil, fmt.Errorf("expected `%s`; got `%s`", prefix, l)
	}
	return strings.Fields(l[len(prefix):]), nil
}

// intLine reads a line containing a single integer.
func intLine(r *bufio.Reader) (int, error) {
	l, err := readLine(r)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(l))
}

// header reads the lines specific to a LAMMPS trajectory file before the
// atoms. It returns the timestep, the number of atoms, the lattice vectors and
// the origin of the box.
func header(r *bufio.Reader) (timestep, atoms int, lattice [3][3]float64, lo [3]float64, err error) {
	_, err = item(r, "TIMESTEP")
	if err != nil {
		return
	}
	timestep, err = intLine(r)
	if err != nil {
		err = fmt.Errorf("timestep: %w", err)
		return
	}

	_, err = item(r, "NUMBER OF ATOMS")
	if err != nil {
		return
	}
	atoms, err = intLine(r)
	if err != nil {
		err = fmt.Errorf("number of atoms: %w", err)
		return
	}
	if atoms < 0 {
		err = fmt.Errorf("negative number of atoms (%d)", atoms)
		return
	}

	fields, err := item(r, "BOX BOUNDS")
	if err != nil {
		return
	}
	triclinic := len(fields) >= 3 && fields[0] == "xy"

	lattice, lo, err = headerBox(r, triclinic)
	if err != nil {
		err = fmt.Errorf("headerBox: %w", err)
	}
	return
}

// headerBox returns the lattice vectors and the origin of the box. For a
// triclinic box, the bounds are the ones of the bounding box and each line
// contains a tilt factor (xy, xz, yz); see the dump command of LAMMPS.
func headerBox(r *bufio.Reader, triclinic bool) (lattice [3][3]float64, lo [3]float64, err error) {
	expected := 2
	if triclinic {
		expected = 3
	}

	var (
		bounds [3][2]float64
		tilt   [3]float64
	)
	for k := 0; k < 3; k++ {
		var l string
		l, err = readLine(r)
		if err != nil {
			return
		}

		fields := strings.Fields(l)
		if len(fields) != expected {
			err = fmt.Errorf("unable to get the size of the box (axis %d, %d fields, expected %d)",
				k, len(fields), expected)
			return
		}

		for i := 0; i < expected; i++ {
			var v float64
			v, err = strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return
			}
			if i < 2 {
				bounds[k][i] = v
			} else {
				tilt[k] = v
			}
		}
	}

	xy, xz, yz := tilt[0], tilt[1], tilt[2]
	if triclinic {
		bounds[0][0] -= min(0, xy, xz, xy+xz)
		bounds[0][1] -= max(0, xy, xz, xy+xz)
		bounds[1][0] -= min(0, yz)
		bounds[1][1] -= max(0, yz)
	}

	for k := 0; k < 3; k++ {
		lo[k] = bounds[k][0]
		lattice[k][k] = bounds[k][1] - bounds[k][0]
	}
	lattice[1][0] = xy
	lattice[2][0] = xz
	lattice[2][1] = yz
	return
}
