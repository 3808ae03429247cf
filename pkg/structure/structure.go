// Package structure is a generic atomistic structure: a periodic cell and an
// ordered list of atoms, each one being a chemical symbol and a position. It
// is the format used to hand a configuration to visualization tools or to
// other chemistry programs.
package structure

import (
	"strconv"
	"strings"
)

// Atom is an atom of a structure.
type Atom struct {
	Symbol   string
	Position [3]float64
}

// Structure is an atomistic structure. Cell contains the lattice vectors (one
// vector per row) and PBC tells along which lattice vectors the periodic
// boundary conditions are applied. The order of Atoms is meaningful.
type Structure struct {
	PBC   [3]bool
	Cell  [3][3]float64
	Atoms []Atom
}

// New returns an empty structure. The cell is copied.
func New(cell [3][3]float64, pbc [3]bool) *Structure {
	return &Structure{PBC: pbc, Cell: cell}
}

// Append adds an atom at the end of the structure.
func (s *Structure) Append(a Atom) {
	s.Atoms = append(s.Atoms, a)
}

// Len returns the number of atoms.
func (s *Structure) Len() int {
	return len(s.Atoms)
}

// Symbols returns the symbols of the atoms in order.
func (s *Structure) Symbols() []string {
	symbols := make([]string, len(s.Atoms))
	for k, v := range s.Atoms {
		symbols[k] = v.Symbol
	}
	return symbols
}

// Positions returns a copy of the positions of the atoms in order.
func (s *Structure) Positions() [][3]float64 {
	pos := make([][3]float64, len(s.Atoms))
	for k, v := range s.Atoms {
		pos[k] = v.Position
	}
	return pos
}

// Formula returns the chemical formula of the structure. The elements appear
// in the order they are first met (e.g. C2F4). A count of one is omitted.
func (s *Structure) Formula() string {
	var (
		order []string
		count = make(map[string]int)
	)

	for _, v := range s.Atoms {
		if _, ok := count[v.Symbol]; !ok {
			order = append(order, v.Symbol)
		}
		count[v.Symbol]++
	}

	var b strings.Builder
	for _, v := range order {
		b.WriteString(v)
		if count[v] > 1 {
			b.WriteString(strconv.Itoa(count[v]))
		}
	}
	return b.String()
}
