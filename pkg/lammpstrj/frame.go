// Package lammpstrj reads the configurations of a LAMMPS trajectory file
// (text dump). A configuration can be handed to the converter of the convert
// package.
package lammpstrj

import (
	"errors"
	"fmt"
)

// ErrIndex is returned when a particle that doesn't exist is requested.
var ErrIndex = errors.New("index out of range")

// Frame is one configuration of a LAMMPS trajectory. Box contains the lattice
// vectors (one per row) and Lo the origin of the box. The raw types of the
// file are stored in Types; TypeID subtracts TypeOffset from them. IDs is nil
// if the trajectory has no id column.
type Frame struct {
	Timestep   int
	Box        [3][3]float64
	Lo         [3]float64
	IDs        []int
	Types      []int
	Positions  [][3]float64
	TypeOffset int
}

// Lattice returns the lattice vectors of the box.
func (f *Frame) Lattice() [3][3]float64 {
	return f.Box
}

// N returns the number of atoms.
func (f *Frame) N() int {
	return len(f.Positions)
}

// TypeID returns the type of the atom i minus TypeOffset.
func (f *Frame) TypeID(i int) (int, error) {
	if i < 0 || i >= len(f.Types) {
		return 0, fmt.Errorf("type of atom %d: %w (%d atoms)", i, ErrIndex, len(f.Types))
	}
	return f.Types[i] - f.TypeOffset, nil
}

// Position returns the position of the atom i.
func (f *Frame) Position(i int) ([3]float64, error) {
	if i < 0 || i >= len(f.Positions) {
		return [3]float64{}, fmt.Errorf("position of atom %d: %w (%d atoms)", i, ErrIndex, len(f.Positions))
	}
	return f.Positions[i], nil
}

// Center returns the center of the box.
func (f *Frame) Center() [3]float64 {
	c := f.Lo
	for i := 0; i < 3; i++ {
		for k := 0; k < 3; k++ {
			c[k] += f.Box[i][k] / 2.
		}
	}
	return c
}

// Recenter translates the atoms and the box so that the center of the box is
// the origin.
func (f *Frame) Recenter() {
	c := f.Center()
	for i := range f.Positions {
		for k := 0; k < 3; k++ {
			f.Positions[i][k] -= c[k]
		}
	}
	for k := 0; k < 3; k++ {
		f.Lo[k] -= c[k]
	}
}

// unscale converts scaled positions (fractions of the lattice vectors) into
// cartesian positions.
func (f *Frame) unscale() {
	for i, v := range f.Positions {
		xyz := f.Lo
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				xyz[k] += v[j] * f.Box[j][k]
			}
		}
		f.Positions[i] = xyz
	}
}
