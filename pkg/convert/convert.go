// Package convert builds an atomistic structure from the state of a molecular
// dynamics simulation. The positions of the simulation are supposed to be
// centered on zero; they are shifted by half of the box so that they lie in
// the cell of the structure.
package convert

import (
	"errors"
	"fmt"

	"github.com/kpotier/molstructure/pkg/structure"
)

// DefaultLabels is the label table used when none is given. The type id 0 is
// a carbon and the type id 1 a fluorine.
var DefaultLabels = []string{"C", "F"}

// Here are the errors returned by Convert. They are always wrapped with the
// index of the particle.
var (
	// ErrLabelLookup means that a type id isn't covered by the label table.
	ErrLabelLookup = errors.New("type id not covered by the label table")

	// ErrParticleAccess means that the simulation cannot supply the data of a
	// particle.
	ErrParticleAccess = errors.New("cannot access particle")
)

// Simulation is the state of a simulation as seen by Convert. It must not be
// modified while Convert is running.
type Simulation interface {
	// Lattice returns the lattice vectors of the box, one vector per row.
	Lattice() [3][3]float64

	// N returns the number of particles.
	N() int

	// TypeID returns the type id of the particle i.
	TypeID(i int) (int, error)

	// Position returns the position of the particle i.
	Position(i int) ([3]float64, error)
}

// Extents returns the extents of the box along each axis. Only the diagonal
// of the lattice is used.
func Extents(lattice [3][3]float64) [3]float64 {
	return [3]float64{lattice[0][0], lattice[1][1], lattice[2][2]}
}

// HalfExtents returns the half of the extents of the box. Each extent is
// truncated to an integer before being divided by two with an integer
// division: an extent of 11.7 gives 5.
func HalfExtents(lattice [3][3]float64) [3]float64 {
	var half [3]float64
	for k, v := range Extents(lattice) {
		half[k] = float64(int(v) / 2)
	}
	return half
}

// Convert returns a new periodic structure with the cell of the simulation and
// one atom per particle, in the order of the particles. The symbol of an atom
// is labels[type id]; if labels is nil, DefaultLabels is used. The positions
// are shifted by HalfExtents.
//
// No structure is returned if an error occurs. Non orthorhombic boxes are not
// checked: the whole lattice is copied into the cell but only its diagonal is
// used to shift the positions.
func Convert(sim Simulation, labels []string) (*structure.Structure, error) {
	if labels == nil {
		labels = DefaultLabels
	}

	lattice := sim.Lattice()
	half := HalfExtents(lattice)

	s := structure.New(lattice, [3]bool{true, true, true})
	n := sim.N()
	if n < 0 {
		return nil, fmt.Errorf("%w: negative number of particles (%d)", ErrParticleAccess, n)
	}

	for i := 0; i < n; i++ {
		t, err := sim.TypeID(i)
		if err != nil {
			return nil, fmt.Errorf("particle %d: %w: %v", i, ErrParticleAccess, err)
		}

		pos, err := sim.Position(i)
		if err != nil {
			return nil, fmt.Errorf("particle %d: %w: %v", i, ErrParticleAccess, err)
		}

		if t < 0 || t >= len(labels) {
			return nil, fmt.Errorf("particle %d: %w (type id %d, %d labels)",
				i, ErrLabelLookup, t, len(labels))
		}

		for k := 0; k < 3; k++ {
			pos[k] += half[k]
		}
		s.Append(structure.Atom{Symbol: labels[t], Position: pos})
	}

	return s, nil
}
