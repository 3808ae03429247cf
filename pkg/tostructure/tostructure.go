// Package tostructure converts the configurations of a LAMMPS trajectory into
// periodic atomistic structures written in a format readable by visualization
// tools (extended XYZ) or by other programs (YAML, msgpack).
package tostructure

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kpotier/molstructure/pkg/convert"
	"github.com/kpotier/molstructure/pkg/lammpstrj"
	"github.com/kpotier/molstructure/pkg/structure"

	"github.com/pelletier/go-toml"
)

// Type is name of the calculation.
var Type = "to_structure"

// ToStructure is a structure containing the parameters that can be parsed from
// a TOML configuration file. This structure can be instanced through the New
// method.
//
// Types maps a type id (the type of LAMMPS minus TypeOffset) to a chemical
// symbol; convert.DefaultLabels is used if it is empty. New sets TypeOffset
// to 1 if the file doesn't specify it. If Recenter is true, the positions are
// moved so that the center of the box is the origin before being converted.
// The configurations from CfgStart to CfgEnd (excluded) are converted; a
// CfgEnd of 0 means until the end of the trajectory.
type ToStructure struct {
	FileIn     string   `toml:"to_structure.file_in"`
	FileOut    string   `toml:"to_structure.file_out"`
	Format     string   `toml:"to_structure.format"`
	Types      []string `toml:"to_structure.types"`
	TypeOffset int      `toml:"to_structure.type_offset"`
	Recenter   bool     `toml:"to_structure.recenter"`

	CfgStart int `toml:"to_structure.cfg_start"`
	CfgEnd   int `toml:"to_structure.cfg_end"`

	format    structure.Format
	converted int
	formula   string
}

// New returns an instance of the ToStructure structure. It reads and parses
// the configuration file given in argument. The file must be a TOML file.
func New(path string) (*ToStructure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tree, err := toml.LoadReader(f)
	if err != nil {
		return nil, err
	}

	var t ToStructure
	err = tree.Unmarshal(&t)
	if err != nil {
		return nil, err
	}

	if !tree.Has("to_structure.type_offset") {
		t.TypeOffset = 1
	}

	err = t.Check()
	if err != nil {
		return nil, fmt.Errorf("Check: %w", err)
	}

	return &t, nil
}

// Check checks if ToStructure is correct and fills the default values. It must
// be called if ToStructure is instanced by hand.
func (t *ToStructure) Check() error {
	if t.FileIn == "" || t.FileOut == "" {
		return errors.New("FileIn and FileOut must be specified")
	}

	format, err := structure.ParseFormat(t.Format)
	if err != nil {
		return err
	}
	t.format = format

	if len(t.Types) == 0 {
		t.Types = append([]string(nil), convert.DefaultLabels...)
	}

	if t.CfgStart < 0 {
		return errors.New("CfgStart must be greater or equal to 0")
	}

	if t.CfgEnd != 0 && t.CfgEnd <= t.CfgStart {
		return errors.New("CfgEnd is lower or equal than CfgStart")
	}

	return nil
}

// Start performs the calculation. It is a thread blocking method. This
// calculation only use one thread. Nothing is kept from a configuration that
// cannot be converted.
func (t *ToStructure) Start() error {
	f, err := os.Open(t.FileIn)
	if err != nil {
		return err
	}
	defer f.Close()

	rd := lammpstrj.NewReader(f)
	rd.TypeOffset = t.TypeOffset

	out, err := os.Create(t.FileOut)
	if err != nil {
		return err
	}
	defer out.Close()

	w, err := structure.NewWriter(out, t.format)
	if err != nil {
		return fmt.Errorf("NewWriter: %w", err)
	}

	err = rd.Skip(t.CfgStart)
	if err != nil {
		return fmt.Errorf("Skip: %w", err)
	}

	t.converted = 0
	t.formula = ""
	for cfg := t.CfgStart; t.CfgEnd == 0 || cfg < t.CfgEnd; cfg++ {
		frame, err := rd.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("Next (cfg %d): %w", cfg, err)
		}

		if t.Recenter {
			frame.Recenter()
		}

		s, err := convert.Convert(frame, t.Types)
		if err != nil {
			return fmt.Errorf("Convert (cfg %d): %w", cfg, err)
		}

		err = w.Write(s)
		if err != nil {
			return fmt.Errorf("Write (cfg %d): %w", cfg, err)
		}
		t.converted++
		t.formula = s.Formula()
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("Close: %w", err)
	}

	return out.Close()
}

// Converted returns the number of configurations written by the last call to
// Start.
func (t *ToStructure) Converted() int {
	return t.converted
}

// String summarizes the last call to Start: the number of configurations
// written and the formula of the last one.
func (t *ToStructure) String() string {
	return fmt.Sprintf("%d configuration(s) of %s", t.converted, t.formula)
}
