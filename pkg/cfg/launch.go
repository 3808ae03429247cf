package cfg

import (
	"fmt"

	"github.com/kpotier/molstructure/pkg/tostructure"
)

// Calculation is an interface that only contains one method: Start. Every
// calculation must have a Start method that will launch the calculation. It
// must be a thread blocking method.
type Calculation interface {
	Start() error
}

// Launch launchs a specific calculation. It is a thread blocking method. The
// parameters required to launch the calculation must be in a file. The
// calculation is returned once it is done.
func Launch(name string, path string) (Calculation, error) {
	var (
		err error
		cal Calculation
	)

	switch name {
	case tostructure.Type:
		cal, err = tostructure.New(path)
	default:
		return nil, fmt.Errorf("calculation `%s` doesn't exist", name)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: New: %w", name, err)
	}

	err = cal.Start()
	if err != nil {
		return nil, fmt.Errorf("%s: Start: %w", name, err)
	}

	return cal, nil
}
