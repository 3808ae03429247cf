// Package cfg dispatches several calculations. It avoids to start a
// specific program for each calculation.
package cfg

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/pelletier/go-toml"
	"go.uber.org/zap"
)

// Cfg is a structure where the types of calculations are stored. It can be
// instanced through the New method. The length of the Files slice must be equal
// to the length of the Types files. Each calculation requires a configuration
// file where the parameters required to run the calculation are stored.
//
// LogLevel (debug, info, warn or error) and LogFile configure the logger of
// the program; an empty LogFile means that the logs are only written to the
// standard output.
type Cfg struct {
	Types [][]string `toml:"types"`
	Files [][]string `toml:"files"`

	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`
}

// New returns an instance of the Cfg structure. It opens and reads the
// configuration file where Types and Files are stored. The configuration file
// must use the TOML format.
func New(path string) (Cfg, error) {
	f, err := os.Open(path)
	if err != nil {
		return Cfg{}, err
	}
	defer f.Close()

	var cfg Cfg
	dec := toml.NewDecoder(f)
	err = dec.Decode(&cfg)
	if err != nil {
		return Cfg{}, err
	}

	if len(cfg.Files) != len(cfg.Types) {
		return Cfg{}, fmt.Errorf("length of Files isn't equal to Types (%d vs %d)",
			len(cfg.Files), len(cfg.Types))
	}

	for k, v := range cfg.Files {
		if len(v) != len(cfg.Types[k]) {
			return Cfg{}, fmt.Errorf("length of Files isn't equal to Types (%d vs %d, step %d)",
				len(v), len(cfg.Types[k]), k)
		}
	}

	return cfg, nil
}

// Start dispatches and performs the calculations. If several calculations are
// in the same array (e.g Types: ["x", "y", "z"]), they will be performed in
// parrallel. In general, one calculation uses one thread. The length of the
// array must be in accordance with the number of threads used by the
// calculations and the number of threads available.
//
// It is a thread blocking method. If an error occurs for a specific
// calculation, the calculation will stop and log the error but the method won't
// stop. The number of failed calculations is returned.
func (c Cfg) Start(log *zap.Logger) int {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)

	launch := func(step, rtn int, name string) {
		path := c.Files[step][rtn]
		log := log.With(zap.Int("step", step), zap.Int("routine", rtn),
			zap.String("calculation", name), zap.String("file", path))

		log.Debug("starting calculation")
		t := time.Now()
		cal, err := Launch(name, path)
		if err != nil {
			log.Error("calculation failed", zap.Error(err))
			mu.Lock()
			failed++
			mu.Unlock()
			return
		}

		fields := []zap.Field{zap.Duration("elapsed", time.Since(t))}
		if s, ok := cal.(fmt.Stringer); ok {
			fields = append(fields, zap.Stringer("summary", s))
		}
		log.Info("calculation done", fields...)
	}

	for step, types := range c.Types {
		if len(types) == 0 {
			continue
		}

		if len(types) > 1 {
			for rtn, name := range types[1:] { // For each calculation
				wg.Add(1)
				go func(step, rtn int, name string) {
					launch(step, rtn, name)
					wg.Done()
				}(step, rtn+1, name)
			}
		}

		launch(step, 0, types[0])
		wg.Wait()
	}

	return failed
}
