package main

import (
	"fmt"
	"log"
	"os"

	"github.com/kpotier/molstructure/pkg/cfg"
	"github.com/kpotier/molstructure/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatal("one argument is needed: path of the configuration file")
	}

	c, err := cfg.New(os.Args[1])
	if err != nil {
		log.Fatal(fmt.Errorf("New: %w", err))
	}

	var fileCfg logger.FileConfig
	if c.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(c.LogFile)
	}

	l, err := logger.New(c.LogLevel, fileCfg, true)
	if err != nil {
		log.Fatal(fmt.Errorf("logger.New: %w", err))
	}
	defer l.Sync()

	l.Info("reading configuration file", zap.String("file", os.Args[1]),
		zap.Int("steps", len(c.Types)))

	failed := c.Start(l)
	if failed > 0 {
		l.Error("some calculations failed", zap.Int("failed", failed))
		l.Sync()
		os.Exit(1)
	}
	l.Info("done")
}
