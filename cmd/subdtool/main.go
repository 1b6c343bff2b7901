// Command subdtool generates a scene of cubes and cylinders, merges the
// touching parts, subdivides the result and writes it out as STL and an
// optional PNG preview.
//
// Usage:
//
//	subdtool [-config subd.yaml] [-subdiv n] [-out part.stl] [-png part.png] [-debug]
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/soypat/subd/internal/config"
	"github.com/soypat/subd/internal/logger"
)

func main() {
	fs := flag.NewFlagSet("subdtool", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	fs.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("subdtool failed", zap.Error(err))
		os.Exit(1)
	}
}
