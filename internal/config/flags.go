package config

import "flag"

// Flags holds command line overrides.
type Flags struct {
	Config string
	Debug  bool
	Subdiv int
	Out    string
	PNG    string
}

// RegisterFlags defines the override flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.IntVar(&f.Subdiv, "subdiv", -1, "Subdivision iterations, overrides the config file")
	fs.StringVar(&f.Out, "out", "", "Output STL path")
	fs.StringVar(&f.PNG, "png", "", "Output PNG preview path")
	return f
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Subdiv >= 0 {
		cfg.Subdivide.Iterations = f.Subdiv
	}
	if f.Out != "" {
		cfg.Output.STL = f.Out
	}
	if f.PNG != "" {
		cfg.Output.PNG = f.PNG
	}
}
