package main

import (
	"flag"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/carbocation/fpa"
	"github.com/carbocation/pfx"
	"github.com/spf13/viper"
)

// now is replaced in tests.
var now = time.Now

type config struct {
	In       string
	Out      string
	MinNc    float64
	CV       float64
	Threads  int
	Strict   bool
	DB       string
	Config   string
	Progress bool
}

// parseArgs reads the command line into a config. Options that were not
// given on the command line fall back to the -config file, then to FPA_*
// environment variables, then to the built-in defaults. On -h, or on any
// parse error, the usage text has already been written to the flag set's
// output when the error is returned.
func parseArgs(fs *flag.FlagSet, args []string) (config, error) {
	var cfg config

	fs.StringVar(&cfg.In, "in", fpa.DefaultInput, "input file name")
	fs.StringVar(&cfg.Out, "out", fpa.DefaultOutput, "output file name")
	fs.Float64Var(&cfg.MinNc, "min_Nc", fpa.DefaultMinNc, "minimum effective number of sampled chromosomes required in a deme")
	fs.Float64Var(&cfg.CV, "cv", fpa.DefaultCV, "chi-square critical value for the polymorphism test")
	fs.IntVar(&cfg.Threads, "threads", 0, "number of batches of sites analyzed concurrently (0 means all CPUs)")
	fs.BoolVar(&cfg.Strict, "strict", false, "reject malformed rows")
	fs.StringVar(&cfg.DB, "db", "", "SQLite database to also write private alleles to")
	fs.StringVar(&cfg.Config, "config", "", "YAML, TOML or JSON file with option defaults")
	fs.BoolVar(&cfg.Progress, "progress", false, "show a progress bar")
	fs.Usage = func() {
		usage(fs.Output(), fs.Name())
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if err := applyDefaults(fs, cfg.Config); err != nil {
		fs.Usage()
		return cfg, err
	}

	in, err := expandHome(cfg.In)
	if err != nil {
		return cfg, err
	}
	cfg.In = in

	out, err := expandHome(cfg.Out)
	if err != nil {
		return cfg, err
	}
	cfg.Out = out

	return cfg, nil
}

// applyDefaults sets every flag that was not given explicitly from the
// config file at path (if any) or the environment.
func applyDefaults(fs *flag.FlagSet, path string) error {
	v := viper.New()
	v.SetEnvPrefix("FPA")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return pfx.Err(err)
		}
	}

	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})

	var err error
	fs.VisitAll(func(f *flag.Flag) {
		if err != nil || explicit[f.Name] || f.Name == "config" {
			return
		}
		if !v.IsSet(f.Name) {
			return
		}
		if serr := fs.Set(f.Name, v.GetString(f.Name)); serr != nil {
			err = pfx.Err(serr)
		}
	})

	return err
}

func isRemote(path string) bool {
	return strings.HasPrefix(path, "gs://")
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	usr, err := user.Current()
	if err != nil {
		return "", pfx.Err(err)
	}

	return filepath.Join(usr.HomeDir, path[2:]), nil
}
