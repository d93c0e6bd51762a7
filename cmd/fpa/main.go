// fpa finds private alleles: alleles segregating in exactly one of several
// populations at a site, given per-population maximum likelihood estimates
// of allele frequencies.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/carbocation/fpa"
	"github.com/carbocation/pfx"
	"github.com/cheggaaa/pb/v3"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := parseArgs(flag.NewFlagSet(os.Args[0], flag.ContinueOnError), os.Args[1:])
	if err != nil {
		// The flag set has already reported the problem along with the
		// usage text.
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		log.Fatalln(err)
	}
}

func run(cfg config) error {
	f, closeInput, bar, err := openInput(cfg)
	if err != nil {
		return err
	}
	defer closeInput()

	log.Printf("%d populations to be analyzed\n", f.NPopulations)
	if r := f.HeaderRemainder(); r > 0 {
		log.Warnf("%d trailing header labels do not form a complete population block and were ignored", r)
	}

	out, err := fpa.Create(cfg.Out)
	if err != nil {
		return pfx.Err(fmt.Errorf("Cannot open %s for writing: %w", cfg.Out, err))
	}
	sinks := []fpa.Sink{out}

	var idx *fpa.Index
	if cfg.DB != "" {
		idx, err = fpa.CreateIndex(cfg.DB, fpa.Metadata{
			Filename:          cfg.In,
			NPopulations:      f.NPopulations,
			MinNc:             cfg.MinNc,
			CV:                cfg.CV,
			IndexCreationTime: fpa.Time(now()),
		})
		if err != nil {
			out.Close()
			return pfx.Err(err)
		}
		log.Println("Writing private alleles to", cfg.DB, "using the", fpa.WhichSQLiteDriver(), "driver")
		sinks = append(sinks, idx)
	}

	stats, scanErr := fpa.Scan(f, fpa.ScanConfig{
		Thresholds: fpa.Thresholds{MinNc: cfg.MinNc, CV: cfg.CV},
		Threads:    cfg.Threads,
		Strict:     cfg.Strict,
	}, sinks...)
	if bar != nil {
		bar.Finish()
	}

	err = out.Close()
	if idx != nil {
		if cerr := idx.Close(); err == nil {
			err = cerr
		}
	}
	if scanErr != nil {
		return scanErr
	}
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"sites":           stats.Sites,
		"sites_with_pa":   stats.SitesWithPrivateAlleles,
		"private_alleles": stats.PrivateAlleles,
	}).Infoln("Finished scanning", cfg.In)

	return nil
}

// openInput opens the input named by cfg. For local files, a progress bar
// tracking the bytes read is started when requested. The returned function
// closes everything that was opened.
func openInput(cfg config) (*fpa.FPA, func(), *pb.ProgressBar, error) {
	if !cfg.Progress || isRemote(cfg.In) {
		f, err := fpa.Open(cfg.In)
		if err != nil {
			return nil, nil, nil, err
		}
		return f, func() { f.Close() }, nil, nil
	}

	file, err := os.Open(cfg.In)
	if err != nil {
		return nil, nil, nil, pfx.Err(fmt.Errorf("Cannot open %s for reading: %w", cfg.In, err))
	}
	st, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, nil, pfx.Err(err)
	}

	bar := pb.Full.Start64(st.Size())
	bar.Set(pb.Bytes, true)

	f, err := fpa.NewFromReader(cfg.In, bar.NewProxyReader(file))
	if err != nil {
		bar.Finish()
		file.Close()
		return nil, nil, nil, err
	}

	return f, func() {
		f.Close()
		file.Close()
	}, bar, nil
}

func usage(w io.Writer, prog string) {
	fmt.Fprintf(w, "USAGE: %s {<options>}\n", prog)
	fmt.Fprintf(w, "	options:\n")
	fmt.Fprintf(w, "	-h: print the usage message\n")
	fmt.Fprintf(w, "	-in <s>: specify the input file name (default %s; gs:// paths and gzip or zstd input are accepted)\n", fpa.DefaultInput)
	fmt.Fprintf(w, "	-out <s>: specify the output file name (default %s; .gz and .zst names are compressed)\n", fpa.DefaultOutput)
	fmt.Fprintf(w, "	-min_Nc <f>: specify the minimum effective number of sampled chromosomes required in a deme (default %g)\n", fpa.DefaultMinNc)
	fmt.Fprintf(w, "	-cv <f>: specify the chi-square critical value for the polymorphism test (default %g)\n", fpa.DefaultCV)
	fmt.Fprintf(w, "	-threads <d>: number of batches of sites analyzed concurrently (default 0, all CPUs)\n")
	fmt.Fprintf(w, "	-strict: reject malformed rows instead of reading unparseable numbers as 0\n")
	fmt.Fprintf(w, "	-db <s>: also write the private alleles to a SQLite database\n")
	fmt.Fprintf(w, "	-config <s>: YAML, TOML or JSON file providing defaults for the options above\n")
	fmt.Fprintf(w, "	-progress: show a progress bar while reading a local input file\n")
}
