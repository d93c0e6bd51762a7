package fpa

import (
	"github.com/carbocation/pfx"
	"github.com/exascience/pargo/pipeline"
)

// ScanConfig controls a Scan.
type ScanConfig struct {
	Thresholds Thresholds

	// Threads bounds how many batches of sites are analyzed at once. 0
	// means GOMAXPROCS.
	Threads int

	// Strict rejects malformed rows instead of coercing them.
	Strict bool
}

func DefaultScanConfig() ScanConfig {
	return ScanConfig{Thresholds: DefaultThresholds()}
}

// ScanStats summarizes a completed Scan.
type ScanStats struct {
	Sites                   int
	SitesWithPrivateAlleles int
	PrivateAlleles          int
}

// scanBatch holds the results for a run of consecutive lines, up to the
// first line that could not be parsed.
type scanBatch struct {
	results []*SiteResult
	err     error
}

// Scan analyzes every remaining site of f and hands each result to the
// sinks. Sites are analyzed concurrently but the sinks always see them in
// input order, one at a time. The first error from parsing or from a sink
// stops the scan; every site before a malformed row still reaches the
// sinks.
func Scan(f *FPA, cfg ScanConfig, sinks ...Sink) (ScanStats, error) {
	var stats ScanStats
	var failed bool

	var p pipeline.Pipeline
	p.Source(pipeline.NewFunc(-1, func(size int) (interface{}, int, error) {
		batch, err := f.readBatch(size)
		if err != nil {
			return nil, 0, err
		}
		if len(batch) == 0 {
			return nil, 0, nil
		}
		return batch, len(batch), nil
	}))
	p.SetVariableBatchSize(64, 4096)
	p.Add(
		pipeline.LimitedPar(cfg.Threads, pipeline.Receive(func(_ int, data interface{}) interface{} {
			lines := data.([]rawLine)
			b := &scanBatch{results: make([]*SiteResult, 0, len(lines))}
			for _, line := range lines {
				site, err := ParseSite(line.text, line.number, f.NPopulations, cfg.Strict)
				if err != nil {
					b.err = err
					break
				}
				b.results = append(b.results, Analyze(site, cfg.Thresholds))
			}
			return b
		})),
		pipeline.StrictOrd(pipeline.Receive(func(_ int, data interface{}) interface{} {
			b, _ := data.(*scanBatch)
			if failed || b == nil {
				return nil
			}
			for _, res := range b.results {
				stats.Sites++
				if n := len(res.PrivateAlleles); n > 0 {
					stats.SitesWithPrivateAlleles++
					stats.PrivateAlleles += n
				}
				for _, sink := range sinks {
					if _, err := sink.Write(res); err != nil {
						failed = true
						p.SetErr(err)
						return nil
					}
				}
			}
			if b.err != nil {
				// Sites before the bad row have been delivered.
				failed = true
				p.SetErr(b.err)
			}
			return nil
		})),
	)
	p.Run()

	if err := p.Err(); err != nil {
		return stats, pfx.Err(err)
	}

	return stats, nil
}
