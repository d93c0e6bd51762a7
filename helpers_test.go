package fpa

import (
	"strings"
	"testing"
)

// pop renders one population block in input column order.
func pop(allele1, allele2, coverage, nc, bestP, bestQ, errorRate, bestH, polyLL string) string {
	return strings.Join([]string{allele1, allele2, coverage, nc, bestP, bestQ, errorRate, bestH, polyLL}, " ")
}

// monomorphic is a population carrying a single allele.
func monomorphic(allele, nc, freq string) string {
	return pop(allele, "NA", "30", nc, freq, "0.0", "0.01", "0.0", "0.0")
}

// missing is a population without an allele call.
func missing(coverage string) string {
	return pop("NA", "NA", coverage, "NA", "NA", "NA", "NA", "NA", "NA")
}

func row(scaffold, site, ref string, pops ...string) string {
	return strings.Join(append([]string{scaffold, site, ref}, pops...), " ")
}

func header(nPops int) string {
	labels := []string{"scaffold", "site", "ref_nuc"}
	for i := 1; i <= nPops; i++ {
		for c := ColumnAllele1; c <= ColumnPolyLLStat; c++ {
			labels = append(labels, c.String())
		}
	}
	return strings.Join(labels, "\t")
}

func mustParse(t testing.TB, line string, nPops int) *Site {
	t.Helper()
	s, err := ParseSite(line, 2, nPops, false)
	if err != nil {
		t.Fatal(err)
	}
	return s
}
