package fpa

// Site holds one input row: the per-population maximum likelihood estimates
// at a single position of a scaffold.
type Site struct {
	// Line is the 1-based line number of the row in its input. The header
	// is line 1.
	Line        int
	Scaffold    string
	Position    int
	RefNuc      string
	Populations []PopulationEstimate
}

// PopulationEstimate is one population's block of columns within a Site.
// Missing allele calls are represented by the Has flags rather than by the
// upstream "NA" token.
type PopulationEstimate struct {
	ID int // 1-based, in column order

	Allele1    Allele
	HasAllele1 bool
	Allele2    Allele
	HasAllele2 bool

	Coverage   int
	Nc         float64 // effective number of sampled chromosomes
	BestP      float64 // frequency of Allele1
	BestQ      float64 // frequency of Allele2
	ErrorRate  float64
	BestH      float64 // heterozygosity
	PolyLLStat float64 // likelihood-ratio statistic for polymorphism
}

// Frequency returns the population's estimated frequency of a and whether
// the population carries a at all. Allele1 is checked before Allele2, so a
// population never reports more than one frequency for an allele.
func (pe PopulationEstimate) Frequency(a Allele) (float64, bool) {
	if pe.HasAllele1 && pe.Allele1 == a {
		return pe.BestP, true
	}
	if pe.HasAllele2 && pe.Allele2 == a {
		return pe.BestQ, true
	}
	return 0, false
}
