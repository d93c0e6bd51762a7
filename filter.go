package fpa

const (
	// DefaultMinNc is the smallest effective number of sampled chromosomes
	// a population needs in order to be examined at a site.
	DefaultMinNc = 20.0

	// DefaultCV is the chi-square critical value (1 d.f., alpha = 0.05)
	// that a population's polymorphism statistic must exceed before its
	// second allele is admitted.
	DefaultCV = 5.991
)

// Thresholds gate which populations, and which of their alleles, take part
// in the analysis of a site.
type Thresholds struct {
	MinNc float64
	CV    float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{MinNc: DefaultMinNc, CV: DefaultCV}
}

// Qualifies reports whether the population has an allele call and a large
// enough effective sample to be examined.
func (t Thresholds) Qualifies(pe PopulationEstimate) bool {
	return pe.HasAllele1 && pe.Nc >= t.MinNc
}

// AdmitsSecondAllele reports whether a qualifying population is
// significantly polymorphic, so that its Allele2 joins the alleles
// segregating at the site. The comparison is strict: a statistic equal to
// the critical value does not admit the allele.
func (t Thresholds) AdmitsSecondAllele(pe PopulationEstimate) bool {
	return t.Qualifies(pe) && pe.HasAllele2 && pe.PolyLLStat > t.CV
}
