package fpa

// AlleleSummary describes one allele segregating at a site.
type AlleleSummary struct {
	Allele Allele

	// Carriers lists the IDs of the qualifying populations carrying the
	// allele, with the allele's frequency in each at the same index.
	Carriers    []int
	Frequencies []float64

	// MeanFrequency is the sum of Frequencies divided by the number of
	// qualifying populations at the site, so populations lacking the
	// allele count as frequency 0.
	MeanFrequency float64
}

// PrivateAllele is an allele carried by exactly one qualifying population at
// a site with at least two qualifying populations.
type PrivateAllele struct {
	Allele           Allele
	Population       int
	FocalFrequency   float64
	TotalFrequency   float64
	NcFocal          float64
	NcOther          float64
	LogProbDetection float64
}

// SiteResult is the outcome of analyzing one Site.
type SiteResult struct {
	Site *Site

	// TotalCoverage sums coverage over every population, qualifying or
	// not.
	TotalCoverage int

	// NePops is the number of qualifying populations and SumNc the sum of
	// their effective sample sizes.
	NePops int
	SumNc  float64

	// Segregating holds the alleles of the qualifying populations in the
	// order they were first seen.
	Segregating []AlleleSummary

	// MAFTotal is the smallest MeanFrequency among Segregating. Ties keep
	// the first allele seen. It is 0 when nothing segregates.
	MAFTotal float64

	PrivateAlleles []PrivateAllele
}

// NumAlleles is the number of distinct alleles segregating at the site.
func (r *SiteResult) NumAlleles() int {
	return len(r.Segregating)
}

// Analyze finds the private alleles at a site. It is a pure function of the
// site and the thresholds.
func Analyze(site *Site, th Thresholds) *SiteResult {
	res := &SiteResult{Site: site}

	qualifying := make([]PopulationEstimate, 0, len(site.Populations))
	var alleles AlleleSet
	for _, pe := range site.Populations {
		res.TotalCoverage += pe.Coverage

		if !th.Qualifies(pe) {
			continue
		}
		qualifying = append(qualifying, pe)
		res.NePops++
		res.SumNc += pe.Nc

		alleles.Add(pe.Allele1)
		if th.AdmitsSecondAllele(pe) {
			alleles.Add(pe.Allele2)
		}
	}

	// Alleles only come from qualifying populations, so an empty set is the
	// only way NePops can be 0. Nothing below may run in that case.
	if alleles.Len() == 0 {
		return res
	}

	res.Segregating = make([]AlleleSummary, 0, alleles.Len())
	for i, a := range alleles.Alleles() {
		sum := AlleleSummary{Allele: a}
		var total, ncFocal float64
		for _, pe := range qualifying {
			freq, ok := pe.Frequency(a)
			if !ok {
				continue
			}
			sum.Carriers = append(sum.Carriers, pe.ID)
			sum.Frequencies = append(sum.Frequencies, freq)
			total += freq
			ncFocal = pe.Nc
		}
		sum.MeanFrequency = total / float64(res.NePops)

		if i == 0 || sum.MeanFrequency < res.MAFTotal {
			res.MAFTotal = sum.MeanFrequency
		}
		res.Segregating = append(res.Segregating, sum)

		if res.NePops < 2 || len(sum.Carriers) != 1 {
			continue
		}

		ncOther := res.SumNc - ncFocal
		res.PrivateAlleles = append(res.PrivateAlleles, PrivateAllele{
			Allele:           a,
			Population:       sum.Carriers[0],
			FocalFrequency:   sum.Frequencies[0],
			TotalFrequency:   sum.MeanFrequency,
			NcFocal:          ncFocal,
			NcOther:          ncOther,
			LogProbDetection: LogDetectionProbability(sum.MeanFrequency, ncFocal, ncOther),
		})
	}

	return res
}
