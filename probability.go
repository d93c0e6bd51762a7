package fpa

import "math"

// DetectionProbability is the probability that an allele at total-sample
// frequency p shows up at least once among the ncFocal chromosomes sampled
// from the focal population while being absent from the ncOther chromosomes
// sampled from every other qualifying population:
//
//	(1 - (1-p)^ncFocal) * (1-p)^ncOther
func DetectionProbability(p, ncFocal, ncOther float64) float64 {
	q := 1.0 - p
	return (1.0 - math.Pow(q, ncFocal)) * math.Pow(q, ncOther)
}

// LogDetectionProbability returns log10 of DetectionProbability. A
// probability of 0 yields -Inf, which is returned as is.
func LogDetectionProbability(p, ncFocal, ncOther float64) float64 {
	return math.Log10(DetectionProbability(p, ncFocal, ncOther))
}
