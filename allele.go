package fpa

// MissingAllele is the token used by the upstream estimator when no allele
// could be called for a population.
const MissingAllele = "NA"

// Allele is a nucleotide identity as written by the upstream estimator. It
// usually holds a single base but nothing here relies on that.
type Allele string

func (a Allele) String() string {
	return string(a)
}

// AlleleSet is a set of alleles that remembers the order in which members
// were first added. The zero value is ready to use.
type AlleleSet struct {
	order []Allele
	index map[Allele]int
}

// Add inserts a if it is not already present and reports whether it was
// added.
func (s *AlleleSet) Add(a Allele) bool {
	if s.index == nil {
		s.index = make(map[Allele]int)
	}
	if _, exists := s.index[a]; exists {
		return false
	}
	s.index[a] = len(s.order)
	s.order = append(s.order, a)
	return true
}

func (s *AlleleSet) Contains(a Allele) bool {
	_, exists := s.index[a]
	return exists
}

func (s *AlleleSet) Len() int {
	return len(s.order)
}

// Alleles returns the members in first-seen order. The caller must not
// modify the returned slice.
func (s *AlleleSet) Alleles() []Allele {
	return s.order
}
