package fpa

// Population is one block of columns declared by the header.
type Population struct {
	ID     int // 1-based, as reported in the output
	Labels [ColumnsPerPopulation]string
}

// ReadPopulations groups the header labels of f into populations.
func ReadPopulations(f *FPA) []Population {
	pops := make([]Population, 0, f.NPopulations)
	for i := 0; i < f.NPopulations; i++ {
		p := Population{ID: i + 1}
		copy(p.Labels[:], f.Labels[i*ColumnsPerPopulation:(i+1)*ColumnsPerPopulation])
		pops = append(pops, p)
	}

	return pops
}
