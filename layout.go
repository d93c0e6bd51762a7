package fpa

// Column identifies one of the per-population fields of an input row. The
// order of the constants is the order of the fields within each
// population's block of columns.
type Column uint32

const (
	ColumnAllele1 Column = iota
	ColumnAllele2
	ColumnCoverage
	ColumnNc
	ColumnBestP
	ColumnBestQ
	ColumnErrorRate
	ColumnBestH
	ColumnPolyLLStat
)

const (
	// FixedColumns precede the population blocks: scaffold, site and the
	// reference nucleotide.
	FixedColumns = 3

	// ColumnsPerPopulation is the width of each population block.
	ColumnsPerPopulation = 9
)

func (c Column) String() string {
	switch c {
	case ColumnAllele1:
		return "allele1"
	case ColumnAllele2:
		return "allele2"
	case ColumnCoverage:
		return "coverage"
	case ColumnNc:
		return "Nc"
	case ColumnBestP:
		return "best_p"
	case ColumnBestQ:
		return "best_q"
	case ColumnErrorRate:
		return "error_rate"
	case ColumnBestH:
		return "best_H"
	case ColumnPolyLLStat:
		return "poly_llstat"

	default:
		return "Illegal selection"
	}
}

// tokenIndex returns the position, within a whitespace-split row, of column
// c for the 1-based population pop.
func tokenIndex(pop int, c Column) int {
	return FixedColumns + (pop-1)*ColumnsPerPopulation + int(c)
}
