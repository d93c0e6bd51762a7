package fpa

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError describes a row rejected in strict mode.
type ParseError struct {
	Line   int
	Column string
	Token  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, column %s: cannot use %q: %v", e.Line, e.Column, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseSite decodes one whitespace-delimited data row holding nPops
// population blocks. lineNumber is only used for reporting.
//
// By default numeric tokens are coerced the way C's atof and atoi do, so
// "NA" or other text becomes 0, and tokens absent from a short row are
// treated as missing alleles and zero-valued numbers. With strict set, a row
// with the wrong number of tokens or with text where a number is needed is
// rejected with a *ParseError.
func ParseSite(line string, lineNumber, nPops int, strict bool) (*Site, error) {
	fields := strings.Fields(line)

	if strict {
		if err := validateRow(fields, lineNumber, nPops); err != nil {
			return nil, err
		}
	}

	token := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}

	s := &Site{
		Line:        lineNumber,
		Scaffold:    token(0),
		Position:    atoi(token(1)),
		RefNuc:      token(2),
		Populations: make([]PopulationEstimate, nPops),
	}

	for pop := 1; pop <= nPops; pop++ {
		col := func(c Column) string {
			return token(tokenIndex(pop, c))
		}

		pe := &s.Populations[pop-1]
		pe.ID = pop
		if a := col(ColumnAllele1); a != "" && a != MissingAllele {
			pe.Allele1, pe.HasAllele1 = Allele(a), true
		}
		if a := col(ColumnAllele2); a != "" && a != MissingAllele {
			pe.Allele2, pe.HasAllele2 = Allele(a), true
		}
		pe.Coverage = atoi(col(ColumnCoverage))
		pe.Nc = atof(col(ColumnNc))
		pe.BestP = atof(col(ColumnBestP))
		pe.BestQ = atof(col(ColumnBestQ))
		pe.ErrorRate = atof(col(ColumnErrorRate))
		pe.BestH = atof(col(ColumnBestH))
		pe.PolyLLStat = atof(col(ColumnPolyLLStat))
	}

	return s, nil
}

func validateRow(fields []string, lineNumber, nPops int) error {
	if want := FixedColumns + nPops*ColumnsPerPopulation; len(fields) != want {
		return &ParseError{
			Line: lineNumber,
			Err:  fmt.Errorf("found %d fields, expected %d for %d populations", len(fields), want, nPops),
		}
	}

	if _, err := strconv.Atoi(fields[1]); err != nil {
		return &ParseError{Line: lineNumber, Column: "site", Token: fields[1], Err: err}
	}

	for pop := 1; pop <= nPops; pop++ {
		check := func(c Column, parse func(string) error) error {
			tok := fields[tokenIndex(pop, c)]
			if err := parse(tok); err != nil {
				return &ParseError{
					Line:   lineNumber,
					Column: fmt.Sprintf("%s (population %d)", c, pop),
					Token:  tok,
					Err:    err,
				}
			}
			return nil
		}

		if err := check(ColumnCoverage, parseInt); err != nil {
			return err
		}

		// Estimates that feed the analysis must be numeric whenever the
		// allele they describe was called. The rest may carry the missing
		// token.
		required := []Column{ColumnErrorRate, ColumnBestH}
		if fields[tokenIndex(pop, ColumnAllele1)] != MissingAllele {
			required = append(required, ColumnNc, ColumnBestP)
			if fields[tokenIndex(pop, ColumnAllele2)] != MissingAllele {
				required = append(required, ColumnBestQ, ColumnPolyLLStat)
			}
		}
		for _, c := range required {
			parse := parseFloat
			if c == ColumnErrorRate || c == ColumnBestH {
				parse = parseFloatOrMissing
			}
			if err := check(c, parse); err != nil {
				return err
			}
		}
	}

	return nil
}

func parseInt(s string) error {
	_, err := strconv.Atoi(s)
	return err
}

func parseFloat(s string) error {
	_, err := strconv.ParseFloat(s, 64)
	return err
}

func parseFloatOrMissing(s string) error {
	if s == MissingAllele {
		return nil
	}
	return parseFloat(s)
}
