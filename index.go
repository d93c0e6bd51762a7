package fpa

import (
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"
)

const indexSchema = `
DROP TABLE IF EXISTS PrivateAllele;
DROP TABLE IF EXISTS Metadata;
CREATE TABLE PrivateAllele (
	scaffold TEXT NOT NULL,
	site INTEGER NOT NULL,
	ref_nuc TEXT NOT NULL,
	tot_cov INTEGER NOT NULL,
	ne_pops INTEGER NOT NULL,
	num_alleles INTEGER NOT NULL,
	private_allele TEXT NOT NULL,
	id_pop INTEGER NOT NULL,
	focal_frequency REAL NOT NULL,
	total_frequency REAL NOT NULL,
	log_prob_pa REAL,
	maf REAL NOT NULL
);
CREATE TABLE Metadata (
	filename TEXT NOT NULL,
	n_populations INTEGER NOT NULL,
	min_nc REAL NOT NULL,
	cv REAL NOT NULL,
	index_creation_time INTEGER NOT NULL
);
`

const insertPrivateAllele = `INSERT INTO PrivateAllele
(scaffold, site, ref_nuc, tot_cov, ne_pops, num_alleles, private_allele, id_pop, focal_frequency, total_frequency, log_prob_pa, maf)
VALUES
(:scaffold, :site, :ref_nuc, :tot_cov, :ne_pops, :num_alleles, :private_allele, :id_pop, :focal_frequency, :total_frequency, :log_prob_pa, :maf)`

// Index is a SQLite database of private alleles: the queryable counterpart
// of the tab-separated output.
type Index struct {
	DB       *sqlx.DB
	Metadata *Metadata

	tx *sqlx.Tx
}

// Metadata conforms to the single row of the "Metadata" table and records
// how the index was produced.
type Metadata struct {
	Filename          string  `db:"filename"`
	NPopulations      int     `db:"n_populations"`
	MinNc             float64 `db:"min_nc"`
	CV                float64 `db:"cv"`
	IndexCreationTime Time    `db:"index_creation_time"`
}

// PrivateAlleleRow conforms to the rows of the "PrivateAllele" table and
// mirrors the columns of the tab-separated output. LogProbPA is NULL when
// the detection probability was 0.
type PrivateAlleleRow struct {
	Scaffold       string          `db:"scaffold"`
	Site           int             `db:"site"`
	RefNuc         string          `db:"ref_nuc"`
	TotalCoverage  int             `db:"tot_cov"`
	NePops         int             `db:"ne_pops"`
	NumAlleles     int             `db:"num_alleles"`
	PrivateAllele  Allele          `db:"private_allele"`
	Population     int             `db:"id_pop"`
	FocalFrequency float64         `db:"focal_frequency"`
	TotalFrequency float64         `db:"total_frequency"`
	LogProbPA      sql.NullFloat64 `db:"log_prob_pa"`
	MAF            float64         `db:"maf"`
}

// PopulationCount is the number of private alleles found in one population.
type PopulationCount struct {
	Population int `db:"id_pop"`
	N          int `db:"n"`
}

func sqlitePath(path string) string {
	// URI filenames have to begin with 'file:'; see
	// https://www.sqlite.org/c3ref/open.html
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	return path
}

// CreateIndex creates (or truncates) the index at path and records md in
// its Metadata table.
func CreateIndex(path string, md Metadata) (*Index, error) {
	db, err := connect(sqlitePath(path))
	if err != nil {
		return nil, pfx.Err(err)
	}

	if _, err := db.Exec(indexSchema); err != nil {
		db.Close()
		return nil, pfx.Err(err)
	}

	if _, err := db.NamedExec(`INSERT INTO Metadata (filename, n_populations, min_nc, cv, index_creation_time)
VALUES (:filename, :n_populations, :min_nc, :cv, :index_creation_time)`, md); err != nil {
		db.Close()
		return nil, pfx.Err(err)
	}

	return &Index{DB: db, Metadata: &md}, nil
}

// OpenIndex opens an existing index for querying.
func OpenIndex(path string) (*Index, error) {
	db, err := connect(sqlitePath(path))
	if err != nil {
		return nil, pfx.Err(err)
	}

	idx := &Index{
		DB:       db,
		Metadata: &Metadata{},
	}
	if err := idx.DB.Get(idx.Metadata, "SELECT * FROM Metadata LIMIT 1"); err != nil {
		db.Close()
		return nil, pfx.Err(fmt.Errorf("%s does not look like a private allele index: %w", path, err))
	}

	return idx, nil
}

// Write inserts one row per private allele of r. Rows are buffered in a
// transaction until Flush or Close.
func (idx *Index) Write(r *SiteResult) (int, error) {
	if len(r.PrivateAlleles) == 0 {
		return 0, nil
	}

	if idx.tx == nil {
		tx, err := idx.DB.Beginx()
		if err != nil {
			return 0, pfx.Err(err)
		}
		idx.tx = tx
	}

	for _, pa := range r.PrivateAlleles {
		row := PrivateAlleleRow{
			Scaffold:       r.Site.Scaffold,
			Site:           r.Site.Position,
			RefNuc:         r.Site.RefNuc,
			TotalCoverage:  r.TotalCoverage,
			NePops:         r.NePops,
			NumAlleles:     r.NumAlleles(),
			PrivateAllele:  pa.Allele,
			Population:     pa.Population,
			FocalFrequency: pa.FocalFrequency,
			TotalFrequency: pa.TotalFrequency,
			MAF:            r.MAFTotal,
		}
		if v := pa.LogProbDetection; !math.IsInf(v, 0) && !math.IsNaN(v) {
			row.LogProbPA = sql.NullFloat64{Float64: v, Valid: true}
		}

		if _, err := idx.tx.NamedExec(insertPrivateAllele, row); err != nil {
			return 0, pfx.Err(err)
		}
	}

	return len(r.PrivateAlleles), nil
}

// Flush commits rows written so far.
func (idx *Index) Flush() error {
	if idx.tx == nil {
		return nil
	}

	tx := idx.tx
	idx.tx = nil
	if err := tx.Commit(); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// PrivateAlleles returns the stored rows in insertion order, restricted to
// one scaffold unless scaffold is empty.
func (idx *Index) PrivateAlleles(scaffold string) ([]PrivateAlleleRow, error) {
	if err := idx.Flush(); err != nil {
		return nil, pfx.Err(err)
	}

	var rows []PrivateAlleleRow
	var err error
	if scaffold == "" {
		err = idx.DB.Select(&rows, "SELECT * FROM PrivateAllele ORDER BY rowid ASC")
	} else {
		err = idx.DB.Select(&rows, "SELECT * FROM PrivateAllele WHERE scaffold = ? ORDER BY rowid ASC", scaffold)
	}
	if err != nil {
		return nil, pfx.Err(err)
	}

	return rows, nil
}

// CountByPopulation tallies private alleles per population, ordered by
// population ID. Populations without any are omitted.
func (idx *Index) CountByPopulation() ([]PopulationCount, error) {
	if err := idx.Flush(); err != nil {
		return nil, pfx.Err(err)
	}

	var counts []PopulationCount
	if err := idx.DB.Select(&counts, "SELECT id_pop, COUNT(*) AS n FROM PrivateAllele GROUP BY id_pop ORDER BY id_pop ASC"); err != nil {
		return nil, pfx.Err(err)
	}

	return counts, nil
}

func (idx *Index) Close() error {
	err := idx.Flush()
	if cerr := idx.DB.Close(); err == nil && cerr != nil {
		err = pfx.Err(cerr)
	}

	return err
}
