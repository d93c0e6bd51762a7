package fpa

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/carbocation/pfx"
)

// OutputHeader lists the output columns in order.
var OutputHeader = []string{
	"scaffold",
	"site",
	"ref_nuc",
	"tot_cov",
	"ne_pops",
	"num_alleles",
	"private_allele",
	"id_pop",
	"focal_frequency",
	"total_frequency",
	"log_prob_pa",
	"MAF",
}

// Sink receives analyzed sites in input order and reports how many private
// allele records it stored.
type Sink interface {
	Write(*SiteResult) (int, error)
}

// Writer emits one tab-separated row per private allele.
type Writer struct {
	w   *bufio.Writer
	buf []byte
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) WriteHeader() error {
	w.buf = w.buf[:0]
	for i, name := range OutputHeader {
		if i > 0 {
			w.buf = append(w.buf, '\t')
		}
		w.buf = append(w.buf, name...)
	}
	w.buf = append(w.buf, '\n')

	if _, err := w.w.Write(w.buf); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// Write emits the private alleles of r, if any, in the order they were
// found. Sites without private alleles produce nothing.
func (w *Writer) Write(r *SiteResult) (int, error) {
	for _, pa := range r.PrivateAlleles {
		b := w.buf[:0]
		b = append(b, r.Site.Scaffold...)
		b = append(b, '\t')
		b = strconv.AppendInt(b, int64(r.Site.Position), 10)
		b = append(b, '\t')
		b = append(b, r.Site.RefNuc...)
		b = append(b, '\t')
		b = strconv.AppendInt(b, int64(r.TotalCoverage), 10)
		b = append(b, '\t')
		b = strconv.AppendInt(b, int64(r.NePops), 10)
		b = append(b, '\t')
		b = strconv.AppendInt(b, int64(r.NumAlleles()), 10)
		b = append(b, '\t')
		b = append(b, string(pa.Allele)...)
		b = append(b, '\t')
		b = strconv.AppendInt(b, int64(pa.Population), 10)
		b = append(b, '\t')
		b = appendFixed(b, pa.FocalFrequency)
		b = append(b, '\t')
		b = appendFixed(b, pa.TotalFrequency)
		b = append(b, '\t')
		b = appendFixed(b, pa.LogProbDetection)
		b = append(b, '\t')
		b = appendFixed(b, r.MAFTotal)
		b = append(b, '\n')
		w.buf = b

		if _, err := w.w.Write(b); err != nil {
			return 0, pfx.Err(err)
		}
	}

	return len(r.PrivateAlleles), nil
}

func (w *Writer) Flush() error {
	if err := w.w.Flush(); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// appendFixed formats v with six decimals, spelling non-finite values the
// way C's printf does.
func appendFixed(b []byte, v float64) []byte {
	switch {
	case math.IsNaN(v):
		return append(b, "nan"...)
	case math.IsInf(v, 1):
		return append(b, "inf"...)
	case math.IsInf(v, -1):
		return append(b, "-inf"...)
	}
	return strconv.AppendFloat(b, v, 'f', 6, 64)
}

// OutputFile is a Writer backed by a file on disk.
type OutputFile struct {
	*Writer
	file *os.File
	comp io.WriteCloser
}

// Create creates path and writes the header row to it. Output is gzip or
// Zstandard compressed when path ends in .gz or .zst.
func Create(path string) (*OutputFile, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	comp, err := compress(file, CompressionFromPath(path))
	if err != nil {
		file.Close()
		return nil, pfx.Err(err)
	}

	out := &OutputFile{
		Writer: NewWriter(comp),
		file:   file,
		comp:   comp,
	}
	if err := out.WriteHeader(); err != nil {
		out.Close()
		return nil, pfx.Err(err)
	}

	return out, nil
}

// Close flushes buffered rows and closes the file.
func (o *OutputFile) Close() error {
	err := o.Flush()
	if cerr := o.comp.Close(); err == nil && cerr != nil {
		err = pfx.Err(cerr)
	}
	if cerr := o.file.Close(); err == nil && cerr != nil {
		err = pfx.Err(cerr)
	}

	return err
}
