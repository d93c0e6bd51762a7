package fpa

import (
	"io"
	"strings"

	"github.com/carbocation/pfx"
)

// SiteReader iterates over the data rows of an FPA, one Site at a time.
type SiteReader struct {
	SitesSeen uint32
	f         *FPA
	strict    bool
	err       error
}

// NewSiteReader returns a reader positioned after the header. With strict
// set, rows that are malformed stop the reader with a *ParseError.
func (f *FPA) NewSiteReader(strict bool) *SiteReader {
	sr := &SiteReader{
		f:      f,
		strict: strict,
	}

	return sr
}

func (sr *SiteReader) Error() error {
	return sr.err
}

// Read returns the next site, or nil at the end of the input or after an
// error. Blank lines are skipped.
func (sr *SiteReader) Read() *Site {
	if sr.err != nil {
		return nil
	}

	for {
		line, err := sr.f.readLine()
		if err == io.EOF {
			return nil
		} else if err != nil {
			sr.err = pfx.Err(err)
			return nil
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		s, err := ParseSite(line, sr.f.line, sr.f.NPopulations, sr.strict)
		if err != nil {
			sr.err = pfx.Err(err)
			return nil
		}
		sr.SitesSeen++

		return s
	}
}

// rawLine is an unparsed data row and its line number.
type rawLine struct {
	number int
	text   string
}

// readBatch reads up to n non-blank data rows.
func (f *FPA) readBatch(n int) ([]rawLine, error) {
	batch := make([]rawLine, 0, n)
	for len(batch) < n {
		line, err := f.readLine()
		if err == io.EOF {
			break
		} else if err != nil {
			return batch, pfx.Err(err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		batch = append(batch, rawLine{number: f.line, text: line})
	}

	return batch, nil
}
