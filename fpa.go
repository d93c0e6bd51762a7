package fpa

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/genomisc"
	"github.com/carbocation/pfx"
)

// DefaultInput and DefaultOutput are the file names used when none are
// given.
const (
	DefaultInput  = "In_FPA.txt"
	DefaultOutput = "Out_FPA.txt"
)

// FPA is the main object used for reading per-site allele frequency
// estimates. Its header has already been consumed.
type FPA struct {
	FilePath     string
	NPopulations int
	Compression  Compression

	HeaderScaffold string
	HeaderSite     string
	HeaderRefNuc   string

	// Labels holds every header token after the three fixed labels.
	Labels []string

	reader  *bufio.Reader
	line    int
	closers []io.Closer
}

// Open attempts to read the estimates located at path, which may be a local
// file or a gs:// URL and may be gzip or Zstandard compressed. If
// successful, this returns a new FPA whose header has been parsed.
// Otherwise, it returns an error.
func Open(path string) (*FPA, error) {
	var client *storage.Client
	if strings.HasPrefix(path, "gs://") {
		var err error
		client, err = storage.NewClient(context.Background())
		if err != nil {
			return nil, pfx.Err(err)
		}
	}

	f, err := OpenWithStorageClient(path, client)
	if err != nil {
		if client != nil {
			client.Close()
		}
		return nil, pfx.Err(err)
	}
	if client != nil {
		f.closers = append(f.closers, client)
	}

	return f, nil
}

// OpenWithStorageClient is like Open but reuses an existing Google Storage
// client for gs:// paths. The client is not closed by FPA.Close.
func OpenWithStorageClient(path string, client *storage.Client) (*FPA, error) {
	rc, err := genomisc.MaybeOpenSeekerFromGoogleStorage(path, client)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("Cannot open %s for reading: %w", path, err))
	}

	f, err := NewFromReader(path, rc)
	if err != nil {
		rc.Close()
		return nil, pfx.Err(err)
	}
	f.closers = append(f.closers, rc)

	return f, nil
}

// NewFromReader reads the header from r. name is only used for reporting.
// Closing the returned FPA does not close r.
func NewFromReader(name string, r io.Reader) (*FPA, error) {
	f := &FPA{
		FilePath: name,
	}

	dr, closer, comp, err := decompress(bufio.NewReader(r))
	if err != nil {
		return nil, pfx.Err(err)
	}
	f.Compression = comp
	if closer != nil {
		f.closers = append(f.closers, closer)
	}
	f.reader = bufio.NewReader(dr)

	if err := populateHeader(f); err != nil {
		f.Close()
		return nil, pfx.Err(err)
	}

	return f, nil
}

func populateHeader(f *FPA) error {
	line, err := f.readLine()
	if err == io.EOF {
		return fmt.Errorf("%s has no header line", f.FilePath)
	} else if err != nil {
		return err
	}

	fields := strings.Fields(line)
	labels := []*string{&f.HeaderScaffold, &f.HeaderSite, &f.HeaderRefNuc}
	for i, label := range labels {
		if i < len(fields) {
			*label = fields[i]
		}
	}
	if len(fields) > FixedColumns {
		f.Labels = fields[FixedColumns:]
	}

	// A label count that is not a multiple of the block width is accepted;
	// the remainder is ignored.
	f.NPopulations = len(f.Labels) / ColumnsPerPopulation

	return nil
}

// HeaderRemainder is the number of trailing header labels that did not
// complete a population block.
func (f *FPA) HeaderRemainder() int {
	return len(f.Labels) % ColumnsPerPopulation
}

// readLine returns the next line without its terminator, or io.EOF once the
// input is exhausted. Lines of any length are supported.
func (f *FPA) readLine() (string, error) {
	line, err := f.reader.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	f.line++

	return strings.TrimRight(line, "\r\n"), nil
}

// Close releases the input and any decompressor wrapped around it.
func (f *FPA) Close() error {
	var firstErr error
	// Decompressors were registered before the handles they read from.
	for _, c := range f.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = pfx.Err(err)
		}
	}
	f.closers = nil

	return firstErr
}
