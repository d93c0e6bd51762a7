package fpa

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression indicates how (and whether) an input or output stream is
// compressed
type Compression uint32

const (
	CompressionDisabled Compression = iota
	CompressionGzip
	CompressionZStandard
)

var (
	magicGzip      = []byte{0x1f, 0x8b}
	magicZStandard = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

func (c Compression) String() string {
	switch c {
	case CompressionDisabled:
		return "CompressionDisabled"
	case CompressionGzip:
		return "CompressionGzip"
	case CompressionZStandard:
		return "CompressionZStandard"

	default:
		return "Illegal selection"
	}
}

// DetectCompression inspects the first bytes of a stream.
func DetectCompression(head []byte) Compression {
	switch {
	case bytes.HasPrefix(head, magicZStandard):
		return CompressionZStandard
	case bytes.HasPrefix(head, magicGzip):
		return CompressionGzip
	}
	return CompressionDisabled
}

// CompressionFromPath chooses an output compression from a file extension.
func CompressionFromPath(path string) Compression {
	switch {
	case strings.HasSuffix(path, ".zst"):
		return CompressionZStandard
	case strings.HasSuffix(path, ".gz"):
		return CompressionGzip
	}
	return CompressionDisabled
}

// decompress wraps br in a decompressor chosen from its leading bytes. The
// returned closer is nil when the stream is not compressed.
func decompress(br *bufio.Reader) (io.Reader, io.Closer, Compression, error) {
	head, err := br.Peek(len(magicZStandard))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, nil, CompressionDisabled, pfx.Err(err)
	}

	switch c := DetectCompression(head); c {
	case CompressionGzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, c, pfx.Err(err)
		}
		return gz, gz, c, nil

	case CompressionZStandard:
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, nil, c, pfx.Err(err)
		}
		rc := dec.IOReadCloser()
		return rc, rc, c, nil
	}

	return br, nil, CompressionDisabled, nil
}

// compress wraps w so that writes are compressed with c. Closing the
// returned writer flushes the compressor but does not close w.
func compress(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionGzip:
		return gzip.NewWriter(w), nil
	case CompressionZStandard:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, pfx.Err(err)
		}
		return enc, nil
	}

	return nopWriteCloser{w}, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
