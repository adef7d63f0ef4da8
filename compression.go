package prism

import (
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"
	"os"

	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type Compression byte

const (
	CompressionInvalid Compression = iota
	CompressionNone
	CompressionGzip
	CompressionZip
	CompressionXZ
	CompressionZlib
	CompressionBZip2
)

var compressionSigs = map[Compression][]byte{
	CompressionGzip:  {0x1f, 0x8b, 0x08},
	CompressionZip:   {0x50, 0x4b, 0x03, 0x04},
	CompressionXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	CompressionZlib:  {0x1f, 0x9d},
	CompressionBZip2: {0x42, 0x5a, 0x68},
}

// DetectCompression reads the first few bytes from r and compares them against
// known magic numbers. Byte code signatures from
// https://stackoverflow.com/a/19127748/199475
func DetectCompression(r io.Reader) (Compression, error) {
	buff := make([]byte, 6)
	if _, err := r.Read(buff); err != nil {
		return CompressionInvalid, err
	}

Outer:
	for ct, sig := range compressionSigs {
		for position := range sig {
			if buff[position] != sig[position] {
				continue Outer
			}
		}
		return ct, nil
	}

	return CompressionNone, nil
}

// MaybeDecompressReadCloser sniffs the compression type of f and returns a
// reader that yields its decompressed contents. Files with no recognized
// magic number are passed through unmodified.
func MaybeDecompressReadCloser(f ReadSeekCloser) (io.ReadCloser, error) {
	ct, err := DetectCompression(f)
	if err != nil {
		return nil, err
	}

	// Reset the reader so the decompressor sees the magic bytes too
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	switch ct {
	case CompressionGzip:
		return gzip.NewReader(f)
	case CompressionZip:
		return &readCloserFaker{zipstream.NewReader(f)}, nil
	case CompressionBZip2:
		return &readCloserFaker{bzip2.NewReader(f)}, nil
	case CompressionXZ:
		reader, err := xz.NewReader(f, 0)
		if err != nil {
			return nil, err
		}
		return &readCloserFaker{reader}, nil
	case CompressionZlib:
		return zlib.NewReader(f)
	}

	return f, nil
}

// MaybeDecompressReadCloserFromFile is the *os.File convenience form of
// MaybeDecompressReadCloser.
func MaybeDecompressReadCloserFromFile(f *os.File) (io.ReadCloser, error) {
	return MaybeDecompressReadCloser(f)
}

// readCloserFaker "upgrades" readers that don't need to be closed
type readCloserFaker struct {
	io.Reader
}

func (c *readCloserFaker) Close() error {
	return nil
}
