package prism

import (
	"io"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

// Open opens a local or gs:// path and transparently decompresses it
// based on its magic bytes. The client may be nil for local paths.
func Open(path string, client *storage.Client) (io.ReadCloser, error) {
	f, err := MaybeOpenFromGoogleStorage(path, client)
	if err != nil {
		return nil, pfx.Err(err)
	}

	rc, err := MaybeDecompressReadCloser(f)
	if err != nil {
		f.Close()

		return nil, pfx.Err(err)
	}

	return rc, nil
}
