package prism

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

type ReadSeekCloser interface {
	io.Reader
	io.Seeker
	io.Closer
}

// GSReadSeekCloser decorates a Google Storage object handle with io.Reader,
// io.Seeker, and io.Closer. Derived from
// https://github.com/googleapis/google-cloud-go/issues/1124#issuecomment-419070541
type GSReadSeekCloser struct {
	*storage.ObjectHandle
	Context context.Context
	r       *storage.Reader
	offset  int64
	Closer  *func() error
}

func (s *GSReadSeekCloser) Read(buf []byte) (int, error) {
	var err error
	if s.r == nil {
		s.r, err = s.NewRangeReader(s.Context, s.offset, -1)
		if err != nil {
			return 0, err
		}
	}

	return s.r.Read(buf)
}

// Seek only supports rewinding to the start of the object. As a proxy for
// true seeking, the current connection is dropped and a new range reader is
// opened on the next Read.
func (s *GSReadSeekCloser) Seek(offset int64, whence int) (int64, error) {
	if whence == io.SeekEnd {
		return 0, fmt.Errorf("io.Seeker 'whence' value %d is not implemented", whence)
	}
	if offset != 0 {
		return 0, fmt.Errorf("seeking to a nonzero offset is not implemented")
	}

	if s.r != nil {
		s.r.Close()
		s.r = nil
	}
	s.offset = 0

	return s.offset, nil
}

// Close satisfies io.Closer. If Closer is not set, this is a nop.
func (s *GSReadSeekCloser) Close() error {
	if s.Closer != nil {
		return (*s.Closer)()
	}

	return nil
}

// MaybeOpenFromGoogleStorage opens a local file, unless the path starts with
// gs:// and a non-nil storage client is supplied, in which case it opens the
// named Google Storage object with the client's default credentials.
func MaybeOpenFromGoogleStorage(path string, client *storage.Client) (ReadSeekCloser, error) {
	if client != nil && strings.HasPrefix(path, "gs://") {
		pathParts := strings.SplitN(strings.TrimPrefix(path, "gs://"), "/", 2)
		if len(pathParts) != 2 {
			return nil, fmt.Errorf("tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
		}
		bucketName := pathParts[0]
		pathName := pathParts[1]

		handle := client.Bucket(bucketName).Object(pathName)

		wrappedHandle := &GSReadSeekCloser{
			ObjectHandle: handle,
			Context:      context.Background(),
		}

		// A hard call to confirm the object exists before handing it back
		if _, err := wrappedHandle.ObjectHandle.Attrs(wrappedHandle.Context); err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %s", path, err))
		}

		return wrappedHandle, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return f, nil
}
