package pe

import (
	"context"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
)

// File is a decoded PE header together with where it came from. The
// underlying file handle is released before NewFile returns.
type File struct {
	*Header

	path string
	size int64
	data []byte
}

type options struct {
	readLimit int
	mmap      bool
}

type Option func(*options)

// WithReadLimit sets how many leading bytes are acquired from the file.
func WithReadLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.readLimit = n
		}
	}
}

// WithMmap acquires the leading bytes through a read-only memory mapping
// instead of a buffered read.
func WithMmap(enabled bool) Option {
	return func(o *options) {
		o.mmap = enabled
	}
}

func NewFile(ctx context.Context, filename string, opts ...Option) (*File, error) {
	o := options{readLimit: DefaultReadLimit}
	for _, opt := range opts {
		opt(&o)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, ioError(err, "open %s", filename)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, ioError(err, "stat %s", filename)
	}
	if stat.Size() < MinFileSize {
		return nil, errors.Wrapf(ErrFileTooSmall, "%s is %d bytes", filename, stat.Size())
	}

	n := int64(o.readLimit)
	if stat.Size() < n {
		n = stat.Size()
	}

	var data []byte
	if o.mmap {
		data, err = readMapped(f, int(n))
	} else {
		data, err = readBuffered(f, n)
	}
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h, err := Decode(data)
	if err != nil {
		return nil, errors.WithMessage(err, filename)
	}

	return &File{
		Header: h,
		path:   filename,
		size:   stat.Size(),
		data:   data,
	}, nil
}

func readBuffered(f *os.File, n int64) ([]byte, error) {
	data := make([]byte, n)
	if _, err := io.ReadFull(io.LimitReader(f, n), data); err != nil {
		return nil, ioError(err, "read %d bytes", n)
	}
	return data, nil
}

// readMapped copies the first n bytes out of a temporary read-only mapping.
func readMapped(f *os.File, n int) ([]byte, error) {
	m, err := mmap.MapRegion(f, n, mmap.RDONLY, 0, 0)
	if err != nil {
		return nil, ioError(err, "mmap %d bytes", n)
	}
	data := make([]byte, n)
	copy(data, m)
	if err := m.Unmap(); err != nil {
		return nil, ioError(err, "munmap")
	}
	return data, nil
}

func ioError(err error, format string, args ...any) error {
	return errors.Wrapf(ErrIO, format+": %v", append(args, err)...)
}

// Path returns the file name passed to NewFile.
func (f *File) Path() string {
	return f.path
}

// Size returns the size of the whole file on disk.
func (f *File) Size() int64 {
	return f.size
}

// Data returns a copy of the leading bytes the header was decoded from.
func (f *File) Data() []byte {
	return append([]byte(nil), f.data...)
}
