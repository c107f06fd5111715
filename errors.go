package pe

import "github.com/pkg/errors"

var (
	ErrIO           = errors.New("unable to read file")
	ErrFileTooSmall = errors.Wrap(ErrIO, "not a PE file, smaller than tiny PE")
)

var (
	ErrOutsideBoundary             = errors.New("reading data outside boundary")
	ErrInvalidDOSHeader            = errors.New("invalid DOS header, MZ signature not found")
	ErrInvalidPESignature          = errors.New("not a valid PE signature. Magic not found")
	ErrUnknownOptionalHeaderFormat = errors.New("optional header has unexpected magic")
)

// Kind names the structural check that err failed, or "" if err is not a
// decoding error.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrIO):
		return "IoFailure"
	case errors.Is(err, ErrOutsideBoundary):
		return "OutOfBounds"
	case errors.Is(err, ErrInvalidDOSHeader):
		return "InvalidDosHeader"
	case errors.Is(err, ErrInvalidPESignature):
		return "InvalidPeSignature"
	case errors.Is(err, ErrUnknownOptionalHeaderFormat):
		return "UnknownOptionalHeaderFormat"
	}
	return ""
}
