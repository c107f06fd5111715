package pe

import (
	"github.com/pkg/errors"
)

// DOSHeader holds the two DOS stub fields the PE loader relies on.
type DOSHeader struct {
	Magic                 uint16
	AddressOfNewEXEHeader uint32
}

func readDOSHeader(data []byte) (DOSHeader, error) {
	var h DOSHeader
	magic, err := ReadUint16(data, 0)
	if err != nil {
		return h, errors.WithMessage(err, "failure to read DOS signature")
	}
	if magic != ImageDOSSignature {
		return h, errors.Wrapf(ErrInvalidDOSHeader, "found 0x%04x", magic)
	}
	h.Magic = magic

	if h.AddressOfNewEXEHeader, err = ReadUint32(data, dosLfanewOffset); err != nil {
		return h, errors.WithMessage(err, "failure to read e_lfanew")
	}
	return h, nil
}

// LocatePEHeader validates the DOS stub and the PE signature it points to and
// returns the offset of the "PE\0\0" signature.
func LocatePEHeader(data []byte) (uint32, error) {
	dos, err := readDOSHeader(data)
	if err != nil {
		return 0, err
	}
	return checkPESignature(data, dos.AddressOfNewEXEHeader)
}

func checkPESignature(data []byte, offset uint32) (uint32, error) {
	sig, err := ReadUint32(data, uint64(offset))
	if err != nil {
		return 0, errors.WithMessagef(err, "e_lfanew 0x%x points outside the image", offset)
	}
	if sig != ImageNTHeaderSignature {
		return 0, errors.Wrapf(ErrInvalidPESignature, "found 0x%08x at 0x%x", sig, offset)
	}
	return offset, nil
}
