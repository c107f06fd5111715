package pe

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// boundsCheck reports ErrOutsideBoundary when width bytes at offset do not
// fit in buf.
func boundsCheck(buf []byte, offset uint64, width int) error {
	end := offset + uint64(width)
	// Integer overflow
	if end < offset || end > uint64(len(buf)) {
		return errors.Wrapf(ErrOutsideBoundary, "read of %d bytes at offset 0x%x, buffer length %d",
			width, offset, len(buf))
	}
	return nil
}

// ReadUint8 reads a byte from buf at offset.
func ReadUint8(buf []byte, offset uint64) (uint8, error) {
	if err := boundsCheck(buf, offset, 1); err != nil {
		return 0, err
	}
	return buf[offset], nil
}

// ReadUint16 reads a little-endian uint16 from buf at offset.
func ReadUint16(buf []byte, offset uint64) (uint16, error) {
	if err := boundsCheck(buf, offset, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[offset:]), nil
}

// ReadUint32 reads a little-endian uint32 from buf at offset.
func ReadUint32(buf []byte, offset uint64) (uint32, error) {
	if err := boundsCheck(buf, offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[offset:]), nil
}

// ReadUint64 reads a little-endian uint64 from buf at offset.
func ReadUint64(buf []byte, offset uint64) (uint64, error) {
	if err := boundsCheck(buf, offset, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[offset:]), nil
}

// readUint reads an unsigned integer of the given width (1, 2, 4 or 8 bytes).
func readUint(buf []byte, offset uint64, width int) (uint64, error) {
	switch width {
	case 1:
		v, err := ReadUint8(buf, offset)
		return uint64(v), err
	case 2:
		v, err := ReadUint16(buf, offset)
		return uint64(v), err
	case 4:
		v, err := ReadUint32(buf, offset)
		return uint64(v), err
	case 8:
		return ReadUint64(buf, offset)
	}
	return 0, errors.Errorf("unsupported field width %d", width)
}

// putUint writes v as a little-endian integer of the given width.
func putUint(buf []byte, offset uint64, width int, v uint64) error {
	if err := boundsCheck(buf, offset, width); err != nil {
		return err
	}
	switch width {
	case 1:
		buf[offset] = uint8(v)
	case 2:
		binary.LittleEndian.PutUint16(buf[offset:], uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(buf[offset:], uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(buf[offset:], v)
	default:
		return errors.Errorf("unsupported field width %d", width)
	}
	return nil
}
