package pe

import (
	"github.com/pkg/errors"
)

// Encode lays h out as the leading bytes of a PE image: a DOS stub whose
// e_lfanew points at the PE signature, the COFF file header, the optional
// header and h.DataDirectories. When h.RichHeader is set its Raw bytes are
// copied to DansOffset. Encode(h) followed by Decode yields the same fields.
func Encode(h *Header) ([]byte, error) {
	layout, ok := optionalHeaderLayouts[h.OptionalHeader.Magic]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownOptionalHeaderFormat, "magic 0x%x", uint16(h.OptionalHeader.Magic))
	}
	if len(h.DataDirectories) > NumDirectoryEntries {
		return nil, errors.Errorf("%d data directories exceed the catalog of %d",
			len(h.DataDirectories), NumDirectoryEntries)
	}

	peOffset := h.DOSHeader.AddressOfNewEXEHeader
	if peOffset < uint32(DOSHeaderSize) {
		return nil, errors.Errorf("e_lfanew 0x%x overlaps the DOS header", peOffset)
	}

	ddOffset := optionalHeaderOffset(peOffset) + layout.dataDirectories
	size := ddOffset + uint64(len(h.DataDirectories)*DataDirectorySize)
	buf := make([]byte, size)

	if err := putUint(buf, 0, 2, ImageDOSSignature); err != nil {
		return nil, err
	}
	if err := putUint(buf, dosLfanewOffset, 4, uint64(peOffset)); err != nil {
		return nil, err
	}
	if rh := h.RichHeader; rh != nil {
		end := rh.DansOffset + len(rh.Raw)
		if rh.DansOffset < DOSHeaderSize || end > int(peOffset) {
			return nil, errors.New("rich header does not fit in the DOS stub")
		}
		copy(buf[rh.DansOffset:], rh.Raw)
	}
	if err := putUint(buf, uint64(peOffset), 4, ImageNTHeaderSignature); err != nil {
		return nil, err
	}

	fh := h.FileHeader
	if err := encodeFields(buf, fileHeaderOffset(peOffset), fileHeaderFields, &fh); err != nil {
		return nil, err
	}
	oh := h.OptionalHeader
	if err := encodeFields(buf, optionalHeaderOffset(peOffset), layout.fields, &oh); err != nil {
		return nil, err
	}

	for i, d := range h.DataDirectories {
		at := ddOffset + uint64(i*DataDirectorySize)
		if err := putUint(buf, at, 4, uint64(d.VirtualAddress)); err != nil {
			return nil, err
		}
		if err := putUint(buf, at+4, 4, uint64(d.Size)); err != nil {
			return nil, err
		}
	}
	return buf, nil
}
