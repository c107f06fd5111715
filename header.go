package pe

// Header is the decoded header region of a PE image.
type Header struct {
	DOSHeader       DOSHeader
	Signature       uint32
	FileHeader      FileHeader
	OptionalHeader  OptionalHeader
	DataDirectories []DataDirectory

	// RichHeader is nil when the DOS stub carries no Rich header.
	RichHeader *RichHeader
}

// Decode parses the DOS stub, COFF file header, optional header and data
// directories found in data. It never returns a partially filled Header.
func Decode(data []byte) (*Header, error) {
	dos, err := readDOSHeader(data)
	if err != nil {
		return nil, err
	}

	peOffset, err := checkPESignature(data, dos.AddressOfNewEXEHeader)
	if err != nil {
		return nil, err
	}

	fh, err := readFileHeader(data, peOffset)
	if err != nil {
		return nil, err
	}

	format, err := ResolveFormat(data, peOffset)
	if err != nil {
		return nil, err
	}

	oh, err := readOptionalHeader(data, peOffset, format)
	if err != nil {
		return nil, err
	}

	ddOffset := optionalHeaderOffset(peOffset) + optionalHeaderLayouts[format].dataDirectories
	dd, err := readDataDirectories(data, ddOffset, oh.NumberOfRvaAndSizes)
	if err != nil {
		return nil, err
	}

	return &Header{
		DOSHeader:       dos,
		Signature:       ImageNTHeaderSignature,
		FileHeader:      fh,
		OptionalHeader:  oh,
		DataDirectories: dd,
		RichHeader:      readRichHeader(data, dos.AddressOfNewEXEHeader),
	}, nil
}

// Is64 reports whether the image uses the PE32+ optional header.
func (h *Header) Is64() bool {
	return h.OptionalHeader.Magic == PE32Plus
}

// Directory returns the data directory for entry, if the image declares it.
func (h *Header) Directory(entry DirectoryEntry) (DataDirectory, bool) {
	if entry < 0 || int(entry) >= len(h.DataDirectories) {
		return DataDirectory{}, false
	}
	return h.DataDirectories[entry], true
}
