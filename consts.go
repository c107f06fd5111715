package pe

// MinFileSize On Windows XP (x32) the smallest PE executable is 97 bytes.
const MinFileSize = 97

// DefaultReadLimit is the number of leading bytes acquired from a file.
const DefaultReadLimit = 4096

const (
	ImageDOSSignature = 0x5A4D // MZ
	// offset of e_lfanew inside the DOS header
	dosLfanewOffset = 0x3C
)

const ImageNTHeaderSignature = 0x00004550

const (
	ImageNTOptionalHdr32Magic = 0x10b
	ImageNTOptionalHdr64Magic = 0x20b
)

var (
	DOSHeaderSize     = 64
	FileHeaderSize    = 20
	DataDirectorySize = 8
)

const (
	DansSignature = 0x536E6144
	RichSignature = "Rich"
)
