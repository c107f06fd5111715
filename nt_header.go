package pe

import (
	"time"

	"github.com/pkg/errors"
)

type FileHeader struct {
	Machine              Machine
	NumberOfSections     uint16
	TimeDateStamp        uint32
	PointerToSymbolTable uint32
	NumberOfSymbols      uint32
	SizeOfOptionalHeader uint16
	Characteristics      FileCharacteristics
}

// Time converts TimeDateStamp. The second result is false when the stamp is
// 0 or 0xFFFFFFFF, which linkers use for "no meaningful time".
func (h FileHeader) Time() (time.Time, bool) {
	if h.TimeDateStamp == 0 || h.TimeDateStamp == 0xFFFFFFFF {
		return time.Time{}, false
	}
	return time.Unix(int64(h.TimeDateStamp), 0).UTC(), true
}

// Format is the optional header magic.
type Format uint16

const (
	PE32     Format = ImageNTOptionalHdr32Magic
	PE32Plus Format = ImageNTOptionalHdr64Magic
)

func (f Format) String() string {
	switch f {
	case PE32:
		return "PE32"
	case PE32Plus:
		return "PE32+"
	}
	return "unknown"
}

// Bitness returns 32 for PE32 and 64 for PE32+.
func (f Format) Bitness() int {
	if f == PE32Plus {
		return 64
	}
	return 32
}

// OptionalHeader covers both PE32 and PE32+ layouts. Fields that are 4 bytes
// wide in PE32 and 8 bytes in PE32+ are widened to uint64. BaseOfData only
// exists in PE32 images and is zero otherwise.
type OptionalHeader struct {
	Magic                       Format
	MajorLinkerVersion          uint8
	MinorLinkerVersion          uint8
	SizeOfCode                  uint32
	SizeOfInitializedData       uint32
	SizeOfUninitializedData     uint32
	AddressOfEntryPoint         uint32
	BaseOfCode                  uint32
	BaseOfData                  uint32
	ImageBase                   uint64
	SectionAlignment            uint32
	FileAlignment               uint32
	MajorOperatingSystemVersion uint16
	MinorOperatingSystemVersion uint16
	MajorImageVersion           uint16
	MinorImageVersion           uint16
	MajorSubsystemVersion       uint16
	MinorSubsystemVersion       uint16
	Win32VersionValue           uint32
	SizeOfImage                 uint32
	SizeOfHeaders               uint32
	CheckSum                    uint32
	Subsystem                   Subsystem
	DllCharacteristics          DllCharacteristics
	SizeOfStackReserve          uint64
	SizeOfStackCommit           uint64
	SizeOfHeapReserve           uint64
	SizeOfHeapCommit            uint64
	LoaderFlags                 uint32
	NumberOfRvaAndSizes         uint32
}

func (oh *OptionalHeader) HasBaseOfData() bool {
	return oh.Magic == PE32
}

// field describes one fixed-position header field: its offset relative to
// the start of its header, its width in bytes and how to move its value in
// and out of the decoded struct.
type field[T any] struct {
	name   string
	offset uint64
	width  int
	get    func(*T) uint64
	set    func(*T, uint64)
}

var fileHeaderFields = []field[FileHeader]{
	{"Machine", 0, 2,
		func(h *FileHeader) uint64 { return uint64(h.Machine) },
		func(h *FileHeader, v uint64) { h.Machine = Machine(v) }},
	{"NumberOfSections", 2, 2,
		func(h *FileHeader) uint64 { return uint64(h.NumberOfSections) },
		func(h *FileHeader, v uint64) { h.NumberOfSections = uint16(v) }},
	{"TimeDateStamp", 4, 4,
		func(h *FileHeader) uint64 { return uint64(h.TimeDateStamp) },
		func(h *FileHeader, v uint64) { h.TimeDateStamp = uint32(v) }},
	{"PointerToSymbolTable", 8, 4,
		func(h *FileHeader) uint64 { return uint64(h.PointerToSymbolTable) },
		func(h *FileHeader, v uint64) { h.PointerToSymbolTable = uint32(v) }},
	{"NumberOfSymbols", 12, 4,
		func(h *FileHeader) uint64 { return uint64(h.NumberOfSymbols) },
		func(h *FileHeader, v uint64) { h.NumberOfSymbols = uint32(v) }},
	{"SizeOfOptionalHeader", 16, 2,
		func(h *FileHeader) uint64 { return uint64(h.SizeOfOptionalHeader) },
		func(h *FileHeader, v uint64) { h.SizeOfOptionalHeader = uint16(v) }},
	{"Characteristics", 18, 2,
		func(h *FileHeader) uint64 { return uint64(h.Characteristics) },
		func(h *FileHeader, v uint64) { h.Characteristics = FileCharacteristics(v) }},
}

type ohField = field[OptionalHeader]

func u8Field(name string, off uint64, p func(*OptionalHeader) *uint8) ohField {
	return ohField{name, off, 1,
		func(oh *OptionalHeader) uint64 { return uint64(*p(oh)) },
		func(oh *OptionalHeader, v uint64) { *p(oh) = uint8(v) }}
}

func u16Field(name string, off uint64, p func(*OptionalHeader) *uint16) ohField {
	return ohField{name, off, 2,
		func(oh *OptionalHeader) uint64 { return uint64(*p(oh)) },
		func(oh *OptionalHeader, v uint64) { *p(oh) = uint16(v) }}
}

func u32Field(name string, off uint64, p func(*OptionalHeader) *uint32) ohField {
	return ohField{name, off, 4,
		func(oh *OptionalHeader) uint64 { return uint64(*p(oh)) },
		func(oh *OptionalHeader, v uint64) { *p(oh) = uint32(v) }}
}

// wideField is stored in a uint64 but occupies width bytes on disk.
func wideField(name string, off uint64, width int, p func(*OptionalHeader) *uint64) ohField {
	return ohField{name, off, width,
		func(oh *OptionalHeader) uint64 { return *p(oh) },
		func(oh *OptionalHeader, v uint64) { *p(oh) = v }}
}

// commonOptionalHeaderFields sit at the same offset in both layouts.
var commonOptionalHeaderFields = []ohField{
	{"Magic", 0, 2,
		func(oh *OptionalHeader) uint64 { return uint64(oh.Magic) },
		func(oh *OptionalHeader, v uint64) { oh.Magic = Format(v) }},
	u8Field("MajorLinkerVersion", 2, func(oh *OptionalHeader) *uint8 { return &oh.MajorLinkerVersion }),
	u8Field("MinorLinkerVersion", 3, func(oh *OptionalHeader) *uint8 { return &oh.MinorLinkerVersion }),
	u32Field("SizeOfCode", 4, func(oh *OptionalHeader) *uint32 { return &oh.SizeOfCode }),
	u32Field("SizeOfInitializedData", 8, func(oh *OptionalHeader) *uint32 { return &oh.SizeOfInitializedData }),
	u32Field("SizeOfUninitializedData", 12, func(oh *OptionalHeader) *uint32 { return &oh.SizeOfUninitializedData }),
	u32Field("AddressOfEntryPoint", 16, func(oh *OptionalHeader) *uint32 { return &oh.AddressOfEntryPoint }),
	u32Field("BaseOfCode", 20, func(oh *OptionalHeader) *uint32 { return &oh.BaseOfCode }),
	u32Field("SectionAlignment", 32, func(oh *OptionalHeader) *uint32 { return &oh.SectionAlignment }),
	u32Field("FileAlignment", 36, func(oh *OptionalHeader) *uint32 { return &oh.FileAlignment }),
	u16Field("MajorOperatingSystemVersion", 40, func(oh *OptionalHeader) *uint16 { return &oh.MajorOperatingSystemVersion }),
	u16Field("MinorOperatingSystemVersion", 42, func(oh *OptionalHeader) *uint16 { return &oh.MinorOperatingSystemVersion }),
	u16Field("MajorImageVersion", 44, func(oh *OptionalHeader) *uint16 { return &oh.MajorImageVersion }),
	u16Field("MinorImageVersion", 46, func(oh *OptionalHeader) *uint16 { return &oh.MinorImageVersion }),
	u16Field("MajorSubsystemVersion", 48, func(oh *OptionalHeader) *uint16 { return &oh.MajorSubsystemVersion }),
	u16Field("MinorSubsystemVersion", 50, func(oh *OptionalHeader) *uint16 { return &oh.MinorSubsystemVersion }),
	u32Field("Win32VersionValue", 52, func(oh *OptionalHeader) *uint32 { return &oh.Win32VersionValue }),
	u32Field("SizeOfImage", 56, func(oh *OptionalHeader) *uint32 { return &oh.SizeOfImage }),
	u32Field("SizeOfHeaders", 60, func(oh *OptionalHeader) *uint32 { return &oh.SizeOfHeaders }),
	u32Field("CheckSum", 64, func(oh *OptionalHeader) *uint32 { return &oh.CheckSum }),
	{"Subsystem", 68, 2,
		func(oh *OptionalHeader) uint64 { return uint64(oh.Subsystem) },
		func(oh *OptionalHeader, v uint64) { oh.Subsystem = Subsystem(v) }},
	{"DllCharacteristics", 70, 2,
		func(oh *OptionalHeader) uint64 { return uint64(oh.DllCharacteristics) },
		func(oh *OptionalHeader, v uint64) { oh.DllCharacteristics = DllCharacteristics(v) }},
}

// optionalHeaderLayout lists the variant-specific fields of one optional
// header format and where its data directories begin.
type optionalHeaderLayout struct {
	fields          []ohField
	dataDirectories uint64
}

func newLayout(wordSize int, baseOfData bool) optionalHeaderLayout {
	w := uint64(wordSize)
	fields := append([]ohField(nil), commonOptionalHeaderFields...)
	imageBase := uint64(24)
	if baseOfData {
		fields = append(fields, u32Field("BaseOfData", 24,
			func(oh *OptionalHeader) *uint32 { return &oh.BaseOfData }))
		imageBase = 28
	}
	fields = append(fields,
		wideField("ImageBase", imageBase, wordSize, func(oh *OptionalHeader) *uint64 { return &oh.ImageBase }),
		wideField("SizeOfStackReserve", 72, wordSize, func(oh *OptionalHeader) *uint64 { return &oh.SizeOfStackReserve }),
		wideField("SizeOfStackCommit", 72+w, wordSize, func(oh *OptionalHeader) *uint64 { return &oh.SizeOfStackCommit }),
		wideField("SizeOfHeapReserve", 72+2*w, wordSize, func(oh *OptionalHeader) *uint64 { return &oh.SizeOfHeapReserve }),
		wideField("SizeOfHeapCommit", 72+3*w, wordSize, func(oh *OptionalHeader) *uint64 { return &oh.SizeOfHeapCommit }),
		u32Field("LoaderFlags", 72+4*w, func(oh *OptionalHeader) *uint32 { return &oh.LoaderFlags }),
		u32Field("NumberOfRvaAndSizes", 76+4*w, func(oh *OptionalHeader) *uint32 { return &oh.NumberOfRvaAndSizes }),
	)
	return optionalHeaderLayout{fields: fields, dataDirectories: 80 + 4*w}
}

var optionalHeaderLayouts = map[Format]optionalHeaderLayout{
	PE32:     newLayout(4, true),
	PE32Plus: newLayout(8, false),
}

// decodeFields fills dst from data using the field table, relative to base.
func decodeFields[T any](data []byte, base uint64, fields []field[T], dst *T) error {
	for _, f := range fields {
		v, err := readUint(data, base+f.offset, f.width)
		if err != nil {
			return errors.WithMessagef(err, "failure to read %s", f.name)
		}
		f.set(dst, v)
	}
	return nil
}

func encodeFields[T any](buf []byte, base uint64, fields []field[T], src *T) error {
	for _, f := range fields {
		if err := putUint(buf, base+f.offset, f.width, f.get(src)); err != nil {
			return errors.WithMessagef(err, "failure to write %s", f.name)
		}
	}
	return nil
}

func fileHeaderOffset(peOffset uint32) uint64 {
	return uint64(peOffset) + 4
}

func optionalHeaderOffset(peOffset uint32) uint64 {
	return fileHeaderOffset(peOffset) + uint64(FileHeaderSize)
}

func readFileHeader(data []byte, peOffset uint32) (FileHeader, error) {
	var fh FileHeader
	if err := decodeFields(data, fileHeaderOffset(peOffset), fileHeaderFields, &fh); err != nil {
		return fh, errors.WithMessage(err, "failure to read COFF file header")
	}
	return fh, nil
}

// ResolveFormat reads the optional header magic that follows the COFF file
// header at peOffset and returns the layout it selects.
func ResolveFormat(data []byte, peOffset uint32) (Format, error) {
	magic, err := ReadUint16(data, optionalHeaderOffset(peOffset))
	if err != nil {
		return 0, errors.WithMessage(err, "failure to read optional header magic")
	}
	switch Format(magic) {
	case PE32, PE32Plus:
		return Format(magic), nil
	}
	return 0, errors.Wrapf(ErrUnknownOptionalHeaderFormat, "magic 0x%x", magic)
}

func readOptionalHeader(data []byte, peOffset uint32, format Format) (OptionalHeader, error) {
	var oh OptionalHeader
	layout := optionalHeaderLayouts[format]
	if err := decodeFields(data, optionalHeaderOffset(peOffset), layout.fields, &oh); err != nil {
		return oh, errors.WithMessagef(err, "failure to read %s optional header", format)
	}
	return oh, nil
}
