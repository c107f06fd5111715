package report

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	pe "github.com/wanglei-coder/pehdr"
)

type fileView struct {
	Path            string              `json:"path"`
	Size            int64               `json:"size"`
	FileType        string              `json:"file_type"`
	DOSHeader       dosView             `json:"dos_header"`
	FileHeader      fileHeaderView      `json:"file_header"`
	OptionalHeader  optionalHeaderView  `json:"optional_header"`
	DataDirectories []dataDirectoryView `json:"data_directories"`
	RichHeader      *richHeaderView     `json:"rich_header,omitempty"`
}

type dosView struct {
	Magic    uint16 `json:"magic"`
	PEOffset uint32 `json:"pe_offset"`
}

type fileHeaderView struct {
	Machine              uint16   `json:"machine"`
	MachineName          string   `json:"machine_name"`
	NumberOfSections     uint16   `json:"number_of_sections"`
	TimeDateStamp        uint32   `json:"time_date_stamp"`
	Time                 string   `json:"time,omitempty"`
	PointerToSymbolTable uint32   `json:"pointer_to_symbol_table"`
	NumberOfSymbols      uint32   `json:"number_of_symbols"`
	SizeOfOptionalHeader uint16   `json:"size_of_optional_header"`
	Characteristics      uint16   `json:"characteristics"`
	CharacteristicFlags  []string `json:"characteristic_flags"`
}

type optionalHeaderView struct {
	Magic                   uint16   `json:"magic"`
	Format                  string   `json:"format"`
	LinkerVersion           string   `json:"linker_version"`
	SizeOfCode              uint32   `json:"size_of_code"`
	SizeOfInitializedData   uint32   `json:"size_of_initialized_data"`
	SizeOfUninitializedData uint32   `json:"size_of_uninitialized_data"`
	AddressOfEntryPoint     uint32   `json:"address_of_entry_point"`
	BaseOfCode              uint32   `json:"base_of_code"`
	BaseOfData              *uint32  `json:"base_of_data,omitempty"`
	ImageBase               uint64   `json:"image_base"`
	SectionAlignment        uint32   `json:"section_alignment"`
	FileAlignment           uint32   `json:"file_alignment"`
	OperatingSystemVersion  string   `json:"operating_system_version"`
	ImageVersion            string   `json:"image_version"`
	SubsystemVersion        string   `json:"subsystem_version"`
	SizeOfImage             uint32   `json:"size_of_image"`
	SizeOfHeaders           uint32   `json:"size_of_headers"`
	CheckSum                uint32   `json:"checksum"`
	Subsystem               uint16   `json:"subsystem"`
	SubsystemName           string   `json:"subsystem_name"`
	DllCharacteristics      uint16   `json:"dll_characteristics"`
	DllCharacteristicFlags  []string `json:"dll_characteristic_flags"`
	SizeOfStackReserve      uint64   `json:"size_of_stack_reserve"`
	SizeOfStackCommit       uint64   `json:"size_of_stack_commit"`
	SizeOfHeapReserve       uint64   `json:"size_of_heap_reserve"`
	SizeOfHeapCommit        uint64   `json:"size_of_heap_commit"`
	NumberOfRvaAndSizes     uint32   `json:"number_of_rva_and_sizes"`
}

type dataDirectoryView struct {
	Name           string `json:"name"`
	VirtualAddress uint32 `json:"rva"`
	Size           uint32 `json:"size"`
	Present        bool   `json:"present"`
}

type richHeaderView struct {
	Offset  int    `json:"offset"`
	XorKey  uint32 `json:"xor_key"`
	Valid   bool   `json:"valid"`
	Hash    string `json:"hash"`
	Entries int    `json:"entries"`
}

func version[T uint8 | uint16](major, minor T) string {
	return fmt.Sprintf("%d.%d", major, minor)
}

func newFileView(f *pe.File) fileView {
	fh := f.FileHeader
	oh := f.OptionalHeader

	v := fileView{
		Path:     f.Path(),
		Size:     f.Size(),
		FileType: FileType(f.Data()),
		DOSHeader: dosView{
			Magic:    f.DOSHeader.Magic,
			PEOffset: f.DOSHeader.AddressOfNewEXEHeader,
		},
		FileHeader: fileHeaderView{
			Machine:              uint16(fh.Machine),
			MachineName:          fh.Machine.String(),
			NumberOfSections:     fh.NumberOfSections,
			TimeDateStamp:        fh.TimeDateStamp,
			PointerToSymbolTable: fh.PointerToSymbolTable,
			NumberOfSymbols:      fh.NumberOfSymbols,
			SizeOfOptionalHeader: fh.SizeOfOptionalHeader,
			Characteristics:      uint16(fh.Characteristics),
			CharacteristicFlags:  []string{},
		},
		OptionalHeader: optionalHeaderView{
			Magic:                   uint16(oh.Magic),
			Format:                  oh.Magic.String(),
			LinkerVersion:           version(oh.MajorLinkerVersion, oh.MinorLinkerVersion),
			SizeOfCode:              oh.SizeOfCode,
			SizeOfInitializedData:   oh.SizeOfInitializedData,
			SizeOfUninitializedData: oh.SizeOfUninitializedData,
			AddressOfEntryPoint:     oh.AddressOfEntryPoint,
			BaseOfCode:              oh.BaseOfCode,
			ImageBase:               oh.ImageBase,
			SectionAlignment:        oh.SectionAlignment,
			FileAlignment:           oh.FileAlignment,
			OperatingSystemVersion:  version(oh.MajorOperatingSystemVersion, oh.MinorOperatingSystemVersion),
			ImageVersion:            version(oh.MajorImageVersion, oh.MinorImageVersion),
			SubsystemVersion:        version(oh.MajorSubsystemVersion, oh.MinorSubsystemVersion),
			SizeOfImage:             oh.SizeOfImage,
			SizeOfHeaders:           oh.SizeOfHeaders,
			CheckSum:                oh.CheckSum,
			Subsystem:               uint16(oh.Subsystem),
			SubsystemName:           oh.Subsystem.String(),
			DllCharacteristics:      uint16(oh.DllCharacteristics),
			DllCharacteristicFlags:  []string{},
			SizeOfStackReserve:      oh.SizeOfStackReserve,
			SizeOfStackCommit:       oh.SizeOfStackCommit,
			SizeOfHeapReserve:       oh.SizeOfHeapReserve,
			SizeOfHeapCommit:        oh.SizeOfHeapCommit,
			NumberOfRvaAndSizes:     oh.NumberOfRvaAndSizes,
		},
		DataDirectories: make([]dataDirectoryView, 0, len(f.DataDirectories)),
	}

	if t, ok := fh.Time(); ok {
		v.FileHeader.Time = t.Format("2006-01-02T15:04:05Z")
	}
	for _, flag := range fh.Characteristics.Flags() {
		v.FileHeader.CharacteristicFlags = append(v.FileHeader.CharacteristicFlags, flag.String())
	}
	if oh.HasBaseOfData() {
		baseOfData := oh.BaseOfData
		v.OptionalHeader.BaseOfData = &baseOfData
	}
	for _, flag := range oh.DllCharacteristics.Flags() {
		v.OptionalHeader.DllCharacteristicFlags = append(v.OptionalHeader.DllCharacteristicFlags, flag.String())
	}
	for _, d := range f.DataDirectories {
		v.DataDirectories = append(v.DataDirectories, dataDirectoryView{
			Name:           d.Entry.String(),
			VirtualAddress: d.VirtualAddress,
			Size:           d.Size,
			Present:        d.Present(),
		})
	}
	if rh := f.RichHeader; rh != nil {
		v.RichHeader = &richHeaderView{
			Offset:  rh.DansOffset,
			XorKey:  rh.XorKey,
			Valid:   rh.Valid(),
			Hash:    rh.Hash(),
			Entries: len(rh.CompIDs),
		}
	}
	return v
}

// WriteJSON writes the header as indented JSON.
func (r *Reporter) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(newFileView(r.file), "", "    ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
