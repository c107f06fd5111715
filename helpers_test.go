package pe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleDirectories(n int) []DataDirectory {
	dirs := make([]DataDirectory, n)
	for i := range dirs {
		dirs[i] = DataDirectory{Entry: DirectoryEntry(i)}
	}
	set := func(e DirectoryEntry, va, size uint32) {
		if int(e) < n {
			dirs[e].VirtualAddress, dirs[e].Size = va, size
		}
	}
	set(ImageDirectoryEntryImport, 0x2a1c, 0xb4)
	set(ImageDirectoryEntryResource, 0x5000, 0x1e8)
	set(ImageDirectoryEntryBaseReLoc, 0x6000, 0x1a0)
	set(ImageDirectoryEntryDebug, 0x2210, 0x54)
	set(ImageDirectoryEntryIat, 0x2000, 0x100)
	return dirs
}

// sampleHeader returns a plausible linker-produced header of the given format.
func sampleHeader(format Format) *Header {
	h := &Header{
		DOSHeader: DOSHeader{Magic: ImageDOSSignature, AddressOfNewEXEHeader: 0x80},
		Signature: ImageNTHeaderSignature,
		FileHeader: FileHeader{
			Machine:              ImageFileMachineI386,
			NumberOfSections:     5,
			TimeDateStamp:        0x5f3c2a10,
			PointerToSymbolTable: 0x4400,
			NumberOfSymbols:      0x21,
			SizeOfOptionalHeader: 0xe0,
			Characteristics:      ImageFileExecutableImage | ImageFile32BitMachine,
		},
		OptionalHeader: OptionalHeader{
			Magic:                       format,
			MajorLinkerVersion:          14,
			MinorLinkerVersion:          29,
			SizeOfCode:                  0x1200,
			SizeOfInitializedData:       0x1800,
			SizeOfUninitializedData:     0x10,
			AddressOfEntryPoint:         0x14e0,
			BaseOfCode:                  0x1000,
			BaseOfData:                  0x3000,
			ImageBase:                   0x400000,
			SectionAlignment:            0x1000,
			FileAlignment:               0x200,
			MajorOperatingSystemVersion: 6,
			MinorOperatingSystemVersion: 1,
			MajorImageVersion:           2,
			MinorImageVersion:           3,
			MajorSubsystemVersion:       6,
			MinorSubsystemVersion:       2,
			Win32VersionValue:           7,
			SizeOfImage:                 0x7000,
			SizeOfHeaders:               0x400,
			CheckSum:                    0x12f3a,
			Subsystem:                   ImageSubsystemWindowsCUI,
			DllCharacteristics:          ImageDllCharacteristicsDynamicBase | ImageDllCharacteristicsNXCompat,
			SizeOfStackReserve:          0x100000,
			SizeOfStackCommit:           0x1000,
			SizeOfHeapReserve:           0x200000,
			SizeOfHeapCommit:            0x2000,
			LoaderFlags:                 0x11,
			NumberOfRvaAndSizes:         NumDirectoryEntries,
		},
		DataDirectories: sampleDirectories(NumDirectoryEntries),
	}

	if format == PE32Plus {
		h.FileHeader.Machine = ImageFileMachineAMD64
		h.FileHeader.SizeOfOptionalHeader = 0xf0
		h.FileHeader.Characteristics = ImageFileExecutableImage | ImageFileLargeAddressAware
		h.OptionalHeader.BaseOfData = 0
		h.OptionalHeader.ImageBase = 0x140000000
		h.OptionalHeader.DllCharacteristics |= ImageDllCharacteristicsHighEntropyVA
		h.OptionalHeader.SizeOfStackReserve = 0x1_0000_0000_0000
		h.OptionalHeader.SizeOfStackCommit = 0x2_0000_1000
		h.OptionalHeader.SizeOfHeapReserve = 0x3_0010_0000
		h.OptionalHeader.SizeOfHeapCommit = 0x4_0000_2000
	}
	return h
}

func mustEncode(t *testing.T, h *Header) []byte {
	t.Helper()
	data, err := Encode(h)
	require.NoError(t, err)
	return data
}

// writeImage stores data in a temporary file padded to size bytes.
func writeImage(t *testing.T, data []byte, size int) string {
	t.Helper()
	if len(data) < size {
		data = append(data, make([]byte, size-len(data))...)
	}
	path := filepath.Join(t.TempDir(), "sample.exe")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
