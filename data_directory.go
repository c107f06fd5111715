package pe

import (
	"fmt"

	"github.com/pkg/errors"
)

// DirectoryEntry indexes the data directory catalog.
type DirectoryEntry int

// IMAGE_DIRECTORY_ENTRY constants
const (
	ImageDirectoryEntryExport DirectoryEntry = iota
	ImageDirectoryEntryImport
	ImageDirectoryEntryResource
	ImageDirectoryEntryException
	ImageDirectoryEntrySecurity
	ImageDirectoryEntryBaseReLoc
	ImageDirectoryEntryDebug
	ImageDirectoryEntryArchitecture
	ImageDirectoryEntryGlobalPtr
	ImageDirectoryEntryTls
	ImageDirectoryEntryLoadConfig
	ImageDirectoryEntryBoundImport
	ImageDirectoryEntryIat
	ImageDirectoryEntryDelayImport
	ImageDirectoryEntryComDescriptor

	// NumDirectoryEntries is the size of the known catalog.
	NumDirectoryEntries = 15
)

var directoryEntryNames = [NumDirectoryEntries]string{
	"Export Table",
	"Import Table",
	"Resource Table",
	"Exception Table",
	"Certificate Table",
	"Base Relocation Table",
	"Debug",
	"Architecture",
	"Global Ptr",
	"TLS Table",
	"Load Config Table",
	"Bound Import",
	"IAT",
	"Delay Import Descriptor",
	"CLR Runtime Header",
}

func (e DirectoryEntry) String() string {
	if e >= 0 && e < NumDirectoryEntries {
		return directoryEntryNames[e]
	}
	return fmt.Sprintf("DirectoryEntry(%d)", int(e))
}

type DataDirectory struct {
	Entry          DirectoryEntry
	VirtualAddress uint32
	Size           uint32
}

// Present is false when both the RVA and the size are zero.
func (d DataDirectory) Present() bool {
	return d.VirtualAddress != 0 || d.Size != 0
}

// dataDirectoryCount returns how many directory entries to decode. Counts
// within the catalog are trusted; a larger count is corrupt and is clamped to
// the catalog size and to what the buffer holds.
func dataDirectoryCount(n uint32, available uint64) int {
	if n <= NumDirectoryEntries {
		return int(n)
	}
	fit := available / uint64(DataDirectorySize)
	if fit > NumDirectoryEntries {
		fit = NumDirectoryEntries
	}
	return int(fit)
}

func readDataDirectories(data []byte, offset uint64, n uint32) ([]DataDirectory, error) {
	var available uint64
	if offset < uint64(len(data)) {
		available = uint64(len(data)) - offset
	}
	count := dataDirectoryCount(n, available)

	dd := make([]DataDirectory, count)
	for i := range dd {
		at := offset + uint64(i*DataDirectorySize)
		va, err := ReadUint32(data, at)
		if err != nil {
			return nil, errors.WithMessagef(err, "failure to read data directory %s", DirectoryEntry(i))
		}
		size, err := ReadUint32(data, at+4)
		if err != nil {
			return nil, errors.WithMessagef(err, "failure to read data directory %s", DirectoryEntry(i))
		}
		dd[i] = DataDirectory{Entry: DirectoryEntry(i), VirtualAddress: va, Size: size}
	}
	return dd, nil
}
