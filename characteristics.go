package pe

import (
	"fmt"
	"strings"
)

// FileCharacteristics is the bit set stored in the COFF file header.
type FileCharacteristics uint16

const (
	ImageFileRelocsStripped       FileCharacteristics = 0x0001
	ImageFileExecutableImage      FileCharacteristics = 0x0002
	ImageFileLineNumsStripped     FileCharacteristics = 0x0004
	ImageFileLocalSymsStripped    FileCharacteristics = 0x0008
	ImageFileAggressiveWSTrim     FileCharacteristics = 0x0010
	ImageFileLargeAddressAware    FileCharacteristics = 0x0020
	ImageFileBytesReversedLo      FileCharacteristics = 0x0080
	ImageFile32BitMachine         FileCharacteristics = 0x0100
	ImageFileDebugStripped        FileCharacteristics = 0x0200
	ImageFileRemovableRunFromSwap FileCharacteristics = 0x0400
	ImageFileNetRunFromSwap       FileCharacteristics = 0x0800
	ImageFileSystem               FileCharacteristics = 0x1000
	ImageFileDLL                  FileCharacteristics = 0x2000
	ImageFileUpSystemOnly         FileCharacteristics = 0x4000
	ImageFileBytesReversedHi      FileCharacteristics = 0x8000
)

var fileCharacteristicNames = map[FileCharacteristics]string{
	ImageFileRelocsStripped:       "RELOCS_STRIPPED",
	ImageFileExecutableImage:      "EXECUTABLE_IMAGE",
	ImageFileLineNumsStripped:     "LINE_NUMS_STRIPPED",
	ImageFileLocalSymsStripped:    "LOCAL_SYMS_STRIPPED",
	ImageFileAggressiveWSTrim:     "AGGRESSIVE_WS_TRIM",
	ImageFileLargeAddressAware:    "LARGE_ADDRESS_AWARE",
	ImageFileBytesReversedLo:      "BYTES_REVERSED_LO",
	ImageFile32BitMachine:         "32BIT_MACHINE",
	ImageFileDebugStripped:        "DEBUG_STRIPPED",
	ImageFileRemovableRunFromSwap: "REMOVABLE_RUN_FROM_SWAP",
	ImageFileNetRunFromSwap:       "NET_RUN_FROM_SWAP",
	ImageFileSystem:               "SYSTEM",
	ImageFileDLL:                  "DLL",
	ImageFileUpSystemOnly:         "UP_SYSTEM_ONLY",
	ImageFileBytesReversedHi:      "BYTES_REVERSED_HI",
}

// Has reports whether every bit of flag is set in c.
func (c FileCharacteristics) Has(flag FileCharacteristics) bool {
	return flag != 0 && c&flag == flag
}

// Flags decomposes c into the defined flags it contains, lowest bit first.
func (c FileCharacteristics) Flags() []FileCharacteristics {
	var flags []FileCharacteristics
	for bit := 0; bit < 16; bit++ {
		flag := FileCharacteristics(1 << bit)
		if _, ok := fileCharacteristicNames[flag]; ok && c.Has(flag) {
			flags = append(flags, flag)
		}
	}
	return flags
}

func (c FileCharacteristics) String() string {
	var known FileCharacteristics
	names := make([]string, 0, 4)
	for _, flag := range c.Flags() {
		names = append(names, fileCharacteristicNames[flag])
		known |= flag
	}
	return joinFlags(names, uint16(c&^known))
}

// DllCharacteristics is the bit set stored in the optional header.
type DllCharacteristics uint16

const (
	ImageDllCharacteristicsHighEntropyVA       DllCharacteristics = 0x0020
	ImageDllCharacteristicsDynamicBase         DllCharacteristics = 0x0040
	ImageDllCharacteristicsForceIntegrity      DllCharacteristics = 0x0080
	ImageDllCharacteristicsNXCompat            DllCharacteristics = 0x0100
	ImageDllCharacteristicsNoIsolation         DllCharacteristics = 0x0200
	ImageDllCharacteristicsNoSEH               DllCharacteristics = 0x0400
	ImageDllCharacteristicsNoBind              DllCharacteristics = 0x0800
	ImageDllCharacteristicsAppContainer        DllCharacteristics = 0x1000
	ImageDllCharacteristicsWDMDriver           DllCharacteristics = 0x2000
	ImageDllCharacteristicsGuardCF             DllCharacteristics = 0x4000
	ImageDllCharacteristicsTerminalServerAware DllCharacteristics = 0x8000
)

var dllCharacteristicNames = map[DllCharacteristics]string{
	ImageDllCharacteristicsHighEntropyVA:       "HIGH_ENTROPY_VA",
	ImageDllCharacteristicsDynamicBase:         "DYNAMIC_BASE",
	ImageDllCharacteristicsForceIntegrity:      "FORCE_INTEGRITY",
	ImageDllCharacteristicsNXCompat:            "NX_COMPAT",
	ImageDllCharacteristicsNoIsolation:         "NO_ISOLATION",
	ImageDllCharacteristicsNoSEH:               "NO_SEH",
	ImageDllCharacteristicsNoBind:              "NO_BIND",
	ImageDllCharacteristicsAppContainer:        "APPCONTAINER",
	ImageDllCharacteristicsWDMDriver:           "WDM_DRIVER",
	ImageDllCharacteristicsGuardCF:             "GUARD_CF",
	ImageDllCharacteristicsTerminalServerAware: "TERMINAL_SERVER_AWARE",
}

func (c DllCharacteristics) Has(flag DllCharacteristics) bool {
	return flag != 0 && c&flag == flag
}

func (c DllCharacteristics) Flags() []DllCharacteristics {
	var flags []DllCharacteristics
	for bit := 0; bit < 16; bit++ {
		flag := DllCharacteristics(1 << bit)
		if _, ok := dllCharacteristicNames[flag]; ok && c.Has(flag) {
			flags = append(flags, flag)
		}
	}
	return flags
}

func (c DllCharacteristics) String() string {
	var known DllCharacteristics
	names := make([]string, 0, 4)
	for _, flag := range c.Flags() {
		names = append(names, dllCharacteristicNames[flag])
		known |= flag
	}
	return joinFlags(names, uint16(c&^known))
}

func joinFlags(names []string, residual uint16) string {
	if residual != 0 {
		names = append(names, fmt.Sprintf("0x%04x", residual))
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}
