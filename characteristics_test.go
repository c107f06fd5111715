package pe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileCharacteristics(t *testing.T) {
	tests := []struct {
		value FileCharacteristics
		flags []FileCharacteristics
		str   string
	}{
		{0, nil, "none"},
		{0x0001 | 0x0020, []FileCharacteristics{ImageFileRelocsStripped, ImageFileLargeAddressAware}, "RELOCS_STRIPPED|LARGE_ADDRESS_AWARE"},
		{0x0102, []FileCharacteristics{ImageFileExecutableImage, ImageFile32BitMachine}, "EXECUTABLE_IMAGE|32BIT_MACHINE"},
		{0x2022, []FileCharacteristics{ImageFileExecutableImage, ImageFileLargeAddressAware, ImageFileDLL}, "EXECUTABLE_IMAGE|LARGE_ADDRESS_AWARE|DLL"},
		{0x0040, nil, "0x0040"},
		{0x8041, []FileCharacteristics{ImageFileRelocsStripped, ImageFileBytesReversedHi}, "RELOCS_STRIPPED|BYTES_REVERSED_HI|0x0040"},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			assert.Equal(t, tt.flags, tt.value.Flags())
			assert.Equal(t, tt.str, tt.value.String())
			for _, f := range tt.flags {
				assert.True(t, tt.value.Has(f))
			}
		})
	}
}

func TestFileCharacteristics_HasZero(t *testing.T) {
	assert.False(t, FileCharacteristics(0xffff).Has(0))
	assert.False(t, DllCharacteristics(0xffff).Has(0))
}

func TestDllCharacteristics(t *testing.T) {
	tests := []struct {
		value DllCharacteristics
		flags []DllCharacteristics
		str   string
	}{
		{0, nil, "none"},
		{0x8160, []DllCharacteristics{
			ImageDllCharacteristicsHighEntropyVA,
			ImageDllCharacteristicsDynamicBase,
			ImageDllCharacteristicsNXCompat,
			ImageDllCharacteristicsTerminalServerAware,
		}, "HIGH_ENTROPY_VA|DYNAMIC_BASE|NX_COMPAT|TERMINAL_SERVER_AWARE"},
		{0x4001, []DllCharacteristics{ImageDllCharacteristicsGuardCF}, "GUARD_CF|0x0001"},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			assert.Equal(t, tt.flags, tt.value.Flags())
			assert.Equal(t, tt.str, tt.value.String())
		})
	}
}

func TestMachine(t *testing.T) {
	tests := []struct {
		machine Machine
		known   bool
		str     string
	}{
		{ImageFileMachineAMD64, true, "AMD64"},
		{ImageFileMachineI386, true, "I386"},
		{ImageFileMachineUnknown, true, "UNKNOWN"},
		{0x9999, false, "Unknown(0x9999)"},
		{0x0001, false, "Unknown(0x0001)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.known, tt.machine.Known(), "0x%x", uint16(tt.machine))
		assert.Equal(t, tt.str, tt.machine.String())
	}
}

func TestSubsystem(t *testing.T) {
	tests := []struct {
		subsystem Subsystem
		known     bool
		str       string
	}{
		{ImageSubsystemWindowsGUI, true, "WINDOWS_GUI"},
		{ImageSubsystemWindowsCUI, true, "WINDOWS_CUI"},
		{ImageSubsystemEFIROM, true, "EFI_ROM"},
		{4, false, "Unknown(4)"},
		{15, false, "Unknown(15)"},
		{0x100, false, "Unknown(256)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.known, tt.subsystem.Known(), "%d", uint16(tt.subsystem))
		assert.Equal(t, tt.str, tt.subsystem.String())
	}
}
