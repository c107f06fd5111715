package pe

import (
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dosStub returns size bytes holding an MZ header whose e_lfanew is lfanew,
// with a PE signature written at lfanew when it fits.
func dosStub(size int, lfanew uint32) []byte {
	data := make([]byte, size)
	binary.LittleEndian.PutUint16(data, ImageDOSSignature)
	binary.LittleEndian.PutUint32(data[dosLfanewOffset:], lfanew)
	if int(lfanew)+4 <= size {
		binary.LittleEndian.PutUint32(data[lfanew:], ImageNTHeaderSignature)
	}
	return data
}

func TestLocatePEHeader_ReturnsLfanew(t *testing.T) {
	for lfanew := uint32(DOSHeaderSize); lfanew < 0x400; lfanew += 3 {
		data := dosStub(int(lfanew)+4, lfanew)
		got, err := LocatePEHeader(data)
		require.NoError(t, err, "e_lfanew 0x%x", lfanew)
		require.Equal(t, lfanew, got)
	}
}

func TestLocatePEHeader_Errors(t *testing.T) {
	badMagic := dosStub(0x100, 0x80)
	badMagic[0], badMagic[1] = 'Z', 'M'

	badSig := dosStub(0x100, 0x80)
	copy(badSig[0x80:], "PE\x00\x01")

	tests := []struct {
		name string
		data []byte
		err  error
		kind string
	}{
		{"empty", nil, ErrOutsideBoundary, "OutOfBounds"},
		{"one byte", []byte{'M'}, ErrOutsideBoundary, "OutOfBounds"},
		{"swapped magic", badMagic, ErrInvalidDOSHeader, "InvalidDosHeader"},
		{"zero magic", make([]byte, 0x100), ErrInvalidDOSHeader, "InvalidDosHeader"},
		{"no room for e_lfanew", dosStub(0x40, 0x80)[:0x3e], ErrOutsideBoundary, "OutOfBounds"},
		{"e_lfanew past end", dosStub(0x100, 0x1000), ErrOutsideBoundary, "OutOfBounds"},
		{"e_lfanew near end", dosStub(0x100, 0xfe), ErrOutsideBoundary, "OutOfBounds"},
		{"e_lfanew max", dosStub(0x100, 0xffffffff), ErrOutsideBoundary, "OutOfBounds"},
		{"bad signature", badSig, ErrInvalidPESignature, "InvalidPeSignature"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LocatePEHeader(tt.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), "got %v", err)
			assert.Equal(t, tt.kind, Kind(err))
		})
	}
}
