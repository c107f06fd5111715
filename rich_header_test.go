package pe

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// richStub encodes a Rich header masked with key for the given
// (id, count) pairs.
func richStub(key uint32, pairs ...uint32) (raw, clear []byte) {
	words := append([]uint32{DansSignature, 0, 0, 0}, pairs...)
	for _, w := range words {
		clear = binary.LittleEndian.AppendUint32(clear, w)
		raw = binary.LittleEndian.AppendUint32(raw, w^key)
	}
	raw = append(raw, RichSignature...)
	raw = binary.LittleEndian.AppendUint32(raw, key)
	return raw, clear
}

func TestRichHeader(t *testing.T) {
	// Checksum over an MZ-only DOS header plus two comp ids:
	// 0x40 + 'M' + rol('Z', 1) + rol(0x00010002, 32%32) + rol(0x00030004, 1).
	const key = 0x0007014b
	raw, clear := richStub(key, 0x00010002, 32, 0x00030004, 1)

	h := sampleHeader(PE32)
	h.RichHeader = &RichHeader{DansOffset: 0x40, Raw: raw}

	got, err := Decode(mustEncode(t, h))
	require.NoError(t, err)
	require.NotNil(t, got.RichHeader)

	rh := got.RichHeader
	assert.Equal(t, uint32(key), rh.XorKey)
	assert.Equal(t, 0x40, rh.DansOffset)
	assert.Equal(t, raw, rh.Raw)
	assert.Equal(t, []CompID{
		{MinorCV: 2, ProdID: 1, Count: 32, Unmasked: 0x00010002},
		{MinorCV: 4, ProdID: 3, Count: 1, Unmasked: 0x00030004},
	}, rh.CompIDs)
	assert.Equal(t, uint32(key), rh.Checksum())
	assert.True(t, rh.Valid())
	assert.Equal(t, fmt.Sprintf("%x", md5.Sum(clear)), rh.Hash())
}

func TestRichHeader_BadChecksum(t *testing.T) {
	raw, _ := richStub(0x11223344, 0x00010002, 5)
	h := sampleHeader(PE32Plus)
	h.RichHeader = &RichHeader{DansOffset: 0x50, Raw: raw}

	got, err := Decode(mustEncode(t, h))
	require.NoError(t, err)
	require.NotNil(t, got.RichHeader)
	assert.Len(t, got.RichHeader.CompIDs, 1)
	assert.False(t, got.RichHeader.Valid())
}

func TestRichHeader_Absent(t *testing.T) {
	tests := []struct {
		name  string
		patch func(data []byte)
	}{
		{"zero stub", func([]byte) {}},
		{"marker without DanS", func(data []byte) {
			copy(data[0x60:], RichSignature)
			binary.LittleEndian.PutUint32(data[0x64:], 0x1234)
		}},
		{"marker ends at PE signature", func(data []byte) {
			copy(data[0x7c:], RichSignature)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := mustEncode(t, sampleHeader(PE32))
			tt.patch(data)
			got, err := Decode(data)
			require.NoError(t, err)
			assert.Nil(t, got.RichHeader)
		})
	}
}
