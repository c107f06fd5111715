package pe

import (
	"bytes"
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"math/bits"
)

// RichHeader is the linker fingerprint Microsoft tools place between the DOS
// header and the PE signature.
type RichHeader struct {
	XorKey     uint32
	CompIDs    []CompID
	DansOffset int
	Raw        []byte

	// dosHeader keeps the first DansOffset bytes of the image, which the
	// checksum covers.
	dosHeader []byte
}

type CompID struct {
	MinorCV  uint16
	ProdID   uint16
	Count    uint32
	Unmasked uint32
}

// readRichHeader returns nil when no complete Rich header is found before
// the PE signature at peOffset.
func readRichHeader(data []byte, peOffset uint32) *RichHeader {
	end := int(peOffset)
	if end > len(data) {
		end = len(data)
	}
	if end <= DOSHeaderSize {
		return nil
	}

	richSigOffset := bytes.Index(data[DOSHeaderSize:end], []byte(RichSignature))
	if richSigOffset < 0 {
		return nil
	}
	richSigOffset += DOSHeaderSize

	var rh RichHeader
	key, err := ReadUint32(data, uint64(richSigOffset+4))
	if err != nil {
		return nil
	}
	rh.XorKey = key

	var decRichHeader []uint32
	dansSigOffset := -1
	estimatedBeginDans := richSigOffset - 4 - DOSHeaderSize
	for it := 0; it <= estimatedBeginDans; it += 4 {
		buff, err := ReadUint32(data, uint64(richSigOffset-4-it))
		if err != nil {
			return nil
		}

		res := buff ^ rh.XorKey
		if res == DansSignature {
			dansSigOffset = richSigOffset - it - 4
			break
		}
		decRichHeader = append(decRichHeader, res)
	}

	if dansSigOffset == -1 {
		return nil
	}

	rh.DansOffset = dansSigOffset
	rh.Raw = append([]byte(nil), data[dansSigOffset:richSigOffset+8]...)
	rh.dosHeader = append([]byte(nil), data[:dansSigOffset]...)

	for i, j := 0, len(decRichHeader)-1; i < j; i, j = i+1, j-1 {
		decRichHeader[i], decRichHeader[j] = decRichHeader[j], decRichHeader[i]
	}

	// Three zero padding dwords follow DanS, then (id, count) pairs.
	lenCompIDs := len(decRichHeader)
	if (len(decRichHeader)-3)%2 != 0 {
		lenCompIDs = len(decRichHeader) - 1
	}

	for i := 3; i < lenCompIDs; i += 2 {
		rh.CompIDs = append(rh.CompIDs, CompID{
			MinorCV:  uint16(decRichHeader[i]),
			ProdID:   uint16(decRichHeader[i] >> 16),
			Count:    decRichHeader[i+1],
			Unmasked: decRichHeader[i],
		})
	}
	return &rh
}

// Checksum recomputes the value the linker uses as XorKey.
func (rh *RichHeader) Checksum() uint32 {
	checksum := uint32(rh.DansOffset)

	// First, calculate the sum of the DOS header bytes each rotated left the
	// number of times their position relative to the start of the DOS header e.g.
	// second byte is rotated left 2x using rol operation.
	for i, b := range rh.dosHeader {
		// skip over dos e_lfanew field at offset 0x3C
		if i >= dosLfanewOffset && i < dosLfanewOffset+4 {
			continue
		}
		checksum += bits.RotateLeft32(uint32(b), i%32)
	}

	// Next, take summation of each Rich header entry by combining its ProductId
	// and BuildNumber into a single 32 bits number and rotating by its count.
	for _, compID := range rh.CompIDs {
		checksum += bits.RotateLeft32(compID.Unmasked, int(compID.Count%32))
	}
	return checksum
}

// Valid reports whether the stored XorKey matches the recomputed checksum.
func (rh *RichHeader) Valid() bool {
	return rh.Checksum() == rh.XorKey
}

// Hash is the MD5 of the decrypted Rich header, from DanS up to the Rich marker.
func (rh *RichHeader) Hash() string {
	richIndex := bytes.Index(rh.Raw, []byte(RichSignature))
	if richIndex == -1 {
		return ""
	}

	key := make([]byte, 4)
	binary.LittleEndian.PutUint32(key, rh.XorKey)

	rawData := rh.Raw[:richIndex]
	clearData := make([]byte, len(rawData))
	for idx, val := range rawData {
		clearData[idx] = val ^ key[idx%len(key)]
	}
	return fmt.Sprintf("%x", md5.Sum(clearData))
}
