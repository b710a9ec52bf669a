package pdfbuild

import (
	"crypto/sha256"
	"fmt"
)

// PlaceholderSize is the CMS payload capacity in bytes (spec §6.5); the
// hex-encoded /Contents placeholder is twice this width.
const PlaceholderSize = 16384

// byteRangePlaceholder is the literal ByteRange array written at build time;
// its width, not a hardcoded constant, is what every later substitution pads
// to, mirroring the teacher's own len(signatureByteRangePlaceholder) pattern.
const byteRangePlaceholder = "[0 0000000000 0000000000 0000000000]"

// ContentsPlaceholderHex is the all-zero ASCII hex body of the /Contents
// placeholder, excluding its surrounding angle brackets.
var ContentsPlaceholderHex = func() string {
	b := make([]byte, 2*PlaceholderSize)
	for i := range b {
		b[i] = '0'
	}
	return string(b)
}()

// ByteRange is the four-tuple `[a b c d]` described in spec §3: a=0, a+b is
// the start of the /Contents hex gap (the opening '<'), c is one past the
// gap's closing '>', and c+d is the total document length.
type ByteRange struct {
	A, B, C, D int
}

// ComputeByteRange builds the ByteRange for a /Contents gap spanning
// [contentsGapStart, contentsGapEnd) within a document of totalLen bytes.
func ComputeByteRange(contentsGapStart, contentsGapEnd, totalLen int) ByteRange {
	return ByteRange{
		A: 0,
		B: contentsGapStart,
		C: contentsGapEnd,
		D: totalLen - contentsGapEnd,
	}
}

// Format renders the ByteRange as "[a b c d]", space-padded on the right to
// exactly the width of the original placeholder it replaces.
func (br ByteRange) Format() string {
	s := fmt.Sprintf("[%d %d %d %d]", br.A, br.B, br.C, br.D)
	if len(s) > len(byteRangePlaceholder) {
		s = s[:len(byteRangePlaceholder)]
	}
	for len(s) < len(byteRangePlaceholder) {
		s += " "
	}
	return s
}

// HashDigest computes SHA-256 over buf[0:br.B] concatenated with
// buf[br.C:br.C+br.D], i.e. everything except the /Contents hex gap itself
// (spec §4.5).
func (br ByteRange) HashDigest(buf []byte) [32]byte {
	h := sha256.New()
	h.Write(buf[0:br.B])
	h.Write(buf[br.C : br.C+br.D])
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
