package pdfbuild

import (
	"crypto/sha256"
	"strings"
	"testing"
)

func TestFormatPadsToPlaceholderWidth(t *testing.T) {
	br := ByteRange{A: 0, B: 1234, C: 5678, D: 9}
	got := br.Format()
	if len(got) != len(byteRangePlaceholder) {
		t.Fatalf("Format length = %d, want %d", len(got), len(byteRangePlaceholder))
	}
	if !strings.HasPrefix(got, "[0 1234 5678 9]") {
		t.Errorf("Format = %q", got)
	}
}

func TestComputeByteRangeArithmetic(t *testing.T) {
	br := ComputeByteRange(100, 200, 300)
	if br.A != 0 || br.B != 100 || br.C != 200 || br.D != 100 {
		t.Errorf("ComputeByteRange = %+v", br)
	}
}

func TestHashDigestExcludesGap(t *testing.T) {
	buf := []byte("HEADforbiddenGAPtail")
	// gap is "forbiddenGAP" (indices 4..16)
	br := ByteRange{A: 0, B: 4, C: 16, D: len(buf) - 16}
	got := br.HashDigest(buf)

	h := sha256.New()
	h.Write(buf[0:4])
	h.Write(buf[16:])
	var want [32]byte
	copy(want[:], h.Sum(nil))

	if got != want {
		t.Errorf("HashDigest mismatch")
	}
}

func TestContentsPlaceholderHexWidth(t *testing.T) {
	if len(ContentsPlaceholderHex) != 2*PlaceholderSize {
		t.Errorf("ContentsPlaceholderHex length = %d, want %d", len(ContentsPlaceholderHex), 2*PlaceholderSize)
	}
	for i, c := range ContentsPlaceholderHex {
		if c != '0' {
			t.Fatalf("ContentsPlaceholderHex[%d] = %q, want '0'", i, c)
		}
	}
}
