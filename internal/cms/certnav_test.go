package cms

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/padeskit/pades/internal/der"
	"github.com/padeskit/pades/internal/testpki"
)

func TestExtractIssuerAndSerialMatchesParsedCert(t *testing.T) {
	chain := testpki.NewChain(t, testpki.ECDSAP256)

	got, err := ExtractIssuerAndSerial(chain.LeafCert.Raw)
	if err != nil {
		t.Fatalf("ExtractIssuerAndSerial: %v", err)
	}

	if !bytes.Equal(got.IssuerRawDER, chain.LeafCert.RawIssuer) {
		t.Errorf("IssuerRawDER mismatch:\ngot  %x\nwant %x", got.IssuerRawDER, chain.LeafCert.RawIssuer)
	}

	serialTLV, err := der.ReadTLV(got.SerialRawDER, 0)
	if err != nil {
		t.Fatalf("ReadTLV on serial: %v", err)
	}
	if serialTLV.Tag != 0x02 {
		t.Fatalf("serial tag = 0x%02x, want INTEGER (0x02)", serialTLV.Tag)
	}
	gotSerial := new(big.Int).SetBytes(serialTLV.Content)
	if gotSerial.Cmp(chain.LeafCert.SerialNumber) != 0 {
		t.Errorf("serial = %v, want %v", gotSerial, chain.LeafCert.SerialNumber)
	}
}
