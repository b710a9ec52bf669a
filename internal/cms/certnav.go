package cms

import (
	"fmt"

	"github.com/padeskit/pades/internal/der"
)

// IssuerAndSerial holds the raw DER TLVs (tag+length+content, ready to
// splice into a larger structure) of an X.509 certificate's issuer Name and
// serialNumber, navigated by hand per spec §4.6 rather than parsed with a
// general X.509 library.
type IssuerAndSerial struct {
	IssuerRawDER []byte
	SerialRawDER []byte
}

// ExtractIssuerAndSerial walks certDER as
// `outer SEQUENCE -> tbsCertificate SEQUENCE -> optional [0] version ->
// serial INTEGER -> signature AlgId SEQUENCE -> issuer Name SEQUENCE`
// and returns the serial and issuer TLVs verbatim.
func ExtractIssuerAndSerial(certDER []byte) (IssuerAndSerial, error) {
	outer, err := der.ReadSequence(certDER)
	if err != nil {
		return IssuerAndSerial{}, fmt.Errorf("cms: certificate is not a SEQUENCE: %w", err)
	}
	tbsTLV, err := der.ReadTLV(outer, 0)
	if err != nil {
		return IssuerAndSerial{}, fmt.Errorf("cms: cannot read tbsCertificate: %w", err)
	}
	tbs := tbsTLV.Content

	off := 0
	first, err := der.ReadTLV(tbs, off)
	if err != nil {
		return IssuerAndSerial{}, fmt.Errorf("cms: cannot read tbsCertificate field: %w", err)
	}
	if first.Tag == 0xA0 { // optional [0] EXPLICIT version
		off = first.End
		first, err = der.ReadTLV(tbs, off)
		if err != nil {
			return IssuerAndSerial{}, fmt.Errorf("cms: cannot read serialNumber: %w", err)
		}
	}
	if first.Tag != 0x02 {
		return IssuerAndSerial{}, fmt.Errorf("cms: expected serialNumber INTEGER, got tag 0x%02x", first.Tag)
	}
	serialRaw := tbs[off:first.End]
	off = first.End

	sigAlg, err := der.ReadTLV(tbs, off)
	if err != nil {
		return IssuerAndSerial{}, fmt.Errorf("cms: cannot read signature AlgorithmIdentifier: %w", err)
	}
	off = sigAlg.End

	issuer, err := der.ReadTLV(tbs, off)
	if err != nil {
		return IssuerAndSerial{}, fmt.Errorf("cms: cannot read issuer Name: %w", err)
	}
	if issuer.Tag != 0x30 {
		return IssuerAndSerial{}, fmt.Errorf("cms: expected issuer Name SEQUENCE, got tag 0x%02x", issuer.Tag)
	}
	issuerRaw := tbs[off:issuer.End]

	return IssuerAndSerial{IssuerRawDER: issuerRaw, SerialRawDER: serialRaw}, nil
}
