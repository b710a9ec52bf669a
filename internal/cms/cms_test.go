package cms

import (
	"crypto/sha256"
	"testing"

	"github.com/padeskit/pades/internal/der"
	"github.com/padeskit/pades/internal/testpki"
)

func TestSignRSARoundTripsMessageDigest(t *testing.T) {
	chain := testpki.NewChain(t, testpki.RSA2048)
	digest := sha256.Sum256([]byte("the byte range digest"))

	identity := Identity{
		Signer:           chain.LeafKey,
		Certificate:      chain.LeafCert.Raw,
		CertificateChain: chain.CertDERChain(),
	}

	out, sig, err := Sign(identity, digest)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if len(sig) == 0 {
		t.Fatal("expected non-empty signature octets")
	}

	got, err := FindMessageDigest(out)
	if err != nil {
		t.Fatalf("FindMessageDigest: %v", err)
	}
	if string(got) != string(digest[:]) {
		t.Errorf("embedded messageDigest = %x, want %x", got, digest)
	}

	outerTLV, err := der.ReadTLV(out, 0)
	if err != nil || outerTLV.Tag != 0x30 {
		t.Fatalf("ContentInfo is not a SEQUENCE")
	}
	oidTLV, err := der.ReadTLV(outerTLV.Content, 0)
	if err != nil || oidTLV.Tag != 0x06 {
		t.Fatalf("ContentInfo does not start with an OID")
	}
	gotOID, err := der.ReadOID(outerTLV.Content[:oidTLV.End])
	if err != nil || gotOID != "1.2.840.113549.1.7.2" {
		t.Errorf("ContentInfo contentType = %q, want id-signedData", gotOID)
	}
}

func TestSignECDSAUsesExpectedAlgorithmOID(t *testing.T) {
	chain := testpki.NewChain(t, testpki.ECDSAP256)
	digest := sha256.Sum256([]byte("another digest"))

	identity := Identity{
		Signer:           chain.LeafKey,
		Certificate:      chain.LeafCert.Raw,
		CertificateChain: chain.CertDERChain(),
	}

	out, _, err := Sign(identity, digest)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	wantOIDBytes := der.OID(oidECDSAWithSHA256...)
	if !contains(out, wantOIDBytes) {
		t.Errorf("expected ecdsa-with-SHA256 OID to appear in CMS output")
	}
}

func TestSignFailsOnEmptyCertificateChain(t *testing.T) {
	chain := testpki.NewChain(t, testpki.RSA2048)
	identity := Identity{
		Signer:      chain.LeafKey,
		Certificate: chain.LeafCert.Raw,
	}
	if _, _, err := Sign(identity, sha256.Sum256(nil)); err == nil {
		t.Fatal("expected Sign to fail with an empty certificate chain")
	}
}

func TestEmbedTimestampAddsUnsignedAttributeWithoutDisturbingSignature(t *testing.T) {
	chain := testpki.NewChain(t, testpki.RSA2048)
	digest := sha256.Sum256([]byte("timestamped digest"))
	identity := Identity{
		Signer:           chain.LeafKey,
		Certificate:      chain.LeafCert.Raw,
		CertificateChain: chain.CertDERChain(),
	}

	out, sig, err := Sign(identity, digest)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	fakeToken := der.Sequence(der.Integer([]byte{0x2a})) // stand-in TimeStampToken ContentInfo
	stamped, err := EmbedTimestamp(out, fakeToken)
	if err != nil {
		t.Fatalf("EmbedTimestamp: %v", err)
	}

	if !contains(stamped, fakeToken) {
		t.Error("expected the timestamp token bytes to appear verbatim in the stamped CMS")
	}
	if !contains(stamped, sig) {
		t.Error("expected the original signature octets to survive EmbedTimestamp unchanged")
	}
	got, err := FindMessageDigest(stamped)
	if err != nil || string(got) != string(digest[:]) {
		t.Errorf("FindMessageDigest after EmbedTimestamp = %x, %v; want %x", got, err, digest)
	}
}

func contains(haystack, needle []byte) bool {
	if len(needle) == 0 {
		return true
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
