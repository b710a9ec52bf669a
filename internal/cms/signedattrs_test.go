package cms

import (
	"crypto/sha256"
	"testing"

	"github.com/padeskit/pades/internal/der"
	"github.com/padeskit/pades/internal/testpki"
)

func TestBuildSignedAttributesBodyOrderAndShape(t *testing.T) {
	chain := testpki.NewChain(t, testpki.RSA2048)
	issuer, err := ExtractIssuerAndSerial(chain.LeafCert.Raw)
	if err != nil {
		t.Fatalf("ExtractIssuerAndSerial: %v", err)
	}
	digest := sha256.Sum256([]byte("byte range contents"))

	body := BuildSignedAttributesBody(digest, chain.LeafCert.Raw, issuer)

	off := 0
	contentTypeTLV, err := der.ReadTLV(body, off)
	if err != nil {
		t.Fatalf("read contentType attribute: %v", err)
	}
	if contentTypeTLV.Tag != 0x30 {
		t.Errorf("contentType attribute tag = 0x%02x, want SEQUENCE", contentTypeTLV.Tag)
	}
	oidTLV, err := der.ReadTLV(contentTypeTLV.Content, 0)
	if err != nil || oidTLV.Tag != 0x06 {
		t.Fatalf("expected OID as first field of contentType attribute")
	}
	gotOID, err := der.ReadOID(contentTypeTLV.Content[:oidTLV.End])
	if err != nil || gotOID != "1.2.840.113549.1.9.3" {
		t.Errorf("contentType attribute OID = %q, want 1.2.840.113549.1.9.3", gotOID)
	}
	off = contentTypeTLV.End

	messageDigestTLV, err := der.ReadTLV(body, off)
	if err != nil {
		t.Fatalf("read messageDigest attribute: %v", err)
	}
	mdOIDTLV, err := der.ReadTLV(messageDigestTLV.Content, 0)
	if err != nil || mdOIDTLV.Tag != 0x06 {
		t.Fatalf("expected OID as first field of messageDigest attribute")
	}
	mdOID, err := der.ReadOID(messageDigestTLV.Content[:mdOIDTLV.End])
	if err != nil || mdOID != "1.2.840.113549.1.9.4" {
		t.Errorf("messageDigest attribute OID = %q, want 1.2.840.113549.1.9.4", mdOID)
	}
	off = messageDigestTLV.End

	signingCertTLV, err := der.ReadTLV(body, off)
	if err != nil {
		t.Fatalf("read signing-certificate-v2 attribute: %v", err)
	}
	off = signingCertTLV.End

	if off != len(body) {
		t.Errorf("unexpected trailing bytes after three attributes: %d remain", len(body)-off)
	}

	got, err := FindMessageDigest(der.Set(body))
	if err != nil {
		t.Fatalf("FindMessageDigest: %v", err)
	}
	if string(got) != string(digest[:]) {
		t.Errorf("FindMessageDigest = %x, want %x", got, digest)
	}
}
