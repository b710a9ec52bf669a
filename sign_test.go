package pades_test

import (
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/padeskit/pades"
	"github.com/padeskit/pades/internal/cms"
	"github.com/padeskit/pades/internal/der"
	"github.com/padeskit/pades/internal/testpki"
)

func fixturePDF() []byte {
	return []byte("%PDF-1.4\n" +
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n" +
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n" +
		"3 0 obj\n<< /Type /Page >>\nendobj\n" +
		"xref\n0 4\n" +
		"trailer\n<< /Size 4 /Root 1 0 R >>\n" +
		"startxref\n123\n%%EOF\n")
}

func identityFromChain(chain testpki.Chain) pades.SigningIdentity {
	return pades.SigningIdentity{
		Signer:           chain.LeafKey,
		Certificate:      chain.LeafCert.Raw,
		CertificateChain: chain.CertDERChain(),
	}
}

func TestSignPDFRSANoTSA(t *testing.T) {
	chain := testpki.NewChain(t, testpki.RSA2048)
	signed, err := pades.SignPDF(fixturePDF(), identityFromChain(chain), pades.SignatureMetadata{
		Reason: "I approve",
	}, nil)
	if err != nil {
		t.Fatalf("SignPDF: %v", err)
	}

	infos, err := pades.VerifySignatures(signed)
	if err != nil {
		t.Fatalf("VerifySignatures: %v", err)
	}
	if len(infos) != 1 || !infos[0].Valid {
		t.Fatalf("infos = %+v, want one valid signature", infos)
	}
}

func TestSignPDFECDSAP256(t *testing.T) {
	chain := testpki.NewChain(t, testpki.ECDSAP256)
	signed, err := pades.SignPDF(fixturePDF(), identityFromChain(chain), pades.SignatureMetadata{
		Reason: "ecdsa approval",
	}, nil)
	if err != nil {
		t.Fatalf("SignPDF: %v", err)
	}
	infos, err := pades.VerifySignatures(signed)
	if err != nil || len(infos) != 1 || !infos[0].Valid {
		t.Fatalf("VerifySignatures = %+v, %v", infos, err)
	}
}

func TestSignPDFWithPreExistingAcroFormAndAnnots(t *testing.T) {
	chain := testpki.NewChain(t, testpki.RSA2048)
	original := []byte("%PDF-1.4\n" +
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R /AcroForm << /Fields [7 0 R] /SigFlags 1 >> >>\nendobj\n" +
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n" +
		"3 0 obj\n<< /Type /Page /Annots [9 0 R] >>\nendobj\n" +
		"7 0 obj\n<< /FT /Tx /T (Existing) >>\nendobj\n" +
		"9 0 obj\n<< /Type /Annot /Subtype /Text >>\nendobj\n" +
		"xref\n0 4\n" +
		"trailer\n<< /Size 10 /Root 1 0 R >>\n" +
		"startxref\n123\n%%EOF\n")

	signed, err := pades.SignPDF(original, identityFromChain(chain), pades.SignatureMetadata{}, nil)
	if err != nil {
		t.Fatalf("SignPDF: %v", err)
	}
	infos, err := pades.VerifySignatures(signed)
	if err != nil || len(infos) != 1 || !infos[0].Valid {
		t.Fatalf("VerifySignatures = %+v, %v", infos, err)
	}
}

func TestSignPDFWithTSAEmbedsTimestampToken(t *testing.T) {
	chain := testpki.NewChain(t, testpki.RSA2048)

	fakeToken := der.Sequence(der.Integer([]byte{0x2a}))
	tsaResp := der.Sequence(concatTest(
		der.Sequence(der.Integer([]byte{0})),
		fakeToken,
	))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write(tsaResp)
	}))
	defer server.Close()

	signed, err := pades.SignPDF(fixturePDF(), identityFromChain(chain), pades.SignatureMetadata{
		Reason: "timestamped",
	}, &pades.TSAConfig{URL: server.URL})
	if err != nil {
		t.Fatalf("SignPDF: %v", err)
	}
	if !containsBytes(signed, []byte(hex.EncodeToString(fakeToken))) {
		t.Error("expected the fake TSA token to appear in the signed PDF")
	}
	infos, err := pades.VerifySignatures(signed)
	if err != nil || len(infos) != 1 || !infos[0].Valid {
		t.Fatalf("VerifySignatures = %+v, %v", infos, err)
	}
}

func TestSignPDFCertificationSignature(t *testing.T) {
	chain := testpki.NewChain(t, testpki.RSA2048)
	signed, err := pades.SignPDF(fixturePDF(), identityFromChain(chain), pades.SignatureMetadata{
		CertType:   pades.CertificationSignature,
		DocMDPPerm: pades.DoNotAllowAnyChanges,
	}, nil)
	if err != nil {
		t.Fatalf("SignPDF: %v", err)
	}
	if !containsBytes(signed, []byte("/TransformMethod /DocMDP")) {
		t.Error("expected a DocMDP /Reference entry in the certified output")
	}
}

func TestSignPDFFailsOnEmptyCertificateChain(t *testing.T) {
	chain := testpki.NewChain(t, testpki.RSA2048)
	identity := pades.SigningIdentity{Signer: chain.LeafKey, Certificate: chain.LeafCert.Raw}
	_, err := pades.SignPDF(fixturePDF(), identity, pades.SignatureMetadata{}, nil)
	if err == nil {
		t.Fatal("expected SignPDF to fail with an empty certificate chain")
	}
}

func TestSignPDFFailsOnMalformedPDF(t *testing.T) {
	chain := testpki.NewChain(t, testpki.RSA2048)
	_, err := pades.SignPDF([]byte("not a pdf"), identityFromChain(chain), pades.SignatureMetadata{}, nil)
	if err == nil {
		t.Fatal("expected SignPDF to fail on a PDF with no %%EOF marker")
	}
}

func TestPrepareAndCompleteExternalSigningRoundTrip(t *testing.T) {
	chain := testpki.NewChain(t, testpki.RSA2048)

	prepared, err := pades.PrepareForExternalSigning(fixturePDF(), pades.SignatureMetadata{Reason: "external"})
	if err != nil {
		t.Fatalf("PrepareForExternalSigning: %v", err)
	}
	if prepared.HashAlgorithm != "SHA-256" {
		t.Errorf("HashAlgorithm = %q, want SHA-256", prepared.HashAlgorithm)
	}

	identity := cms.Identity{
		Signer:           chain.LeafKey,
		Certificate:      chain.LeafCert.Raw,
		CertificateChain: chain.CertDERChain(),
	}
	cmsDER, _, err := cms.Sign(identity, prepared.Hash)
	if err != nil {
		t.Fatalf("cms.Sign: %v", err)
	}

	signed, err := pades.CompleteExternalSigning(prepared.PreparedPDF, cmsDER)
	if err != nil {
		t.Fatalf("CompleteExternalSigning: %v", err)
	}

	infos, err := pades.VerifySignatures(signed)
	if err != nil || len(infos) != 1 || !infos[0].Valid {
		t.Fatalf("VerifySignatures = %+v, %v", infos, err)
	}

	if _, err := pades.CompleteExternalSigning(signed, cmsDER); err == nil {
		t.Fatal("expected a second CompleteExternalSigning call to fail (idempotence guard)")
	}
}

func TestCompleteExternalSigningRejectsOversizedSignature(t *testing.T) {
	prepared, err := pades.PrepareForExternalSigning(fixturePDF(), pades.SignatureMetadata{})
	if err != nil {
		t.Fatalf("PrepareForExternalSigning: %v", err)
	}
	oversized := make([]byte, pades.PlaceholderSize+1)
	_, err = pades.CompleteExternalSigning(prepared.PreparedPDF, oversized)
	if err == nil {
		t.Fatal("expected CompleteExternalSigning to reject an oversized CMS payload")
	}
	if _, ok := err.(*pades.CmsSignatureTooLargeError); !ok {
		t.Errorf("expected a *CmsSignatureTooLargeError, got %T: %v", err, err)
	}
}

func containsBytes(haystack, needle []byte) bool {
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

func concatTest(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
