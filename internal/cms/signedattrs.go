package cms

import (
	"crypto/sha256"

	"github.com/padeskit/pades/internal/der"
)

// attribute DER-encodes one CMS Attribute: SEQUENCE { type OID, values SET }.
func attribute(oid []int, value []byte) []byte {
	return der.Sequence(append(der.OID(oid...), der.Set(value)...))
}

// BuildSignedAttributesBody returns the concatenated DER of the three
// signed attributes spec §3/§4.6 mandate, in the exact order CMS requires:
// contentType, messageDigest, signing-certificate-v2. The caller wraps this
// body in a SET (0x31) to produce the bytes that are actually signed, or in
// a [0] IMPLICIT context tag to store it inside SignerInfo — both wrappings
// share this same content.
func BuildSignedAttributesBody(byteRangeDigest [32]byte, leafCertDER []byte, issuer IssuerAndSerial) []byte {
	contentTypeAttr := attribute(oidContentType, der.OID(oidData...))
	messageDigestAttr := attribute(oidMessageDigest, der.OctetString(byteRangeDigest[:]))
	signingCertAttr := attribute(oidSigningCertificateV2, signingCertificateV2Value(leafCertDER, issuer))

	return concat(contentTypeAttr, messageDigestAttr, signingCertAttr)
}

// signingCertificateV2Value builds the SigningCertificateV2 value itself:
// SEQUENCE { certs SEQUENCE OF ESSCertIDv2 }, with a single ESSCertIDv2
// whose hashAlgorithm is omitted (SHA-256 is the RFC 5035 default) and
// whose IssuerSerial names the leaf's issuer and serial. attribute() is the
// one place that wraps this in the attribute's SET OF AttributeValue.
func signingCertificateV2Value(leafCertDER []byte, issuer IssuerAndSerial) []byte {
	certHash := sha256.Sum256(leafCertDER)

	// GeneralName ::= CHOICE { ..., directoryName [4] EXPLICIT Name, ... }
	directoryName := der.ContextTag(4, true, issuer.IssuerRawDER)
	generalNames := der.Sequence(directoryName) // GeneralNames ::= SEQUENCE OF GeneralName

	issuerSerial := der.Sequence(concat(generalNames, issuer.SerialRawDER))

	essCertIDv2 := der.Sequence(concat(der.OctetString(certHash[:]), issuerSerial))
	certsSeq := der.Sequence(essCertIDv2) // SEQUENCE OF ESSCertIDv2, one entry
	return der.Sequence(certsSeq)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
