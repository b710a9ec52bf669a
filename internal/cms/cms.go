// Package cms builds the detached CMS SignedData container spec §4.6
// describes, by hand: every SEQUENCE/SET/OCTET STRING is assembled with
// internal/der rather than encoding/asn1, because the shapes involved
// (implicit [0]/[1] SET OF Attribute, the [0] IMPLICIT certificates field)
// don't map onto a struct-tag-driven marshaler without fighting it.
package cms

import (
	"crypto"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/padeskit/pades/internal/der"
)

// Identity is the signing identity contract of spec §6.2: a key handle
// (here, any stdlib crypto.Signer — *rsa.PrivateKey and *ecdsa.PrivateKey
// both satisfy it) plus the DER-encoded leaf certificate and its chain,
// leaf first.
type Identity struct {
	Signer           crypto.Signer
	Certificate      []byte   // DER X.509, == CertificateChain[0]
	CertificateChain [][]byte // DER X.509, leaf first, non-empty
}

var ErrEmptyCertificateChain = errors.New("cms: certificate chain is empty")

// Sign builds the full ContentInfo/SignedData/SignerInfo structure over
// byteRangeDigest (the ByteRange SHA-256 from internal/pdfbuild) and signs
// it with identity. It returns the encoded CMS alongside the raw signature
// octets it embedded — the orchestrator needs those octets as the message
// imprint input for an RFC 3161 timestamp request (spec §4.7), which can
// only be built once the signature itself exists. A timestamp token, once
// obtained, is added afterwards with EmbedTimestamp rather than as a
// parameter here, so the signed bytes a TSA was asked to stamp are always
// exactly the ones already embedded.
func Sign(identity Identity, byteRangeDigest [32]byte) (cmsDER []byte, signatureOctets []byte, err error) {
	if len(identity.CertificateChain) == 0 {
		return nil, nil, ErrEmptyCertificateChain
	}

	ka, err := SelectKeyAlgorithm(identity.Signer.Public())
	if err != nil {
		return nil, nil, err
	}
	issuer, err := ExtractIssuerAndSerial(identity.Certificate)
	if err != nil {
		return nil, nil, fmt.Errorf("cms: %w", err)
	}

	signedAttrsBody := BuildSignedAttributesBody(byteRangeDigest, identity.Certificate, issuer)
	toSign := der.Set(signedAttrsBody) // the value signed is the SET form, not the [0] IMPLICIT form

	h := ka.Digest.New()
	h.Write(toSign)
	digest := h.Sum(nil)

	sig, err := identity.Signer.Sign(rand.Reader, digest, ka.Digest)
	if err != nil {
		return nil, nil, fmt.Errorf("cms: signing failed: %w", err)
	}

	signerInfo := buildSignerInfo(ka, issuer, signedAttrsBody, sig, nil)
	signedData := buildSignedData(identity.CertificateChain, signerInfo)

	contentInfo := der.Sequence(concat(der.OID(oidSignedData...), der.ContextTag(0, true, signedData)))
	return contentInfo, sig, nil
}

func buildSignerInfo(ka KeyAlgorithm, issuer IssuerAndSerial, signedAttrsBody, signature, timestampToken []byte) []byte {
	version := der.Integer([]byte{1})
	sid := der.Sequence(concat(issuer.IssuerRawDER, issuer.SerialRawDER))
	digestAlgorithm := der.Sequence(concat(der.OID(oidSHA256...), der.Null()))

	var sigAlgorithm []byte
	if ka.NullParams {
		sigAlgorithm = der.Sequence(concat(der.OID(ka.SignatureOID...), der.Null()))
	} else {
		sigAlgorithm = der.Sequence(der.OID(ka.SignatureOID...))
	}

	signedAttrs := der.ContextTag(0, true, signedAttrsBody)

	body := concat(version, sid, digestAlgorithm, signedAttrs, sigAlgorithm, der.OctetString(signature))
	if timestampToken != nil {
		tsAttr := attribute(oidSignatureTimeStampToken, timestampToken)
		body = concat(body, der.ContextTag(1, true, tsAttr))
	}
	return der.Sequence(body)
}

func buildSignedData(certChain [][]byte, signerInfo []byte) []byte {
	version := der.Integer([]byte{1})
	digestAlgorithms := der.Set(der.Sequence(concat(der.OID(oidSHA256...), der.Null())))
	encapContentInfo := der.Sequence(der.OID(oidData...)) // detached: no [0] content
	certificates := der.ContextTag(0, true, concat(certChain...))
	signerInfos := der.Set(signerInfo)

	body := concat(version, digestAlgorithms, encapContentInfo, certificates, signerInfos)
	return der.Sequence(body)
}
