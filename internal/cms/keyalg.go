package cms

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"fmt"
)

// KeyAlgorithm pins the signatureAlgorithm OID and digest a SignerInfo uses,
// selected from the signing key's type and size (spec §4.6's "Key algorithm
// selection").
type KeyAlgorithm struct {
	SignatureOID []int
	Digest       crypto.Hash
	NullParams   bool
}

// SelectKeyAlgorithm inspects pub and returns the matching KeyAlgorithm: RSA
// always signs RSASSA-PKCS1-v1.5 with SHA-256; EC keys up to 384 bits use
// ECDSA with SHA-256, larger curves use SHA-512. RSA's AlgorithmIdentifier
// carries explicit NULL parameters; ECDSA's carries none.
func SelectKeyAlgorithm(pub crypto.PublicKey) (KeyAlgorithm, error) {
	switch k := pub.(type) {
	case *rsa.PublicKey:
		return KeyAlgorithm{SignatureOID: oidRSAEncryptionSHA256, Digest: crypto.SHA256, NullParams: true}, nil
	case *ecdsa.PublicKey:
		if k.Curve.Params().BitSize <= 384 {
			return KeyAlgorithm{SignatureOID: oidECDSAWithSHA256, Digest: crypto.SHA256}, nil
		}
		return KeyAlgorithm{SignatureOID: oidECDSAWithSHA512, Digest: crypto.SHA512}, nil
	default:
		return KeyAlgorithm{}, fmt.Errorf("cms: unsupported public key type %T", pub)
	}
}
