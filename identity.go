package pades

import "crypto"

// SigningIdentity is the signing-identity contract of spec §6.2: an opaque
// key handle (any crypto.Signer — *rsa.PrivateKey and *ecdsa.PrivateKey both
// qualify, as do most HSM/KMS client wrappers) plus the DER-encoded leaf
// certificate and its full chain, leaf first.
type SigningIdentity struct {
	Signer           crypto.Signer
	Certificate      []byte   // DER X.509, must equal CertificateChain[0]
	CertificateChain [][]byte // DER X.509, leaf first, non-empty
}
