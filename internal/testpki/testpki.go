// Package testpki builds throwaway certificate chains for signing and
// verification tests. It keeps only the generate-and-issue machinery of its
// ancestor helper; the CRL/OCSP mock server is gone because revocation
// checking is out of scope for this engine (chain/revocation trust is
// explicitly left to the caller).
package testpki

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"
)

// KeyProfile selects the key type and size GenerateKey produces.
type KeyProfile string

const (
	RSA2048   KeyProfile = "RSA_2048"
	ECDSAP256 KeyProfile = "ECDSA_P256"
	ECDSAP384 KeyProfile = "ECDSA_P384"
	ECDSAP521 KeyProfile = "ECDSA_P521"
)

// GenerateKey produces a fresh private key matching profile.
func GenerateKey(t *testing.T, profile KeyProfile) crypto.Signer {
	switch profile {
	case RSA2048:
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			t.Fatalf("generate RSA 2048 key: %v", err)
		}
		return k
	case ECDSAP256:
		k, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			t.Fatalf("generate P-256 key: %v", err)
		}
		return k
	case ECDSAP384:
		k, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
		if err != nil {
			t.Fatalf("generate P-384 key: %v", err)
		}
		return k
	case ECDSAP521:
		k, err := ecdsa.GenerateKey(elliptic.P521(), rand.Reader)
		if err != nil {
			t.Fatalf("generate P-521 key: %v", err)
		}
		return k
	default:
		t.Fatalf("unknown key profile: %s", profile)
		return nil
	}
}

// Chain is a two-level test PKI: a self-signed root and one leaf issued by
// it, exactly the depth the signing engine's certificateChain needs.
type Chain struct {
	RootCert *x509.Certificate
	RootKey  crypto.Signer
	LeafCert *x509.Certificate
	LeafKey  crypto.Signer
}

// NewChain generates a root CA and a leaf certificate signed by it, both
// using profile.
func NewChain(t *testing.T, profile KeyProfile) Chain {
	rootKey := GenerateKey(t, profile)
	rootTemplate := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject: pkix.Name{
			CommonName:   "pades test root CA",
			Organization: []string{"pades test"},
		},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
		SubjectKeyId:          []byte{1, 2, 3, 4},
	}
	rootBytes, err := x509.CreateCertificate(rand.Reader, rootTemplate, rootTemplate, rootKey.Public(), rootKey)
	if err != nil {
		t.Fatalf("create root cert: %v", err)
	}
	rootCert, err := x509.ParseCertificate(rootBytes)
	if err != nil {
		t.Fatalf("parse root cert: %v", err)
	}

	leafKey := GenerateKey(t, profile)
	serial, _ := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	leafTemplate := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName:   "pades test signer",
			Organization: []string{"pades test"},
		},
		NotBefore:   time.Now().Add(-time.Hour),
		NotAfter:    time.Now().Add(time.Hour),
		KeyUsage:    x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageEmailProtection},
	}
	leafBytes, err := x509.CreateCertificate(rand.Reader, leafTemplate, rootCert, leafKey.Public(), rootKey)
	if err != nil {
		t.Fatalf("issue leaf cert: %v", err)
	}
	leafCert, err := x509.ParseCertificate(leafBytes)
	if err != nil {
		t.Fatalf("parse leaf cert: %v", err)
	}

	return Chain{RootCert: rootCert, RootKey: rootKey, LeafCert: leafCert, LeafKey: leafKey}
}

// CertDERChain returns the leaf-first DER chain the signing engine's
// Identity.CertificateChain expects.
func (c Chain) CertDERChain() [][]byte {
	return [][]byte{c.LeafCert.Raw, c.RootCert.Raw}
}
