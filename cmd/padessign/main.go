// Command padessign signs and verifies PAdES-B-B/B-T PDF signatures from
// the command line, grounded on the teacher's root main.go + cli/sign.go
// subcommand split (flag.FlagSet per subcommand, PEM cert/key loading).
package main

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/padeskit/pades"
)

func usage() {
	fmt.Printf("Usage: %s <command> [options] <args>\n\n", os.Args[0])
	fmt.Println("Commands:")
	fmt.Println("  sign     Sign a PDF file")
	fmt.Println("  verify   Verify a PDF's signatures")
	fmt.Println("  prepare  Prepare a PDF for external signing (print the digest to stdout)")
	fmt.Println("  complete Complete an external signing, embedding a CMS signature")
	fmt.Println()
	fmt.Printf("Use '%s <command> -h' for command-specific help\n", os.Args[0])
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "sign":
		signCommand(os.Args[2:])
	case "verify":
		verifyCommand(os.Args[2:])
	case "prepare":
		prepareCommand(os.Args[2:])
	case "complete":
		completeCommand(os.Args[2:])
	default:
		usage()
	}
}

func signCommand(args []string) {
	flags := flag.NewFlagSet("sign", flag.ExitOnError)
	reason := flags.String("reason", "", "Reason for signing")
	location := flags.String("location", "", "Location of the signatory")
	contact := flags.String("contact", "", "Contact information for signatory")
	tsaURL := flags.String("tsa", "", "URL for a Time-Stamp Authority (omit for PAdES-B-B)")
	certTypeFlag := flags.String("certType", "ApprovalSignature", "CertificationSignature, ApprovalSignature, or UsageRightsSignature")
	flags.Usage = func() {
		fmt.Printf("Usage: %s sign [options] <input.pdf> <output.pdf> <certificate.crt> <private_key.key> [chain.crt]\n\n", os.Args[0])
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		log.Fatalf("failed to parse sign flags: %v", err)
	}
	if flags.NArg() < 4 {
		flags.Usage()
		os.Exit(1)
	}

	certType, err := parseCertType(*certTypeFlag)
	if err != nil {
		log.Fatal(err)
	}

	input := flags.Arg(0)
	output := flags.Arg(1)
	cert, signer, chain := loadCertificateAndKey(flags.Arg(2), flags.Arg(3))
	if flags.NArg() >= 5 {
		chain = append(chain, loadCertificateChain(flags.Arg(4))...)
	}

	pdfBytes, err := os.ReadFile(input)
	if err != nil {
		log.Fatal(err)
	}

	identity := pades.SigningIdentity{
		Signer:           signer,
		Certificate:      cert.Raw,
		CertificateChain: append([][]byte{cert.Raw}, chain...),
	}
	metadata := pades.SignatureMetadata{
		Reason:      *reason,
		Location:    *location,
		ContactInfo: *contact,
		CertType:    certType,
	}

	var tsaConfig *pades.TSAConfig
	if *tsaURL != "" {
		tsaConfig = &pades.TSAConfig{URL: *tsaURL}
	}

	signed, err := pades.SignPDF(pdfBytes, identity, metadata, tsaConfig)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(output, signed, 0o644); err != nil {
		log.Fatal(err)
	}
	log.Println("Signed PDF written to " + output)
}

func verifyCommand(args []string) {
	if len(args) < 1 {
		fmt.Printf("Usage: %s verify <input.pdf>\n", os.Args[0])
		os.Exit(1)
	}
	pdfBytes, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatal(err)
	}
	infos, err := pades.VerifySignatures(pdfBytes)
	if err != nil {
		log.Fatal(err)
	}
	jsonData, err := json.Marshal(infos)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(jsonData))
}

func prepareCommand(args []string) {
	flags := flag.NewFlagSet("prepare", flag.ExitOnError)
	reason := flags.String("reason", "", "Reason for signing")
	location := flags.String("location", "", "Location of the signatory")
	contact := flags.String("contact", "", "Contact information for signatory")
	flags.Usage = func() {
		fmt.Printf("Usage: %s prepare [options] <input.pdf> <prepared.pdf>\n\n", os.Args[0])
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		log.Fatalf("failed to parse prepare flags: %v", err)
	}
	if flags.NArg() < 2 {
		flags.Usage()
		os.Exit(1)
	}

	pdfBytes, err := os.ReadFile(flags.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	prepared, err := pades.PrepareForExternalSigning(pdfBytes, pades.SignatureMetadata{
		Reason: *reason, Location: *location, ContactInfo: *contact,
	})
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(flags.Arg(1), prepared.PreparedPDF, 0o644); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%x\n", prepared.Hash)
}

func completeCommand(args []string) {
	if len(args) < 3 {
		fmt.Printf("Usage: %s complete <prepared.pdf> <signature.cms> <output.pdf>\n", os.Args[0])
		os.Exit(1)
	}
	prepared, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatal(err)
	}
	cmsDER, err := os.ReadFile(args[1])
	if err != nil {
		log.Fatal(err)
	}
	signed, err := pades.CompleteExternalSigning(prepared, cmsDER)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(args[2], signed, 0o644); err != nil {
		log.Fatal(err)
	}
	log.Println("Signed PDF written to " + args[2])
}

func parseCertType(s string) (pades.CertType, error) {
	switch s {
	case "CertificationSignature":
		return pades.CertificationSignature, nil
	case "ApprovalSignature":
		return pades.ApprovalSignature, nil
	case "UsageRightsSignature":
		return pades.UsageRightsSignature, nil
	default:
		return 0, fmt.Errorf("invalid certType value %q", s)
	}
}

func loadCertificateAndKey(certPath, keyPath string) (*x509.Certificate, crypto.Signer, [][]byte) {
	certData, err := os.ReadFile(certPath)
	if err != nil {
		log.Fatal(err)
	}
	certBlock, _ := pem.Decode(certData)
	if certBlock == nil {
		log.Fatal(errors.New("failed to parse PEM block containing the certificate"))
	}
	cert, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		log.Fatal(err)
	}

	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		log.Fatal(err)
	}
	keyBlock, _ := pem.Decode(keyData)
	if keyBlock == nil {
		log.Fatal(errors.New("failed to parse PEM block containing the private key"))
	}
	signer, err := parsePrivateKey(keyBlock)
	if err != nil {
		log.Fatal(err)
	}

	return cert, signer, nil
}

func parsePrivateKey(block *pem.Block) (crypto.Signer, error) {
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("unsupported private key format: %w", err)
	}
	switch k := key.(type) {
	case *rsa.PrivateKey:
		return k, nil
	case *ecdsa.PrivateKey:
		return k, nil
	default:
		return nil, fmt.Errorf("unsupported private key type %T", key)
	}
}

func loadCertificateChain(chainPath string) [][]byte {
	chainData, err := os.ReadFile(chainPath)
	if err != nil {
		log.Fatal(err)
	}
	var chain [][]byte
	rest := chainData
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		chain = append(chain, block.Bytes)
	}
	return chain
}
