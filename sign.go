package pades

import (
	"errors"
	"fmt"
	"time"

	"github.com/padeskit/pades/internal/cms"
	"github.com/padeskit/pades/internal/pdfbuild"
	"github.com/padeskit/pades/internal/pdfscan"
	"github.com/padeskit/pades/internal/tsa"
	"github.com/padeskit/pades/verify"
)

// SignatureInfo is the outcome of inspecting one existing signature (spec
// §6.1's VerifySignatures result).
type SignatureInfo = verify.SignatureInfo

// VerifySignatures scans pdf for every /Type /Sig occurrence and reports,
// for each, whether its embedded digest matches a fresh recomputation over
// its declared /ByteRange (spec §4.8).
func VerifySignatures(pdf []byte) ([]SignatureInfo, error) {
	return verify.VerifySignatures(pdf)
}

// PreparedSigning is the result of PrepareForExternalSigning: the
// incrementally-updated PDF with its /ByteRange already substituted, and
// the digest an external signer (HSM, cloud KMS) must produce a detached
// CMS signature over.
type PreparedSigning struct {
	PreparedPDF   []byte
	Hash          [32]byte
	HashAlgorithm string
}

// SignPDF implements spec §4.8/§6.1's signPdf: prepare → buildCMS →
// optionally timestamp → embed. tsaConfig may be nil to produce a
// PAdES-B-B signature with no timestamp.
func SignPDF(pdf []byte, identity SigningIdentity, metadata SignatureMetadata, tsaConfig *TSAConfig) ([]byte, error) {
	upd, err := prepare(pdf, metadata)
	if err != nil {
		return nil, err
	}
	signed, digest, err := pdfbuild.Finalize(pdf, upd)
	if err != nil {
		return nil, classifyFinalizeErr(err)
	}

	cmsDER, sigOctets, err := cms.Sign(toCMSIdentity(identity), digest)
	if err != nil {
		return nil, classifySignErr(err)
	}

	if tsaConfig != nil && tsaConfig.URL != "" {
		token, err := requestTimestamp(*tsaConfig, sigOctets)
		if err != nil {
			return nil, &TsaRequestError{Detail: err.Error()}
		}
		cmsDER, err = cms.EmbedTimestamp(cmsDER, token)
		if err != nil {
			return nil, &InvalidDERError{Detail: err.Error()}
		}
	}

	if err := pdfbuild.EmbedSignature(signed, upd.ContentsHexOffset, cmsDER); err != nil {
		return nil, classifyEmbedErr(err)
	}
	return signed, nil
}

// PrepareForExternalSigning implements spec §6.1's prepareForExternalSigning:
// it runs the incremental-update builder and ByteRange hashing, but stops
// short of signing — the caller takes the returned hash to an external key
// custodian and later calls CompleteExternalSigning with the result.
func PrepareForExternalSigning(pdf []byte, metadata SignatureMetadata) (PreparedSigning, error) {
	upd, err := prepare(pdf, metadata)
	if err != nil {
		return PreparedSigning{}, err
	}
	signed, digest, err := pdfbuild.Finalize(pdf, upd)
	if err != nil {
		return PreparedSigning{}, classifyFinalizeErr(err)
	}
	return PreparedSigning{PreparedPDF: signed, Hash: digest, HashAlgorithm: "SHA-256"}, nil
}

// CompleteExternalSigning implements spec §6.1's completeExternalSigning:
// it locates the remaining all-zero /Contents placeholder of exact size
// 2*placeholderSize, hex-encodes cmsSignature into it, and zero-pads the
// remainder. Calling it a second time on its own output fails with
// ErrContentsPlaceholderNotFound — no placeholder remains to overwrite.
func CompleteExternalSigning(preparedPDF []byte, cmsSignature []byte) ([]byte, error) {
	offset, err := pdfscan.FindMarkerWide(preparedPDF, "/Contents <"+pdfbuild.ContentsPlaceholderHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentsPlaceholderNotFound, err)
	}
	contentsHexOffset := offset + len("/Contents ")

	out := append([]byte(nil), preparedPDF...)
	if err := pdfbuild.EmbedSignature(out, contentsHexOffset, cmsSignature); err != nil {
		return nil, classifyEmbedErr(err)
	}
	return out, nil
}

func prepare(pdf []byte, metadata SignatureMetadata) (pdfbuild.Update, error) {
	eofPos, err := pdfscan.FindEOF(pdf)
	if err != nil {
		return pdfbuild.Update{}, fmt.Errorf("%w: %v", ErrEOFNotFound, err)
	}
	trailer, err := pdfscan.ParseTrailer(pdf, eofPos)
	if err != nil {
		return pdfbuild.Update{}, fmt.Errorf("%w: %v", ErrCannotParseTrailer, err)
	}

	buildMeta := pdfbuild.Metadata{
		Reason:      metadata.Reason,
		Location:    metadata.Location,
		ContactInfo: metadata.ContactInfo,
		CertType:    metadata.CertType,
		DocMDPPerm:  metadata.DocMDPPerm,
	}
	upd, err := pdfbuild.Build(pdf, trailer, buildMeta, time.Now().UTC())
	if err != nil {
		return pdfbuild.Update{}, classifyBuildErr(err)
	}
	return upd, nil
}

func toCMSIdentity(identity SigningIdentity) cms.Identity {
	return cms.Identity{
		Signer:           identity.Signer,
		Certificate:      identity.Certificate,
		CertificateChain: identity.CertificateChain,
	}
}

func requestTimestamp(cfg TSAConfig, signatureOctets []byte) ([]byte, error) {
	client := tsa.Client{URL: cfg.URL, Username: cfg.Username, Password: cfg.Password}
	return client.Request(tsa.BuildRequest(signatureOctets))
}

func classifyBuildErr(err error) error {
	switch {
	case errors.Is(err, pdfscan.ErrFirstPageNotFound):
		return fmt.Errorf("%w: %v", ErrCannotFindFirstPage, err)
	case errors.Is(err, pdfscan.ErrPageInfoNotFound):
		return fmt.Errorf("%w: %v", ErrCannotReadPageInfo, err)
	case errors.Is(err, pdfscan.ErrObjectNotFound):
		return fmt.Errorf("%w: %v", ErrCannotReadRootCatalog, err)
	default:
		return &SignatureCreationError{Detail: err.Error()}
	}
}

func classifyFinalizeErr(err error) error {
	switch {
	case errors.Is(err, pdfbuild.ErrByteRangePlaceholderNotFound):
		return fmt.Errorf("%w: %v", ErrByteRangePlaceholderNotFound, err)
	case errors.Is(err, pdfbuild.ErrInvalidByteRange):
		return fmt.Errorf("%w: %v", ErrInvalidByteRange, err)
	default:
		return err
	}
}

func classifySignErr(err error) error {
	if errors.Is(err, cms.ErrEmptyCertificateChain) {
		return ErrEmptyCertificateChain
	}
	return &SignatureCreationError{Detail: err.Error()}
}

func classifyEmbedErr(err error) error {
	var tooLarge *pdfbuild.ErrCmsTooLarge
	if errors.As(err, &tooLarge) {
		return &CmsSignatureTooLargeError{ActualHexLen: tooLarge.ActualHexLen, MaxHexLen: tooLarge.MaxHexLen}
	}
	if errors.Is(err, pdfbuild.ErrContentsPlaceholderNotFound) {
		return fmt.Errorf("%w: %v", ErrContentsPlaceholderNotFound, err)
	}
	return err
}
