package pades

import "github.com/padeskit/pades/internal/pdfbuild"

// SignatureMetadata enumerates the free-text fields written into the
// signature dictionary (spec §6.1), plus the supplemented CertType/
// DocMDPPerm fields (SPEC_FULL §4). CertType defaults to ApprovalSignature.
type SignatureMetadata struct {
	Reason      string
	Location    string
	ContactInfo string
	CertType    CertType
	DocMDPPerm  DocMDPPerm
}

// CertType selects which /Reference transform, if any, the signature
// declares (SPEC_FULL §4: certification, approval, usage-rights signatures).
type CertType = pdfbuild.CertType

const (
	ApprovalSignature      = pdfbuild.ApprovalSignature
	CertificationSignature = pdfbuild.CertificationSignature
	UsageRightsSignature   = pdfbuild.UsageRightsSignature
)

// DocMDPPerm is the access-permission level a CertificationSignature grants
// (ISO 32000-2 table 257).
type DocMDPPerm = pdfbuild.DocMDPPerm

const (
	DoNotAllowAnyChanges                                      = pdfbuild.DoNotAllowAnyChanges
	AllowFillingExistingFormFieldsAndSignatures               = pdfbuild.AllowFillingExistingFormFieldsAndSignatures
	AllowFillingExistingFormFieldsAndSignaturesAndAnnotations = pdfbuild.AllowFillingExistingFormFieldsAndSignaturesAndAnnotations
)

// TSAConfig carries the RFC 3161 timestamp authority endpoint and optional
// basic-auth credentials (SPEC_FULL §4, grounded on the teacher's
// sign.TSA).
type TSAConfig struct {
	URL      string
	Username string
	Password string
}
