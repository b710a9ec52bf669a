package pdfbuild

import "fmt"

// CertType selects which /Reference transform (if any) the signature
// dictionary declares (spec SPEC_FULL §4, supplementing spec.md's single
// invisible-approval scenario). The zero value, ApprovalSignature, emits no
// /Reference entry at all, matching spec.md's core signature dictionary
// exactly.
type CertType int

const (
	ApprovalSignature CertType = iota
	CertificationSignature
	UsageRightsSignature
)

// DocMDPPerm is the access-permission level a CertificationSignature
// declares in its DocMDP transform parameters (ISO 32000-2 table 257).
// Only meaningful when CertType == CertificationSignature.
type DocMDPPerm int

const (
	DocMDPPermUnset DocMDPPerm = iota
	DoNotAllowAnyChanges
	AllowFillingExistingFormFieldsAndSignatures
	AllowFillingExistingFormFieldsAndSignaturesAndAnnotations
)

// permsDict renders the catalog's /Perms entry pointing back at sigObjNum,
// the convention readers use to locate the certifying/usage-rights
// signature without walking every AcroForm field (spec's existing-field
// discovery in §4.4 is unaffected; this is additive).
func permsDict(certType CertType, sigObjNum int) string {
	switch certType {
	case CertificationSignature:
		return fmt.Sprintf(" /Perms << /DocMDP %d 0 R >>", sigObjNum)
	case UsageRightsSignature:
		return fmt.Sprintf(" /Perms << /UR3 %d 0 R >>", sigObjNum)
	default:
		return ""
	}
}

// referenceDict renders the /Reference array entry for CertificationSignature
// and UsageRightsSignature, following the DocMDP/UR3 TransformParams shapes
// the teacher emits in sign/pdfsignature.go. ApprovalSignature returns "".
func referenceDict(certType CertType, perm DocMDPPerm) string {
	switch certType {
	case CertificationSignature:
		p := perm
		if p == DocMDPPermUnset {
			p = AllowFillingExistingFormFieldsAndSignatures
		}
		return fmt.Sprintf(" /Reference [ << /Type /SigRef /TransformMethod /DocMDP "+
			"/TransformParams << /Type /TransformParams /P %d /V /1.2 >> >> ]", int(p))
	case UsageRightsSignature:
		return " /Reference [ << /Type /SigRef /TransformMethod /UR3 " +
			"/TransformParams << /Type /TransformParams /V /2.2 >> >> ]"
	default:
		return ""
	}
}
