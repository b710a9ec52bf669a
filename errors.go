package pades

import (
	"errors"
	"fmt"
)

// Stable error kinds, spec §6.4. Callers match with errors.Is for the
// sentinel values and errors.As for the four parameterized kinds below.
var (
	ErrEOFNotFound                  = errors.New("pades: %%EOF not found")
	ErrCannotParseTrailer           = errors.New("pades: cannot parse trailer")
	ErrCannotFindFirstPage          = errors.New("pades: cannot find first page")
	ErrCannotReadPageInfo           = errors.New("pades: cannot read page info")
	ErrCannotReadRootCatalog        = errors.New("pades: cannot read root catalog")
	ErrByteRangePlaceholderNotFound = errors.New("pades: /ByteRange placeholder not found")
	ErrContentsPlaceholderNotFound  = errors.New("pades: /Contents placeholder not found")
	ErrEmptyCertificateChain        = errors.New("pades: certificate chain is empty")
	ErrInvalidByteRange             = errors.New("pades: invalid byte range")
)

// SignatureCreationError wraps a failure from the CMS/TSA signing step
// (spec §6.4's SignatureCreationFailed(detail)).
type SignatureCreationError struct {
	Detail string
}

func (e *SignatureCreationError) Error() string {
	return fmt.Sprintf("pades: signature creation failed: %s", e.Detail)
}

// CmsSignatureTooLargeError reports that the CMS signature's hex encoding
// would overflow the reserved /Contents placeholder (spec §6.4's
// CmsSignatureTooLarge(actual, max)).
type CmsSignatureTooLargeError struct {
	ActualHexLen int
	MaxHexLen    int
}

func (e *CmsSignatureTooLargeError) Error() string {
	return fmt.Sprintf("pades: cms signature too large: %d hex bytes > %d max", e.ActualHexLen, e.MaxHexLen)
}

// InvalidDERError reports a malformed DER structure encountered while
// embedding an externally-supplied CMS signature or timestamp token.
type InvalidDERError struct {
	Detail string
}

func (e *InvalidDERError) Error() string {
	return fmt.Sprintf("pades: invalid der: %s", e.Detail)
}

// TsaRequestError reports a failed RFC 3161 timestamp request.
type TsaRequestError struct {
	Detail string
}

func (e *TsaRequestError) Error() string {
	return fmt.Sprintf("pades: tsa request failed: %s", e.Detail)
}
