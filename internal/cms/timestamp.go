package cms

import (
	"fmt"

	"github.com/padeskit/pades/internal/der"
)

// EmbedTimestamp reopens a CMS produced by Sign and adds timestampToken
// (the raw TimeStampToken ContentInfo bytes returned by internal/tsa) as
// the signer's id-aa-signatureTimeStampToken unsigned attribute (spec
// §4.6/§4.7, Open Question: the token is embedded as-is, not re-wrapped).
// cmsDER must not already carry unsigned attributes.
func EmbedTimestamp(cmsDER []byte, timestampToken []byte) ([]byte, error) {
	outer, err := der.ReadTLV(cmsDER, 0)
	if err != nil {
		return nil, fmt.Errorf("cms: %w", err)
	}
	oidTLV, err := der.ReadTLV(outer.Content, 0)
	if err != nil {
		return nil, fmt.Errorf("cms: %w", err)
	}
	ctx0, err := der.ReadTLV(outer.Content, oidTLV.End)
	if err != nil {
		return nil, fmt.Errorf("cms: %w", err)
	}

	sdOuter, err := der.ReadTLV(ctx0.Content, 0)
	if err != nil {
		return nil, fmt.Errorf("cms: %w", err)
	}
	sdBody := sdOuter.Content

	versionTLV, err := der.ReadTLV(sdBody, 0)
	if err != nil {
		return nil, fmt.Errorf("cms: %w", err)
	}
	digAlgTLV, err := der.ReadTLV(sdBody, versionTLV.End)
	if err != nil {
		return nil, fmt.Errorf("cms: %w", err)
	}
	encapTLV, err := der.ReadTLV(sdBody, digAlgTLV.End)
	if err != nil {
		return nil, fmt.Errorf("cms: %w", err)
	}
	certsTLV, err := der.ReadTLV(sdBody, encapTLV.End)
	if err != nil {
		return nil, fmt.Errorf("cms: %w", err)
	}
	signerInfosTLV, err := der.ReadTLV(sdBody, certsTLV.End)
	if err != nil {
		return nil, fmt.Errorf("cms: %w", err)
	}

	siTLV, err := der.ReadTLV(signerInfosTLV.Content, 0)
	if err != nil {
		return nil, fmt.Errorf("cms: %w", err)
	}

	tsAttr := attribute(oidSignatureTimeStampToken, timestampToken)
	newSignerInfo := der.Sequence(concat(siTLV.Content, der.ContextTag(1, true, tsAttr)))
	newSignerInfos := der.Set(newSignerInfo)

	newSignedDataBody := concat(sdBody[:certsTLV.End], newSignerInfos)
	newSignedData := der.Sequence(newSignedDataBody)

	newOuterBody := concat(outer.Content[:oidTLV.End], der.ContextTag(0, true, newSignedData))
	return der.Sequence(newOuterBody), nil
}
