package cms

import (
	"bytes"
	"fmt"

	"github.com/padeskit/pades/internal/der"
)

// FindMessageDigest locates the messageDigest signed attribute inside a CMS
// ContentInfo by searching for its OID's DER encoding, then stepping past
// the following SET and OCTET STRING headers to return the contained
// digest bytes — the byte-level locate spec §4.8's verifySignatures
// describes, rather than a full CMS parse.
func FindMessageDigest(cmsDER []byte) ([]byte, error) {
	oidBytes := der.OID(oidMessageDigest...)
	idx := bytes.Index(cmsDER, oidBytes)
	if idx == -1 {
		return nil, fmt.Errorf("cms: messageDigest attribute not found")
	}
	off := idx + len(oidBytes)

	setTLV, err := der.ReadTLV(cmsDER, off)
	if err != nil || setTLV.Tag != 0x31 {
		return nil, fmt.Errorf("cms: expected SET after messageDigest OID: %v", err)
	}

	octetTLV, err := der.ReadTLV(setTLV.Content, 0)
	if err != nil || octetTLV.Tag != 0x04 {
		return nil, fmt.Errorf("cms: expected OCTET STRING inside messageDigest SET: %v", err)
	}
	return octetTLV.Content, nil
}
