// Package tsa implements the RFC 3161 timestamping client spec §4.7
// describes: a DER TimeStampReq built by hand over internal/der, sent as a
// raw HTTP POST, with the returned TimeStampToken extracted without being
// re-decoded.
package tsa

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/padeskit/pades/internal/der"
)

// Timeout is the fixed request timeout spec §6.5 pins.
const Timeout = 30 * time.Second

var oidSHA256 = []int{2, 16, 840, 1, 101, 3, 4, 2, 1}

var (
	ErrTsaRequestFailed = errors.New("tsa: request failed")
	ErrTsaRejected      = errors.New("tsa: response status not granted")
)

// Client is a minimal RFC 3161 client; URL is required, Username/Password
// are optional HTTP basic auth credentials some TSAs require.
type Client struct {
	URL      string
	Username string
	Password string
}

// BuildRequest DER-encodes a TimeStampReq over SHA-256(signatureOctets),
// with certReq set TRUE so the TSA includes its signing certificate in the
// response token.
func BuildRequest(signatureOctets []byte) []byte {
	hash := sha256.Sum256(signatureOctets)
	hashAlgorithm := der.Sequence(concat(der.OID(oidSHA256...), der.Null()))
	messageImprint := der.Sequence(concat(hashAlgorithm, der.OctetString(hash[:])))
	version := der.Integer([]byte{1})
	certReq := der.Boolean(true)
	return der.Sequence(concat(version, messageImprint, certReq))
}

// Request sends reqDER to the TSA and returns the raw TimeStampToken bytes
// (a CMS ContentInfo) extracted from the response, verbatim.
func (c Client) Request(reqDER []byte) ([]byte, error) {
	req, err := http.NewRequest(http.MethodPost, c.URL, bytes.NewReader(reqDER))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTsaRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/timestamp-query")
	if c.Username != "" && c.Password != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTsaRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrTsaRequestFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrTsaRequestFailed, resp.StatusCode)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty response body", ErrTsaRequestFailed)
	}

	return ParseResponse(body)
}

// ParseResponse walks TimeStampResp ::= SEQUENCE { status PKIStatusInfo,
// timeStampToken ContentInfo OPTIONAL }, accepts status 0 (granted) or 1
// (grantedWithMods), and returns the remaining bytes as the token verbatim.
func ParseResponse(respDER []byte) ([]byte, error) {
	outer, err := der.ReadTLV(respDER, 0)
	if err != nil || outer.Tag != 0x30 {
		return nil, fmt.Errorf("%w: malformed TimeStampResp", ErrTsaRequestFailed)
	}

	statusInfo, err := der.ReadTLV(outer.Content, 0)
	if err != nil || statusInfo.Tag != 0x30 {
		return nil, fmt.Errorf("%w: malformed PKIStatusInfo", ErrTsaRequestFailed)
	}

	statusTLV, err := der.ReadTLV(statusInfo.Content, 0)
	if err != nil || statusTLV.Tag != 0x02 {
		return nil, fmt.Errorf("%w: malformed PKIStatus", ErrTsaRequestFailed)
	}
	status := 0
	for _, b := range statusTLV.Content {
		status = (status << 8) | int(b)
	}
	if status != 0 && status != 1 {
		return nil, fmt.Errorf("%w: status %d", ErrTsaRejected, status)
	}

	token := outer.Content[statusInfo.End:]
	if len(token) == 0 {
		return nil, fmt.Errorf("%w: response carries no TimeStampToken", ErrTsaRequestFailed)
	}
	return token, nil
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
