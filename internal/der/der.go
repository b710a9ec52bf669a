// Package der implements the small ASN.1 DER subset the signing engine
// needs: SEQUENCE, SET, INTEGER, OCTET STRING, NULL, OID and context tags,
// built on golang.org/x/crypto/cryptobyte the same way the teacher repo
// builds a single ESSCertIDv2 SEQUENCE in its signature builder.
package der

import (
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"
)

// Sequence DER-encodes body as the contents of a SEQUENCE.
func Sequence(body []byte) []byte {
	return wrap(cbasn1.SEQUENCE, body)
}

// Set DER-encodes body as the contents of a SET.
func Set(body []byte) []byte {
	return wrap(cbasn1.SET, body)
}

// OctetString DER-encodes body as an OCTET STRING.
func OctetString(body []byte) []byte {
	return wrap(cbasn1.OCTET_STRING, body)
}

// Null returns the DER encoding of ASN.1 NULL.
func Null() []byte {
	return []byte{0x05, 0x00}
}

// OID DER-encodes an object identifier given as its arcs.
func OID(arcs ...int) []byte {
	var b cryptobyte.Builder
	b.AddASN1ObjectIdentifier(arcs)
	out, err := b.Bytes()
	if err != nil {
		// Only fails for malformed arc sets (first arc > 2, etc), which
		// never happens for the fixed OIDs this engine uses.
		panic(fmt.Sprintf("der: invalid oid %v: %v", arcs, err))
	}
	return out
}

// Integer DER-encodes a non-negative big-endian magnitude as an INTEGER,
// prepending a 0x00 pad byte when the magnitude's high bit is set so the
// value is read back as non-negative.
func Integer(magnitude []byte) []byte {
	body := trimLeadingZeros(magnitude)
	if len(body) == 0 {
		body = []byte{0x00}
	}
	if body[0]&0x80 != 0 {
		padded := make([]byte, len(body)+1)
		copy(padded[1:], body)
		body = padded
	}
	return wrap(cbasn1.INTEGER, body)
}

// Boolean DER-encodes an ASN.1 BOOLEAN.
func Boolean(v bool) []byte {
	b := byte(0x00)
	if v {
		b = 0xff
	}
	return []byte{0x01, 0x01, b}
}

// ContextTag DER-encodes body under context tag n. constructed sets the
// constructed bit: true for [n] EXPLICIT (body must already be a complete
// TLV) and for [n] IMPLICIT replacing a constructed type such as SEQUENCE or
// SET (body is the inner content, not re-wrapped); false for [n] IMPLICIT
// replacing a primitive type (body is the raw value bytes).
func ContextTag(n int, constructed bool, body []byte) []byte {
	tag := byte(0x80 | n)
	if constructed {
		tag |= 0x20
	}
	return append(encodeTagAndLength(tag, len(body)), body...)
}

func wrap(tag cbasn1.Tag, body []byte) []byte {
	return append(encodeTagAndLength(byte(tag), len(body)), body...)
}

func encodeTagAndLength(tag byte, length int) []byte {
	out := []byte{tag}
	out = append(out, encodeLength(length)...)
	return out
}

// encodeLength encodes an ASN.1 DER length per X.690 8.1.3: short form for
// values under 128, long form (0x80|k followed by k big-endian bytes)
// otherwise.
func encodeLength(length int) []byte {
	if length < 0x80 {
		return []byte{byte(length)}
	}
	var lenBytes []byte
	for v := length; v > 0; v >>= 8 {
		lenBytes = append([]byte{byte(v)}, lenBytes...)
	}
	return append([]byte{0x80 | byte(len(lenBytes))}, lenBytes...)
}

func trimLeadingZeros(b []byte) []byte {
	i := 0
	for i < len(b)-1 && b[i] == 0 {
		i++
	}
	return b[i:]
}
