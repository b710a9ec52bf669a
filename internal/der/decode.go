package der

import (
	"errors"
	"fmt"
)

// ErrMalformed is returned for any DER structure this package refuses to
// decode: truncated buffers, or a length field declaring more than four
// length bytes.
var ErrMalformed = errors.New("der: malformed TLV")

// ParseLength reads the length octets of a TLV starting at off (the byte
// right after the tag) and returns the offset of the first content byte
// and the declared content length. It clamps to buf's bounds and rejects
// length fields whose long-form byte count exceeds four.
func ParseLength(buf []byte, off int) (contentStart int, length int, err error) {
	if off >= len(buf) {
		return 0, 0, fmt.Errorf("%w: length byte out of bounds", ErrMalformed)
	}
	first := buf[off]
	if first&0x80 == 0 {
		return off + 1, int(first), nil
	}
	k := int(first &^ 0x80)
	if k == 0 || k > 4 {
		return 0, 0, fmt.Errorf("%w: unsupported long-form length (%d bytes)", ErrMalformed, k)
	}
	if off+1+k > len(buf) {
		return 0, 0, fmt.Errorf("%w: long-form length out of bounds", ErrMalformed)
	}
	length = 0
	for i := 0; i < k; i++ {
		length = (length << 8) | int(buf[off+1+i])
	}
	contentStart = off + 1 + k
	if contentStart+length > len(buf) || length < 0 {
		return 0, 0, fmt.Errorf("%w: declared length exceeds buffer", ErrMalformed)
	}
	return contentStart, length, nil
}

// SkipTLV reads one tag-length-value starting at off (at the tag byte) and
// returns the offset immediately after the value.
func SkipTLV(buf []byte, off int) (int, error) {
	if off >= len(buf) {
		return 0, fmt.Errorf("%w: tag byte out of bounds", ErrMalformed)
	}
	contentStart, length, err := ParseLength(buf, off+1)
	if err != nil {
		return 0, err
	}
	return contentStart + length, nil
}

// TLV is a decoded tag-length-value: Tag is the raw tag byte, Content is
// the slice of content bytes (length already validated against buf).
type TLV struct {
	Tag     byte
	Content []byte
	End     int // offset in the source buffer immediately after this TLV
}

// ReadTLV decodes the tag-length-value starting at off.
func ReadTLV(buf []byte, off int) (TLV, error) {
	if off >= len(buf) {
		return TLV{}, fmt.Errorf("%w: tag byte out of bounds", ErrMalformed)
	}
	tag := buf[off]
	contentStart, length, err := ParseLength(buf, off+1)
	if err != nil {
		return TLV{}, err
	}
	return TLV{
		Tag:     tag,
		Content: buf[contentStart : contentStart+length],
		End:     contentStart + length,
	}, nil
}

// ReadSequence decodes buf as a single SEQUENCE TLV spanning the whole
// slice and returns its content bytes.
func ReadSequence(buf []byte) ([]byte, error) {
	return readTagged(buf, 0x30)
}

// ReadSet decodes buf as a single SET TLV spanning the whole slice and
// returns its content bytes.
func ReadSet(buf []byte) ([]byte, error) {
	return readTagged(buf, 0x31)
}

func readTagged(buf []byte, wantTag byte) ([]byte, error) {
	tlv, err := ReadTLV(buf, 0)
	if err != nil {
		return nil, err
	}
	if tlv.Tag != wantTag {
		return nil, fmt.Errorf("%w: expected tag 0x%02x, got 0x%02x", ErrMalformed, wantTag, tlv.Tag)
	}
	return tlv.Content, nil
}

// ReadOID decodes buf as a single OBJECT IDENTIFIER TLV and returns its
// dotted-decimal string form (e.g. "1.2.840.113549.1.7.2").
func ReadOID(buf []byte) (string, error) {
	content, err := readTagged(buf, 0x06)
	if err != nil {
		return "", err
	}
	return decodeOIDArcs(content)
}

func decodeOIDArcs(content []byte) (string, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("%w: empty OID", ErrMalformed)
	}
	arcs := []int{int(content[0]) / 40, int(content[0]) % 40}
	value := 0
	for _, b := range content[1:] {
		value = (value << 7) | int(b&0x7f)
		if b&0x80 == 0 {
			arcs = append(arcs, value)
			value = 0
		}
	}
	s := ""
	for i, a := range arcs {
		if i > 0 {
			s += "."
		}
		s += fmt.Sprintf("%d", a)
	}
	return s, nil
}
