// Package pdfscan implements the byte-level PDF scanner used to locate the
// trailer, catalog, and first page of an existing PDF without building a
// full object model — the contract described in spec §4.2-§4.3: search
// for known markers, extract dictionary bodies with a nesting-aware
// `<<`/`>>` walker, and use regexes only where they cannot be confused with
// nested structures.
//
// All offsets are byte offsets into the document buffer, never character
// indices — golang.org/x/text/encoding/charmap's ISO-8859-1 decoding is
// used only where we need a lossless text view for regex matching, never
// for measuring positions.
package pdfscan

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/text/encoding/charmap"
)

// EOFSearchWindow is the number of trailing bytes scanned for "%%EOF".
const EOFSearchWindow = 1024

var (
	ErrEOFNotFound       = errors.New("pdfscan: %%EOF not found")
	ErrObjectNotFound    = errors.New("pdfscan: object not found")
	ErrDictNotClosed     = errors.New("pdfscan: dictionary nesting never closed")
	ErrCannotParseTrailer = errors.New("pdfscan: cannot parse trailer")
	ErrFirstPageNotFound = errors.New("pdfscan: cannot find first page")
	ErrPageInfoNotFound  = errors.New("pdfscan: cannot read page info")
	ErrMarkerNotFound    = errors.New("pdfscan: marker not found")
)

// Latin1Text renders buf as ISO-8859-1 text for regex/substring matching.
// ISO-8859-1 maps every byte 0x00-0xFF to exactly one rune, so this is a
// lossless, allocation-cheap way to run text-oriented regexes over a byte
// buffer without ever touching the byte offsets we care about.
func Latin1Text(buf []byte) string {
	runes := make([]rune, len(buf))
	decoder := charmap.ISO8859_1
	for i, b := range buf {
		r, ok := decoder.DecodeByte(b)
		if !ok {
			r = rune(b)
		}
		runes[i] = r
	}
	return string(runes)
}

// Latin1Bytes reverses Latin1Text: each rune in s (which Latin1Text produced
// one-per-byte, in the 0-255 range) is written back as a single byte. Using
// range-over-string here is deliberate — Latin1Text's output is a Go string
// with multi-byte UTF-8 encoding for runes above 127, so byte-indexing it
// directly would be wrong.
func Latin1Bytes(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		out = append(out, byte(r))
	}
	return out
}

// FindEOF scans only the last EOFSearchWindow bytes of buf, backwards, for
// the literal "%%EOF" and returns the offset of its last byte + 1 (i.e. the
// position immediately after the marker).
func FindEOF(buf []byte) (int, error) {
	start := 0
	if len(buf) > EOFSearchWindow {
		start = len(buf) - EOFSearchWindow
	}
	window := buf[start:]
	idx := bytes.LastIndex(window, []byte("%%EOF"))
	if idx == -1 {
		return 0, ErrEOFNotFound
	}
	return start + idx + len("%%EOF"), nil
}

// objHeaderRe matches "N 0 obj" headers; the word-boundary rule (the
// character before the match is not a digit) is applied separately because
// Go's RE2 has no lookbehind.
var objHeaderRe = regexp.MustCompile(`(\d+)\s+0\s+obj\b`)

// FindObjectDict finds the LAST occurrence of "<objNum> 0 obj" in buf whose
// preceding character is not an ASCII digit (so a search for object 2 does
// not match inside "12 0 obj"), then walks forward with a `<<`/`>>` nesting
// counter to return the bytes strictly between the outermost `<<` and its
// matching `>>`.
//
// Matching the LAST occurrence is the behavior PAdES incremental updates
// depend on: a PDF that has already been through one incremental update
// redefines some objects, and only the last definition is the one that a
// standards-compliant reader (and Acrobat) will resolve to.
func FindObjectDict(buf []byte, objNum int) ([]byte, error) {
	header := fmt.Sprintf("%d 0 obj", objNum)
	searchFrom := len(buf)
	for {
		idx := bytes.LastIndex(buf[:searchFrom], []byte(header))
		if idx == -1 {
			return nil, fmt.Errorf("%w: object %d", ErrObjectNotFound, objNum)
		}
		if idx == 0 || !isASCIIDigit(buf[idx-1]) {
			return extractDictBody(buf, idx+len(header))
		}
		searchFrom = idx
	}
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// extractDictBody scans forward from off for the first "<<" and returns the
// bytes between it and its matching ">>", tracking nesting depth.
func extractDictBody(buf []byte, off int) ([]byte, error) {
	open := bytes.Index(buf[off:], []byte("<<"))
	if open == -1 {
		return nil, fmt.Errorf("%w: no dictionary after object header", ErrObjectNotFound)
	}
	bodyStart := off + open + 2
	depth := 1
	i := bodyStart
	for i < len(buf) {
		switch {
		case i+1 < len(buf) && buf[i] == '<' && buf[i+1] == '<':
			depth++
			i += 2
		case i+1 < len(buf) && buf[i] == '>' && buf[i+1] == '>':
			depth--
			if depth == 0 {
				return buf[bodyStart:i], nil
			}
			i += 2
		default:
			i++
		}
	}
	return nil, ErrDictNotClosed
}

// FindMarker searches for marker in the neighbourhood of a known offset:
// [off-100, off+placeholderSize*3), clamped to buf's bounds. It returns the
// absolute byte offset of the first match.
func FindMarker(buf []byte, marker string, off int, placeholderSize int) (int, error) {
	lo := off - 100
	if lo < 0 {
		lo = 0
	}
	hi := off + placeholderSize*3
	if hi > len(buf) {
		hi = len(buf)
	}
	idx := bytes.Index(buf[lo:hi], []byte(marker))
	if idx == -1 {
		return 0, fmt.Errorf("%w: %q near offset %d", ErrMarkerNotFound, marker, off)
	}
	return lo + idx, nil
}

// FindMarkerWide searches the entire buffer for marker. It is used only by
// the external-signing completion path, which no longer has a nearby
// offset to anchor the search to.
func FindMarkerWide(buf []byte, marker string) (int, error) {
	idx := bytes.Index(buf, []byte(marker))
	if idx == -1 {
		return 0, fmt.Errorf("%w: %q", ErrMarkerNotFound, marker)
	}
	return idx, nil
}

// refRe matches a single "N G R" indirect reference.
var refRe = regexp.MustCompile(`\d+\s+\d+\s+R`)

// FindRefs extracts every "N G R" indirect reference occurring in s, in
// order, implementing the `/Key\s+\d+\s+\d+\s+R` family of extractions
// spec §9 describes.
func FindRefs(s string) []string {
	return refRe.FindAllString(s, -1)
}

var refObjNumRe = regexp.MustCompile(`^(\d+)\s+\d+\s+R$`)

// parseRefObjNum extracts the object number from a single "N G R" ref.
func parseRefObjNum(ref string) (int, error) {
	m := refObjNumRe.FindStringSubmatch(ref)
	if m == nil {
		return 0, fmt.Errorf("%w: not an indirect reference: %q", ErrObjectNotFound, ref)
	}
	n := 0
	for _, c := range m[1] {
		n = n*10 + int(c-'0')
	}
	return n, nil
}
