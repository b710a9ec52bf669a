// Package verify implements the read-only half of spec §4.8: locate every
// /Type /Sig dictionary in a PDF, recompute its ByteRange digest, and
// compare it against the CMS messageDigest signed attribute. It never
// builds a full object model — the same byte-scanning discipline
// internal/pdfscan/internal/pdfbuild use for writing is used here for
// reading.
package verify

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/padeskit/pades/internal/cms"
	"github.com/padeskit/pades/internal/pdfbuild"
	"github.com/padeskit/pades/internal/pdfscan"
)

var sigTypeRe = regexp.MustCompile(`/Type\s*/Sig\b`)
var byteRangeRe = regexp.MustCompile(`/ByteRange\s*\[\s*(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s*\]`)
var contentsRe = regexp.MustCompile(`/Contents\s*<([0-9a-fA-F\s]*)>`)
var timestampRe = regexp.MustCompile(`/M\s*\(([^()]*)\)`)

// windowSpan bounds how far past a /Type /Sig match to look for its
// /ByteRange, /Contents, /Reason and /M — generous enough to cover the
// full Contents hex gap plus the handful of metadata keys that follow it.
const windowSpan = 2*pdfbuild.PlaceholderSize + 4096

// VerifySignatures scans pdfBytes for every signature dictionary and
// reports, for each, whether its embedded digest matches a fresh
// recomputation over its declared ByteRange.
func VerifySignatures(pdfBytes []byte) ([]SignatureInfo, error) {
	text := pdfscan.Latin1Text(pdfBytes)

	var out []SignatureInfo
	for _, loc := range sigTypeRe.FindAllStringIndex(text, -1) {
		start := loc[0]
		end := start + windowSpan
		if end > len(text) {
			end = len(text)
		}
		window := text[start:end]

		info, err := inspectSignature(pdfBytes, text, start, window)
		if err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, nil
}

func inspectSignature(pdfBytes []byte, fullText string, windowStart int, window string) (SignatureInfo, error) {
	brMatch := byteRangeRe.FindStringSubmatch(window)
	if brMatch == nil {
		return SignatureInfo{}, ErrByteRangeNotFound
	}
	a, erra := strconv.Atoi(brMatch[1])
	b, errb := strconv.Atoi(brMatch[2])
	c, errc := strconv.Atoi(brMatch[3])
	d, errd := strconv.Atoi(brMatch[4])
	if erra != nil || errb != nil || errc != nil || errd != nil {
		return SignatureInfo{}, ErrInvalidByteRange
	}
	if a+b > len(pdfBytes) || c+d > len(pdfBytes) || c < a+b {
		return SignatureInfo{}, ErrInvalidByteRange
	}

	cMatch := contentsRe.FindStringSubmatch(window)
	if cMatch == nil {
		return SignatureInfo{}, ErrContentsNotFound
	}
	hexStr := strings.Join(strings.Fields(cMatch[1]), "")
	cmsDER, err := hex.DecodeString(hexStr)
	if err != nil {
		return SignatureInfo{}, fmt.Errorf("verify: malformed /Contents hex: %w", err)
	}
	if len(cmsDER) <= 100 {
		return SignatureInfo{}, ErrSignatureTooSmall
	}

	h := sha256.New()
	h.Write(pdfBytes[a : a+b])
	h.Write(pdfBytes[c : c+d])
	recomputed := h.Sum(nil)

	embeddedDigest, err := cms.FindMessageDigest(cmsDER)
	valid := err == nil && bytes.Equal(embeddedDigest, recomputed)

	reason := extractReason(fullText, windowStart, windowStart+len(window))

	return SignatureInfo{
		SignerName: "Unknown",
		SignedAt:   extractTimestamp(window),
		Valid:      valid,
		Trusted:    false,
		Reason:     reason,
	}, nil
}

func extractTimestamp(window string) string {
	m := timestampRe.FindStringSubmatch(window)
	if m == nil {
		return ""
	}
	return m[1]
}

var reasonKeyRe = regexp.MustCompile(`/Reason\s*\(`)

// extractReason finds "/Reason (" within [from, to) of text and parses the
// balanced-paren, backslash-escaped string literal that follows, returning
// it unescaped (spec §8's invariant P9).
func extractReason(text string, from, to int) string {
	loc := reasonKeyRe.FindStringIndex(text[from:to])
	if loc == nil {
		return ""
	}
	openParen := from + loc[1] - 1
	content, _, ok := readParenString(text, openParen)
	if !ok {
		return ""
	}
	return pdfbuild.UnescapeString(content)
}

// readParenString parses a PDF string literal starting at the '(' found at
// off, tracking backslash escapes and paren nesting depth, and returns its
// raw (still-escaped) content plus the index just past the closing ')'.
func readParenString(text string, off int) (content string, end int, ok bool) {
	if off >= len(text) || text[off] != '(' {
		return "", 0, false
	}
	depth := 1
	i := off + 1
	start := i
	for i < len(text) {
		switch text[i] {
		case '\\':
			i += 2
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return text[start:i], i + 1, true
			}
		}
		i++
	}
	return "", 0, false
}
