package pdfscan

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
)

// TrailerInfo is the minimal set of trailer facts the incremental-update
// builder needs: the catalog object number, the declared /Size, and the
// byte offset of the previous xref section (for the new trailer's /Prev).
type TrailerInfo struct {
	RootObjNum    int
	Size          int
	PrevStartXref int64
}

var (
	startxrefRe = regexp.MustCompile(`startxref\s+(\d+)`)
	trailerRe   = regexp.MustCompile(`trailer\s*(<<.*)`)
	rootRe      = regexp.MustCompile(`/Root\s+(\d+)\s+\d+\s+R`)
	sizeRe      = regexp.MustCompile(`/Size\s+(\d+)`)
)

// ParseTrailer parses the trailer preceding eofPos (the offset returned by
// FindEOF). It first looks for a classic "trailer <<...>>" dictionary; if
// none precedes startxref, it falls back to treating the referenced offset
// as an xref-stream object and reads its dictionary instead.
func ParseTrailer(buf []byte, eofPos int) (TrailerInfo, error) {
	window := buf[:eofPos]
	text := Latin1Text(window)

	sxMatches := startxrefRe.FindAllStringSubmatchIndex(text, -1)
	if len(sxMatches) == 0 {
		return TrailerInfo{}, fmt.Errorf("%w: startxref not found", ErrCannotParseTrailer)
	}
	last := sxMatches[len(sxMatches)-1]
	prevStartXref, err := strconv.ParseInt(text[last[2]:last[3]], 10, 64)
	if err != nil {
		return TrailerInfo{}, fmt.Errorf("%w: invalid startxref value: %v", ErrCannotParseTrailer, err)
	}

	startxrefKeywordPos := last[0]
	trailerSearchSpace := text[:startxrefKeywordPos]

	if tms := trailerRe.FindAllStringSubmatchIndex(trailerSearchSpace, -1); tms != nil {
		tm := tms[len(tms)-1]
		body := extractBalancedDict(trailerSearchSpace[tm[2]:])
		return parseTrailerFields(body, prevStartXref)
	}

	// Fall back to reading the xref-stream object's dictionary directly.
	streamWindow := buf[prevStartXref:]
	if len(streamWindow) > 2000 {
		streamWindow = streamWindow[:2000]
	}
	dictStart := bytes.Index(streamWindow, []byte("<<"))
	if dictStart == -1 {
		return TrailerInfo{}, fmt.Errorf("%w: no xref-stream dictionary at offset %d", ErrCannotParseTrailer, prevStartXref)
	}
	body := Latin1Text(streamWindow[dictStart:])
	return parseTrailerFields(body, prevStartXref)
}

func parseTrailerFields(body string, prevStartXref int64) (TrailerInfo, error) {
	rm := rootRe.FindStringSubmatch(body)
	if rm == nil {
		return TrailerInfo{}, fmt.Errorf("%w: /Root not found", ErrCannotParseTrailer)
	}
	rootObjNum, _ := strconv.Atoi(rm[1])

	sm := sizeRe.FindStringSubmatch(body)
	if sm == nil {
		return TrailerInfo{}, fmt.Errorf("%w: /Size not found", ErrCannotParseTrailer)
	}
	size, _ := strconv.Atoi(sm[1])

	return TrailerInfo{
		RootObjNum:    rootObjNum,
		Size:          size,
		PrevStartXref: prevStartXref,
	}, nil
}

// extractBalancedDict returns the substring of s strictly between its first
// "<<" and the matching ">>" (neither delimiter included), tracking nesting
// depth.
func extractBalancedDict(s string) string {
	open := indexString(s, "<<")
	if open == -1 {
		return s
	}
	depth := 1
	i := open + 2
	for i < len(s) {
		if i+1 < len(s) && s[i] == '<' && s[i+1] == '<' {
			depth++
			i += 2
			continue
		}
		if i+1 < len(s) && s[i] == '>' && s[i+1] == '>' {
			depth--
			if depth == 0 {
				return s[open+2 : i]
			}
			i += 2
			continue
		}
		i++
	}
	return s[open+2:]
}

func indexString(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

