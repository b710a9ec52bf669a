// Package pdfbuild implements the incremental-update builder described in
// spec §4.4-§4.5: it appends a new revision to an existing PDF containing a
// signature placeholder, a signature field widget, and the page/catalog
// objects those new objects need to be reachable from, then rewrites the
// ByteRange and hashes the result. It never touches bytes before
// appendOffset; every pre-existing object is shadowed, never edited in
// place.
package pdfbuild

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/padeskit/pades/internal/pdfscan"
)

var (
	ErrByteRangePlaceholderNotFound = errors.New("pdfbuild: /ByteRange placeholder not found")
	ErrContentsPlaceholderNotFound  = errors.New("pdfbuild: /Contents placeholder not found")
	ErrInvalidByteRange             = errors.New("pdfbuild: invalid byte range")
)

// ErrCmsTooLarge reports that a CMS signature's hex encoding would overflow
// the reserved /Contents placeholder (spec §6.1's CmsSignatureTooLarge(actual,
// max)).
type ErrCmsTooLarge struct {
	ActualHexLen int
	MaxHexLen    int
}

func (e *ErrCmsTooLarge) Error() string {
	return fmt.Sprintf("pdfbuild: cms signature too large: %d hex bytes > %d max", e.ActualHexLen, e.MaxHexLen)
}

// Metadata carries the three free-text fields written into the signature
// dictionary (spec §6.1's SignatureMetadata), plus the supplemented
// CertType/DocMDPPerm fields (SPEC_FULL §4). CertType defaults to
// ApprovalSignature, which reproduces spec.md's core signature dictionary
// unchanged.
type Metadata struct {
	Reason      string
	Location    string
	ContactInfo string
	CertType    CertType
	DocMDPPerm  DocMDPPerm
}

// Update is the result of Build: the appended bytes plus the offsets later
// stages need to substitute the ByteRange and embed the CMS signature.
type Update struct {
	Appended                   []byte
	AppendOffset               int
	SigObjNum                  int
	FieldObjNum                int
	ByteRangePlaceholderOffset int // absolute offset of the '[' in the ByteRange placeholder
	ContentsHexOffset          int // absolute offset of the '<' opening the Contents hex string
}

// ContentsGap reports the half-open byte range [start, end) of the
// /Contents hex string including its angle brackets, i.e. the "gap" the
// ByteRange must exclude (spec §3's ByteRange invariant).
func (u Update) ContentsGap() (start, end int) {
	start = u.ContentsHexOffset
	end = start + 1 + 2*PlaceholderSize + 1
	return start, end
}

var fieldNameRe = regexp.MustCompile(`/T\s*\(Signature(\d+)\)`)

// uniqueFieldName finds the smallest positive K such that "SignatureK" does
// not occur as a /T literal anywhere in buf (spec §4.4, invariant P8).
func uniqueFieldName(buf []byte) string {
	used := map[int]bool{}
	for _, m := range fieldNameRe.FindAllSubmatch(buf, -1) {
		n := 0
		for _, c := range m[1] {
			n = n*10 + int(c-'0')
		}
		used[n] = true
	}
	k := 1
	for used[k] {
		k++
	}
	return fmt.Sprintf("Signature%d", k)
}

// Build appends one incremental-update section to original implementing the
// four new/shadowed objects of spec §4.4, in exact file order: signature
// placeholder, widget field, updated page, updated catalog.
func Build(original []byte, trailer pdfscan.TrailerInfo, meta Metadata, signedAt time.Time) (Update, error) {
	pageObjNum, err := pdfscan.FindFirstPageObjNum(original, trailer.RootObjNum)
	if err != nil {
		return Update{}, err
	}
	pageInfo, err := pdfscan.ReadPageInfo(original, pageObjNum)
	if err != nil {
		return Update{}, err
	}
	catalogDict, err := pdfscan.FindObjectDict(original, trailer.RootObjNum)
	if err != nil {
		return Update{}, fmt.Errorf("pdfbuild: cannot read root catalog: %w", err)
	}
	acroForm, err := pdfscan.ReadAcroForm(original, catalogDict)
	if err != nil {
		return Update{}, err
	}

	sigObjNum := trailer.Size
	fieldObjNum := trailer.Size + 1
	newSize := trailer.Size + 2
	fieldName := uniqueFieldName(original)

	appendOffset := len(original)
	var out bytes.Buffer
	offsets := map[int]int{}

	// 1. Signature value object.
	offsets[sigObjNum] = appendOffset + out.Len()
	fmt.Fprintf(&out, "%d 0 obj\n<< /Type /Sig /Filter /Adobe.PPKLite /SubFilter /ETSI.CAdES.detached /ByteRange ", sigObjNum)
	byteRangeOffsetRel := out.Len()
	out.WriteString(byteRangePlaceholder)
	out.WriteString(" /Contents ")
	contentsOffsetRel := out.Len()
	out.WriteByte('<')
	out.WriteString(ContentsPlaceholderHex)
	out.WriteByte('>')
	out.WriteString(referenceDict(meta.CertType, meta.DocMDPPerm))
	fmt.Fprintf(&out, " /Reason %s /Location %s /ContactInfo %s /M %s >>\nendobj\n",
		EscapeString(meta.Reason), EscapeString(meta.Location), EscapeString(meta.ContactInfo), FormatDateTime(signedAt))

	// 2. Widget + SigField object.
	offsets[fieldObjNum] = appendOffset + out.Len()
	fmt.Fprintf(&out, "%d 0 obj\n<< /Type /Annot /Subtype /Widget /FT /Sig /T (%s) /V %d 0 R /Rect [0 0 0 0] /F 132 /P %d 0 R >>\nendobj\n",
		fieldObjNum, fieldName, sigObjNum, pageObjNum)

	// 3. Updated page object.
	offsets[pageObjNum] = appendOffset + out.Len()
	pageBody := pdfscan.RemoveAnnots(pdfscan.Latin1Text(pageInfo.DictContent))
	allAnnots := append(append([]string{}, pageInfo.ExistingAnnotRefs...), fmt.Sprintf("%d 0 R", fieldObjNum))
	fmt.Fprintf(&out, "%d 0 obj\n<<%s /Annots [%s] >>\nendobj\n",
		pageObjNum, string(pdfscan.Latin1Bytes(pageBody)), joinRefs(allAnnots))

	// 4. Updated catalog object.
	offsets[trailer.RootObjNum] = appendOffset + out.Len()
	catalogBody := pdfscan.RemoveAcroForm(pdfscan.Latin1Text(catalogDict))
	allFields := append(append([]string{}, acroForm.ExistingFieldRefs...), fmt.Sprintf("%d 0 R", fieldObjNum))
	fmt.Fprintf(&out, "%d 0 obj\n<<%s /AcroForm << /Fields [%s] /SigFlags 3 >>%s >>\nendobj\n",
		trailer.RootObjNum, string(pdfscan.Latin1Bytes(catalogBody)), joinRefs(allFields), permsDict(meta.CertType, sigObjNum))

	xrefOffsetRel := out.Len()
	writeXref(&out, offsets)

	fmt.Fprintf(&out, "trailer\n<< /Size %d /Root %d 0 R /Prev %d >>\nstartxref\n%d\n%%%%EOF\n",
		newSize, trailer.RootObjNum, trailer.PrevStartXref, appendOffset+xrefOffsetRel)

	return Update{
		Appended:                   out.Bytes(),
		AppendOffset:               appendOffset,
		SigObjNum:                  sigObjNum,
		FieldObjNum:                fieldObjNum,
		ByteRangePlaceholderOffset: appendOffset + byteRangeOffsetRel,
		ContentsHexOffset:          appendOffset + contentsOffsetRel,
	}, nil
}

func joinRefs(refs []string) string {
	var b bytes.Buffer
	for i, r := range refs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(r)
	}
	return b.String()
}

// writeXref emits one cross-reference subsection header per contiguous run
// of object numbers in offsets, sorted ascending (spec §4.4's
// "Ordering & tie-breaks").
func writeXref(out *bytes.Buffer, offsets map[int]int) {
	nums := make([]int, 0, len(offsets))
	for n := range offsets {
		nums = append(nums, n)
	}
	sort.Ints(nums)

	out.WriteString("xref\n")
	for i := 0; i < len(nums); {
		j := i + 1
		for j < len(nums) && nums[j] == nums[j-1]+1 {
			j++
		}
		run := nums[i:j]
		fmt.Fprintf(out, "%d %d\n", run[0], len(run))
		for _, n := range run {
			fmt.Fprintf(out, "%010d 00000 n \n", offsets[n])
		}
		i = j
	}
}

// Finalize concatenates the original bytes with the appended update,
// computes the ByteRange for the Contents gap within upd, substitutes it
// into the ByteRange placeholder, and returns the resulting buffer along
// with the SHA-256 digest to be signed.
func Finalize(original []byte, upd Update) (signed []byte, digest [32]byte, err error) {
	buf := make([]byte, 0, len(original)+len(upd.Appended))
	buf = append(buf, original...)
	buf = append(buf, upd.Appended...)

	gapStart, gapEnd := upd.ContentsGap()
	if gapEnd > len(buf) {
		return nil, [32]byte{}, fmt.Errorf("%w: gap end %d exceeds buffer length %d", ErrInvalidByteRange, gapEnd, len(buf))
	}
	br := ComputeByteRange(gapStart, gapEnd, len(buf))

	placeholderOff, err := pdfscan.FindMarker(buf, byteRangePlaceholder, upd.ByteRangePlaceholderOffset, PlaceholderSize)
	if err != nil {
		return nil, [32]byte{}, ErrByteRangePlaceholderNotFound
	}
	formatted := br.Format()
	copy(buf[placeholderOff:placeholderOff+len(formatted)], formatted)

	digest = br.HashDigest(buf)
	return buf, digest, nil
}

// EmbedSignature hex-encodes cmsDER, zero-pads it to the full Contents
// placeholder width, and writes it into the gap at contentsHexOffset. It
// fails if the encoded signature would overflow the reserved placeholder
// (spec §6.1's CmsSignatureTooLarge).
func EmbedSignature(buf []byte, contentsHexOffset int, cmsDER []byte) error {
	hexLen := len(cmsDER) * 2
	if hexLen > 2*PlaceholderSize {
		return &ErrCmsTooLarge{ActualHexLen: hexLen, MaxHexLen: 2 * PlaceholderSize}
	}
	gapStart := contentsHexOffset
	if gapStart >= len(buf) || buf[gapStart] != '<' {
		return ErrContentsPlaceholderNotFound
	}
	hexStart := gapStart + 1
	if hexStart+2*PlaceholderSize > len(buf) || string(buf[hexStart:hexStart+2*PlaceholderSize]) != ContentsPlaceholderHex {
		// Nothing left to overwrite: either this buffer was never prepared,
		// or completeExternalSigning already ran once (spec §7's mandated
		// idempotence failure).
		return ErrContentsPlaceholderNotFound
	}
	encoded := make([]byte, 2*PlaceholderSize)
	const hexDigits = "0123456789abcdef"
	for i, b := range cmsDER {
		encoded[i*2] = hexDigits[b>>4]
		encoded[i*2+1] = hexDigits[b&0x0f]
	}
	for i := hexLen; i < len(encoded); i++ {
		encoded[i] = '0'
	}
	copy(buf[hexStart:hexStart+len(encoded)], encoded)
	return nil
}
