package pdfscan

import (
	"fmt"
	"regexp"
	"strconv"
)

// PageInfo is the raw dict body of the resolved first page object, plus any
// /Annots references it already carries (kept verbatim, textual "N G R").
type PageInfo struct {
	ObjNum            int
	DictContent       []byte
	ExistingAnnotRefs []string
}

// AcroFormInfo reports whether the catalog already has an /AcroForm entry
// and, if so, its /Fields references, which are carried over into the new
// AcroForm. The entry itself is stripped separately by RemoveAcroForm.
type AcroFormInfo struct {
	Present           bool
	ExistingFieldRefs []string
}

var (
	pagesRe = regexp.MustCompile(`/Pages\s+(\d+)\s+\d+\s+R`)
	kidsRe  = regexp.MustCompile(`/Kids\s*\[([^\]]*)\]`)
)

// FindFirstPageObjNum resolves Root -> Pages -> Kids[0] and returns the
// object number of the first page.
func FindFirstPageObjNum(buf []byte, rootObjNum int) (int, error) {
	rootDict, err := FindObjectDict(buf, rootObjNum)
	if err != nil {
		return 0, fmt.Errorf("%w: root object %d: %v", ErrFirstPageNotFound, rootObjNum, err)
	}
	rootText := Latin1Text(rootDict)

	pm := pagesRe.FindStringSubmatch(rootText)
	if pm == nil {
		return 0, fmt.Errorf("%w: /Pages not found in root", ErrFirstPageNotFound)
	}
	pagesObjNum, _ := strconv.Atoi(pm[1])

	pagesDict, err := FindObjectDict(buf, pagesObjNum)
	if err != nil {
		return 0, fmt.Errorf("%w: pages object %d: %v", ErrFirstPageNotFound, pagesObjNum, err)
	}
	pagesText := Latin1Text(pagesDict)

	km := kidsRe.FindStringSubmatch(pagesText)
	if km == nil {
		return 0, fmt.Errorf("%w: /Kids not found in pages", ErrFirstPageNotFound)
	}
	kidRefs := FindRefs(km[1])
	if len(kidRefs) == 0 {
		return 0, fmt.Errorf("%w: /Kids array is empty", ErrFirstPageNotFound)
	}
	firstKidObjNum, err := parseRefObjNum(kidRefs[0])
	if err != nil {
		return 0, fmt.Errorf("%w: malformed first kid ref %q", ErrFirstPageNotFound, kidRefs[0])
	}
	return firstKidObjNum, nil
}

var annotsRe = regexp.MustCompile(`/Annots\s*\[([^\]]*)\]`)

// ReadPageInfo returns the raw dict body (verbatim, so non-standard keys
// round-trip) and the list of pre-existing /Annots references of the page
// object pageObjNum.
func ReadPageInfo(buf []byte, pageObjNum int) (PageInfo, error) {
	dict, err := FindObjectDict(buf, pageObjNum)
	if err != nil {
		return PageInfo{}, fmt.Errorf("%w: %v", ErrPageInfoNotFound, err)
	}

	var annots []string
	if am := annotsRe.FindStringSubmatch(Latin1Text(dict)); am != nil {
		annots = FindRefs(am[1])
	}

	return PageInfo{
		ObjNum:            pageObjNum,
		DictContent:       dict,
		ExistingAnnotRefs: annots,
	}, nil
}

var acroFormInlineRe = regexp.MustCompile(`/AcroForm\s*<<`)
var acroFormIndirectRe = regexp.MustCompile(`/AcroForm\s+\d+\s+\d+\s+R`)
var fieldsRe = regexp.MustCompile(`/Fields\s*\[([^\]]*)\]`)

// ReadAcroForm inspects the catalog dict body (as returned by
// FindObjectDict for the root object) for an existing /AcroForm entry,
// either an inline dictionary or an indirect reference. For the inline
// form it also extracts any existing /Fields refs so they can be carried
// over into the new AcroForm this engine writes.
func ReadAcroForm(buf []byte, catalogDict []byte) (AcroFormInfo, error) {
	text := Latin1Text(catalogDict)

	if loc := acroFormInlineRe.FindStringIndex(text); loc != nil {
		body := extractBalancedDict(text[loc[1]-2:])
		var fields []string
		if fm := fieldsRe.FindStringSubmatch(body); fm != nil {
			fields = FindRefs(fm[1])
		}
		return AcroFormInfo{Present: true, ExistingFieldRefs: fields}, nil
	}

	if loc := acroFormIndirectRe.FindStringIndex(text); loc != nil {
		m := regexp.MustCompile(`/AcroForm\s+(\d+)\s+\d+\s+R`).FindStringSubmatch(text[loc[0]:loc[1]])
		objNum, _ := strconv.Atoi(m[1])
		dict, err := FindObjectDict(buf, objNum)
		if err != nil {
			return AcroFormInfo{}, fmt.Errorf("pdfscan: cannot resolve indirect /AcroForm: %w", err)
		}
		var fields []string
		if fm := fieldsRe.FindStringSubmatch(Latin1Text(dict)); fm != nil {
			fields = FindRefs(fm[1])
		}
		return AcroFormInfo{Present: true, ExistingFieldRefs: fields}, nil
	}

	return AcroFormInfo{Present: false}, nil
}

// RemoveAcroForm strips any pre-existing /AcroForm entry (inline or
// indirect) from a catalog dict body, leaving the rest of the dict intact.
func RemoveAcroForm(catalogDict string) string {
	if loc := acroFormIndirectRe.FindStringIndex(catalogDict); loc != nil {
		return catalogDict[:loc[0]] + catalogDict[loc[1]:]
	}
	if loc := acroFormInlineRe.FindStringIndex(catalogDict); loc != nil {
		inner := extractBalancedDict(catalogDict[loc[1]-2:])
		// loc[1]-2 is the position of the "<<"; the matched dict runs
		// from there through its closing ">>".
		end := loc[1] - 2 + 2 + len(inner) + 2
		return catalogDict[:loc[0]] + catalogDict[end:]
	}
	return catalogDict
}

var annotsFullRe = regexp.MustCompile(`/Annots\s*\[[^\]]*\]`)

// RemoveAnnots strips a pre-existing /Annots array from a page dict body.
func RemoveAnnots(pageDict string) string {
	if loc := annotsFullRe.FindStringIndex(pageDict); loc != nil {
		return pageDict[:loc[0]] + pageDict[loc[1]:]
	}
	return pageDict
}
