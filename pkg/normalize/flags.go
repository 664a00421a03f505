package normalize

import (
	"strings"

	"github.com/srdedupe/srdedupe/pkg/model"
)

func isTitleTruncated(title string) bool {
	if strings.Contains(title, "...") || strings.HasSuffix(title, "…") || strings.HasSuffix(title, "[...]") {
		return true
	}
	return strings.Contains(strings.ToLower(title), "[truncated]")
}

func areAuthorsIncomplete(authors []model.Author) bool {
	if len(authors) == 0 {
		return false
	}
	missing := 0
	for _, a := range authors {
		if a.Family == "" {
			missing++
		}
	}
	return missing > len(authors)/2
}

func detectSpecialRecordType(titleRaw *string, publicationType []string) (isErratum, isRetraction, isCorrected bool) {
	for _, pt := range publicationType {
		folded := caseFolder.String(strings.TrimSpace(pt))
		if erratumPubTypes[folded] {
			isErratum = true
		}
		if retractionPubTypes[folded] {
			isRetraction = true
		}
		if correctedRepublishedPubTypes[folded] {
			isCorrected = true
		}
	}
	if titleRaw != nil {
		if !isErratum && erratumTitleRE.MatchString(*titleRaw) {
			isErratum = true
		}
		if !isRetraction && retractionTitleRE.MatchString(*titleRaw) {
			isRetraction = true
		}
	}
	return
}

// generateFlags ports normalize/flags.py::generate_flags.
func generateFlags(doiNorm, pmidNorm *string, titleRaw *string, authorsParsed []model.Author, yearNorm *int, pagesUnreliable bool, publicationType []string) model.Flags {
	var f model.Flags
	f.DOIPresent = doiNorm != nil
	f.PMIDPresent = pmidNorm != nil
	f.TitleMissing = titleRaw == nil || strings.TrimSpace(*titleRaw) == ""
	if !f.TitleMissing {
		f.TitleTruncated = isTitleTruncated(*titleRaw)
	}
	f.AuthorsMissing = len(authorsParsed) == 0
	f.AuthorsIncomplete = areAuthorsIncomplete(authorsParsed)
	f.YearMissing = yearNorm == nil
	f.PagesUnreliable = pagesUnreliable
	f.IsErratum, f.IsRetraction, f.IsCorrectedRepublished = detectSpecialRecordType(titleRaw, publicationType)
	f.HasLinkedCitation = false
	return f
}
