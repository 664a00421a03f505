package merge

import (
	"fmt"
	"io"

	"github.com/srdedupe/srdedupe/pkg/model"
)

const risLineEnd = "\r\n"

// WriteRIS serializes merged records as an RIS bibliography, using CRLF
// line endings and a CRLF-terminated blank line between records — the
// convention SPEC_FULL.md §6 requires for every *.ris output artifact
// (deduped_auto.ris, singletons.ris, review_pending.ris).
func WriteRIS(w io.Writer, records []model.MergedRecord) error {
	for _, r := range records {
		if err := writeRISRecord(w, r.Canon); err != nil {
			return err
		}
	}
	return nil
}

// WriteRISCanonical serializes raw canonical records directly — used for
// review_pending.ris, where records are exported before any merge has
// happened.
func WriteRISCanonical(w io.Writer, records []*model.CanonicalRecord) error {
	for _, r := range records {
		if err := writeRISRecord(w, r.Canon); err != nil {
			return err
		}
	}
	return nil
}

func writeRISRecord(w io.Writer, c model.Canon) error {
	line := func(tag, value string) error {
		if value == "" {
			return nil
		}
		_, err := fmt.Fprintf(w, "%s  - %s%s", tag, value, risLineEnd)
		return err
	}

	if _, err := fmt.Fprintf(w, "TY  - JOUR%s", risLineEnd); err != nil {
		return err
	}
	if err := line("TI", derefStr(c.TitleRaw)); err != nil {
		return err
	}
	for _, a := range c.AuthorsParsed {
		name := a.Family
		switch {
		case a.Given != "":
			name += ", " + a.Given
		case a.Initials != "":
			name += ", " + a.Initials
		}
		if err := line("AU", name); err != nil {
			return err
		}
	}
	if c.YearNorm != nil {
		if err := line("PY", fmt.Sprintf("%d", *c.YearNorm)); err != nil {
			return err
		}
	}
	if err := line("JO", derefStr(c.JournalFull)); err != nil {
		return err
	}
	if err := line("VL", derefStr(c.Volume)); err != nil {
		return err
	}
	if err := line("IS", derefStr(c.Issue)); err != nil {
		return err
	}
	if err := line("SP", derefStr(c.PageFirst)); err != nil {
		return err
	}
	if err := line("EP", derefStr(c.PageLast)); err != nil {
		return err
	}
	if err := line("DO", derefStr(c.DOINorm)); err != nil {
		return err
	}
	if err := line("AB", derefStr(c.AbstractRaw)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "ER  - %s%s", risLineEnd, risLineEnd); err != nil {
		return err
	}
	return nil
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
