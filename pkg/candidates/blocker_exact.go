package candidates

import "github.com/srdedupe/srdedupe/pkg/model"

// DOIExactBlocker blocks records sharing an identical normalized DOI.
type DOIExactBlocker struct{}

func NewDOIExactBlocker() *DOIExactBlocker { return &DOIExactBlocker{} }

func (b *DOIExactBlocker) Name() string     { return "doi" }
func (b *DOIExactBlocker) MatchKey() string { return "doi_exact" }
func (b *DOIExactBlocker) BlockKeys(r *model.CanonicalRecord) []string {
	if r.Canon.DOINorm == nil || *r.Canon.DOINorm == "" {
		return nil
	}
	return []string{*r.Canon.DOINorm}
}

// PMIDExactBlocker blocks records sharing an identical normalized PMID.
type PMIDExactBlocker struct{}

func NewPMIDExactBlocker() *PMIDExactBlocker { return &PMIDExactBlocker{} }

func (b *PMIDExactBlocker) Name() string     { return "pmid" }
func (b *PMIDExactBlocker) MatchKey() string { return "pmid_exact" }
func (b *PMIDExactBlocker) BlockKeys(r *model.CanonicalRecord) []string {
	if r.Canon.PMIDNorm == nil || *r.Canon.PMIDNorm == "" {
		return nil
	}
	return []string{*r.Canon.PMIDNorm}
}
