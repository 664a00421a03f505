package normalize

import "github.com/srdedupe/srdedupe/pkg/model"

func toRawTagViews(tags []model.RawTag) []RawTagView {
	out := make([]RawTagView, 0, len(tags))
	for i, t := range tags {
		out = append(out, RawTagView{Tag: t.Tag, Value: t.ValueRawJoined, Index: i})
	}
	return out
}

// Normalize is the pure CanonicalRecord -> CanonicalRecord transform
// described in SPEC_FULL.md §4.2. It is idempotent: calling Normalize on an
// already-normalized record reproduces the same canon/keys/flags/provenance.
func Normalize(record model.CanonicalRecord) model.CanonicalRecord {
	sourceFormat := record.Meta.SourceFormat
	rawTags := toRawTagViews(record.Raw.Tags)

	prov := map[string]model.ProvenanceEntry{}

	doi, doiProv := normalizeDOI(rawTags, sourceFormat)
	if doiProv != nil {
		prov["canon.doi_norm"] = *doiProv
	}

	pmid, pmidProv := normalizePMIDPMCID(rawTags, sourceFormat)
	for k, v := range pmidProv {
		prov[k] = v
	}

	title, titleProv := normalizeTitle(rawTags, sourceFormat)
	if titleProv != nil {
		prov["canon.title_norm_basic"] = *titleProv
	}

	authors, authorsProv := normalizeAuthors(rawTags, sourceFormat)
	for k, v := range authorsProv {
		prov[k] = v
	}

	year, yearProv := extractYear(rawTags, sourceFormat)
	if yearProv != nil {
		prov["canon.year_norm"] = *yearProv
	}

	journal, journalProv := normalizeJournal(rawTags, sourceFormat)
	if journalProv != nil {
		prov["canon.journal_norm"] = *journalProv
	}

	pages, pagesProv := normalizePages(rawTags, sourceFormat)
	if pagesProv != nil {
		prov["canon.pages_norm_long"] = *pagesProv
	}

	other := extractOtherFields(rawTags, sourceFormat)

	keys := generateKeys(title.normBasic, year.norm, authors.firstSig, journal.norm)
	flags := generateFlags(doi.norm, pmid.pmidNorm, title.raw, authors.parsed, year.norm, pages.unreliable, other.publicationType)

	canon := model.Canon{
		DOINorm: doi.norm, DOIURL: doi.url,
		PMIDNorm: pmid.pmidNorm, PMCID: pmid.pmcid,
		TitleRaw: title.raw, TitleNormBasic: title.normBasic,
		AuthorsRaw: authors.raw, AuthorsParsed: authors.parsed,
		FirstAuthorSig: authors.firstSig, AuthorSigStrict: authors.sigStrict, AuthorSigLoose: authors.sigLoose,
		YearNorm: year.norm, YearSource: year.source,
		JournalFull: journal.full, JournalAbbrev: journal.abbrev, JournalNorm: journal.norm,
		PagesRaw: pages.raw, PagesNormLong: pages.normLong, PageFirst: pages.first, PageLast: pages.last,
		ArticleNumber: pages.articleNumber,
		Volume: other.volume, Issue: other.issue,
		AbstractRaw: other.abstractRaw, AbstractNorm: other.abstractNorm,
		PublicationType: other.publicationType,
	}
	if other.language != nil {
		canon.Language = *other.language
	}

	out := record
	out.Canon = canon
	out.Keys = keys
	out.Flags = flags
	out.Provenance = prov
	return out
}
