package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/srdedupe/srdedupe/pkg/model"
)

func risRecord(tags []model.RawTag) model.CanonicalRecord {
	return model.CanonicalRecord{
		SchemaVersion: "1.0.0",
		Meta:          model.Meta{SourceFormat: "ris"},
		Raw:           model.Raw{Tags: tags},
	}
}

func tag(name, value string) model.RawTag {
	return model.RawTag{Tag: name, ValueRawJoined: value}
}

func TestNormalizeDOI(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"bare", "10.1000/xyz123", "10.1000/xyz123"},
		{"nbib suffix", "10.1000/xyz123 [doi]", "10.1000/xyz123"},
		{"url form", "https://doi.org/10.1000/XYZ123", "10.1000/xyz123"},
		{"prefixed", "doi:10.1000/xyz123", "10.1000/xyz123"},
		{"trailing punct", "10.1000/xyz123.", "10.1000/xyz123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := risRecord([]model.RawTag{tag("DO", tc.raw)})
			out := Normalize(rec)
			require.NotNil(t, out.Canon.DOINorm)
			require.Equal(t, tc.want, *out.Canon.DOINorm)
			require.Equal(t, "https://doi.org/"+tc.want, *out.Canon.DOIURL)
		})
	}
}

func TestNormalizeTitleAndKeys(t *testing.T) {
	rec := risRecord([]model.RawTag{tag("TI", "The Quick, Brown Fox!")})
	out := Normalize(rec)
	require.Equal(t, "the quick brown fox", *out.Canon.TitleNormBasic)
	require.Equal(t, *out.Canon.TitleNormBasic, *out.Keys.TitleKeyStrict)
	require.Contains(t, out.Keys.TitleShingles, "quick")
	require.Contains(t, out.Keys.TitleShingles, "quick brown")
}

func TestNormalizeAuthorsCommaForm(t *testing.T) {
	rec := risRecord([]model.RawTag{tag("AU", "Smith, John A."), tag("AU", "Doe, Jane")})
	out := Normalize(rec)
	require.Len(t, out.Canon.AuthorsParsed, 2)
	require.Equal(t, "Smith", out.Canon.AuthorsParsed[0].Family)
	require.Equal(t, "JA", out.Canon.AuthorsParsed[0].Initials)
	require.NotNil(t, out.Canon.FirstAuthorSig)
	require.Equal(t, "smith|JA", *out.Canon.FirstAuthorSig)
}

func TestNormalizeAuthorsBibtexAndSeparated(t *testing.T) {
	rec := risRecord([]model.RawTag{tag("author", "John Smith and Jane Doe")})
	rec.Meta.SourceFormat = "bibtex"
	out := Normalize(rec)
	require.Len(t, out.Canon.AuthorsParsed, 2)
	require.Equal(t, "Smith", out.Canon.AuthorsParsed[0].Family)
	require.Equal(t, "Doe", out.Canon.AuthorsParsed[1].Family)
}

func TestNormalizeYearFirstMatchingTagWins(t *testing.T) {
	rec := risRecord([]model.RawTag{tag("DA", "1999"), tag("PY", "2001")})
	out := Normalize(rec)
	require.NotNil(t, out.Canon.YearNorm)
	require.Equal(t, 1999, *out.Canon.YearNorm)
}

func TestNormalizePagesElocator(t *testing.T) {
	rec := risRecord([]model.RawTag{tag("SP", "e12345")})
	out := Normalize(rec)
	require.True(t, out.Flags.PagesUnreliable)
	require.NotNil(t, out.Canon.ArticleNumber)
	require.Equal(t, "e12345", *out.Canon.ArticleNumber)
	require.Nil(t, out.Canon.PageFirst)
}

func TestNormalizePagesRange(t *testing.T) {
	rec := risRecord([]model.RawTag{tag("SP", "100"), tag("EP", "110")})
	out := Normalize(rec)
	require.False(t, out.Flags.PagesUnreliable)
	require.Equal(t, "100-110", *out.Canon.PagesNormLong)
}

func TestNormalizeFlagsErratum(t *testing.T) {
	rec := risRecord([]model.RawTag{tag("TI", "Erratum: something went wrong")})
	out := Normalize(rec)
	require.True(t, out.Flags.IsErratum)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	rec := risRecord([]model.RawTag{
		tag("TI", "A Study of Things"), tag("AU", "Smith, John"),
		tag("PY", "2020"), tag("DO", "10.1/abc"),
	})
	once := Normalize(rec)
	twice := Normalize(once)
	require.Equal(t, once.Canon, twice.Canon)
	require.Equal(t, once.Keys, twice.Keys)
	require.Equal(t, once.Flags, twice.Flags)
}
