package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srdedupe/srdedupe/pkg/model"
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func testModel() *FSModel {
	m, err := LoadFSModel("../../models/fs_v1.json", "../../models/fs_schema.json")
	if err != nil {
		panic(err)
	}
	return m
}

func TestLoadFSModelValidatesAndIndexes(t *testing.T) {
	m := testModel()
	assert.Equal(t, "fs_v1", m.Version)
	w, ok := m.Weight("doi", "exact")
	require.True(t, ok)
	assert.Greater(t, w, 0.0)
}

func TestScoreIdenticalDOIIsStronglyPositive(t *testing.T) {
	m := testModel()
	s := NewScorer(m)
	a := &model.CanonicalRecord{RID: "r1"}
	a.Canon.DOINorm = strp("10.1/x")
	b := &model.CanonicalRecord{RID: "r2"}
	b.Canon.DOINorm = strp("10.1/x")

	score := s.Score("r1|r2", a, b)
	assert.Greater(t, score.PMatch, 0.5)
	assert.Greater(t, score.LLR, 0.0)
}

func TestScoreConflictingDOIIsStronglyNegative(t *testing.T) {
	m := testModel()
	s := NewScorer(m)
	a := &model.CanonicalRecord{RID: "r1"}
	a.Canon.DOINorm = strp("10.1/x")
	b := &model.CanonicalRecord{RID: "r2"}
	b.Canon.DOINorm = strp("10.1/y")

	score := s.Score("r1|r2", a, b)
	assert.Less(t, score.PMatch, 0.5)
	assert.Contains(t, score.Warnings, "both_present_id_conflicts")
}

func TestCompareTitleTruncatedDowngradesLevel(t *testing.T) {
	m := testModel()
	title := "deep learning for structured prediction"
	a := &model.CanonicalRecord{RID: "r1"}
	a.Canon.TitleNormBasic = strp(title)
	a.Keys.TitleShingles = []string{"deep", "learning", "for", "structured", "prediction"}
	b := &model.CanonicalRecord{RID: "r2"}
	b.Canon.TitleNormBasic = strp(title)
	b.Keys.TitleShingles = a.Keys.TitleShingles
	b.Flags.TitleTruncated = true

	fc, warn := compareTitle(a, b, m)
	assert.Equal(t, "medium", fc.Level)
	assert.Equal(t, "title_truncated", warn)
}

func TestCompareAuthorsStrongViaFirstAuthorSig(t *testing.T) {
	m := testModel()
	a := &model.CanonicalRecord{RID: "r1"}
	a.Canon.FirstAuthorSig = strp("smith_j")
	b := &model.CanonicalRecord{RID: "r2"}
	b.Canon.FirstAuthorSig = strp("smith_j")

	fc, _ := compareAuthors(a, b, m)
	assert.Equal(t, "strong", fc.Level)
}

func TestCompareYearLevels(t *testing.T) {
	m := testModel()
	mk := func(y int) *model.CanonicalRecord {
		r := &model.CanonicalRecord{}
		r.Canon.YearNorm = intp(y)
		return r
	}
	assert.Equal(t, "exact", compareYear(mk(2020), mk(2020), m).Level)
	assert.Equal(t, "pm1", compareYear(mk(2020), mk(2021), m).Level)
	assert.Equal(t, "pm2", compareYear(mk(2020), mk(2022), m).Level)
	assert.Equal(t, "far", compareYear(mk(2020), mk(2025), m).Level)
}

func TestComparePagesUnreliableShortCircuits(t *testing.T) {
	m := testModel()
	a := &model.CanonicalRecord{}
	a.Canon.PageFirst = strp("100")
	a.Flags.PagesUnreliable = true
	b := &model.CanonicalRecord{}
	b.Canon.PageFirst = strp("999")

	fc, warn := comparePages(a, b, m)
	assert.Equal(t, "unreliable", fc.Level)
	assert.Equal(t, "pages_unreliable", warn)
}

func TestComparePagesCompatibleWhenFirstPageMatchesButLastDoesNot(t *testing.T) {
	m := testModel()
	a := &model.CanonicalRecord{}
	a.Canon.PageFirst, a.Canon.PageLast = strp("100"), strp("105")
	b := &model.CanonicalRecord{}
	b.Canon.PageFirst, b.Canon.PageLast = strp("100"), strp("110")

	fc, _ := comparePages(a, b, m)
	assert.Equal(t, "compatible", fc.Level)
}

func TestTopContributionsOrderedByAbsWeightThenField(t *testing.T) {
	m := testModel()
	comparisons := []model.FieldComparison{
		{Field: "journal", Weight: 1.2},
		{Field: "doi", Weight: 6.5},
		{Field: "year", Weight: -2.0},
		{Field: "pages", Weight: -2.0},
	}
	top := topContributions(comparisons, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "doi", top[0].Field)
	assert.Equal(t, "pages", top[1].Field)
	assert.Equal(t, "year", top[2].Field)
	_ = m
}
