package merge

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srdedupe/srdedupe/pkg/model"
)

func strp(s string) *string { return &s }
func intp(i int) *int       { return &i }

func TestChooseSurvivorPrefersDOIThenMoreComplete(t *testing.T) {
	a := &model.CanonicalRecord{RID: "r2"}
	a.Canon.DOINorm = strp("10.1/x")
	a.Canon.TitleNormBasic = strp("short title")

	b := &model.CanonicalRecord{RID: "r1"}
	b.Canon.TitleNormBasic = strp("a much longer and more descriptive title here")

	survivor := ChooseSurvivor([]*model.CanonicalRecord{b, a})
	assert.Equal(t, "r2", survivor.RID, "DOI presence outranks title length")
}

func TestChooseSurvivorTieBreaksOnSmallestRID(t *testing.T) {
	a := &model.CanonicalRecord{RID: "z1"}
	b := &model.CanonicalRecord{RID: "a1"}
	survivor := ChooseSurvivor([]*model.CanonicalRecord{a, b})
	assert.Equal(t, "a1", survivor.RID)
}

func TestChooseSurvivorPrefersMoreAuthorsWhenIDsTitleAbstractTie(t *testing.T) {
	a := &model.CanonicalRecord{RID: "r1"}
	a.Canon.AuthorsParsed = []model.Author{{Family: "Smith"}}
	b := &model.CanonicalRecord{RID: "r2"}
	b.Canon.AuthorsParsed = []model.Author{{Family: "Smith"}, {Family: "Jones"}}

	survivor := ChooseSurvivor([]*model.CanonicalRecord{a, b})
	assert.Equal(t, "r2", survivor.RID, "author count outranks completeness and rid")
}

func TestMergeFieldsLanguageUnion(t *testing.T) {
	a := &model.CanonicalRecord{RID: "r1"}
	a.Canon.Language = "en"
	b := &model.CanonicalRecord{RID: "r2"}
	b.Canon.Language = "fr"

	canon, prov, err := MergeFields([]*model.CanonicalRecord{a, b})
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "fr"}, canon.Language)
	assert.Equal(t, "sorted_distinct_union", prov["language"].Rule)
}

func TestMergeFieldsLanguageUnionCollapsesToScalar(t *testing.T) {
	a := &model.CanonicalRecord{RID: "r1"}
	a.Canon.Language = "en"
	b := &model.CanonicalRecord{RID: "r2"}
	b.Canon.Language = "en"

	canon, _, err := MergeFields([]*model.CanonicalRecord{a, b})
	require.NoError(t, err)
	assert.Equal(t, "en", canon.Language)
}

func TestMergeFieldsRejectsConflictingDOI(t *testing.T) {
	a := &model.CanonicalRecord{RID: "r1"}
	a.Canon.DOINorm = strp("10.1/x")
	b := &model.CanonicalRecord{RID: "r2"}
	b.Canon.DOINorm = strp("10.1/y")

	_, _, err := MergeFields([]*model.CanonicalRecord{a, b})
	assert.Error(t, err)
}

func TestMergeFieldsLongestTitleWins(t *testing.T) {
	a := &model.CanonicalRecord{RID: "r1"}
	a.Canon.TitleRaw = strp("Short")
	a.Canon.TitleNormBasic = strp("short")
	b := &model.CanonicalRecord{RID: "r2"}
	b.Canon.TitleRaw = strp("A Much Longer Title")
	b.Canon.TitleNormBasic = strp("a much longer title")

	canon, prov, err := MergeFields([]*model.CanonicalRecord{a, b})
	require.NoError(t, err)
	assert.Equal(t, "A Much Longer Title", *canon.TitleRaw)
	assert.Equal(t, []string{"r2"}, prov["title"].SourceRIDs)
}

func TestMergeFieldsYearMode(t *testing.T) {
	a := &model.CanonicalRecord{RID: "r1"}
	a.Canon.YearNorm = intp(2019)
	b := &model.CanonicalRecord{RID: "r2"}
	b.Canon.YearNorm = intp(2020)
	c := &model.CanonicalRecord{RID: "r3"}
	c.Canon.YearNorm = intp(2020)

	canon, _, err := MergeFields([]*model.CanonicalRecord{a, b, c})
	require.NoError(t, err)
	require.NotNil(t, canon.YearNorm)
	assert.Equal(t, 2020, *canon.YearNorm)
}

func TestMergeFieldsPagesPreferReliable(t *testing.T) {
	a := &model.CanonicalRecord{RID: "r1"}
	a.Canon.PageFirst = strp("1")
	a.Flags.PagesUnreliable = true
	b := &model.CanonicalRecord{RID: "r2"}
	b.Canon.PageFirst = strp("42")

	canon, prov, err := MergeFields([]*model.CanonicalRecord{a, b})
	require.NoError(t, err)
	assert.Equal(t, "42", *canon.PageFirst)
	assert.Equal(t, []string{"r2"}, prov["pages"].SourceRIDs)
}

func TestMergeBuildsDeterministicMergedRecords(t *testing.T) {
	a := &model.CanonicalRecord{RID: "r1"}
	a.Canon.DOINorm = strp("10.1/x")
	b := &model.CanonicalRecord{RID: "r2"}
	b.Canon.DOINorm = strp("10.1/x")
	recordsByRID := map[string]*model.CanonicalRecord{"r1": a, "r2": b}

	cluster := model.Cluster{ClusterID: "c:abc", Status: model.ClusterAuto, RIDs: []string{"r1", "r2"}}
	merged, err := Merge([]model.Cluster{cluster}, nil, recordsByRID)
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "cluster_merge", merged[0].MergePolicy)
	assert.ElementsMatch(t, []string{"r1", "r2"}, merged[0].MemberRIDs)
}

func TestMergeSkipsReviewClusters(t *testing.T) {
	a := &model.CanonicalRecord{RID: "r1"}
	b := &model.CanonicalRecord{RID: "r2"}
	recordsByRID := map[string]*model.CanonicalRecord{"r1": a, "r2": b}
	cluster := model.Cluster{ClusterID: "c:abc", Status: model.ClusterReview, RIDs: []string{"r1", "r2"}}

	merged, err := Merge([]model.Cluster{cluster}, nil, recordsByRID)
	require.NoError(t, err)
	assert.Empty(t, merged)
}

func TestWriteRISUsesCRLFLineEndings(t *testing.T) {
	rec := model.MergedRecord{}
	rec.Canon.TitleRaw = strp("Example Title")
	rec.Canon.YearNorm = intp(2021)

	var buf bytes.Buffer
	require.NoError(t, WriteRIS(&buf, []model.MergedRecord{rec}))
	out := buf.String()
	assert.True(t, strings.Contains(out, "TY  - JOUR\r\n"))
	assert.True(t, strings.HasSuffix(out, "ER  - \r\n\r\n"))
}

func TestBuildSummaryRoundsDedupRate(t *testing.T) {
	s := BuildSummary(3, 10, 1, 0, 2)
	assert.InDelta(t, 0.3333, s.DedupRate, 0.0001)
}
