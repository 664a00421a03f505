package clustering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srdedupe/srdedupe/pkg/model"
)

func strp(s string) *string { return &s }

func recWithDOI(rid, doi string) *model.CanonicalRecord {
	r := &model.CanonicalRecord{RID: rid}
	if doi != "" {
		r.Canon.DOINorm = strp(doi)
	}
	return r
}

func autoDup(a, b string) model.PairDecision {
	return model.PairDecision{RIDA: a, RIDB: b, Decision: model.DecisionAutoDup, PMatch: 0.99}
}

func TestDSUUnionAndComponents(t *testing.T) {
	d := NewDSU([]string{"a", "b", "c", "d"})
	d.Union("a", "b")
	d.Union("b", "c")
	comps := d.Components()
	var sizes []int
	for _, m := range comps {
		sizes = append(sizes, len(m))
	}
	assert.Contains(t, sizes, 3)
	assert.Contains(t, sizes, 1)
}

func TestBuildClustersMergesTransitiveChain(t *testing.T) {
	records := []*model.CanonicalRecord{
		recWithDOI("r1", "10.1/x"),
		recWithDOI("r2", "10.1/x"),
		recWithDOI("r3", "10.1/x"),
	}
	decisions := []model.PairDecision{autoDup("r1", "r2"), autoDup("r2", "r3")}

	clusters := BuildClusters(records, decisions)
	require.Len(t, clusters, 1)
	assert.Equal(t, model.ClusterAuto, clusters[0].Status)
	assert.ElementsMatch(t, []string{"r1", "r2", "r3"}, clusters[0].RIDs)
	assert.Equal(t, 2, clusters[0].Support.AutoDupEdges)
}

func TestBuildClustersSplitsOnHardConflict(t *testing.T) {
	records := []*model.CanonicalRecord{
		recWithDOI("r1", "10.1/x"),
		recWithDOI("r2", "10.1/x"),
		recWithDOI("r3", "10.1/y"),
		recWithDOI("r4", "10.1/y"),
	}
	decisions := []model.PairDecision{autoDup("r1", "r2"), autoDup("r2", "r3"), autoDup("r3", "r4")}

	clusters := BuildClusters(records, decisions)
	require.Len(t, clusters, 2)
	for _, c := range clusters {
		assert.Len(t, c.RIDs, 2)
	}
}

func TestBuildClustersSingletonsNotEmitted(t *testing.T) {
	records := []*model.CanonicalRecord{recWithDOI("r1", "10.1/x")}
	clusters := BuildClusters(records, nil)
	assert.Empty(t, clusters)
}
