package pipeline

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srdedupe/srdedupe/pkg/decision"
	"github.com/srdedupe/srdedupe/pkg/model"
	"github.com/srdedupe/srdedupe/pkg/pipelineconfig"
)

func risTag(tag, value string) model.RawTag {
	return model.RawTag{Tag: tag, ValueRawJoined: value}
}

func risRecord(rid string, tags ...model.RawTag) model.CanonicalRecord {
	return model.CanonicalRecord{
		RID: rid,
		Meta: model.Meta{SourceFormat: "ris"},
		Raw:  model.Raw{Tags: tags},
	}
}

func syntheticCalibration() []decision.LabeledPair {
	pairs := make([]decision.LabeledPair, 0, 10)
	for i := 0; i < 5; i++ {
		pairs = append(pairs, decision.LabeledPair{PMatch: 0.01 + float64(i)*0.01, IsMatch: false})
		pairs = append(pairs, decision.LabeledPair{PMatch: 0.9 + float64(i)*0.01, IsMatch: true})
	}
	return pairs
}

func newTestRun(t *testing.T, cfgMutate func(*pipelineconfig.PipelineConfig)) *Run {
	t.Helper()
	cfg := pipelineconfig.Default()
	cfg.FSModelPath = "../../models/fs_v1.json"
	cfg.FSSchemaPath = "../../models/fs_schema.json"
	cfg.FPRAlpha = 0.2
	if cfgMutate != nil {
		cfgMutate(&cfg)
	}
	tel, err := NewTelemetry("srdedupe-test")
	require.NoError(t, err)
	run, err := NewRun(cfg, syntheticCalibration(), tel)
	require.NoError(t, err)
	return run
}

func TestExecuteDOIExactTripleProducesOneMergedRecordS1(t *testing.T) {
	run := newTestRun(t, nil)

	records := []model.CanonicalRecord{
		risRecord("r1", risTag("DO", "10.1/x"), risTag("TI", "A Study of Things"), risTag("PY", "2019")),
		risRecord("r2", risTag("DO", "10.1/x"), risTag("TI", "A Totally Different Title"), risTag("PY", "2020")),
		risRecord("r3", risTag("DO", "10.1/x"), risTag("TI", "Yet Another Title Entirely"), risTag("PY", "2021")),
	}

	result, err := run.Execute(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, result.Clusters, 1)
	assert.Equal(t, model.ClusterAuto, result.Clusters[0].Status)
	assert.ElementsMatch(t, []string{"r1", "r2", "r3"}, result.Clusters[0].RIDs)

	require.Len(t, result.MergedRecords, 1)
	assert.ElementsMatch(t, []string{"r1", "r2", "r3"}, result.MergedRecords[0].MemberRIDs)

	assert.InDelta(t, 0.6667, result.Summary.DedupRate, 0.0001)
}

func TestExecuteSinglePairPairOrderingS5(t *testing.T) {
	run := newTestRun(t, nil)

	records := []model.CanonicalRecord{
		risRecord("zebra-rid", risTag("DO", "10.1/zebra")),
		risRecord("alpha-rid", risTag("DO", "10.1/zebra")),
		risRecord("mango-rid", risTag("DO", "10.1/mango")),
		risRecord("banana-rid", risTag("DO", "10.1/mango")),
	}

	result, err := run.Execute(context.Background(), records)
	require.NoError(t, err)

	got := make([]string, len(result.CandidatePairs))
	for i, p := range result.CandidatePairs {
		got[i] = p.PairID
	}
	assert.True(t, sort.StringsAreSorted(got))
}

func TestNewRunRejectsEmptyCalibrationSet(t *testing.T) {
	cfg := pipelineconfig.Default()
	cfg.FSModelPath = "../../models/fs_v1.json"
	cfg.FSSchemaPath = "../../models/fs_schema.json"
	tel, err := NewTelemetry("srdedupe-test")
	require.NoError(t, err)

	_, err = NewRun(cfg, nil, tel)
	require.Error(t, err)
	var cerr *CalibrationError
	require.ErrorAs(t, err, &cerr)
}

func TestNewRunRejectsInvalidConfig(t *testing.T) {
	cfg := pipelineconfig.Default()
	cfg.FPRAlpha = 2.0
	tel, err := NewTelemetry("srdedupe-test")
	require.NoError(t, err)

	_, err = NewRun(cfg, syntheticCalibration(), tel)
	require.Error(t, err)
}
