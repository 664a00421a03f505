// Package pipeline wires the six stages described in SPEC_FULL.md §4 into
// one deterministic run: normalize, candidate generation, Fellegi-Sunter
// scoring, decision, clustering, and canonical merge. Stages run one after
// another, each producing a sorted, JSON-Lines-ready slice before the next
// begins (§5); within the normalize, scoring and decision stages,
// MapOrdered in workerpool.go maps over records or pairs with up to
// DefaultWorkerPoolSize goroutines.
package pipeline

import (
	"context"
	"sort"
	"time"

	"github.com/srdedupe/srdedupe/pkg/candidates"
	"github.com/srdedupe/srdedupe/pkg/clustering"
	"github.com/srdedupe/srdedupe/pkg/decision"
	"github.com/srdedupe/srdedupe/pkg/decision/celgate"
	"github.com/srdedupe/srdedupe/pkg/merge"
	"github.com/srdedupe/srdedupe/pkg/model"
	"github.com/srdedupe/srdedupe/pkg/normalize"
	"github.com/srdedupe/srdedupe/pkg/pipelineconfig"
	"github.com/srdedupe/srdedupe/pkg/scoring"
)

// DefaultTLow is the AUTO-KEEP cutoff applied when the config leaves t_low
// unset (SPEC_FULL.md §6).
const DefaultTLow = 0.3

// Run holds everything one pipeline execution needs, built once from a
// validated PipelineConfig and a labeled calibration set.
type Run struct {
	Config    pipelineconfig.PipelineConfig
	Scorer    *scoring.Scorer
	Generator *candidates.Generator
	Engine    *decision.Engine
	Telemetry *Telemetry
}

// NewRun validates cfg, loads the FS model, builds the configured blockers,
// runs NP (and optionally SCRC-I conformal) calibration over
// calibrationPairs, and assembles the decision engine. It returns a
// *CalibrationError if calibrationPairs is empty, and a *ConfigurationError
// (via cfg.Validate) for any configuration violation.
func NewRun(cfg pipelineconfig.PipelineConfig, calibrationPairs []decision.LabeledPair, tel *Telemetry) (*Run, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(calibrationPairs) == 0 {
		return nil, &CalibrationError{Reason: "calibration set is empty"}
	}

	fsModel, err := scoring.LoadFSModel(cfg.FSModelPath, cfg.FSSchemaPath)
	if err != nil {
		return nil, err
	}
	scorer := scoring.NewScorer(fsModel)

	blockers, err := candidates.CreateBlockers(cfg.CandidateBlockers)
	if err != nil {
		return nil, err
	}
	generator := candidates.NewGenerator(blockers)

	npThreshold, npCalib := decision.CalibrateNP(calibrationPairs, cfg.FPRAlpha)
	if cfg.THigh != nil && *cfg.THigh > npThreshold {
		npThreshold = *cfg.THigh
	}

	var conformalThresholdPtr *float64
	var conformalCalibPtr *model.ConformalCalibration
	if cfg.ConformalEnabled {
		threshold, calib, feasible := decision.CalibrateConformal(calibrationPairs, cfg.FPRAlpha, cfg.ConformalDelta)
		if feasible {
			conformalThresholdPtr = &threshold
			conformalCalibPtr = &calib
		}
	}

	tLow := DefaultTLow
	if cfg.TLow != nil {
		tLow = *cfg.TLow
	}

	engine := decision.NewEngine(npThreshold, npCalib, tLow, conformalThresholdPtr, conformalCalibPtr)

	if cfg.CELGateExpr != "" {
		gate, err := celgate.Compile(cfg.CELGateExpr)
		if err != nil {
			return nil, err
		}
		engine.CELGate = gate
	}

	return &Run{Config: cfg, Scorer: scorer, Generator: generator, Engine: engine, Telemetry: tel}, nil
}

// Result bundles every stage's output artifact, ready for writing.
type Result struct {
	CanonicalRecords []model.CanonicalRecord
	CandidatePairs   []model.CandidatePair
	PairScores       []model.PairScore
	PairDecisions    []model.PairDecision
	Clusters         []model.Cluster
	MergedRecords    []model.MergedRecord
	BlockerStats     []candidates.BlockerStats
	Summary          merge.Summary
}

// Execute runs all six stages over raw (un-normalized) CanonicalRecords and
// returns the full set of pipeline artifacts.
func (r *Run) Execute(ctx context.Context, raw []model.CanonicalRecord) (*Result, error) {
	normalized := r.stageNormalize(ctx, raw)

	recordsByRID := make(map[string]*model.CanonicalRecord, len(normalized))
	recordPtrs := make([]*model.CanonicalRecord, len(normalized))
	for i := range normalized {
		recordPtrs[i] = &normalized[i]
		recordsByRID[normalized[i].RID] = &normalized[i]
	}

	genResult := r.stageCandidates(ctx, recordPtrs)

	scores := r.stageScore(ctx, genResult.Pairs, recordsByRID)

	decisions := r.stageDecide(ctx, scores, recordsByRID)

	clusters := r.stageCluster(ctx, recordPtrs, decisions)

	singletonRIDs := SingletonsFrom(normalized, decisions, clusters)

	mergedRecords, err := r.stageMerge(ctx, clusters, singletonRIDs, recordsByRID)
	if err != nil {
		return nil, err
	}

	reviewRecords := countReviewRecords(clusters)
	duplicatesAuto := len(normalized) - len(mergedRecords) - reviewRecords

	summary := merge.BuildSummary(
		len(normalized),
		len(genResult.Pairs),
		duplicatesAuto,
		reviewRecords,
		len(mergedRecords),
	)

	return &Result{
		CanonicalRecords: normalized,
		CandidatePairs:   genResult.Pairs,
		PairScores:       scores,
		PairDecisions:    decisions,
		Clusters:         clusters,
		MergedRecords:    mergedRecords,
		BlockerStats:     genResult.Stats,
		Summary:          summary,
	}, nil
}

func (r *Run) stageNormalize(ctx context.Context, raw []model.CanonicalRecord) []model.CanonicalRecord {
	ctx, span := r.Telemetry.StartStage(ctx, "normalize")
	start := time.Now()
	out := MapOrdered(ctx, DefaultWorkerPoolSize, raw, func(_ context.Context, rec model.CanonicalRecord) model.CanonicalRecord {
		return normalize.Normalize(rec)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].RID < out[j].RID })
	r.Telemetry.RecordStage(ctx, "normalize", time.Since(start), len(out))
	span.End()
	return out
}

func (r *Run) stageCandidates(ctx context.Context, records []*model.CanonicalRecord) candidates.Result {
	ctx, span := r.Telemetry.StartStage(ctx, "candidates")
	start := time.Now()
	result := r.Generator.Generate(records)
	r.Telemetry.RecordStage(ctx, "candidates", time.Since(start), len(result.Pairs))
	span.End()
	return result
}

func (r *Run) stageScore(ctx context.Context, pairs []model.CandidatePair, recordsByRID map[string]*model.CanonicalRecord) []model.PairScore {
	ctx, span := r.Telemetry.StartStage(ctx, "score")
	start := time.Now()
	out := MapOrdered(ctx, DefaultWorkerPoolSize, pairs, func(_ context.Context, p model.CandidatePair) model.PairScore {
		return r.Scorer.Score(p.PairID, recordsByRID[p.RIDA], recordsByRID[p.RIDB])
	})
	sort.Slice(out, func(i, j int) bool { return out[i].PairID < out[j].PairID })
	r.Telemetry.RecordStage(ctx, "score", time.Since(start), len(out))
	span.End()
	return out
}

func (r *Run) stageDecide(ctx context.Context, scores []model.PairScore, recordsByRID map[string]*model.CanonicalRecord) []model.PairDecision {
	ctx, span := r.Telemetry.StartStage(ctx, "decide")
	start := time.Now()
	out := MapOrdered(ctx, DefaultWorkerPoolSize, scores, func(_ context.Context, s model.PairScore) model.PairDecision {
		return r.Engine.Decide(s, recordsByRID[s.RIDA], recordsByRID[s.RIDB])
	})
	sort.Slice(out, func(i, j int) bool { return out[i].PairID < out[j].PairID })
	r.Telemetry.RecordStage(ctx, "decide", time.Since(start), len(out))
	span.End()
	return out
}

func (r *Run) stageCluster(ctx context.Context, records []*model.CanonicalRecord, decisions []model.PairDecision) []model.Cluster {
	ctx, span := r.Telemetry.StartStage(ctx, "cluster")
	start := time.Now()
	out := clustering.BuildClusters(records, decisions)
	r.Telemetry.RecordStage(ctx, "cluster", time.Since(start), len(out))
	span.End()
	return out
}

func (r *Run) stageMerge(ctx context.Context, clusters []model.Cluster, singletonRIDs []string, recordsByRID map[string]*model.CanonicalRecord) ([]model.MergedRecord, error) {
	ctx, span := r.Telemetry.StartStage(ctx, "merge")
	defer span.End()
	start := time.Now()
	out, err := merge.Merge(clusters, singletonRIDs, recordsByRID)
	if err != nil {
		return nil, &MergeConflictError{ClusterID: conflictClusterID(clusters), Reason: err.Error()}
	}
	r.Telemetry.RecordStage(ctx, "merge", time.Since(start), len(out))
	return out, nil
}

// SingletonsFrom returns, in RID order, every record not covered by any
// AUTO_DUP edge and not a member of any REVIEW cluster (§6).
func SingletonsFrom(records []model.CanonicalRecord, decisions []model.PairDecision, clusters []model.Cluster) []string {
	covered := map[string]bool{}
	for _, d := range decisions {
		if d.Decision == model.DecisionAutoDup {
			covered[d.RIDA] = true
			covered[d.RIDB] = true
		}
	}
	for _, c := range clusters {
		if c.Status == model.ClusterReview {
			for _, rid := range c.RIDs {
				covered[rid] = true
			}
		}
	}
	var out []string
	for _, rec := range records {
		if !covered[rec.RID] {
			out = append(out, rec.RID)
		}
	}
	sort.Strings(out)
	return out
}

func countReviewRecords(clusters []model.Cluster) int {
	n := 0
	for _, c := range clusters {
		if c.Status == model.ClusterReview {
			n += len(c.RIDs)
		}
	}
	return n
}

// conflictClusterID names the first cluster merge touched, for error
// context; callers cannot otherwise tell which cluster MergeFields failed
// on since merge.Merge does not currently annotate the error with it.
func conflictClusterID(clusters []model.Cluster) string {
	for _, c := range clusters {
		if c.Status == model.ClusterAuto {
			return c.ClusterID
		}
	}
	return ""
}
