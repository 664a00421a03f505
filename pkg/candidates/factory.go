package candidates

import "fmt"

// BlockerConfig describes one entry of the pipeline's candidate_blockers
// list, mirroring the Python factory's name/enabled/params shape.
type BlockerConfig struct {
	Type    string                 `yaml:"type" json:"type"`
	Enabled bool                   `yaml:"enabled" json:"enabled"`
	Params  map[string]interface{} `yaml:"params,omitempty" json:"params,omitempty"`
}

// blockerRegistry maps a config Type name to a zero-arg constructor. Params
// are currently fixed at the spec's defaults; no blocker in this pack reads
// a runtime-tunable parameter, so Params only round-trips through the
// manifest for audit purposes.
var blockerRegistry = map[string]func() Blocker{
	"doi":          func() Blocker { return NewDOIExactBlocker() },
	"pmid":         func() Blocker { return NewPMIDExactBlocker() },
	"year_author":  func() Blocker { return NewBibYearPM1FirstAuthorBlocker() },
	"year_title":   func() Blocker { return NewBibYearPM1TitlePrefixBlocker() },
	"rare_tokens":  func() Blocker { return NewBibRareTitleTokensBlocker() },
	"minhash":      func() Blocker { return NewMinHashLSHTitleBlocker() },
	"simhash":      func() Blocker { return NewSimHashTitleBlocker() },
}

// CreateBlocker instantiates a single blocker by type name.
func CreateBlocker(blockerType string) (Blocker, error) {
	ctor, ok := blockerRegistry[blockerType]
	if !ok {
		return nil, fmt.Errorf("candidates: unknown blocker type %q", blockerType)
	}
	return ctor(), nil
}

// CreateBlockers instantiates the enabled blockers from cfgs, in the order
// given. Generator.Generate re-sorts blockers by Name() before running
// them (SPEC_FULL.md §4.3), so this order has no effect on candidate
// generation or BlockerStats ordering.
func CreateBlockers(cfgs []BlockerConfig) ([]Blocker, error) {
	var out []Blocker
	for _, c := range cfgs {
		if !c.Enabled {
			continue
		}
		b, err := CreateBlocker(c.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// DefaultBlockerConfigs is the bundled default candidate_blockers list used
// when the pipeline config omits one.
func DefaultBlockerConfigs() []BlockerConfig {
	names := []string{"doi", "pmid", "year_title"}
	cfgs := make([]BlockerConfig, 0, len(names))
	for _, n := range names {
		cfgs = append(cfgs, BlockerConfig{Type: n, Enabled: true})
	}
	return cfgs
}
