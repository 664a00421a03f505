// Package scoring implements the Fellegi-Sunter pairwise comparator and
// likelihood-ratio scorer described in SPEC_FULL.md §4.4. The model file
// (bundled default at models/fs_v1.json) is loaded and validated against
// models/fs_schema.json using santhosh-tekuri/jsonschema/v5 before use.
package scoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Level is one named comparison outcome for a field, with its Fellegi-
// Sunter log-weight (log(m-probability/u-probability), pre-computed offline
// and shipped in the model file rather than estimated at runtime).
type Level struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// FieldModel is one field's full level vocabulary.
type FieldModel struct {
	Name   string  `json:"name"`
	Levels []Level `json:"levels"`
}

// FSModel is the full Fellegi-Sunter comparator configuration.
type FSModel struct {
	Version       string       `json:"version"`
	LambdaPrior   float64      `json:"lambda_prior"`
	RoundDecimals int          `json:"round_decimals"`
	Fields        []FieldModel `json:"fields"`

	weightIndex map[string]map[string]float64
}

// Weight looks up the log-weight for (field, level). ok is false if either
// is absent from the model, which is a configuration bug, not a runtime
// condition comparators should silently tolerate.
func (m *FSModel) Weight(field, level string) (float64, bool) {
	lv, ok := m.weightIndex[field]
	if !ok {
		return 0, false
	}
	w, ok := lv[level]
	return w, ok
}

func (m *FSModel) buildIndex() {
	m.weightIndex = make(map[string]map[string]float64, len(m.Fields))
	for _, f := range m.Fields {
		lv := make(map[string]float64, len(f.Levels))
		for _, l := range f.Levels {
			lv[l.Name] = l.Weight
		}
		m.weightIndex[f.Name] = lv
	}
}

// LoadFSModel reads modelPath, validates it against the JSON schema at
// schemaPath, and decodes it into an FSModel.
func LoadFSModel(modelPath, schemaPath string) (*FSModel, error) {
	raw, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("scoring: read model %s: %w", modelPath, err)
	}
	schemaRaw, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("scoring: read schema %s: %w", schemaPath, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaPath, bytes.NewReader(schemaRaw)); err != nil {
		return nil, fmt.Errorf("scoring: add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("scoring: compile schema: %w", err)
	}

	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("scoring: parse model json: %w", err)
	}
	if err := schema.Validate(generic); err != nil {
		return nil, fmt.Errorf("scoring: model failed schema validation: %w", err)
	}

	var m FSModel
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("scoring: decode model: %w", err)
	}
	m.buildIndex()
	return &m, nil
}
