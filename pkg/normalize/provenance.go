package normalize

import (
	"strconv"

	"github.com/srdedupe/srdedupe/pkg/model"
)

// buildProvenanceEntry mirrors the Python reference's
// normalize/_provenance.py build_provenance_entry: one entry per populated
// canonical field, naming which raw tag(s) it came from.
func buildProvenanceEntry(rawTags []RawTagView, indices []int, sourceFormat string, transforms []model.Transform, confidence string) model.ProvenanceEntry {
	sources := make([]model.ProvenanceSource, 0, len(indices))
	for _, idx := range indices {
		rt := findByIndex(rawTags, idx)
		snippet := rt.Value
		if len(snippet) > 120 {
			snippet = snippet[:120]
		}
		sources = append(sources, model.ProvenanceSource{
			Path:         rawTagPath(idx),
			Tag:          rt.Tag,
			ValueSnippet: snippet,
			SourceFormat: sourceFormat,
		})
	}
	return model.ProvenanceEntry{Sources: sources, Transforms: transforms, Confidence: confidence}
}

func findByIndex(rawTags []RawTagView, idx int) RawTagView {
	for _, rt := range rawTags {
		if rt.Index == idx {
			return rt
		}
	}
	return RawTagView{}
}

func rawTagPath(idx int) string {
	return "raw.tags[" + strconv.Itoa(idx) + "]"
}

func addTransform(name, notes string) model.Transform {
	return model.Transform{Name: name, Version: normalizationVersion, Notes: notes}
}
