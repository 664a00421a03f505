package ingest

import "testing"

func TestParseRISExtractsTagsAndRespectsOccurrenceIndex(t *testing.T) {
	body := "TY  - JOUR\n" +
		"AU  - Smith, John\n" +
		"AU  - Doe, Jane\n" +
		"TI  - A Study of Things\n" +
		"PY  - 2020\n" +
		"DO  - 10.1/x\n" +
		"ER  - \n" +
		"\n" +
		"TY  - JOUR\n" +
		"TI  - Second Record\n" +
		"ER  - \n"

	records := parseRIS(body)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	first := records[0]
	var auCount int
	for _, tag := range first.Tags {
		if tag.Tag == "AU" {
			auCount++
		}
	}
	if auCount != 2 {
		t.Errorf("got %d AU tags, want 2", auCount)
	}
	if first.Tags[1].OccurrenceIndex != 0 || first.Tags[2].OccurrenceIndex != 1 {
		t.Errorf("AU occurrence indices = %d, %d, want 0, 1", first.Tags[1].OccurrenceIndex, first.Tags[2].OccurrenceIndex)
	}

	second := records[1]
	if len(second.Tags) != 2 {
		t.Fatalf("second record got %d tags, want 2 (TY, TI)", len(second.Tags))
	}
}
