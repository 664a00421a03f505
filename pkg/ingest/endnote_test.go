package ingest

import "testing"

func TestParseEndNoteTaggedSplitsRecordsOnBlankLine(t *testing.T) {
	body := "%0 Journal Article\n" +
		"%A Smith, John\n" +
		"%A Doe, Jane\n" +
		"%T A Study of Things\n" +
		"%D 2020\n" +
		"\n" +
		"%0 Journal Article\n" +
		"%T Second Record\n"

	records := parseEndNoteTagged(body)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	var authorCount int
	for _, tag := range records[0].Tags {
		if tag.Tag == "A" {
			authorCount++
		}
	}
	if authorCount != 2 {
		t.Errorf("got %d author tags, want 2", authorCount)
	}
}
