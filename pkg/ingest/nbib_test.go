package ingest

import "testing"

func TestParseNBIBJoinsContinuationLines(t *testing.T) {
	body := "PMID- 21234567\n" +
		"TI  - A title that\n" +
		"      wraps onto a continuation line.\n" +
		"AID - 10.1016/j.foo.2011.01.001 [doi]\n" +
		"\n" +
		"PMID- 99999999\n" +
		"TI  - Second record\n"

	records := parseNBIB(body)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	var title string
	for _, tag := range records[0].Tags {
		if tag.Tag == "TI" {
			title = tag.ValueRawJoined
		}
	}
	want := "A title that wraps onto a continuation line."
	if title != want {
		t.Errorf("got title %q, want %q", title, want)
	}
}
