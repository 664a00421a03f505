package ingest

import "testing"

func TestParseWOSSkipsHeaderAndSplitsOnER(t *testing.T) {
	body := "FN Clarivate Analytics Web of Science\n" +
		"VR 1.0\n" +
		"PT J\n" +
		"AU Smith, J\n" +
		"AF Smith, John\n" +
		"TI A Study of\n" +
		"   Things Continued\n" +
		"PY 2020\n" +
		"ER\n" +
		"\n" +
		"PT J\n" +
		"TI Second Record\n" +
		"ER\n"

	records := parseWOS(body)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	var title string
	for _, tag := range records[0].Tags {
		if tag.Tag == "TI" {
			title = tag.ValueRawJoined
		}
	}
	if title != "A Study of Things Continued" {
		t.Errorf("got title %q", title)
	}

	for _, tag := range records[0].Tags {
		if tag.Tag == "FN" || tag.Tag == "VR" {
			t.Errorf("header tag %q leaked into record", tag.Tag)
		}
	}
}
