package ingest

import "testing"

func TestParseBibTeXExtractsFieldsAndEntryType(t *testing.T) {
	body := `@article{smith2020study,
  title   = {A Study of {Things}},
  author  = {Smith, John and Doe, Jane},
  year    = 2020,
  journal = "Journal of Examples",
}

@book{doe2019book,
  title = {Second Record},
}
`
	records := parseBibTeX(body)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	byTag := map[string]string{}
	for _, tag := range records[0].Tags {
		byTag[tag.Tag] = tag.ValueRawJoined
	}

	if byTag["__bibtex_entrytype"] != "article" {
		t.Errorf("entrytype = %q, want article", byTag["__bibtex_entrytype"])
	}
	if byTag["title"] != "A Study of {Things}" {
		t.Errorf("title = %q", byTag["title"])
	}
	if byTag["author"] != "Smith, John and Doe, Jane" {
		t.Errorf("author = %q", byTag["author"])
	}
	if byTag["year"] != "2020" {
		t.Errorf("year = %q", byTag["year"])
	}
	if byTag["journal"] != "Journal of Examples" {
		t.Errorf("journal = %q", byTag["journal"])
	}

	var secondType string
	for _, tag := range records[1].Tags {
		if tag.Tag == "__bibtex_entrytype" {
			secondType = tag.ValueRawJoined
		}
	}
	if secondType != "book" {
		t.Errorf("second entrytype = %q, want book", secondType)
	}
}
