package ingest

import "testing"

func TestSniffFormatDetectsEachFormatFromContent(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"ris", "TY  - JOUR\nAU  - Smith, John\nER  - \n", "ris"},
		{"bibtex", "@article{smith2020,\n  title = {A Study},\n}\n", "bibtex"},
		{"wos", "FN Clarivate Analytics Web of Science\nVR 1.0\nPT J\nAU Smith, J\nER\n", "wos"},
		{"pubmed", "PMID- 21234567\nTI  - A Study\n", "pubmed"},
		{"endnote", "%0 Journal Article\n%A Smith, John\n%T A Study\n", "endnote_tagged"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := SniffFormat(c.body, "input.txt"); got != c.want {
				t.Errorf("SniffFormat(%q) = %q, want %q", c.name, got, c.want)
			}
		})
	}
}

func TestSniffFormatFallsBackToExtension(t *testing.T) {
	if got := SniffFormat("garbage\nnot tagged\n", "refs.ris"); got != "ris" {
		t.Errorf("got %q, want ris", got)
	}
	if got := SniffFormat("garbage\n", "refs.enw"); got != "endnote_tagged" {
		t.Errorf("got %q, want endnote_tagged", got)
	}
	if got := SniffFormat("garbage\n", "refs.dat"); got != "unknown" {
		t.Errorf("got %q, want unknown", got)
	}
}
