package ingest

import (
	"regexp"
	"strings"

	"github.com/srdedupe/srdedupe/pkg/model"
)

var risTagLineRe = regexp.MustCompile(`^([A-Z0-9]{2})\s*-\s?(.*)$`)

// parseRIS extracts RIS records: one "TAG  - value" line per field, a
// record terminated by an "ER" line, blank lines between records ignored.
func parseRIS(body string) []parsedRecord {
	lines := strings.Split(body, "\n")
	var records []parsedRecord
	var cur *parsedRecord
	occurrence := map[string]int{}

	flush := func() {
		if cur != nil && (len(cur.Tags) > 0 || len(cur.Unattributed) > 0) {
			records = append(records, *cur)
		}
		cur = nil
		occurrence = map[string]int{}
	}

	for i, raw := range lines {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		m := risTagLineRe.FindStringSubmatch(raw)
		if m == nil {
			if cur != nil {
				cur.Lines = append(cur.Lines, raw)
				cur.Unattributed = append(cur.Unattributed, raw)
			}
			continue
		}

		tag := m[1]
		value := strings.TrimSpace(m[2])
		if cur == nil {
			cur = &parsedRecord{}
		}
		cur.Lines = append(cur.Lines, raw)

		if tag == "ER" {
			flush()
			continue
		}

		occurrence[tag]++
		cur.Tags = append(cur.Tags, model.RawTag{
			Tag:             tag,
			ValueRawJoined:  value,
			OccurrenceIndex: occurrence[tag] - 1,
			LineStart:       i + 1,
			LineEnd:         i + 1,
		})
	}
	flush()
	return records
}
