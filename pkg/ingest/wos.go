package ingest

import (
	"regexp"
	"strings"

	"github.com/srdedupe/srdedupe/pkg/model"
)

var wosTagLineRe = regexp.MustCompile(`^([A-Z0-9]{2})\s(.*)$`)

// wosHeaderTags are file-level header fields (Web of Science export
// preamble), not part of any record.
var wosHeaderTags = map[string]bool{"FN": true, "VR": true}

// parseWOS extracts Web of Science plain-text tagged records: two-letter
// tag then a space then the value, continuation lines indented with no
// tag, a record terminated by a bare "ER" line.
func parseWOS(body string) []parsedRecord {
	lines := strings.Split(body, "\n")
	var records []parsedRecord
	var cur *parsedRecord
	occurrence := map[string]int{}
	lastIdx := -1

	flush := func() {
		if cur != nil && len(cur.Tags) > 0 {
			records = append(records, *cur)
		}
		cur = nil
		occurrence = map[string]int{}
		lastIdx = -1
	}

	for i, raw := range lines {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if strings.TrimSpace(raw) == "ER" {
			flush()
			continue
		}
		if m := wosTagLineRe.FindStringSubmatch(raw); m != nil {
			tag := m[1]
			if wosHeaderTags[tag] {
				continue
			}
			if tag == "ER" {
				flush()
				continue
			}
			value := strings.TrimSpace(m[2])
			if cur == nil {
				cur = &parsedRecord{}
			}
			cur.Lines = append(cur.Lines, raw)
			occurrence[tag]++
			cur.Tags = append(cur.Tags, model.RawTag{
				Tag:             tag,
				ValueRawJoined:  value,
				OccurrenceIndex: occurrence[tag] - 1,
				LineStart:       i + 1,
				LineEnd:         i + 1,
			})
			lastIdx = len(cur.Tags) - 1
			continue
		}

		if cur == nil || lastIdx < 0 {
			continue
		}
		cur.Lines = append(cur.Lines, raw)
		cur.Tags[lastIdx].ValueRawJoined = strings.TrimSpace(cur.Tags[lastIdx].ValueRawJoined + " " + strings.TrimSpace(raw))
		cur.Tags[lastIdx].LineEnd = i + 1
	}
	flush()
	return records
}
