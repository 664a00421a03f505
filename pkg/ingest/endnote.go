package ingest

import (
	"regexp"
	"strings"

	"github.com/srdedupe/srdedupe/pkg/model"
)

var endnoteTagLineRe = regexp.MustCompile(`^%(\S)\s?(.*)$`)

// parseEndNoteTagged extracts EndNote Tagged (.enw) records: "%<tag>
// value" lines, continuation lines with no leading "%", records separated
// by a blank line.
func parseEndNoteTagged(body string) []parsedRecord {
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
			flush()
			continue
		}
		if m := endnoteTagLineRe.FindStringSubmatch(raw); m != nil {
			tag := m[1]
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
