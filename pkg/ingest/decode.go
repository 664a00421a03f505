package ingest

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// bom is the UTF-8 encoding of U+FEFF.
var bom = []byte{0xEF, 0xBB, 0xBF}

// Decode turns raw file bytes into an LF-normalized string, per SPEC_FULL.md
// §6: UTF-8 (BOM tolerated and stripped), falling back to Latin-1 (ISO
// 8859-1) on decode failure, with CRLF/CR line endings normalized to LF
// before parsing.
func Decode(raw []byte) (string, error) {
	raw = stripBOM(raw)

	var text string
	if utf8.Valid(raw) {
		text = string(raw)
	} else {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return "", err
		}
		text = string(decoded)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text, nil
}

func stripBOM(raw []byte) []byte {
	if len(raw) >= 3 && raw[0] == bom[0] && raw[1] == bom[1] && raw[2] == bom[2] {
		return raw[3:]
	}
	return raw
}
