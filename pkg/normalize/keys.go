package normalize

import (
	"strconv"
	"strings"

	"github.com/srdedupe/srdedupe/pkg/model"
)

const minShingleTokenLen = 3

// generateKeys ports normalize/keys.py::generate_keys.
func generateKeys(titleNormBasic *string, yearNorm *int, firstAuthorSig, journalNorm *string) model.Keys {
	var keys model.Keys
	if titleNormBasic == nil {
		return keys
	}
	strict := *titleNormBasic
	keys.TitleKeyStrict = &strict

	fuzzy := strings.Join(strings.Fields(strings.ReplaceAll(strict, "-", " ")), " ")
	keys.TitleKeyFuzzy = &fuzzy

	if shingles := generateShingles(strict); shingles != nil {
		keys.TitleShingles = shingles
	}

	if yearNorm != nil {
		k := strict + "|" + strconv.Itoa(*yearNorm)
		keys.TitleYearKey = &k
	}
	if firstAuthorSig != nil {
		k := strict + "|" + *firstAuthorSig
		keys.TitleFirstAuthorKey = &k
	}
	if journalNorm != nil {
		k := strict + "|" + *journalNorm
		keys.TitleJournalKey = &k
	}
	return keys
}

func generateShingles(text string) []string {
	tokens := []string{}
	for _, w := range strings.Fields(text) {
		if len([]rune(w)) >= minShingleTokenLen {
			tokens = append(tokens, w)
		}
	}
	if len(tokens) == 0 {
		return nil
	}
	out := append([]string{}, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}
