package tfidf

import (
	"bufio"
	_ "embed"
	"strings"
	"unicode"
)

//go:embed stop-words.txt
var stopWordsData string

// stopWords is a fixed english stop-words list, one word per line in the embedded file
var stopWords = func() map[string]struct{} {
	res := make(map[string]struct{})
	scanner := bufio.NewScanner(strings.NewReader(stopWordsData))
	for scanner.Scan() {
		w := strings.TrimSpace(scanner.Text())
		if w != "" {
			res[strings.ToLower(w)] = struct{}{}
		}
	}
	return res
}()

// IsStopWord reports whether the token is on the stop-words list
func IsStopWord(token string) bool {
	_, ok := stopWords[strings.ToLower(token)]
	return ok
}

// Tokenize lowercases the text and splits it on every rune which is neither a letter nor a digit.
// Empty tokens and stop-words are dropped. The order of tokens is preserved, duplicates are kept.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	res := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		if _, ok := stopWords[f]; ok {
			continue
		}
		res = append(res, f)
	}
	return res
}
