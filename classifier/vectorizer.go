// SPDX-License-Identifier: GPL-3.0-or-later
package classifier

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

type Feature struct {
	Index int
	Count int
}

// SparseVector holds the non-zero token counts of one text, sorted by Index.
type SparseVector []Feature

// CountVectorizer maps texts to token count vectors over a vocabulary learned
// by Fit. Tokens are lower-cased runs of at least two letters, digits or
// underscores.
type CountVectorizer struct {
	Vocabulary map[string]int
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func Tokenize(text string) []string {
	tokens := []string{}
	for _, field := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	}) {
		if utf8.RuneCountInString(field) >= 2 {
			tokens = append(tokens, field)
		}
	}

	return tokens
}

// Fit replaces the vocabulary with the sorted set of tokens found in texts.
func (cv *CountVectorizer) Fit(texts []string) {
	seen := map[string]struct{}{}
	for _, text := range texts {
		for _, token := range Tokenize(text) {
			seen[token] = struct{}{}
		}
	}

	terms := make([]string, 0, len(seen))
	for term := range seen {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	cv.Vocabulary = make(map[string]int, len(terms))
	for i, term := range terms {
		cv.Vocabulary[term] = i
	}
}

// Transform counts the in-vocabulary tokens of text. Unknown tokens are ignored.
func (cv *CountVectorizer) Transform(text string) SparseVector {
	counts := map[int]int{}
	for _, token := range Tokenize(text) {
		if index, ok := cv.Vocabulary[token]; ok {
			counts[index]++
		}
	}

	vector := make(SparseVector, 0, len(counts))
	for index, count := range counts {
		vector = append(vector, Feature{Index: index, Count: count})
	}
	sort.Slice(vector, func(i, j int) bool {
		return vector[i].Index < vector[j].Index
	})

	return vector
}

func (cv *CountVectorizer) Size() int {
	return len(cv.Vocabulary)
}
