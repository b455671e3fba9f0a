// SPDX-License-Identifier: GPL-3.0-or-later
package snapshot

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

const topWords = 5

var stopWords = map[string]struct{}{
	"de": {}, "la": {}, "el": {}, "en": {}, "y": {}, "a": {}, "que": {}, "los": {}, "del": {},
	"se": {}, "por": {}, "un": {}, "una": {}, "su": {}, "para": {}, "con": {}, "no": {}, "si": {},
}

type Stats struct {
	Inbox        int      `json:"inbox"`
	Spam         int      `json:"spam"`
	InboxPercent float64  `json:"inboxPercent"`
	SpamPercent  float64  `json:"spamPercent"`
	TopWords     []string `json:"topWords"`
	WordCounts   []int    `json:"wordCounts"`
}

// ComputeStats summarizes a snapshot. It returns nil if there are no messages.
func ComputeStats(s *Snapshot) *Stats {
	total := s.Total()
	if total == 0 {
		return nil
	}

	stats := &Stats{
		Inbox:        len(s.Inbox),
		Spam:         len(s.Spam),
		InboxPercent: percent(len(s.Inbox), total),
		SpamPercent:  percent(len(s.Spam), total),
		TopWords:     []string{},
		WordCounts:   []int{},
	}

	subjects := make([]string, 0, len(s.Spam))
	for _, m := range s.Spam {
		subjects = append(subjects, m.Subject)
	}

	type wordCount struct {
		word  string
		count int
	}
	counts := []*wordCount{}
	index := map[string]*wordCount{}
	for _, word := range strings.Fields(strings.ToLower(strings.Join(subjects, " "))) {
		if utf8.RuneCountInString(word) <= 3 {
			continue
		}
		if _, ok := stopWords[word]; ok {
			continue
		}
		if wc, ok := index[word]; ok {
			wc.count++
			continue
		}
		wc := &wordCount{word: word, count: 1}
		index[word] = wc
		counts = append(counts, wc)
	}

	// stable keeps first occurrence order among equal counts
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})
	if len(counts) > topWords {
		counts = counts[:topWords]
	}
	for _, wc := range counts {
		stats.TopWords = append(stats.TopWords, wc.word)
		stats.WordCounts = append(stats.WordCounts, wc.count)
	}

	return stats
}

func percent(part, total int) float64 {
	return math.Round(float64(part)/float64(total)*1000) / 10
}
