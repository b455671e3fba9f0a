// SPDX-License-Identifier: GPL-3.0-or-later
package classifier

import (
	"fmt"
	"math"
	"sort"

	"github.com/CrawX/go-imap-triage/domain"
)

const DefaultAlpha = 1.0

// MultinomialNB is a multinomial Naive Bayes classifier over token counts with
// additive smoothing.
type MultinomialNB struct {
	Alpha float64
	// Classes seen during training, ascending.
	Classes        []domain.Label
	ClassLogPrior  []float64
	FeatureLogProb [][]float64
}

func NewMultinomialNB() *MultinomialNB {
	return &MultinomialNB{Alpha: DefaultAlpha}
}

func (nb *MultinomialNB) Fit(vectors []SparseVector, labels []domain.Label, features int) error {
	if len(vectors) != len(labels) {
		return fmt.Errorf("got %d vectors but %d labels", len(vectors), len(labels))
	}
	if len(vectors) == 0 {
		return domain.ErrEmptyTrainingSet
	}

	classIndex := map[domain.Label]int{}
	classes := []domain.Label{}
	for _, label := range labels {
		if _, ok := classIndex[label]; !ok {
			classIndex[label] = 0
			classes = append(classes, label)
		}
	}
	sort.Slice(classes, func(i, j int) bool {
		return classes[i] < classes[j]
	})
	for i, class := range classes {
		classIndex[class] = i
	}

	classCounts := make([]float64, len(classes))
	featureCounts := make([][]float64, len(classes))
	for i := range featureCounts {
		featureCounts[i] = make([]float64, features)
	}
	for i, vector := range vectors {
		c := classIndex[labels[i]]
		classCounts[c]++
		for _, f := range vector {
			if f.Index < 0 || f.Index >= features {
				return fmt.Errorf("feature index %d out of range", f.Index)
			}
			featureCounts[c][f.Index] += float64(f.Count)
		}
	}

	nb.Classes = classes
	nb.ClassLogPrior = make([]float64, len(classes))
	nb.FeatureLogProb = make([][]float64, len(classes))
	for c := range classes {
		nb.ClassLogPrior[c] = math.Log(classCounts[c] / float64(len(vectors)))

		total := 0.0
		for _, count := range featureCounts[c] {
			total += count
		}
		denominator := math.Log(total + nb.Alpha*float64(features))

		nb.FeatureLogProb[c] = make([]float64, features)
		for f, count := range featureCounts[c] {
			nb.FeatureLogProb[c][f] = math.Log(count+nb.Alpha) - denominator
		}
	}

	return nil
}

// JointLogLikelihood returns the unnormalized log posterior of every class in
// Classes order.
func (nb *MultinomialNB) JointLogLikelihood(vector SparseVector) []float64 {
	jll := make([]float64, len(nb.Classes))
	for c := range nb.Classes {
		jll[c] = nb.ClassLogPrior[c]
		for _, f := range vector {
			jll[c] += float64(f.Count) * nb.FeatureLogProb[c][f.Index]
		}
	}

	return jll
}

// Predict returns the most likely class. Ties go to the lowest label.
func (nb *MultinomialNB) Predict(vector SparseVector) domain.Label {
	jll := nb.JointLogLikelihood(vector)
	best := 0
	for c := 1; c < len(jll); c++ {
		if jll[c] > jll[best] {
			best = c
		}
	}

	return nb.Classes[best]
}
