// SPDX-License-Identifier: GPL-3.0-or-later
package classifier

import (
	"fmt"
	"time"

	"github.com/CrawX/go-imap-triage/domain"
)

// Model is a vectorizer and the classifier fitted on its vocabulary. The two
// are only ever valid together.
type Model struct {
	Generation string
	TrainedAt  time.Time
	Vectorizer *CountVectorizer
	Classifier *MultinomialNB
}

// Train fits a fresh vocabulary and a fresh classifier on examples.
func Train(examples []domain.TrainingExample) (*Model, error) {
	if len(examples) == 0 {
		return nil, domain.ErrEmptyTrainingSet
	}

	texts := make([]string, len(examples))
	labels := make([]domain.Label, len(examples))
	for i, example := range examples {
		texts[i] = example.Text
		labels[i] = example.Label
	}

	vectorizer := &CountVectorizer{}
	vectorizer.Fit(texts)

	vectors := make([]SparseVector, len(texts))
	for i, text := range texts {
		vectors[i] = vectorizer.Transform(text)
	}

	nb := NewMultinomialNB()
	err := nb.Fit(vectors, labels, vectorizer.Size())
	if err != nil {
		return nil, fmt.Errorf("could not fit classifier: %w", err)
	}

	return &Model{
		TrainedAt:  time.Now(),
		Vectorizer: vectorizer,
		Classifier: nb,
	}, nil
}

func (m *Model) Predict(text string) domain.Label {
	return m.Classifier.Predict(m.Vectorizer.Transform(text))
}
