// SPDX-License-Identifier: GPL-3.0-or-later
package classifier

import (
	"errors"
	"math"
	"testing"

	"github.com/CrawX/go-imap-triage/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainingSet() []domain.TrainingExample {
	return []domain.TrainingExample{
		{Text: "win free money now", Label: domain.Spam},
		{Text: "claim your prize now", Label: domain.Spam},
		{Text: "meeting agenda for monday", Label: domain.Legitimate},
		{Text: "invoice attached for your review", Label: domain.Legitimate},
	}
}

func TestTrain(t *testing.T) {
	model, err := Train(trainingSet())
	require.NoError(t, err)

	assert.Equal(t, 14, model.Vectorizer.Size())
	assert.Equal(t, []domain.Label{domain.Legitimate, domain.Spam}, model.Classifier.Classes)
	assert.InDelta(t, math.Log(0.5), model.Classifier.ClassLogPrior[0], 1e-12)
	assert.InDelta(t, math.Log(0.5), model.Classifier.ClassLogPrior[1], 1e-12)

	now := model.Vectorizer.Vocabulary["now"]
	assert.InDelta(t, math.Log(3.0/22.0), model.Classifier.FeatureLogProb[1][now], 1e-12)
	assert.InDelta(t, math.Log(1.0/23.0), model.Classifier.FeatureLogProb[0][now], 1e-12)
}

func TestModel_Predict(t *testing.T) {
	model, err := Train(trainingSet())
	require.NoError(t, err)

	tests := []struct {
		text     string
		expected domain.Label
	}{
		{"Win a prize free money now", domain.Spam},
		{"Meeting agenda for review", domain.Legitimate},
		// only the equal priors count, the tie goes to the lower label
		{"", domain.Legitimate},
		{"completely unknown words", domain.Legitimate},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.expected, model.Predict(tc.text))
		})
	}
}

func TestTrain_Deterministic(t *testing.T) {
	first, err := Train(trainingSet())
	require.NoError(t, err)
	second, err := Train(trainingSet())
	require.NoError(t, err)

	assert.Equal(t, first.Vectorizer, second.Vectorizer)
	assert.Equal(t, first.Classifier, second.Classifier)
}

func TestTrain_SingleClass(t *testing.T) {
	model, err := Train([]domain.TrainingExample{
		{Text: "only spam here", Label: domain.Spam},
		{Text: "more spam", Label: domain.Spam},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.Spam, model.Predict("meeting agenda"))
	assert.Equal(t, domain.Spam, model.Predict(""))
}

func TestTrain_Empty(t *testing.T) {
	model, err := Train([]domain.TrainingExample{})
	assert.True(t, errors.Is(err, domain.ErrEmptyTrainingSet))
	assert.Nil(t, model)
}

func TestMultinomialNB_FitMismatch(t *testing.T) {
	nb := NewMultinomialNB()
	err := nb.Fit([]SparseVector{{}}, []domain.Label{}, 0)
	assert.EqualError(t, err, "got 1 vectors but 0 labels")
}
