// SPDX-License-Identifier: GPL-3.0-or-later

//go:generate mockgen -destination=mocks/classifier.go -package=mocks . SpamModel,ModelProvider,Retrainer,Corpus
package domain

import "time"

type SpamModel interface {
	Predict(text string) Label
}

// ModelProvider hands out the currently active model artifact.
type ModelProvider interface {
	Model() (SpamModel, error)
}

type TrainingExample struct {
	Text  string
	Label Label
}

type RetrainReport struct {
	Canonical     int
	Reinforcement int
	Dropped       int
	Examples      int
	Vocabulary    int
	Generation    string
	Duration      time.Duration
}

type Retrainer interface {
	Retrain() (*RetrainReport, error)
}

// Corpus receives human corrected examples for the next retraining.
type Corpus interface {
	Append(examples []TrainingExample) error
}
