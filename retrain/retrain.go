// SPDX-License-Identifier: GPL-3.0-or-later
package retrain

import (
	"fmt"
	"time"

	"github.com/CrawX/go-imap-triage/classifier"
	"github.com/CrawX/go-imap-triage/corpus"
	"github.com/CrawX/go-imap-triage/domain"
	"github.com/CrawX/go-imap-triage/log"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ModelSaver persists a freshly trained model as the current artifact.
type ModelSaver interface {
	Save(model *classifier.Model) error
}

// Job rebuilds the model from the canonical and the reinforcement dataset.
type Job struct {
	canonicalPath     string
	reinforcementPath string
	store             ModelSaver

	l *logrus.Logger
}

func NewJob(canonicalPath string, reinforcementPath string, store ModelSaver) *Job {
	return &Job{
		canonicalPath:     canonicalPath,
		reinforcementPath: reinforcementPath,
		store:             store,
		l:                 log.Logger(log.LOG_RETRAIN),
	}
}

// Retrain trains a new vectorizer and classifier pair and persists it. An empty
// training set returns domain.ErrEmptyTrainingSet and leaves the current
// artifact untouched.
func (j *Job) Retrain() (*domain.RetrainReport, error) {
	start := time.Now()

	var canonical, reinforcement []corpus.Record
	g := errgroup.Group{}
	g.Go(func() error {
		records, err := corpus.ReadCanonical(j.canonicalPath)
		if err != nil {
			j.l.WithFields(logrus.Fields{
				"file":  j.canonicalPath,
				"error": err,
			}).Warn("Could not read canonical dataset, using no canonical examples")
			records = []corpus.Record{}
		}
		canonical = records
		return nil
	})
	g.Go(func() error {
		records, err := corpus.ReadReinforcement(j.reinforcementPath)
		if err != nil {
			j.l.WithFields(logrus.Fields{
				"file":  j.reinforcementPath,
				"error": err,
			}).Warn("Could not read reinforcement dataset, using no reinforcement examples")
			records = []corpus.Record{}
		}
		reinforcement = records
		return nil
	})
	// both loaders degrade to empty datasets instead of failing
	_ = g.Wait()

	examples, dropped := corpus.Merge(canonical, reinforcement)
	report := &domain.RetrainReport{
		Canonical:     len(canonical),
		Reinforcement: len(reinforcement),
		Dropped:       dropped,
		Examples:      len(examples),
	}

	baseLogger := j.l.WithFields(logrus.Fields{
		"canonical":     report.Canonical,
		"reinforcement": report.Reinforcement,
		"dropped":       report.Dropped,
	})

	if len(examples) == 0 {
		baseLogger.Warn("No valid training examples, keeping current model")
		return report, domain.ErrEmptyTrainingSet
	}

	baseLogger.WithField("examples", report.Examples).Info("Training model")

	model, err := classifier.Train(examples)
	if err != nil {
		return report, fmt.Errorf("could not train model: %w", err)
	}

	err = j.store.Save(model)
	if err != nil {
		return report, fmt.Errorf("could not save model: %w", err)
	}

	report.Vocabulary = model.Vectorizer.Size()
	report.Generation = model.Generation
	report.Duration = time.Since(start)

	baseLogger.WithFields(logrus.Fields{
		"examples":   report.Examples,
		"vocabulary": report.Vocabulary,
		"generation": report.Generation,
		"duration":   report.Duration,
	}).Info("Retrained model")

	return report, nil
}
