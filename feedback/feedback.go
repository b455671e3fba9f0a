// SPDX-License-Identifier: GPL-3.0-or-later
package feedback

import (
	"errors"
	"fmt"
	"sync"

	"github.com/CrawX/go-imap-triage/domain"
	"github.com/CrawX/go-imap-triage/log"
	"github.com/CrawX/go-imap-triage/mail"
	"github.com/CrawX/go-imap-triage/snapshot"

	"github.com/sirupsen/logrus"
)

type Result struct {
	Subjects     int                   `json:"subjects"`
	Label        domain.Label          `json:"label"`
	NewDomains   []string              `json:"newDomains"`
	Appended     int                   `json:"appended"`
	CorpusError  string                `json:"corpusError,omitempty"`
	Retrain      *domain.RetrainReport `json:"retrain,omitempty"`
	RetrainError string                `json:"retrainError,omitempty"`
}

// Ingest applies batches of human corrections. Batches are applied one at a
// time.
type Ingest struct {
	persistence domain.Persistence
	corpus      domain.Corpus
	retrainer   domain.Retrainer
	snapshots   *snapshot.Cache
	refresh     func()

	mu sync.Mutex

	l *logrus.Logger
}

func NewIngest(persistence domain.Persistence, corpus domain.Corpus, retrainer domain.Retrainer, snapshots *snapshot.Cache, refresh func()) *Ingest {
	return &Ingest{
		persistence: persistence,
		corpus:      corpus,
		retrainer:   retrainer,
		snapshots:   snapshots,
		refresh:     refresh,
		l:           log.Logger(log.LOG_FEEDBACK),
	}
}

// Correct records label as the verdict for every subject. Correcting messages
// to legitimate also trusts the sender domains of the matching messages in the
// spam partition of the current snapshot. Both stores are committed before the
// model is retrained; a failed retrain is reported in the result only.
func (i *Ingest) Correct(subjects []string, label domain.Label) (*Result, error) {
	batch := []string{}
	for _, s := range subjects {
		if s != "" {
			batch = append(batch, s)
		}
	}
	if len(batch) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	if !label.Valid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidLabel, int(label))
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	current := i.snapshots.Load()
	baseLogger := i.l.WithFields(logrus.Fields{
		"subjects": len(batch),
		"label":    label,
	})

	overrides := make([]domain.Override, 0, len(batch))
	for _, subject := range batch {
		overrides = append(overrides, domain.Override{Subject: subject, Label: label})
	}

	domains := []string{}
	if label == domain.Legitimate {
		seen := map[string]bool{}
		for _, subject := range batch {
			m := current.FindSpam(subject)
			if m == nil {
				baseLogger.WithField("subject", mail.ShortSubject(subject)).Debug("Subject not in spam, no domain to trust")
				continue
			}

			d := mail.SenderDomain(m.Sender)
			if d == "" || seen[d] {
				continue
			}
			seen[d] = true
			domains = append(domains, d)
		}
	}

	added, err := i.persistence.SaveCorrections(overrides, domains)
	if err != nil {
		return nil, fmt.Errorf("could not save corrections: %w", err)
	}
	if added == nil {
		added = []string{}
	}

	result := &Result{
		Subjects:   len(batch),
		Label:      label,
		NewDomains: added,
	}
	if len(added) > 0 {
		baseLogger.WithField("domains", added).Info("Trusting new sender domains")
	}

	examples := []domain.TrainingExample{}
	for _, subject := range batch {
		if m := current.Find(subject); m != nil {
			examples = append(examples, domain.TrainingExample{Text: m.Text(), Label: label})
		}
	}
	err = i.corpus.Append(examples)
	if err != nil {
		baseLogger.WithField("error", err).Error("Could not append corrections to training corpus")
		result.CorpusError = err.Error()
	} else {
		result.Appended = len(examples)
	}

	report, err := i.retrainer.Retrain()
	switch {
	case errors.Is(err, domain.ErrEmptyTrainingSet):
		baseLogger.Warn("Nothing to retrain on, keeping current model")
		result.RetrainError = err.Error()
	case err != nil:
		baseLogger.WithField("error", err).Error("Could not retrain model, keeping current model")
		result.RetrainError = err.Error()
	default:
		result.Retrain = report
	}

	baseLogger.WithFields(logrus.Fields{
		"appended":   result.Appended,
		"newDomains": len(added),
		"retrained":  result.Retrain != nil,
	}).Info("Applied corrections")

	if i.refresh != nil {
		i.refresh()
	}

	return result, nil
}
