// SPDX-License-Identifier: GPL-3.0-or-later
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/CrawX/go-imap-triage/classifier"
	"github.com/CrawX/go-imap-triage/domain"
	"github.com/CrawX/go-imap-triage/log"
	"github.com/CrawX/go-imap-triage/mail"

	"github.com/sirupsen/logrus"
)

const (
	StoreOverrides      = "overrides"
	StoreTrustedDomains = "trusted_domains"
)

type Classification struct {
	// same order as the classified messages
	Messages []*domain.ClassifiedMessage
	// stores which could not be read and were treated as empty
	Degraded []string
}

// Pipeline labels messages. A human override for the exact subject wins, then a
// trusted sender domain, then the model.
type Pipeline struct {
	persistence domain.Persistence
	models      domain.ModelProvider

	configuration *configuration

	l *logrus.Logger
}

func NewPipeline(persistence domain.Persistence, models domain.ModelProvider, configFunc ...ConfigFunc) (*Pipeline, error) {
	config := defaultConfiguration()
	for _, f := range configFunc {
		err := f(config)
		if err != nil {
			return nil, fmt.Errorf("error applying configuration: %w", err)
		}
	}

	return &Pipeline{
		persistence:   persistence,
		models:        models,
		configuration: config,
		l:             log.Logger(log.LOG_PIPELINE),
	}, nil
}

// Classify labels all messages against one consistent read of both stores. It
// fails with domain.ErrClassifierUnavailable when no model can be loaded.
func (p *Pipeline) Classify(messages []*domain.Message) (*Classification, error) {
	start := time.Now()

	model, err := p.models.Model()
	if err != nil {
		if errors.Is(err, domain.ErrClassifierUnavailable) {
			return nil, fmt.Errorf("could not load model: %w", err)
		}
		return nil, fmt.Errorf("could not load model: %w: %w", domain.ErrClassifierUnavailable, err)
	}

	degraded := []string{}

	overrides, err := p.persistence.AllOverrides()
	if err != nil {
		p.l.WithFields(logrus.Fields{"store": StoreOverrides, "error": err}).Error("Could not read overrides, classifying without them")
		overrides = map[string]domain.Label{}
		degraded = append(degraded, StoreOverrides)
	}

	trusted := map[string]bool{}
	domains, err := p.persistence.AllTrustedDomains()
	if err != nil {
		p.l.WithFields(logrus.Fields{"store": StoreTrustedDomains, "error": err}).Error("Could not read trusted domains, classifying without them")
		degraded = append(degraded, StoreTrustedDomains)
	}
	for _, d := range domains {
		trusted[d] = true
	}

	results := make([]*domain.ClassifiedMessage, len(messages))
	modelIdx, texts := []int{}, []string{}
	for i, m := range messages {
		if label, ok := overrides[m.Subject]; ok {
			results[i] = domain.NewClassifiedMessage(m, label, domain.DecidedByOverride)
			continue
		}

		if senderDomain := mail.SenderDomain(m.Sender); senderDomain != "" && trusted[senderDomain] {
			results[i] = domain.NewClassifiedMessage(m, domain.Legitimate, domain.DecidedByTrustList)
			continue
		}

		modelIdx = append(modelIdx, i)
		texts = append(texts, m.Text())
	}

	concurrentModel := &classifier.ConcurrentModel{SpamModel: model}
	labels := concurrentModel.PredictAll(texts, p.configuration.Concurrency)
	for j, i := range modelIdx {
		results[i] = domain.NewClassifiedMessage(messages[i], labels[j], domain.DecidedByModel)
	}

	spam := 0
	for _, r := range results {
		p.l.WithFields(logrus.Fields{
			"subject":   mail.ShortSubject(r.Subject),
			"isSpam":    r.IsSpam,
			"decidedBy": r.DecidedBy,
		}).Debug("Classified mail")
		if r.IsSpam {
			spam++
		}
	}

	p.l.WithFields(logrus.Fields{
		"mails":    len(results),
		"spam":     spam,
		"model":    len(modelIdx),
		"duration": time.Since(start),
	}).Debug("Classified mails")

	return &Classification{
		Messages: results,
		Degraded: degraded,
	}, nil
}
