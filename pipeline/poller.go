// SPDX-License-Identifier: GPL-3.0-or-later
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/CrawX/go-imap-triage/domain"
	"github.com/CrawX/go-imap-triage/log"
	"github.com/CrawX/go-imap-triage/snapshot"

	"github.com/sirupsen/logrus"
)

// Poller runs classification cycles and publishes their snapshots. All cycles
// run on the goroutine calling Run, which makes it the only snapshot writer.
type Poller struct {
	source   domain.MailSource
	pipeline *Pipeline
	cache    *snapshot.Cache

	refresh chan struct{}

	l *logrus.Logger
}

func NewPoller(source domain.MailSource, pipeline *Pipeline, cache *snapshot.Cache) *Poller {
	return &Poller{
		source:   source,
		pipeline: pipeline,
		cache:    cache,
		refresh:  make(chan struct{}, 1),
		l:        log.Logger(log.LOG_PIPELINE),
	}
}

// Run polls once immediately and then on every interval tick or requested
// refresh until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	p.l.WithField("interval", p.pipeline.configuration.Interval).Info("Starting poll loop")
	p.PollOnce()

	ticker := time.NewTicker(p.pipeline.configuration.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.l.Info("Stopped poll loop")
			return
		case <-ticker.C:
			p.PollOnce()
		case <-p.refresh:
			p.l.Debug("Running requested refresh")
			p.PollOnce()
		}
	}
}

// Refresh schedules one extra cycle after the refresh delay. Requests arriving
// while one is already pending are merged.
func (p *Poller) Refresh() {
	time.AfterFunc(p.pipeline.configuration.RefreshDelay, func() {
		select {
		case p.refresh <- struct{}{}:
		default:
		}
	})
}

// PollOnce fetches, classifies and publishes one snapshot. Failures publish an
// empty snapshot carrying the reason. A panicking cycle publishes nothing and
// returns nil.
func (p *Poller) PollOnce() (published *snapshot.Snapshot) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.l.WithField("panic", r).Error("Poll cycle panicked, keeping previous snapshot")
			published = nil
		}
	}()

	messages, err := p.source.Fetch()
	if err != nil {
		p.l.WithField("error", err).Error("Could not fetch mails, mail source unavailable")
		return p.publish(snapshot.Empty(snapshot.StatusSourceUnavailable))
	}

	classification, err := p.pipeline.Classify(messages)
	if err != nil {
		p.l.WithFields(logrus.Fields{
			"mails":       len(messages),
			"unavailable": errors.Is(err, domain.ErrClassifierUnavailable),
			"error":       err,
		}).Error("Could not classify mails")
		return p.publish(snapshot.Empty(snapshot.StatusClassifierUnavailable))
	}

	s := snapshot.New(classification.Messages, classification.Degraded)
	p.l.WithFields(logrus.Fields{
		"inbox":    len(s.Inbox),
		"spam":     len(s.Spam),
		"degraded": s.Degraded,
		"duration": time.Since(start),
	}).Info("Published snapshot")

	return p.publish(s)
}

func (p *Poller) publish(s *snapshot.Snapshot) *snapshot.Snapshot {
	p.cache.Store(s)
	return s
}
