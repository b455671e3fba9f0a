// SPDX-License-Identifier: GPL-3.0-or-later
package snapshot

import (
	"sync/atomic"
	"time"

	"github.com/CrawX/go-imap-triage/domain"
)

type Status string

const (
	// no cycle finished yet
	StatusPending               = Status("pending")
	StatusOk                    = Status("ok")
	StatusSourceUnavailable     = Status("source_unavailable")
	StatusClassifierUnavailable = Status("classifier_unavailable")
)

// Snapshot is the result of one classification cycle, partitioned by label. A
// published snapshot is never modified.
type Snapshot struct {
	Inbox     []*domain.ClassifiedMessage `json:"inbox"`
	Spam      []*domain.ClassifiedMessage `json:"spam"`
	Status    Status                      `json:"status"`
	Degraded  []string                    `json:"degraded"`
	UpdatedAt time.Time                   `json:"updatedAt"`
}

func New(messages []*domain.ClassifiedMessage, degraded []string) *Snapshot {
	s := &Snapshot{
		Inbox:     []*domain.ClassifiedMessage{},
		Spam:      []*domain.ClassifiedMessage{},
		Status:    StatusOk,
		Degraded:  degraded,
		UpdatedAt: time.Now(),
	}
	if s.Degraded == nil {
		s.Degraded = []string{}
	}

	for _, m := range messages {
		if m.IsSpam {
			s.Spam = append(s.Spam, m)
		} else {
			s.Inbox = append(s.Inbox, m)
		}
	}

	return s
}

// Empty returns a snapshot without messages, used when a cycle could not
// classify anything.
func Empty(status Status) *Snapshot {
	return &Snapshot{
		Inbox:     []*domain.ClassifiedMessage{},
		Spam:      []*domain.ClassifiedMessage{},
		Status:    status,
		Degraded:  []string{},
		UpdatedAt: time.Now(),
	}
}

func (s *Snapshot) Total() int {
	return len(s.Inbox) + len(s.Spam)
}

// FindSpam returns the first message in the spam partition with exactly this
// subject, or nil.
func (s *Snapshot) FindSpam(subject string) *domain.ClassifiedMessage {
	return find(s.Spam, subject)
}

// Find looks in the spam partition first, then in the inbox.
func (s *Snapshot) Find(subject string) *domain.ClassifiedMessage {
	if m := find(s.Spam, subject); m != nil {
		return m
	}
	return find(s.Inbox, subject)
}

func find(messages []*domain.ClassifiedMessage, subject string) *domain.ClassifiedMessage {
	for _, m := range messages {
		if m.Subject == subject {
			return m
		}
	}
	return nil
}

// Cache holds the latest published snapshot. The poll loop is its only writer.
type Cache struct {
	current atomic.Pointer[Snapshot]
}

func NewCache() *Cache {
	c := &Cache{}
	c.current.Store(Empty(StatusPending))
	return c
}

func (c *Cache) Load() *Snapshot {
	return c.current.Load()
}

func (c *Cache) Store(s *Snapshot) {
	c.current.Store(s)
}
