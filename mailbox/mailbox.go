// SPDX-License-Identifier: GPL-3.0-or-later
package mailbox

import (
	"fmt"
	"sort"

	"github.com/CrawX/go-imap-triage/domain"
	"github.com/CrawX/go-imap-triage/log"
	"github.com/CrawX/go-imap-triage/mail"

	"github.com/sirupsen/logrus"
)

const DefaultFetchLimit = 10

// Dialer opens a fresh, logged in connection.
type Dialer func() (domain.ImapConnector, error)

// Mailbox is the MailSource backed by one IMAP folder. Every Fetch uses its own
// connection so a broken session never outlives a poll cycle.
type Mailbox struct {
	dial          Dialer
	folder        string
	limit         int
	summaryLength int

	l *logrus.Logger
}

func NewMailbox(dial Dialer, folder string, limit int, summaryLength int) *Mailbox {
	if limit <= 0 {
		limit = DefaultFetchLimit
	}
	if summaryLength <= 0 {
		summaryLength = mail.DefaultSummaryLength
	}

	return &Mailbox{
		dial:          dial,
		folder:        folder,
		limit:         limit,
		summaryLength: summaryLength,
		l:             log.Logger(log.LOG_IMAP),
	}
}

func (m *Mailbox) Fetch() ([]*domain.Message, error) {
	conn, err := m.dial()
	if err != nil {
		return nil, fmt.Errorf("could not connect to mailbox: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			m.l.WithField("error", err).Warn("Could not close imap connection")
		}
	}()

	_, err = conn.Select(m.folder)
	if err != nil {
		return nil, fmt.Errorf("could not select %s: %w", m.folder, err)
	}

	uids, err := conn.ListUids()
	if err != nil {
		return nil, fmt.Errorf("could not list %s: %w", m.folder, err)
	}

	recent := newest(uids, m.limit)
	baseLogger := m.l.WithFields(logrus.Fields{
		"folder": m.folder,
		"total":  len(uids),
	})
	baseLogger.WithField("fetching", len(recent)).Debug("Listed folder")

	rawMails, err := conn.FetchMails(recent)
	if err != nil {
		return nil, fmt.Errorf("could not fetch from %s: %w", m.folder, err)
	}

	// servers answer in their own order
	sort.Slice(rawMails, func(i, j int) bool {
		return rawMails[i].Uid > rawMails[j].Uid
	})

	messages := make([]*domain.Message, 0, len(rawMails))
	for _, raw := range rawMails {
		msg, err := mail.ParseMessage(raw.RawMail, m.summaryLength)
		if err != nil {
			baseLogger.WithFields(logrus.Fields{
				"uid":   raw.Uid,
				"error": err,
			}).Warn("Could not parse mail, skipping")
			continue
		}
		msg.Uid = raw.Uid
		messages = append(messages, msg)
	}

	return messages, nil
}

// newest returns the limit highest uids, highest first.
func newest(uids []uint32, limit int) []uint32 {
	sorted := make([]uint32, len(uids))
	copy(sorted, uids)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] > sorted[j]
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	return sorted
}
