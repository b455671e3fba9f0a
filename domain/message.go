// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import (
	"fmt"
	"strings"
)

type Label int

const (
	Legitimate = Label(0)
	Spam       = Label(1)
)

func (l Label) String() string {
	switch l {
	case Legitimate:
		return "legitimate"
	case Spam:
		return "spam"
	}
	return fmt.Sprintf("Label(%d)", int(l))
}

func (l Label) Valid() bool {
	return l == Legitimate || l == Spam
}

func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "ham", "legitimate":
		return Legitimate, nil
	case "1", "spam":
		return Spam, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidLabel, s)
}

type Message struct {
	Uid        uint32 `json:"uid"`
	MailIdHash string `json:"mailIdHash,omitempty"`
	Sender     string `json:"sender"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
	Summary    string `json:"summary"`
}

// Text is what the model sees of a message.
func (m *Message) Text() string {
	return m.Subject + " " + m.Body
}

type DecidedBy string

const (
	DecidedByOverride  = DecidedBy("override")
	DecidedByTrustList = DecidedBy("trust")
	DecidedByModel     = DecidedBy("model")
)

type ClassifiedMessage struct {
	Message
	Label     Label     `json:"label"`
	IsSpam    bool      `json:"isSpam"`
	DecidedBy DecidedBy `json:"decidedBy"`
}

func NewClassifiedMessage(m *Message, label Label, decidedBy DecidedBy) *ClassifiedMessage {
	return &ClassifiedMessage{
		Message:   *m,
		Label:     label,
		IsSpam:    label == Spam,
		DecidedBy: decidedBy,
	}
}
