// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	stdmail "net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/CrawX/go-imap-triage/domain"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	gomail "github.com/emersion/go-message/mail"
)

const DefaultSummaryLength = 80

var (
	htmlTag      = regexp.MustCompile(`<[^>]+>`)
	senderDomain = regexp.MustCompile(`@([\p{L}\p{N}_.-]+)`)
)

// ParseMessage turns a raw RFC 5322 mail into a normalized message. The body is
// the first text/plain part, or the tag-stripped text/html part if there is none.
func ParseMessage(rawMail []byte, summaryLength int) (*domain.Message, error) {
	mr, err := gomail.CreateReader(bytes.NewReader(rawMail))
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, fmt.Errorf("could not parse mail: %w", err)
	}

	subject, err := mr.Header.Subject()
	if err != nil {
		subject = mr.Header.Get("Subject")
	}
	sender, err := mr.Header.Text("From")
	if err != nil {
		sender = mr.Header.Get("From")
	}

	body, err := textBody(mr)
	if err != nil {
		return nil, fmt.Errorf("could not read mail body: %w", err)
	}
	body = StripHTML(body)

	mailIdHash, err := MailIdHash(rawMail)
	if err != nil {
		mailIdHash = ""
	}

	return &domain.Message{
		MailIdHash: mailIdHash,
		Sender:     sender,
		Subject:    subject,
		Body:       body,
		Summary:    Summarize(body, summaryLength),
	}, nil
}

func textBody(mr *gomail.Reader) (string, error) {
	body := ""
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return body, nil
		}
		if err != nil && !message.IsUnknownCharset(err) {
			if len(body) > 0 {
				return body, nil
			}
			return "", err
		}
		if p == nil {
			continue
		}

		h, ok := p.Header.(*gomail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, _ := h.ContentType()
		switch {
		case contentType == "" || contentType == "text/plain":
			content, err := ioutil.ReadAll(p.Body)
			if err != nil {
				return "", fmt.Errorf("could not read text part: %w", err)
			}
			return string(content), nil
		case contentType == "text/html":
			content, err := ioutil.ReadAll(p.Body)
			if err != nil {
				return "", fmt.Errorf("could not read html part: %w", err)
			}
			body = StripHTML(string(content))
		}
	}
}

// StripHTML replaces tags with spaces and collapses all whitespace.
func StripHTML(text string) string {
	return strings.Join(strings.Fields(htmlTag.ReplaceAllString(text, " ")), " ")
}

func Summarize(body string, length int) string {
	if length <= 0 {
		length = DefaultSummaryLength
	}
	if utf8.RuneCountInString(body) <= length {
		return body
	}

	return string([]rune(body)[:length]) + "..."
}

// SenderDomain extracts the lower-cased domain of a From header value like
// "Erik <erik@google.com>". Internationalized domains are kept whole. It
// returns an empty string if there is none.
func SenderDomain(sender string) string {
	match := senderDomain.FindStringSubmatch(sender)
	if match == nil {
		return ""
	}

	return strings.ToLower(match[1])
}

// MailIdHash identifies a mail across fetches by its Message-Id and Received headers.
func MailIdHash(rawMail []byte) (string, error) {
	msg, err := stdmail.ReadMessage(bytes.NewReader(rawMail))
	if err != nil {
		return "", fmt.Errorf("could not parse mail: %w", err)
	}

	messageIdHeader := msg.Header["Message-Id"]
	receivedHeader := msg.Header["Received"]
	if len(receivedHeader) == 0 && len(messageIdHeader) == 0 {
		return "", fmt.Errorf("Received and Message-Id header header not found")
	}

	mailIdHash, err := hash([][]string{messageIdHeader, receivedHeader})
	if err != nil {
		return "", fmt.Errorf("could not hash headers: %w", err)
	}

	return mailIdHash, nil
}

func ShortSubject(subject string) string {
	if utf8.RuneCountInString(subject) > 30 {
		subject = string([]rune(subject)[:30]) + "..."
	}
	return subject
}

func hash(input [][]string) (string, error) {
	sha := sha256.New()
	for _, i := range input {
		for _, ii := range i {
			_, err := sha.Write([]byte(ii))
			if err != nil {
				return "", fmt.Errorf("could not hash: %w", err)
			}
		}
	}

	return fmt.Sprintf("%x", sha.Sum(nil)), nil
}
