// SPDX-License-Identifier: GPL-3.0-or-later
package domain

//go:generate mockgen -destination=mocks/imap.go -package=mocks . ImapConnector,MailSource
type RawImapMail struct {
	Uid     uint32
	RawMail []byte
}

type ImapConnector interface {
	Select(folder string) (uint32, error)
	ListUids() ([]uint32, error)
	FetchMails(uids []uint32) ([]*RawImapMail, error)

	Close() error
}

// MailSource supplies one fetch cycle worth of normalized messages, newest first.
type MailSource interface {
	Fetch() ([]*Message, error)
}
