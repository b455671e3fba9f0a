// SPDX-License-Identifier: GPL-3.0-or-later
package domain

//go:generate mockgen -destination=mocks/persistence.go -package=mocks . Persistence
type Override struct {
	Subject string
	Label   Label
}

type Persistence interface {
	Close() error
	AllOverrides() (map[string]Label, error)
	AllTrustedDomains() ([]string, error)
	// SaveCorrections upserts all overrides and inserts the missing domains in one
	// transaction. It returns the domains which were not trusted before.
	SaveCorrections(overrides []Override, domains []string) ([]string, error)
}
