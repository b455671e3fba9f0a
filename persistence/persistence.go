// SPDX-License-Identifier: GPL-3.0-or-later
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/CrawX/go-imap-triage/domain"
	"github.com/CrawX/go-imap-triage/log"
	"github.com/CrawX/go-imap-triage/persistence/migrations"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
)

// Persistence holds the override store and the trust list store. Both live in
// the same SQLite database so a correction batch can update them atomically.
type Persistence struct {
	db *sqlx.DB
	l  *logrus.Logger
}

func NewPersistence(datasource string) (*Persistence, error) {
	db, err := sqlx.Connect("sqlite3", datasource)
	if err != nil {
		return nil, fmt.Errorf("could not open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	l := log.Logger(log.LOG_PERSISTENCE)
	l.WithField("file", datasource).Info("Connected")

	migrationSource := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrations.FS,
		Root:       migrations.Root,
	}

	_, err = db.Exec(`PRAGMA journal_mode=WAL`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not set journal mode: %w", err)
	}
	_, err = db.Exec(`PRAGMA synchronous=full`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not set synchronous mode: %w", err)
	}

	appliedMigrations, err := migrate.Exec(db.DB, "sqlite3", migrationSource, migrate.Up)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("could not migrate to newest version: %w", err)
	}

	l.WithField("migrations", appliedMigrations).Debug("Executed migrations")

	return &Persistence{
		db: db,
		l:  l,
	}, nil
}

func (p *Persistence) Close() error {
	err := p.db.Close()
	if err != nil {
		return fmt.Errorf("could not close db: %w", err)
	}
	p.l.Info("Disconnected")
	return nil
}

func (p *Persistence) AllOverrides() (map[string]domain.Label, error) {
	dbOverrides := []struct {
		Subject string
		Label   int
	}{}

	err := p.db.Select(
		&dbOverrides,
		`SELECT subject, label FROM overrides`,
	)
	if err != nil {
		return nil, fmt.Errorf("could not query db: %w", err)
	}

	overrides := make(map[string]domain.Label, len(dbOverrides))
	for _, o := range dbOverrides {
		overrides[o.Subject] = domain.Label(o.Label)
	}

	p.l.WithField("Count", len(overrides)).Debug("Found overrides")

	return overrides, nil
}

func (p *Persistence) AllTrustedDomains() ([]string, error) {
	domains := []string{}
	err := p.db.Select(
		&domains,
		`SELECT domain FROM trusted_domains ORDER BY domain`,
	)
	if err != nil {
		return nil, fmt.Errorf("could not query db: %w", err)
	}

	p.l.WithField("Count", len(domains)).Debug("Found trusted domains")

	return domains, nil
}

func (p *Persistence) SaveCorrections(overrides []domain.Override, domains []string) ([]string, error) {
	tx, err := p.db.BeginTxx(context.TODO(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not start transaction: %w", err)
	}

	now := time.Now().Unix()

	overrideStmt, err := tx.Prepare(
		`INSERT INTO overrides(subject, label, updated_at) VALUES(?, ?, ?)
		ON CONFLICT(subject) DO UPDATE SET label = excluded.label, updated_at = excluded.updated_at`,
	)
	if err != nil {
		return nil, txEnd(tx, fmt.Errorf("could not prepare statement: %w", err))
	}
	defer overrideStmt.Close()

	for _, o := range overrides {
		if !o.Label.Valid() {
			return nil, txEnd(tx, fmt.Errorf("could not save override: %w: %d", domain.ErrInvalidLabel, int(o.Label)))
		}
		_, err := overrideStmt.Exec(o.Subject, int(o.Label), now)
		if err != nil {
			return nil, txEnd(tx, fmt.Errorf("could not save override: %w", err))
		}
	}

	domainStmt, err := tx.Prepare(
		`INSERT OR IGNORE INTO trusted_domains(domain, added_at) VALUES(?, ?)`,
	)
	if err != nil {
		return nil, txEnd(tx, fmt.Errorf("could not prepare statement: %w", err))
	}
	defer domainStmt.Close()

	added := []string{}
	for _, d := range domains {
		if d == "" {
			continue
		}
		result, err := domainStmt.Exec(d, now)
		if err != nil {
			return nil, txEnd(tx, fmt.Errorf("could not save trusted domain: %w", err))
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return nil, txEnd(tx, fmt.Errorf("could not get num of affected rows: %w", err))
		}
		if affected == 1 {
			added = append(added, d)
		}
	}

	err = txEnd(tx, nil)
	if err != nil {
		return nil, err
	}

	p.l.WithFields(logrus.Fields{
		"Overrides": len(overrides),
		"Domains":   added,
	}).Info("Persisted corrections")

	return added, nil
}

func txEnd(tx *sqlx.Tx, err error) error {
	if err == nil {
		err = tx.Commit()
		if err != nil {
			return fmt.Errorf("could not commit tx: %w", err)
		}
	} else {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			errStr := err.Error()
			return fmt.Errorf("%s, could not rollback tx: %w", errStr, rollbackErr)
		} else {
			return err
		}
	}

	return nil
}
