// SPDX-License-Identifier: GPL-3.0-or-later
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration is a time.Duration written as a string like "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}

	d.Duration = parsed
	return nil
}

type Config struct {
	Database string

	ImapHost      string
	User          string
	Password      string
	Folder        string
	FetchLimit    int
	SummaryLength int

	PollInterval Duration
	RefreshDelay Duration
	Concurrency  int

	Listen string

	VectorizerPath       string
	ClassifierPath       string
	CanonicalDataset     string
	ReinforcementDataset string
	TrainIfMissing       bool

	Loglevel *string
}

func defaultConfig() *Config {
	return &Config{
		Database:             "persistence.db",
		Folder:               "INBOX",
		FetchLimit:           10,
		SummaryLength:        80,
		PollInterval:         Duration{10 * time.Second},
		RefreshDelay:         Duration{time.Second},
		Concurrency:          4,
		Listen:               ":8080",
		VectorizerPath:       "models/vectorizer.bin",
		ClassifierPath:       "models/classifier.bin",
		CanonicalDataset:     "data/emails.csv",
		ReinforcementDataset: "data/refuerzo_espanol.csv",
		TrainIfMissing:       true,
	}
}

func ReadConfig(filename string) (*Config, error) {
	config := defaultConfig()

	_, err := toml.DecodeFile(filename, config)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if err := validateNonEmptyStringField(c.Database, "Database name must not be empty, set to a filename for the sqlite database"); err != nil {
		return err
	}

	if err := validateNonEmptyStringField(c.VectorizerPath, "VectorizerPath must not be empty, set to the file of the vectorizer artifact"); err != nil {
		return err
	}

	if err := validateNonEmptyStringField(c.ClassifierPath, "ClassifierPath must not be empty, set to the file of the classifier artifact"); err != nil {
		return err
	}

	if c.VectorizerPath == c.ClassifierPath {
		return fmt.Errorf("VectorizerPath and ClassifierPath cannot be the same file")
	}

	if err := validateNonEmptyStringField(c.ReinforcementDataset, "ReinforcementDataset must not be empty, set to the csv file collecting corrections"); err != nil {
		return err
	}

	if c.FetchLimit < 1 {
		return fmt.Errorf("FetchLimit must be at least 1")
	}

	if c.SummaryLength < 1 {
		return fmt.Errorf("SummaryLength must be at least 1")
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("Concurrency must be at least 1")
	}

	if c.PollInterval.Duration <= 0 {
		return fmt.Errorf("PollInterval must be positive")
	}

	if c.RefreshDelay.Duration < 0 {
		return fmt.Errorf("RefreshDelay cannot be negative")
	}

	return nil
}

// ValidateServe checks the settings only needed to poll the mailbox and serve.
func (c *Config) ValidateServe() error {
	if err := validateNonEmptyStringField(c.ImapHost, "ImapHost must not be empty, set to host:port of the imap server"); err != nil {
		return err
	}

	if err := validateNonEmptyStringField(c.User, "User must not be empty, set to username on the imap server"); err != nil {
		return err
	}

	if err := validateNonEmptyStringField(c.Password, "Password must not be empty, set to password of User on the imap server"); err != nil {
		return err
	}

	if err := validateNonEmptyStringField(c.Folder, "Folder must not be empty, set to the imap folder to classify"); err != nil {
		return err
	}

	if err := validateNonEmptyStringField(c.Listen, "Listen must not be empty, set to host:port for the http server"); err != nil {
		return err
	}

	return nil
}

func validateNonEmptyStringField(field string, err string) error {
	if len(strings.TrimSpace(field)) == 0 {
		return errors.New(err)
	}

	return nil
}
