// SPDX-License-Identifier: GPL-3.0-or-later
package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/CrawX/go-imap-triage/domain"
)

const (
	MessageColumn = "message"
	LabelColumn   = "spam"
)

// Record is one unvalidated dataset row.
type Record struct {
	Message string
	Label   string
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader
}

// ReadCanonical reads the base dataset. It has a header row; the message and
// label columns are found by name, other columns are ignored.
func ReadCanonical(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open canonical dataset: %w", err)
	}
	defer f.Close()

	reader := newReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("could not read canonical header: %w", err)
	}

	messageIdx, labelIdx := -1, -1
	for i, column := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(column, "\ufeff"))) {
		case MessageColumn:
			messageIdx = i
		case LabelColumn:
			labelIdx = i
		}
	}
	if messageIdx < 0 || labelIdx < 0 {
		return nil, fmt.Errorf("canonical dataset needs %q and %q columns, got %v", MessageColumn, LabelColumn, header)
	}

	records := []Record{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read canonical dataset: %w", err)
		}

		records = append(records, Record{
			Message: field(row, messageIdx),
			Label:   field(row, labelIdx),
		})
	}

	return records, nil
}

// ReadReinforcement reads the headerless corrections dataset. A missing file is
// an empty dataset.
func ReadReinforcement(path string) ([]Record, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open reinforcement dataset: %w", err)
	}
	defer f.Close()

	rows, err := newReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not read reinforcement dataset: %w", err)
	}

	// files written by hand sometimes start with a header anyway
	if len(rows) > 0 && strings.TrimSpace(field(rows[0], 0)) == MessageColumn {
		rows = rows[1:]
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Record{
			Message: field(row, 0),
			Label:   field(row, 1),
		})
	}

	return records, nil
}

func field(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

// ParseLabel coerces a dataset label. Only values numerically equal to 0 or 1
// are labels.
func ParseLabel(s string) (domain.Label, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}

	switch value {
	case 0:
		return domain.Legitimate, true
	case 1:
		return domain.Spam, true
	}

	return 0, false
}

// Merge concatenates the datasets in order and drops rows with an empty message
// or an unusable label. It returns the training examples and the number of
// dropped rows.
func Merge(datasets ...[]Record) ([]domain.TrainingExample, int) {
	examples := []domain.TrainingExample{}
	dropped := 0
	for _, records := range datasets {
		for _, r := range records {
			label, ok := ParseLabel(r.Label)
			if !ok || strings.TrimSpace(r.Message) == "" {
				dropped++
				continue
			}

			examples = append(examples, domain.TrainingExample{
				Text:  r.Message,
				Label: label,
			})
		}
	}

	return examples, dropped
}

// ReinforcementCorpus appends human corrected examples to the reinforcement
// dataset.
type ReinforcementCorpus struct {
	path string
	mu   sync.Mutex
}

func NewReinforcementCorpus(path string) *ReinforcementCorpus {
	return &ReinforcementCorpus{path: path}
}

func (rc *ReinforcementCorpus) Append(examples []domain.TrainingExample) error {
	if len(examples) == 0 {
		return nil
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	err := os.MkdirAll(filepath.Dir(rc.path), 0755)
	if err != nil {
		return fmt.Errorf("could not create directory: %w", err)
	}

	f, err := os.OpenFile(rc.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open reinforcement dataset: %w", err)
	}

	writer := csv.NewWriter(f)
	for _, example := range examples {
		err = writer.Write([]string{example.Text, strconv.Itoa(int(example.Label))})
		if err != nil {
			_ = f.Close()
			return fmt.Errorf("could not write example: %w", err)
		}
	}
	writer.Flush()

	err = writer.Error()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("could not flush examples: %w", err)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("could not close reinforcement dataset: %w", err)
	}

	return nil
}
