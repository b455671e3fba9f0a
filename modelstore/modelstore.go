// SPDX-License-Identifier: GPL-3.0-or-later
package modelstore

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/CrawX/go-imap-triage/classifier"
	"github.com/CrawX/go-imap-triage/domain"
	"github.com/CrawX/go-imap-triage/log"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
)

var ErrArtifactMismatch = errors.New("vectorizer and classifier artifacts do not match")

type vectorizerBlob struct {
	Generation string
	TrainedAt  time.Time
	Vectorizer *classifier.CountVectorizer
}

type classifierBlob struct {
	Generation string
	TrainedAt  time.Time
	Classifier *classifier.MultinomialNB
}

type fileStamp struct {
	size    int64
	modTime time.Time
}

type pairStamp [2]fileStamp

func (ps pairStamp) equal(other pairStamp) bool {
	for i := range ps {
		if ps[i].size != other[i].size || !ps[i].modTime.Equal(other[i].modTime) {
			return false
		}
	}
	return true
}

// Store keeps the vectorizer and classifier blobs of one model at two stable
// paths. Both blobs carry the generation of the model they belong to and are
// only ever accepted together.
type Store struct {
	vectorizerPath string
	classifierPath string

	// guards the files
	mu sync.RWMutex

	// guards the cached model, never held while taking mu for writing
	cacheMu     sync.Mutex
	cached      *classifier.Model
	cachedStamp pairStamp

	l *logrus.Logger
}

func NewStore(vectorizerPath string, classifierPath string) *Store {
	return &Store{
		vectorizerPath: vectorizerPath,
		classifierPath: classifierPath,
		l:              log.Logger(log.LOG_MODEL),
	}
}

// Exists reports whether both blobs are present.
func (s *Store) Exists() bool {
	_, err := s.stat()
	return err == nil
}

// Save stamps model with a new generation and replaces the persisted pair. The
// blobs are fully written to temporary files before either is renamed into place.
func (s *Store) Save(model *classifier.Model) error {
	model.Generation = uuid.New().String()

	vectorizerTmp, err := writeBlob(s.vectorizerPath, &vectorizerBlob{
		Generation: model.Generation,
		TrainedAt:  model.TrainedAt,
		Vectorizer: model.Vectorizer,
	})
	if err != nil {
		return fmt.Errorf("could not write vectorizer: %w", err)
	}

	classifierTmp, err := writeBlob(s.classifierPath, &classifierBlob{
		Generation: model.Generation,
		TrainedAt:  model.TrainedAt,
		Classifier: model.Classifier,
	})
	if err != nil {
		_ = os.Remove(vectorizerTmp)
		return fmt.Errorf("could not write classifier: %w", err)
	}

	err = s.replace(vectorizerTmp, classifierTmp)
	if err != nil {
		return err
	}

	stamp, err := s.stat()
	s.cacheMu.Lock()
	s.cached = model
	if err == nil {
		s.cachedStamp = stamp
	}
	s.cacheMu.Unlock()

	s.l.WithFields(logrus.Fields{
		"generation": model.Generation,
		"vocabulary": model.Vectorizer.Size(),
	}).Info("Saved model")

	return nil
}

func (s *Store) replace(vectorizerTmp, classifierTmp string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Rename(vectorizerTmp, s.vectorizerPath)
	if err != nil {
		_ = os.Remove(vectorizerTmp)
		_ = os.Remove(classifierTmp)
		return fmt.Errorf("could not replace vectorizer: %w", err)
	}

	err = os.Rename(classifierTmp, s.classifierPath)
	if err != nil {
		_ = os.Remove(classifierTmp)
		return fmt.Errorf("could not replace classifier: %w", err)
	}

	return nil
}

// Load reads the persisted pair. Pairs of different generations are rejected
// with ErrArtifactMismatch.
func (s *Store) Load() (*classifier.Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := &vectorizerBlob{}
	err := readBlob(s.vectorizerPath, v)
	if err != nil {
		return nil, fmt.Errorf("could not read vectorizer: %w", err)
	}

	c := &classifierBlob{}
	err = readBlob(s.classifierPath, c)
	if err != nil {
		return nil, fmt.Errorf("could not read classifier: %w", err)
	}

	if v.Generation != c.Generation {
		return nil, fmt.Errorf("%w: vectorizer %s, classifier %s", ErrArtifactMismatch, v.Generation, c.Generation)
	}
	if v.Vectorizer == nil || c.Classifier == nil {
		return nil, fmt.Errorf("incomplete model generation %s", v.Generation)
	}
	if v.Vectorizer.Vocabulary == nil {
		v.Vectorizer.Vocabulary = map[string]int{}
	}
	for _, logProbs := range c.Classifier.FeatureLogProb {
		if len(logProbs) != v.Vectorizer.Size() {
			return nil, fmt.Errorf("%w: vocabulary of %d terms, classifier over %d", ErrArtifactMismatch, v.Vectorizer.Size(), len(logProbs))
		}
	}
	if len(c.Classifier.Classes) == 0 {
		return nil, fmt.Errorf("model generation %s has no classes", v.Generation)
	}

	return &classifier.Model{
		Generation: v.Generation,
		TrainedAt:  v.TrainedAt,
		Vectorizer: v.Vectorizer,
		Classifier: c.Classifier,
	}, nil
}

// Model returns the current model. It is reloaded from disk when either blob
// changed since it was cached.
func (s *Store) Model() (domain.SpamModel, error) {
	stamp, statErr := s.stat()

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	if s.cached != nil && statErr == nil && stamp.equal(s.cachedStamp) {
		return s.cached, nil
	}

	model, err := s.Load()
	if err != nil {
		if s.cached != nil && errors.Is(err, ErrArtifactMismatch) {
			s.l.WithFields(logrus.Fields{
				"generation": s.cached.Generation,
				"error":      err,
			}).Warn("Persisted model is inconsistent, serving cached model")
			return s.cached, nil
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrClassifierUnavailable, err)
	}

	if s.cached == nil || s.cached.Generation != model.Generation {
		s.l.WithField("generation", model.Generation).Info("Loaded model")
	}
	s.cached = model
	s.cachedStamp = stamp

	return model, nil
}

func (s *Store) stat() (pairStamp, error) {
	stamp := pairStamp{}
	for i, path := range []string{s.vectorizerPath, s.classifierPath} {
		info, err := os.Stat(path)
		if err != nil {
			return stamp, err
		}
		stamp[i] = fileStamp{size: info.Size(), modTime: info.ModTime()}
	}

	return stamp, nil
}

func writeBlob(path string, blob interface{}) (string, error) {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return "", fmt.Errorf("could not create directory: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("could not create temp file: %w", err)
	}

	err = encodeBlob(f, blob)
	if err == nil {
		err = f.Sync()
	}
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}

	return f.Name(), nil
}

func encodeBlob(f *os.File, blob interface{}) error {
	enc, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("could not create compressor: %w", err)
	}

	err = gob.NewEncoder(enc).Encode(blob)
	if err != nil {
		_ = enc.Close()
		return fmt.Errorf("could not encode: %w", err)
	}

	return enc.Close()
}

func readBlob(path string, blob interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return fmt.Errorf("could not create decompressor: %w", err)
	}
	defer dec.Close()

	err = gob.NewDecoder(dec).Decode(blob)
	if err != nil {
		return fmt.Errorf("could not decode: %w", err)
	}

	return nil
}
