// SPDX-License-Identifier: GPL-3.0-or-later
package modelstore

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/CrawX/go-imap-triage/classifier"
	"github.com/CrawX/go-imap-triage/domain"
	"github.com/CrawX/go-imap-triage/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.InitLogging("error")
}

func setupStore(t *testing.T) (*Store, string, string) {
	dir := t.TempDir()
	vectorizerPath := filepath.Join(dir, "vectorizer.bin")
	classifierPath := filepath.Join(dir, "classifier.bin")

	return NewStore(vectorizerPath, classifierPath), vectorizerPath, classifierPath
}

func trainedModel(t *testing.T, spamText string) *classifier.Model {
	model, err := classifier.Train([]domain.TrainingExample{
		{Text: spamText, Label: domain.Spam},
		{Text: "meeting agenda for monday", Label: domain.Legitimate},
	})
	require.NoError(t, err)

	return model
}

func TestStore_SaveLoad(t *testing.T) {
	store, _, _ := setupStore(t)
	assert.False(t, store.Exists())

	model := trainedModel(t, "win free money now")
	require.NoError(t, store.Save(model))
	assert.NotEmpty(t, model.Generation)
	assert.True(t, store.Exists())

	loaded, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, model.Generation, loaded.Generation)
	assert.True(t, model.TrainedAt.Equal(loaded.TrainedAt))
	assert.Equal(t, model.Vectorizer, loaded.Vectorizer)
	assert.Equal(t, model.Classifier, loaded.Classifier)
	assert.Equal(t, domain.Spam, loaded.Predict("free money"))
	assert.Equal(t, domain.Legitimate, loaded.Predict("monday meeting"))
}

func TestStore_SaveNewGeneration(t *testing.T) {
	store, _, _ := setupStore(t)

	first := trainedModel(t, "win free money now")
	require.NoError(t, store.Save(first))
	second := trainedModel(t, "cheap pills online")
	require.NoError(t, store.Save(second))

	assert.NotEqual(t, first.Generation, second.Generation)

	m, err := store.Model()
	require.NoError(t, err)
	assert.Equal(t, second.Generation, m.(*classifier.Model).Generation)
}

func TestStore_LoadMismatch(t *testing.T) {
	store, vectorizerPath, _ := setupStore(t)

	require.NoError(t, store.Save(trainedModel(t, "win free money now")))
	oldVectorizer, err := ioutil.ReadFile(vectorizerPath)
	require.NoError(t, err)

	require.NoError(t, store.Save(trainedModel(t, "cheap pills online")))
	require.NoError(t, ioutil.WriteFile(vectorizerPath, oldVectorizer, 0600))

	_, err = store.Load()
	assert.True(t, errors.Is(err, ErrArtifactMismatch))

	// a store that never loaded a model has nothing to fall back to
	fresh := NewStore(store.vectorizerPath, store.classifierPath)
	m, err := fresh.Model()
	assert.Nil(t, m)
	assert.True(t, errors.Is(err, domain.ErrClassifierUnavailable))
	assert.True(t, errors.Is(err, ErrArtifactMismatch))
}

func TestStore_ModelKeepsCachedOnMismatch(t *testing.T) {
	store, vectorizerPath, _ := setupStore(t)

	require.NoError(t, store.Save(trainedModel(t, "win free money now")))
	oldVectorizer, err := ioutil.ReadFile(vectorizerPath)
	require.NoError(t, err)

	current := trainedModel(t, "cheap pills online")
	require.NoError(t, store.Save(current))
	require.NoError(t, ioutil.WriteFile(vectorizerPath, oldVectorizer, 0600))

	m, err := store.Model()
	require.NoError(t, err)
	assert.Equal(t, current.Generation, m.(*classifier.Model).Generation)
}

func TestStore_ModelMissing(t *testing.T) {
	store, _, _ := setupStore(t)

	m, err := store.Model()
	assert.Nil(t, m)
	assert.True(t, errors.Is(err, domain.ErrClassifierUnavailable))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestStore_ModelCorrupt(t *testing.T) {
	store, vectorizerPath, classifierPath := setupStore(t)

	require.NoError(t, ioutil.WriteFile(vectorizerPath, []byte("garbage"), 0600))
	require.NoError(t, ioutil.WriteFile(classifierPath, []byte("garbage"), 0600))

	_, err := store.Model()
	assert.True(t, errors.Is(err, domain.ErrClassifierUnavailable))
}

func TestStore_ModelReloadsAfterExternalSave(t *testing.T) {
	store, vectorizerPath, classifierPath := setupStore(t)
	require.NoError(t, store.Save(trainedModel(t, "win free money now")))

	other := NewStore(vectorizerPath, classifierPath)
	m, err := other.Model()
	require.NoError(t, err)
	cached := m.(*classifier.Model).Generation

	// served from cache while nothing changed
	m, err = other.Model()
	require.NoError(t, err)
	assert.Equal(t, cached, m.(*classifier.Model).Generation)

	retrained := trainedModel(t, "cheap pills online with many more words")
	require.NoError(t, store.Save(retrained))

	m, err = other.Model()
	require.NoError(t, err)
	assert.Equal(t, retrained.Generation, m.(*classifier.Model).Generation)
}

func TestStore_SaveLeavesNoTempFiles(t *testing.T) {
	store, vectorizerPath, _ := setupStore(t)
	require.NoError(t, store.Save(trainedModel(t, "win free money now")))

	entries, err := os.ReadDir(filepath.Dir(vectorizerPath))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
