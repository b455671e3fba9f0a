// SPDX-License-Identifier: GPL-3.0-or-later
package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CrawX/go-imap-triage/domain"
	"github.com/CrawX/go-imap-triage/domain/mocks"
	"github.com/CrawX/go-imap-triage/snapshot"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPoller(t *testing.T) (*gomock.Controller, *Poller, *mocks.MockMailSource, *mocks.MockPersistence, *mocks.MockModelProvider, *mocks.MockSpamModel) {
	ctrl, pipeline, persistence, models, model := setupPipeline(t)
	source := mocks.NewMockMailSource(ctrl)

	poller := &Poller{
		source:   source,
		pipeline: pipeline,
		cache:    snapshot.NewCache(),
		refresh:  make(chan struct{}, 1),
		l:        nullLogger(),
	}

	return ctrl, poller, source, persistence, models, model
}

func expectEmptyStores(persistence *mocks.MockPersistence) {
	persistence.EXPECT().AllOverrides().Return(map[string]domain.Label{}, nil).AnyTimes()
	persistence.EXPECT().AllTrustedDomains().Return([]string{}, nil).AnyTimes()
}

func TestPoller_PollOnce(t *testing.T) {
	ctrl, poller, source, persistence, models, model := setupPoller(t)
	defer ctrl.Finish()

	source.EXPECT().Fetch().Return([]*domain.Message{
		{Uid: 2, Subject: "Win money", Sender: "x@spammy.biz"},
		{Uid: 1, Subject: "Lunch", Sender: "friend@example.com"},
	}, nil)
	models.EXPECT().Model().Return(model, nil)
	expectEmptyStores(persistence)
	model.EXPECT().Predict(gomock.Eq("Win money ")).Return(domain.Spam)
	model.EXPECT().Predict(gomock.Eq("Lunch ")).Return(domain.Legitimate)

	s := poller.PollOnce()
	require.NotNil(t, s)
	assert.Equal(t, snapshot.StatusOk, s.Status)
	assert.Equal(t, s, poller.cache.Load())
	require.Len(t, s.Spam, 1)
	require.Len(t, s.Inbox, 1)
	assert.Equal(t, "Win money", s.Spam[0].Subject)
	assert.Equal(t, "Lunch", s.Inbox[0].Subject)
}

func TestPoller_PollOnceEmptyMailbox(t *testing.T) {
	ctrl, poller, source, persistence, models, model := setupPoller(t)
	defer ctrl.Finish()

	source.EXPECT().Fetch().Return([]*domain.Message{}, nil)
	models.EXPECT().Model().Return(model, nil)
	expectEmptyStores(persistence)

	s := poller.PollOnce()
	assert.Equal(t, snapshot.StatusOk, s.Status)
	assert.Zero(t, s.Total())
}

func TestPoller_PollOnceFailures(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(source *mocks.MockMailSource, models *mocks.MockModelProvider)
		expected snapshot.Status
	}{
		{
			"source",
			func(source *mocks.MockMailSource, models *mocks.MockModelProvider) {
				source.EXPECT().Fetch().Return(nil, errors.New("connection refused"))
			},
			snapshot.StatusSourceUnavailable,
		},
		{
			"classifier",
			func(source *mocks.MockMailSource, models *mocks.MockModelProvider) {
				source.EXPECT().Fetch().Return([]*domain.Message{{Subject: "a"}}, nil)
				models.EXPECT().Model().Return(nil, domain.ErrClassifierUnavailable)
			},
			snapshot.StatusClassifierUnavailable,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl, poller, source, _, models, _ := setupPoller(t)
			defer ctrl.Finish()

			tc.setup(source, models)

			s := poller.PollOnce()
			require.NotNil(t, s)
			assert.Equal(t, tc.expected, s.Status)
			assert.Zero(t, s.Total())
			assert.Equal(t, tc.expected, poller.cache.Load().Status)
		})
	}
}

func TestPoller_PollOnceRecoversPanic(t *testing.T) {
	ctrl, poller, source, _, _, _ := setupPoller(t)
	defer ctrl.Finish()

	previous := snapshot.Empty(snapshot.StatusOk)
	poller.cache.Store(previous)

	source.EXPECT().Fetch().DoAndReturn(func() ([]*domain.Message, error) {
		panic("boom")
	})

	assert.NotPanics(t, func() {
		assert.Nil(t, poller.PollOnce())
	})
	assert.Equal(t, previous, poller.cache.Load())
}

func TestPoller_RunAndRefresh(t *testing.T) {
	ctrl, poller, source, persistence, models, model := setupPoller(t)
	defer ctrl.Finish()

	poller.pipeline.configuration.Interval = time.Hour
	poller.pipeline.configuration.RefreshDelay = 0

	fetched := make(chan struct{}, 2)
	source.EXPECT().Fetch().DoAndReturn(func() ([]*domain.Message, error) {
		fetched <- struct{}{}
		return []*domain.Message{}, nil
	}).Times(2)
	models.EXPECT().Model().Return(model, nil).Times(2)
	expectEmptyStores(persistence)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	select {
	case <-fetched:
	case <-time.After(time.Second):
		assert.Fail(t, "initial cycle did not run")
	}

	poller.Refresh()

	select {
	case <-fetched:
	case <-time.After(time.Second):
		assert.Fail(t, "refresh cycle did not run")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		assert.Fail(t, "poll loop did not stop")
	}
	assert.Equal(t, snapshot.StatusOk, poller.cache.Load().Status)
}
