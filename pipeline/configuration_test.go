// SPDX-License-Identifier: GPL-3.0-or-later
package pipeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConcurrency(t *testing.T) {
	tests := []struct {
		name          string
		input         int
		expected      *configuration
		expectedError error
	}{
		{"ok", 8, &configuration{Concurrency: 8}, nil},
		{"zero", 0, nil, fmt.Errorf("Concurrency must be at least 1")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &configuration{}
			err := Concurrency(tc.input)(cfg)
			if tc.expected != nil {
				assert.Equal(t, tc.expected, cfg)
				assert.Nil(t, err)
			} else {
				assert.Equal(t, tc.expectedError, err)
			}
		})
	}
}

func TestInterval(t *testing.T) {
	tests := []struct {
		name          string
		input         time.Duration
		expected      *configuration
		expectedError error
	}{
		{"ok", time.Minute, &configuration{Interval: time.Minute}, nil},
		{"zero", 0, nil, fmt.Errorf("Interval must be positive")},
		{"negative", -time.Second, nil, fmt.Errorf("Interval must be positive")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &configuration{}
			err := Interval(tc.input)(cfg)
			if tc.expected != nil {
				assert.Equal(t, tc.expected, cfg)
				assert.Nil(t, err)
			} else {
				assert.Equal(t, tc.expectedError, err)
			}
		})
	}
}

func TestRefreshDelay(t *testing.T) {
	tests := []struct {
		name          string
		input         time.Duration
		expected      *configuration
		expectedError error
	}{
		{"ok", 2 * time.Second, &configuration{RefreshDelay: 2 * time.Second}, nil},
		{"immediate", 0, &configuration{}, nil},
		{"negative", -time.Second, nil, fmt.Errorf("RefreshDelay cannot be negative")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &configuration{}
			err := RefreshDelay(tc.input)(cfg)
			if tc.expected != nil {
				assert.Equal(t, tc.expected, cfg)
				assert.Nil(t, err)
			} else {
				assert.Equal(t, tc.expectedError, err)
			}
		})
	}
}
