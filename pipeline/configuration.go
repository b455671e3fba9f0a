// SPDX-License-Identifier: GPL-3.0-or-later
package pipeline

import (
	"fmt"
	"time"
)

const (
	DefaultConcurrency  = 4
	DefaultInterval     = 10 * time.Second
	DefaultRefreshDelay = time.Second
)

type ConfigFunc func(c *configuration) error

// Concurrency bounds the number of model predictions running at once.
func Concurrency(n int) ConfigFunc {
	return func(c *configuration) error {
		if n < 1 {
			return fmt.Errorf("Concurrency must be at least 1")
		}

		c.Concurrency = n
		return nil
	}
}

// Interval is the time between two regular poll cycles.
func Interval(d time.Duration) ConfigFunc {
	return func(c *configuration) error {
		if d <= 0 {
			return fmt.Errorf("Interval must be positive")
		}

		c.Interval = d
		return nil
	}
}

// RefreshDelay is the wait before the extra cycle scheduled by a correction.
func RefreshDelay(d time.Duration) ConfigFunc {
	return func(c *configuration) error {
		if d < 0 {
			return fmt.Errorf("RefreshDelay cannot be negative")
		}

		c.RefreshDelay = d
		return nil
	}
}

type configuration struct {
	Concurrency  int
	Interval     time.Duration
	RefreshDelay time.Duration
}

func defaultConfiguration() *configuration {
	return &configuration{
		Concurrency:  DefaultConcurrency,
		Interval:     DefaultInterval,
		RefreshDelay: DefaultRefreshDelay,
	}
}
