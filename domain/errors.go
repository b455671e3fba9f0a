// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import "errors"

var (
	// ErrClassifierUnavailable means no usable model artifact could be loaded. It
	// must never be confused with an empty mailbox.
	ErrClassifierUnavailable = errors.New("classifier unavailable")
	ErrEmptyTrainingSet      = errors.New("no valid training examples")
	ErrEmptyBatch            = errors.New("correction batch is empty")
	ErrInvalidLabel          = errors.New("invalid label")
)
