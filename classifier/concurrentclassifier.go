// SPDX-License-Identifier: GPL-3.0-or-later
package classifier

import "github.com/CrawX/go-imap-triage/domain"

type ConcurrentModel struct {
	domain.SpamModel
}

// PredictAll predicts every text with at most concurrency predictions in
// flight. Results keep the order of texts.
func (cm *ConcurrentModel) PredictAll(texts []string, concurrency int) []domain.Label {
	if concurrency < 1 {
		concurrency = 1
	}

	semaphore := make(chan bool, concurrency)
	results := make([]domain.Label, len(texts))
	for i := 0; i < len(texts); i++ {
		semaphore <- true
		go func(index int) {
			results[index] = cm.Predict(texts[index])
			<-semaphore
		}(i)
	}

	for i := 0; i < concurrency; i++ {
		semaphore <- true
	}

	return results
}
