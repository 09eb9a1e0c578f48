package mediascraper

import "time"

// Failure is a diagnostic record for a recoverable per-node or per-item
// error.
type Failure struct {
	// URL is the page or media URL the failure is attributed to.
	URL string `json:"url"`

	// Code is the application error code (EFETCH, EDOWNLOAD, ...).
	Code string `json:"code"`

	// Message is the human-readable reason.
	Message string `json:"message"`
}

// Report summarizes one crawl run for the surrounding CLI/report layer.
// No run fails silently: every discovered media item is accounted for in
// MediaSaved, MediaDuplicate, or MediaFailed, and failures are enumerated
// by kind and URL.
type Report struct {
	RunID      string    `json:"runId"`
	Target     Target    `json:"target"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	PagesVisited    int `json:"pagesVisited"`
	PagesFailed     int `json:"pagesFailed"`
	MediaDiscovered int `json:"mediaDiscovered"`
	MediaSaved      int `json:"mediaSaved"`
	MediaDuplicate  int `json:"mediaDuplicate"`
	MediaFailed     int `json:"mediaFailed"`

	Failures []Failure `json:"failures,omitempty"`
}

// RecordFailure appends a diagnostic record derived from err.
func (r *Report) RecordFailure(url string, err error) {
	r.Failures = append(r.Failures, Failure{
		URL:     url,
		Code:    ErrorCode(err),
		Message: ErrorMessage(err),
	})
}
