package domain

// MaxErrorLog caps how many error descriptions a crawl retains.
// Failures beyond the cap are counted, not stored.
const MaxErrorLog = 100

// CrawlStats accumulates counters over one crawl run.
// A file lands in exactly one of the three outcome counters.
type CrawlStats struct {
	// TotalFiles is the number of files seen in the listing,
	// after the max-files ceiling was applied.
	TotalFiles int

	// SuccessfulEmbeddings counts files whose processor reported
	// success (including zero-chunk stub successes).
	SuccessfulEmbeddings int

	// FailedEmbeddings counts files whose fetch or processing failed.
	FailedEmbeddings int

	// SkippedFiles counts files excluded by skip patterns or
	// lacking a registered processor.
	SkippedFiles int

	// Errors holds up to MaxErrorLog failure descriptions, in
	// the order they occurred.
	Errors []string

	// ErrorsDropped counts failures beyond the retained log.
	ErrorsDropped int
}

// RecordError appends a failure description, dropping it once the
// log cap is reached.
func (s *CrawlStats) RecordError(msg string) {
	if len(s.Errors) >= MaxErrorLog {
		s.ErrorsDropped++
		return
	}
	s.Errors = append(s.Errors, msg)
}

// SuccessRate reports successfully processed files as a fraction
// of all files seen. Zero files means a zero rate.
func (s *CrawlStats) SuccessRate() float64 {
	if s.TotalFiles == 0 {
		return 0
	}
	return float64(s.SuccessfulEmbeddings) / float64(s.TotalFiles)
}
