package transcript

import "fmt"

// WordChunk is the smallest timed unit in a transcript: one spoken word with
// its own time window and recognition confidence
type WordChunk struct {
	StartTime  float64 `json:"stime"`
	Duration   float64 `json:"duration"`
	Content    string  `json:"content"`
	Confidence float64 `json:"confidence"`
}

// End returns the exclusive end of the word's time window
func (wc *WordChunk) End() float64 {
	return wc.StartTime + wc.Duration
}

// Validate checks if the WordChunk has valid values
func (wc *WordChunk) Validate() error {
	if wc.StartTime < 0 {
		return fmt.Errorf("stime cannot be negative")
	}

	if wc.Duration < 0 {
		return fmt.Errorf("duration cannot be negative")
	}

	if wc.Confidence < 0.0 || wc.Confidence > 1.0 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0")
	}

	return nil
}

// TranscriptSegment is a speaker-attributed interval of speech containing the
// word-level timing chunks spoken within it. Segments are expected to arrive
// time-ordered and non-overlapping; neither is enforced here
type TranscriptSegment struct {
	Speaker    string      `json:"speaker"`
	StartTime  float64     `json:"stime"`
	Duration   float64     `json:"duration"`
	Content    string      `json:"content"`
	WordChunks []WordChunk `json:"wordChunks"`
	Bookmarks  string      `json:"bookmarks"`
}

// End returns the exclusive end of the segment's time window
func (ts *TranscriptSegment) End() float64 {
	return ts.StartTime + ts.Duration
}

// Validate checks if the TranscriptSegment has valid values
func (ts *TranscriptSegment) Validate() error {
	if ts.Speaker == "" {
		return fmt.Errorf("speaker cannot be empty")
	}

	if ts.StartTime < 0 {
		return fmt.Errorf("stime cannot be negative")
	}

	if ts.Duration < 0 {
		return fmt.Errorf("duration cannot be negative")
	}

	for i := range ts.WordChunks {
		if err := ts.WordChunks[i].Validate(); err != nil {
			return fmt.Errorf("word chunk %d: %w", i, err)
		}
	}

	return nil
}

// TranscriptResult holds the engine output portion of a transcript document
type TranscriptResult struct {
	Engine      string              `json:"engine"`
	Language    string              `json:"language"`
	Filename    string              `json:"filename"`
	Transcripts []TranscriptSegment `json:"transcripts"`
}

// TranscriptDocument is one complete transcription task result as delivered
// by the transcript service
type TranscriptDocument struct {
	Status  string           `json:"status"`
	TaskID  string           `json:"taskId"`
	TaskURL string           `json:"taskUrl"`
	Result  TranscriptResult `json:"result"`
}
