// Package resolver answers "what is being spoken right now": given the
// time-ordered intervals of a decoded transcript and a playback time, it
// finds the active speaker segment and the active word within it.
package resolver

import "transcriptplayer/internal/transcript"

// FindActiveSegment returns the first segment whose half-open time window
// [stime, stime+duration) contains t, scanning in the given order. The
// second return value is false when no segment is active at t. Transcripts
// are short enough that a fresh linear scan per query stays well under a
// tick interval; callers with very long transcripts can pre-sort and keep a
// cursor as long as first-match semantics are preserved.
func FindActiveSegment(segments []transcript.TranscriptSegment, t float64) (*transcript.TranscriptSegment, bool) {
	for i := range segments {
		if contains(segments[i].StartTime, segments[i].Duration, t) {
			return &segments[i], true
		}
	}
	return nil, false
}

// FindActiveWordChunk returns the first word chunk whose half-open time
// window contains t, scanning in the given order
func FindActiveWordChunk(chunks []transcript.WordChunk, t float64) (*transcript.WordChunk, bool) {
	for i := range chunks {
		if contains(chunks[i].StartTime, chunks[i].Duration, t) {
			return &chunks[i], true
		}
	}
	return nil, false
}

// FindActive resolves the active segment and, only within that segment, the
// active word chunk. When no segment is active no word is reported active,
// regardless of word-chunk contents
func FindActive(segments []transcript.TranscriptSegment, t float64) (*transcript.TranscriptSegment, *transcript.WordChunk) {
	segment, ok := FindActiveSegment(segments, t)
	if !ok {
		return nil, nil
	}

	word, ok := FindActiveWordChunk(segment.WordChunks, t)
	if !ok {
		return segment, nil
	}
	return segment, word
}

// contains tests the half-open interval [start, start+duration)
func contains(start, duration, t float64) bool {
	return start <= t && t < start+duration
}
