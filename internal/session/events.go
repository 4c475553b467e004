package session

import "transcriptplayer/internal/transcript"

// Event is one occurrence consumed by the session's update loop. The set of
// variants is closed: clock ticks from the playback clock and the single
// terminal outcome of the transcript fetch.
type Event interface {
	isEvent()
}

// ClockTick carries the playback position in seconds as reported by the
// media clock
type ClockTick struct {
	Time float64
}

// TranscriptLoaded carries the decoded document list from a successful
// transcript fetch
type TranscriptLoaded struct {
	Documents []transcript.TranscriptDocument
}

// TranscriptLoadFailed carries the terminal error of a failed transcript
// fetch
type TranscriptLoadFailed struct {
	Err error
}

func (ClockTick) isEvent()            {}
func (TranscriptLoaded) isEvent()     {}
func (TranscriptLoadFailed) isEvent() {}
