// Package session owns the player's mutable state for one playback session.
// All mutation is serialized through a single dispatcher goroutine applying
// a pure transition function, so the rest of the program only ever sees
// immutable snapshots.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"transcriptplayer/internal/resolver"
	"transcriptplayer/internal/transcript"
)

// LookaheadSeconds is the bias added to the playback clock before resolving
// the active segment and word. The highlight runs one second ahead of the
// audio; the exact value is load-bearing for compatibility with existing
// transcript timing and must not be changed casually.
const LookaheadSeconds = 1.0

// State is the session lifecycle phase
type State string

const (
	// StateAwaitingTranscript is the initial state: ticks are accepted but
	// no segment or word is ever resolved
	StateAwaitingTranscript State = "awaiting_transcript"
	// StateReady means the transcript is loaded and resolution runs on
	// every tick
	StateReady State = "ready"
)

// PlayerState is the single mutable value owned by the dispatcher
type PlayerState struct {
	MediaURL      string
	TranscriptURL string
	MediaType     string
	CurrentTime   float64
	State         State
	Transcripts   []transcript.TranscriptSegment
}

// SyncState is the immutable projection published after every event: the
// raw playback time plus whatever the resolver found at the biased query
// time
type SyncState struct {
	SessionID     string
	State         State
	CurrentTime   float64
	ActiveSegment *transcript.TranscriptSegment
	ActiveWord    *transcript.WordChunk
}

// Session serializes events through one update loop and publishes a
// SyncState snapshot after each one
type Session struct {
	id     uuid.UUID
	logger *zap.Logger

	events  chan Event
	updates chan SyncState
	state   PlayerState

	mu     sync.RWMutex
	latest SyncState
}

// NewSession creates a session in the AwaitingTranscript state
func NewSession(mediaURL, transcriptURL, mediaType string) *Session {
	return NewSessionWithLogger(mediaURL, transcriptURL, mediaType, zap.NewNop())
}

// NewSessionWithLogger creates a session with a custom logger
func NewSessionWithLogger(mediaURL, transcriptURL, mediaType string, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}

	id := uuid.New()
	initial := PlayerState{
		MediaURL:      mediaURL,
		TranscriptURL: transcriptURL,
		MediaType:     mediaType,
		State:         StateAwaitingTranscript,
	}

	return &Session{
		id:      id,
		logger:  logger,
		events:  make(chan Event, 64),
		updates: make(chan SyncState, 64),
		state:   initial,
		latest:  resolveSnapshot(initial, id.String()),
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id.String()
}

// Start launches the dispatcher loop. The loop runs until the context is
// cancelled
func (s *Session) Start(ctx context.Context) error {
	go s.run(ctx)
	return nil
}

// Dispatch queues an event for the update loop. The send blocks if the
// queue is full so ticks are never silently lost
func (s *Session) Dispatch(ev Event) {
	s.events <- ev
}

// Updates returns the snapshot stream consumed by the view layer. A slow
// consumer drops intermediate snapshots; Snapshot always has the latest
func (s *Session) Updates() <-chan SyncState {
	return s.updates
}

// Snapshot returns the most recently published sync state
func (s *Session) Snapshot() SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// run is the update loop: the only goroutine that touches s.state
func (s *Session) run(ctx context.Context) {
	s.logger.Info("session update loop started",
		zap.String("session_id", s.ID()),
		zap.String("media_url", s.state.MediaURL),
		zap.String("transcript_url", s.state.TranscriptURL))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("session update loop stopped",
				zap.String("session_id", s.ID()))
			close(s.updates)
			return

		case ev := <-s.events:
			s.state = s.apply(s.state, ev)
			snapshot := resolveSnapshot(s.state, s.ID())

			s.mu.Lock()
			s.latest = snapshot
			s.mu.Unlock()

			select {
			case s.updates <- snapshot:
				// delivered
			default:
				// subscriber behind, it will catch up on the next event
			}
		}
	}
}

// apply is the pure transition function over the session state
func (s *Session) apply(state PlayerState, ev Event) PlayerState {
	switch ev := ev.(type) {
	case ClockTick:
		state.CurrentTime = ev.Time
		return state

	case TranscriptLoaded:
		if state.State == StateReady {
			// The transcript is populated exactly once per session; a
			// duplicate load event must not replace the segment list
			s.logger.Warn("transcript already loaded, ignoring duplicate load event",
				zap.String("session_id", s.ID()),
				zap.Int("document_count", len(ev.Documents)))
			return state
		}
		if len(ev.Documents) == 0 {
			s.logger.Warn("transcript fetch returned no documents",
				zap.String("session_id", s.ID()))
			return state
		}
		if len(ev.Documents) > 1 {
			s.logger.Info("multiple transcript documents returned, keeping the first",
				zap.String("session_id", s.ID()),
				zap.Int("document_count", len(ev.Documents)))
		}

		// First document wins; the decoded segment list is immutable for
		// the rest of the session
		state.Transcripts = ev.Documents[0].Result.Transcripts
		state.State = StateReady

		s.logger.Info("transcript loaded",
			zap.String("session_id", s.ID()),
			zap.String("task_id", ev.Documents[0].TaskID),
			zap.String("engine", ev.Documents[0].Result.Engine),
			zap.Int("segment_count", len(state.Transcripts)))
		return state

	case TranscriptLoadFailed:
		// Default policy: swallow the failure and keep playing as a plain
		// audio clock with no transcript overlay
		s.logger.Warn("transcript load failed, continuing without transcript",
			zap.String("session_id", s.ID()),
			zap.Error(ev.Err))
		return state

	default:
		s.logger.Warn("unknown session event ignored",
			zap.String("session_id", s.ID()))
		return state
	}
}

// resolveSnapshot projects the state into a SyncState, running interval
// resolution at the biased query time when a transcript is loaded
func resolveSnapshot(state PlayerState, sessionID string) SyncState {
	snapshot := SyncState{
		SessionID:   sessionID,
		State:       state.State,
		CurrentTime: state.CurrentTime,
	}

	if state.State != StateReady {
		return snapshot
	}

	snapshot.ActiveSegment, snapshot.ActiveWord = resolver.FindActive(
		state.Transcripts, state.CurrentTime+LookaheadSeconds)
	return snapshot
}
