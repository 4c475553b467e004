package view

import (
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"transcriptplayer/internal/session"
)

// JSONOutput projects session sync states as JSON lines to a writer. It is
// the headless stand-in for the rendering surface: one line per highlight
// change with the speaker label and the highlighted word
type JSONOutput struct {
	writer io.Writer
	logger *zap.Logger

	wrote bool
	last  highlightKey
}

// highlightKey identifies the resolved pair by interval identity, not text,
// so a repeated word ("the ... the") or a same-speaker segment change still
// registers as a highlight move
type highlightKey struct {
	state        session.State
	hasSegment   bool
	segmentStart float64
	speaker      string
	hasWord      bool
	wordStart    float64
}

func keyOf(state session.SyncState) highlightKey {
	key := highlightKey{state: state.State}
	if state.ActiveSegment != nil {
		key.hasSegment = true
		key.segmentStart = state.ActiveSegment.StartTime
		key.speaker = state.ActiveSegment.Speaker
	}
	if state.ActiveWord != nil {
		key.hasWord = true
		key.wordStart = state.ActiveWord.StartTime
	}
	return key
}

// syncLine is the serialized shape of one projection line
type syncLine struct {
	CurrentTime    float64  `json:"current_time"`
	State          string   `json:"state"`
	Speaker        string   `json:"speaker,omitempty"`
	Word           string   `json:"word,omitempty"`
	WordStart      *float64 `json:"word_stime,omitempty"`
	SegmentContent string   `json:"segment_content,omitempty"`
}

// NewJSONOutput creates a new JSONOutput instance
func NewJSONOutput(writer io.Writer, logger *zap.Logger) *JSONOutput {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONOutput{
		writer: writer,
		logger: logger,
	}
}

// WriteState writes one JSON line for the given sync state. Consecutive
// states resolving to the same segment and word intervals are skipped so the
// output tracks highlight changes rather than raw tick cadence; resolution
// itself still runs on every tick upstream
func (o *JSONOutput) WriteState(state session.SyncState) error {
	key := keyOf(state)
	if o.wrote && key == o.last {
		return nil
	}

	line := syncLine{
		CurrentTime: state.CurrentTime,
		State:       string(state.State),
	}
	if state.ActiveSegment != nil {
		line.Speaker = state.ActiveSegment.Speaker
		line.SegmentContent = state.ActiveSegment.Content
	}
	if state.ActiveWord != nil {
		line.Word = state.ActiveWord.Content
		wordStart := state.ActiveWord.StartTime
		line.WordStart = &wordStart
	}

	jsonBytes, err := json.Marshal(line)
	if err != nil {
		o.logger.Error("failed to marshal sync state", zap.Error(err))
		return fmt.Errorf("failed to marshal sync state: %w", err)
	}

	if _, err := fmt.Fprintf(o.writer, "%s\n", jsonBytes); err != nil {
		o.logger.Error("failed to write sync state", zap.Error(err))
		return fmt.Errorf("failed to write sync state: %w", err)
	}

	o.wrote = true
	o.last = key

	o.logger.Debug("sync state written",
		zap.Float64("current_time", line.CurrentTime),
		zap.String("speaker", line.Speaker),
		zap.String("word", line.Word))

	return nil
}

// ProcessUpdates consumes the session's snapshot stream until it closes
func (o *JSONOutput) ProcessUpdates(updates <-chan session.SyncState) {
	for state := range updates {
		if err := o.WriteState(state); err != nil {
			o.logger.Warn("skipping sync state after write failure", zap.Error(err))
		}
	}
	o.logger.Debug("sync state stream closed")
}
