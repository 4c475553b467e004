package transcript

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordChunk_End(t *testing.T) {
	// Arrange
	chunk := WordChunk{StartTime: 1.5, Duration: 0.4, Content: "hello", Confidence: 0.92}

	// Act
	end := chunk.End()

	// Assert
	assert.InDelta(t, 1.9, end, 1e-9)
}

func TestWordChunk_JSONMarshaling(t *testing.T) {
	// Arrange
	chunk := WordChunk{StartTime: 1, Duration: 0.5, Content: "hi", Confidence: 0.9}

	// Act
	jsonData, err := json.Marshal(chunk)

	// Assert
	assert.NoError(t, err)
	expected := `{"stime":1,"duration":0.5,"content":"hi","confidence":0.9}`
	assert.JSONEq(t, expected, string(jsonData))
}

func TestWordChunk_Validate_ValidData(t *testing.T) {
	// Arrange
	chunk := WordChunk{StartTime: 0, Duration: 0.3, Content: "word", Confidence: 1.0}

	// Act
	err := chunk.Validate()

	// Assert
	assert.NoError(t, err)
}

func TestWordChunk_Validate_NegativeStartTime(t *testing.T) {
	// Arrange
	chunk := WordChunk{StartTime: -0.1, Duration: 0.3, Content: "word", Confidence: 0.5}

	// Act
	err := chunk.Validate()

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "stime cannot be negative")
}

func TestWordChunk_Validate_ConfidenceOutOfRange(t *testing.T) {
	// Arrange
	chunk := WordChunk{StartTime: 0, Duration: 0.3, Content: "word", Confidence: 1.2}

	// Act
	err := chunk.Validate()

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "confidence must be between 0.0 and 1.0")
}

func TestTranscriptSegment_End(t *testing.T) {
	// Arrange
	segment := TranscriptSegment{Speaker: "A", StartTime: 2.0, Duration: 3.0}

	// Act
	end := segment.End()

	// Assert
	assert.InDelta(t, 5.0, end, 1e-9)
}

func TestTranscriptSegment_Validate_ValidData(t *testing.T) {
	// Arrange
	segment := TranscriptSegment{
		Speaker:   "Speaker 1",
		StartTime: 0,
		Duration:  5,
		Content:   "hello world",
		WordChunks: []WordChunk{
			{StartTime: 0.2, Duration: 0.4, Content: "hello", Confidence: 0.95},
			{StartTime: 0.7, Duration: 0.3, Content: "world", Confidence: 0.91},
		},
		Bookmarks: "",
	}

	// Act
	err := segment.Validate()

	// Assert
	assert.NoError(t, err)
}

func TestTranscriptSegment_Validate_EmptySpeaker(t *testing.T) {
	// Arrange
	segment := TranscriptSegment{Speaker: "", StartTime: 0, Duration: 5, Content: "hi"}

	// Act
	err := segment.Validate()

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "speaker cannot be empty")
}

func TestTranscriptSegment_Validate_InvalidWordChunk(t *testing.T) {
	// Arrange
	segment := TranscriptSegment{
		Speaker:   "A",
		StartTime: 0,
		Duration:  5,
		Content:   "hi",
		WordChunks: []WordChunk{
			{StartTime: 1, Duration: 1, Content: "hi", Confidence: 0.9},
			{StartTime: 2, Duration: -1, Content: "bad", Confidence: 0.9},
		},
	}

	// Act
	err := segment.Validate()

	// Assert
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "word chunk 1")
	assert.Contains(t, err.Error(), "duration cannot be negative")
}

func TestTranscriptDocument_JSONUnmarshaling(t *testing.T) {
	// Arrange
	jsonStr := `{
		"status": "done",
		"taskId": "task-42",
		"taskUrl": "https://transcripts.example.com/tasks/42",
		"result": {
			"engine": "whisper",
			"language": "en",
			"filename": "episode.mp3",
			"transcripts": [
				{
					"speaker": "A",
					"stime": 0,
					"duration": 5,
					"content": "hi there",
					"bookmarks": "",
					"wordChunks": [
						{"stime": 1, "duration": 1, "content": "hi", "confidence": 0.9}
					]
				}
			]
		}
	}`

	// Act
	var doc TranscriptDocument
	err := json.Unmarshal([]byte(jsonStr), &doc)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "done", doc.Status)
	assert.Equal(t, "task-42", doc.TaskID)
	assert.Equal(t, "whisper", doc.Result.Engine)
	assert.Len(t, doc.Result.Transcripts, 1)
	assert.Equal(t, "A", doc.Result.Transcripts[0].Speaker)
	assert.Len(t, doc.Result.Transcripts[0].WordChunks, 1)
	assert.Equal(t, "hi", doc.Result.Transcripts[0].WordChunks[0].Content)
}
