package transcript

import (
	"encoding/json"
	"fmt"
)

// DecodeErrorKind discriminates the two ways a transcript document can be
// structurally invalid
type DecodeErrorKind string

const (
	// FieldMissing indicates a required field is absent
	FieldMissing DecodeErrorKind = "field_missing"
	// TypeMismatch indicates a field is present but has the wrong JSON type
	TypeMismatch DecodeErrorKind = "type_mismatch"
)

// DecodeError reports the first structural problem found while decoding a
// transcript payload. Path is the JSON path of the offending field, e.g.
// "$[0].result.transcripts[2].wordChunks[1].stime"
type DecodeError struct {
	Kind     DecodeErrorKind
	Path     string
	Expected string
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case FieldMissing:
		return fmt.Sprintf("transcript decode: missing required field %s", e.Path)
	case TypeMismatch:
		return fmt.Sprintf("transcript decode: field %s is not a %s", e.Path, e.Expected)
	default:
		return fmt.Sprintf("transcript decode: invalid field %s", e.Path)
	}
}

// Decode parses a raw transcript payload into its document list. The payload
// must be a JSON array of documents; validation is all-or-nothing, so a
// malformed document anywhere in the list fails the entire batch with no
// partial result
func Decode(raw []byte) ([]TranscriptDocument, error) {
	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("transcript decode: invalid JSON: %w", err)
	}
	return DecodeValue(value)
}

// DecodeValue validates and converts an already-parsed untyped JSON value
// into the typed document list
func DecodeValue(value interface{}) ([]TranscriptDocument, error) {
	items, ok := value.([]interface{})
	if !ok {
		return nil, &DecodeError{Kind: TypeMismatch, Path: "$", Expected: "array"}
	}

	documents := make([]TranscriptDocument, 0, len(items))
	for i, item := range items {
		doc, err := decodeDocument(item, fmt.Sprintf("$[%d]", i))
		if err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}

	return documents, nil
}

func decodeDocument(value interface{}, path string) (TranscriptDocument, error) {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return TranscriptDocument{}, &DecodeError{Kind: TypeMismatch, Path: path, Expected: "object"}
	}

	var doc TranscriptDocument
	var err error

	if doc.Status, err = requireString(obj, path, "status"); err != nil {
		return TranscriptDocument{}, err
	}
	if doc.TaskID, err = requireString(obj, path, "taskId"); err != nil {
		return TranscriptDocument{}, err
	}
	if doc.TaskURL, err = requireString(obj, path, "taskUrl"); err != nil {
		return TranscriptDocument{}, err
	}

	resultObj, err := requireObject(obj, path, "result")
	if err != nil {
		return TranscriptDocument{}, err
	}

	resultPath := path + ".result"
	if doc.Result.Engine, err = requireString(resultObj, resultPath, "engine"); err != nil {
		return TranscriptDocument{}, err
	}
	if doc.Result.Language, err = requireString(resultObj, resultPath, "language"); err != nil {
		return TranscriptDocument{}, err
	}
	if doc.Result.Filename, err = requireString(resultObj, resultPath, "filename"); err != nil {
		return TranscriptDocument{}, err
	}

	segments, err := requireArray(resultObj, resultPath, "transcripts")
	if err != nil {
		return TranscriptDocument{}, err
	}

	doc.Result.Transcripts = make([]TranscriptSegment, 0, len(segments))
	for i, item := range segments {
		segment, err := decodeSegment(item, fmt.Sprintf("%s.transcripts[%d]", resultPath, i))
		if err != nil {
			return TranscriptDocument{}, err
		}
		doc.Result.Transcripts = append(doc.Result.Transcripts, segment)
	}

	return doc, nil
}

func decodeSegment(value interface{}, path string) (TranscriptSegment, error) {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return TranscriptSegment{}, &DecodeError{Kind: TypeMismatch, Path: path, Expected: "object"}
	}

	var segment TranscriptSegment
	var err error

	if segment.Speaker, err = requireString(obj, path, "speaker"); err != nil {
		return TranscriptSegment{}, err
	}
	if segment.StartTime, err = requireFloat(obj, path, "stime"); err != nil {
		return TranscriptSegment{}, err
	}
	if segment.Duration, err = requireFloat(obj, path, "duration"); err != nil {
		return TranscriptSegment{}, err
	}
	if segment.Content, err = requireString(obj, path, "content"); err != nil {
		return TranscriptSegment{}, err
	}
	if segment.Bookmarks, err = requireString(obj, path, "bookmarks"); err != nil {
		return TranscriptSegment{}, err
	}

	chunks, err := requireArray(obj, path, "wordChunks")
	if err != nil {
		return TranscriptSegment{}, err
	}

	segment.WordChunks = make([]WordChunk, 0, len(chunks))
	for i, item := range chunks {
		chunk, err := decodeWordChunk(item, fmt.Sprintf("%s.wordChunks[%d]", path, i))
		if err != nil {
			return TranscriptSegment{}, err
		}
		segment.WordChunks = append(segment.WordChunks, chunk)
	}

	return segment, nil
}

func decodeWordChunk(value interface{}, path string) (WordChunk, error) {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return WordChunk{}, &DecodeError{Kind: TypeMismatch, Path: path, Expected: "object"}
	}

	var chunk WordChunk
	var err error

	if chunk.StartTime, err = requireFloat(obj, path, "stime"); err != nil {
		return WordChunk{}, err
	}
	if chunk.Duration, err = requireFloat(obj, path, "duration"); err != nil {
		return WordChunk{}, err
	}
	if chunk.Content, err = requireString(obj, path, "content"); err != nil {
		return WordChunk{}, err
	}
	if chunk.Confidence, err = requireFloat(obj, path, "confidence"); err != nil {
		return WordChunk{}, err
	}

	return chunk, nil
}

func requireString(obj map[string]interface{}, path, key string) (string, error) {
	value, present := obj[key]
	if !present {
		return "", &DecodeError{Kind: FieldMissing, Path: path + "." + key}
	}
	s, ok := value.(string)
	if !ok {
		return "", &DecodeError{Kind: TypeMismatch, Path: path + "." + key, Expected: "string"}
	}
	return s, nil
}

func requireFloat(obj map[string]interface{}, path, key string) (float64, error) {
	value, present := obj[key]
	if !present {
		return 0, &DecodeError{Kind: FieldMissing, Path: path + "." + key}
	}
	f, ok := value.(float64)
	if !ok {
		return 0, &DecodeError{Kind: TypeMismatch, Path: path + "." + key, Expected: "number"}
	}
	return f, nil
}

func requireObject(obj map[string]interface{}, path, key string) (map[string]interface{}, error) {
	value, present := obj[key]
	if !present {
		return nil, &DecodeError{Kind: FieldMissing, Path: path + "." + key}
	}
	m, ok := value.(map[string]interface{})
	if !ok {
		return nil, &DecodeError{Kind: TypeMismatch, Path: path + "." + key, Expected: "object"}
	}
	return m, nil
}

func requireArray(obj map[string]interface{}, path, key string) ([]interface{}, error) {
	value, present := obj[key]
	if !present {
		return nil, &DecodeError{Kind: FieldMissing, Path: path + "." + key}
	}
	a, ok := value.([]interface{})
	if !ok {
		return nil, &DecodeError{Kind: TypeMismatch, Path: path + "." + key, Expected: "array"}
	}
	return a, nil
}
