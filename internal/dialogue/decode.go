package dialogue

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMalformedResponse is matched by errors returned when the payload is
	// not syntactically valid JSON.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrSchemaViolation is matched by errors returned when the payload is
	// valid JSON but not an array of {speaker, text} objects.
	ErrSchemaViolation = errors.New("schema violation")
)

// MalformedResponseError wraps the JSON syntax error of an undecodable payload.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// Is lets errors.Is match ErrMalformedResponse.
func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }

// SchemaViolationError describes the first structural problem found in a
// payload. Index is -1 when the problem is with the top-level value.
type SchemaViolationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *SchemaViolationError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("schema violation: %s", e.Reason)
	case e.Field == "":
		return fmt.Sprintf("schema violation: element %d: %s", e.Index, e.Reason)
	default:
		return fmt.Sprintf("schema violation: element %d field %q: %s", e.Index, e.Field, e.Reason)
	}
}

// Is lets errors.Is match ErrSchemaViolation.
func (e *SchemaViolationError) Is(target error) bool { return target == ErrSchemaViolation }

// Decode parses a collaborator payload into a transcript.
//
// Decoding is all-or-nothing: the first violation aborts and no lines are
// returned. Fields other than speaker and text are ignored.
func Decode(payload string) (Transcript, error) {
	var root any
	if err := json.Unmarshal([]byte(payload), &root); err != nil {
		return nil, &MalformedResponseError{Err: err}
	}

	items, ok := root.([]any)
	if !ok {
		return nil, &SchemaViolationError{Index: -1, Reason: fmt.Sprintf("top-level value must be an array, got %s", jsonKind(root))}
	}

	out := make(Transcript, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &SchemaViolationError{Index: i, Reason: fmt.Sprintf("must be an object, got %s", jsonKind(item))}
		}

		speaker, err := stringField(obj, i, "speaker")
		if err != nil {
			return nil, err
		}
		if !Speaker(speaker).Valid() {
			return nil, &SchemaViolationError{Index: i, Field: "speaker", Reason: fmt.Sprintf("unrecognized speaker %q", speaker)}
		}

		text, err := stringField(obj, i, "text")
		if err != nil {
			return nil, err
		}
		if text == "" {
			return nil, &SchemaViolationError{Index: i, Field: "text", Reason: "must not be empty"}
		}

		out = append(out, Line{Speaker: Speaker(speaker), Text: text})
	}
	return out, nil
}

func stringField(obj map[string]any, index int, field string) (string, error) {
	v, ok := obj[field]
	if !ok {
		return "", &SchemaViolationError{Index: index, Field: field, Reason: "missing"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &SchemaViolationError{Index: index, Field: field, Reason: fmt.Sprintf("must be a string, got %s", jsonKind(v))}
	}
	return s, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
