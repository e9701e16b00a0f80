package wire

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ParseError reports a payload that could not be structurally decoded.
// Only decode failures surface as errors; everything downstream of a
// successful decode degrades with deterministic fallbacks instead.
type ParseError struct {
	Doc string // "logic" or "values"
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s document: %v", e.Doc, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// validate checks required-field struct tags after the JSON decode.
var validate = validator.New()

// DecodeLogicDocument decodes and structurally validates a logic
// configuration payload. Returns a *ParseError on malformed JSON or missing
// required fields.
func DecodeLogicDocument(payload []byte) (*LogicDocument, error) {
	var doc LogicDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, &ParseError{Doc: "logic", Err: err}
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, &ParseError{Doc: "logic", Err: err}
	}
	return &doc, nil
}

// DecodeValueUpdate decodes a sensor reading batch. Each reading's value
// must be a JSON boolean, number, or string; anything else (or a missing
// sensorArray) is a *ParseError.
func DecodeValueUpdate(payload []byte) (*ValueUpdate, error) {
	var upd ValueUpdate
	if err := json.Unmarshal(payload, &upd); err != nil {
		return nil, &ParseError{Doc: "values", Err: err}
	}
	if err := validate.Struct(&upd); err != nil {
		return nil, &ParseError{Doc: "values", Err: err}
	}
	return &upd, nil
}
