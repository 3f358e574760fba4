package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/oshokin/json-persistence/internal/domain/item"
)

// indent is the per-level indentation of encoded records.
const indent = "  "

// wireRecord is the JSON layout of a record on disk.
type wireRecord struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	State     string `json:"state"`
	Timestamp int64  `json:"timestamp"`
}

// Encode renders the record as an indented JSON object.
// The type field carries the state's tag and the state field its canonical form.
// States whose canonical form Decode would reject, such as Percent(150) or
// OnOff("on"), fail with an error matching item.ErrInvalidState.
func Encode(record item.Record) ([]byte, error) {
	if record.State == nil {
		return nil, ErrNilState
	}

	text := record.State.String()
	if _, err := item.Parse(record.State.Kind(), text); err != nil {
		return nil, fmt.Errorf("encode %s: %w", record.Type(), err)
	}

	wire := wireRecord{
		Name:      record.Name,
		Type:      record.Type(),
		State:     text,
		Timestamp: record.Timestamp.UnixMilli(),
	}

	return json.MarshalIndent(wire, "", indent)
}

// Decode parses a record produced by Encode.
// Every failure is reported as a *ParseError: malformed JSON, a missing or
// mistyped field, or a state that does not match its type tag.
// Unknown tags decode as item.String; the undefined tag decodes as item.Undef
// whatever the state text is.
func Decode(data []byte) (item.Record, error) {
	if err := validate(data); err != nil {
		return item.Record{}, err
	}

	var wire wireRecord
	if err := json.Unmarshal(data, &wire); err != nil {
		return item.Record{}, &ParseError{
			Message: "decode record",
			Cause:   err,
		}
	}

	kind, _ := item.KindFromTag(wire.Type)

	state, err := item.Parse(kind, wire.State)
	if err != nil {
		return item.Record{}, &ParseError{
			Field:   "state",
			Message: "unparseable " + wire.Type,
			Cause:   err,
		}
	}

	return item.Record{
		Name:      wire.Name,
		State:     state,
		Timestamp: time.UnixMilli(wire.Timestamp),
	}, nil
}
