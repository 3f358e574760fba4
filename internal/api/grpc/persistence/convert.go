package persistence

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/json-persistence/internal/domain/item"
)

// Field names shared by requests and records.
const (
	fieldItem      = "item"
	fieldAlias     = "alias"
	fieldName      = "name"
	fieldType      = "type"
	fieldState     = "state"
	fieldTimestamp = "timestamp"
)

var (
	// errMissingField is returned when a required message field is absent or not a string.
	errMissingField = errors.New("missing field")
	// errMalformedRecord is returned when a record message cannot be converted.
	errMalformedRecord = errors.New("malformed record")
)

// stringField returns the string value of a struct field.
func stringField(msg *structpb.Struct, key string) (string, bool) {
	value, ok := msg.GetFields()[key]
	if !ok {
		return "", false
	}

	s, ok := value.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", false
	}

	return s.StringValue, true
}

// sampleToStruct converts a sample into a record message.
func sampleToStruct(sample domain.HistoricItem) *structpb.Struct {
	tag, text := domain.TagString, ""
	if sample.State != nil {
		tag, text = sample.State.Kind().Tag(), sample.State.String()
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldName:      structpb.NewStringValue(sample.Name),
			fieldType:      structpb.NewStringValue(tag),
			fieldState:     structpb.NewStringValue(text),
			fieldTimestamp: structpb.NewNumberValue(float64(sample.Timestamp.UnixMilli())),
		},
	}
}

// sampleFromStruct converts a record message back into a sample.
func sampleFromStruct(msg *structpb.Struct) (domain.HistoricItem, error) {
	name, ok := stringField(msg, fieldName)
	if !ok {
		return domain.HistoricItem{}, fmt.Errorf("%w: %w %q", errMalformedRecord, errMissingField, fieldName)
	}

	tag, ok := stringField(msg, fieldType)
	if !ok {
		return domain.HistoricItem{}, fmt.Errorf("%w: %w %q", errMalformedRecord, errMissingField, fieldType)
	}

	text, ok := stringField(msg, fieldState)
	if !ok {
		return domain.HistoricItem{}, fmt.Errorf("%w: %w %q", errMalformedRecord, errMissingField, fieldState)
	}

	timestamp, ok := msg.GetFields()[fieldTimestamp].GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return domain.HistoricItem{}, fmt.Errorf("%w: %w %q", errMalformedRecord, errMissingField, fieldTimestamp)
	}

	kind, _ := domain.KindFromTag(tag)

	state, err := domain.Parse(kind, text)
	if err != nil {
		return domain.HistoricItem{}, fmt.Errorf("%w: %w", errMalformedRecord, err)
	}

	return domain.HistoricItem{
		Name:      name,
		State:     state,
		Timestamp: time.UnixMilli(int64(timestamp.NumberValue)),
	}, nil
}

// storeRequest builds the Store request message.
func storeRequest(name, alias string, state domain.State) *structpb.Struct {
	fields := map[string]*structpb.Value{
		fieldItem:  structpb.NewStringValue(name),
		fieldType:  structpb.NewStringValue(state.Kind().Tag()),
		fieldState: structpb.NewStringValue(state.String()),
	}

	if alias != "" {
		fields[fieldAlias] = structpb.NewStringValue(alias)
	}

	return &structpb.Struct{Fields: fields}
}
