package codec

import (
	_ "embed" // Required for the go:embed directive.
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// schemaRootContext is how gojsonschema names the document root in error contexts.
const schemaRootContext = "(root)"

//go:embed record.schema.json
var recordSchemaBytes []byte

//nolint:gochecknoglobals // The compiled schema is shared and built once.
var (
	recordSchema     *gojsonschema.Schema
	recordSchemaErr  error
	recordSchemaOnce sync.Once
)

// loadSchema compiles the embedded record schema once.
func loadSchema() (*gojsonschema.Schema, error) {
	recordSchemaOnce.Do(func() {
		recordSchema, recordSchemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(recordSchemaBytes))
		if recordSchemaErr != nil {
			recordSchemaErr = fmt.Errorf("compile record schema: %w", recordSchemaErr)
		}
	})

	return recordSchema, recordSchemaErr
}

// validate checks that data is a JSON object carrying every required record field.
func validate(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &ParseError{
			Message: "malformed JSON",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	// Report the first violation; the rest are usually consequences of it.
	desc := result.Errors()[0]

	field := desc.Field()
	if desc.Type() == "required" {
		if property, ok := desc.Details()["property"].(string); ok {
			field = property
		}
	}

	if field == schemaRootContext {
		field = ""
	}

	return &ParseError{
		Field:   strings.TrimPrefix(field, schemaRootContext+"."),
		Message: desc.Description(),
	}
}
