package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// listSchemaURL names the embedded schema inside the compiler.
const listSchemaURL = "tasks.schema.json"

// ListSchema describes the persisted task array. Additional properties are
// allowed because seeded records carry fields such as userId.
const ListSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Stored task list",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "title", "completed"],
    "properties": {
      "id": {"type": "integer"},
      "title": {"type": "string", "minLength": 1},
      "completed": {"type": "boolean"}
    }
  }
}`

// Problem is one schema violation found in a stored array.
type Problem struct {
	// Path is a JSON pointer into the array, e.g. "/2/title". Empty for the
	// root value.
	Path    string
	Message string
}

func (p Problem) String() string {
	if p.Path == "" {
		return p.Message
	}
	return p.Path + ": " + p.Message
}

// ValidationResult reports whether a stored array conforms to ListSchema.
type ValidationResult struct {
	Valid    bool
	Problems []Problem
}

// Validate checks raw stored bytes against ListSchema.
//
// Loading never validates; this is a diagnostic for the check command and
// the check_tasks tool. Returns an error only if data is not JSON at all or
// the schema fails to compile.
func Validate(data []byte) (ValidationResult, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(listSchemaURL, strings.NewReader(ListSchema)); err != nil {
		return ValidationResult{}, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(listSchemaURL)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("compile schema: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return ValidationResult{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	result := ValidationResult{Valid: true}
	if err := schema.Validate(doc); err != nil {
		result.Valid = false
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			result.Problems = append(result.Problems, Problem{Message: err.Error()})
			return result, nil
		}
		collectProblems(&result, ve)
	}
	return result, nil
}

// collectProblems flattens the cause tree into its leaves.
func collectProblems(result *ValidationResult, ve *jsonschema.ValidationError) {
	if len(ve.Causes) == 0 {
		result.Problems = append(result.Problems, Problem{
			Path:    ve.InstanceLocation,
			Message: ve.Message,
		})
		return
	}
	for _, cause := range ve.Causes {
		collectProblems(result, cause)
	}
}
